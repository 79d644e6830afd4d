package weather

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/sumittt2004/agentforge/log"
	"github.com/sumittt2004/agentforge/tools"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// WeatherInput defines the input for the weather tool
type WeatherInput struct {
	City string `json:"city"`
}

// WeatherTool reports current conditions for a city
type WeatherTool struct {
	client *Client
}

func NewWeatherTool(client *Client, registry *tools.Registry) *WeatherTool {
	t := &WeatherTool{client: client}
	if registry != nil {
		registry.Register(t)
	}
	return t
}

func (t *WeatherTool) Name() string {
	return "get_weather"
}

func (t *WeatherTool) Description() string {
	return "Get current weather information for any city in the world. Returns temperature, conditions, humidity, and wind speed."
}

func (t *WeatherTool) Parameters() []tools.Parameter {
	return []tools.Parameter{
		{
			Name:        "city",
			Type:        tools.TypeString,
			Description: "City name (e.g., 'London', 'New York', 'Tokyo')",
			Required:    true,
		},
	}
}

func (t *WeatherTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	var input WeatherInput
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", err
	}
	city := strings.TrimSpace(input.City)
	if city == "" {
		return "", errors.New("city is required")
	}
	if t.client == nil {
		return "", errors.New("weather client not initialized")
	}

	log.Debugf(ctx, "WeatherTool executing for city: %s", city)
	current, err := t.client.GetCurrent(ctx, city)
	if err != nil {
		log.Errorf(ctx, "WeatherTool failed: %v", err)
		return "", err
	}

	return formatReport(displayName(city), current), nil
}

// FormatError renders weather failures with the city the user asked about
func (t *WeatherTool) FormatError(args map[string]interface{}, err error) string {
	city, _ := tools.String(args, "city")

	var statusErr *StatusError
	var netErr net.Error
	switch {
	case errors.As(err, &statusErr):
		return fmt.Sprintf("❌ Could not fetch weather for '%s'. Status code: %d", city, statusErr.StatusCode)
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Sprintf("⏱️ Weather service timed out for '%s'. The service may be temporarily unavailable.", city)
	default:
		return fmt.Sprintf("❌ Weather error for '%s': %v", city, err)
	}
}

func displayName(city string) string {
	return cases.Title(language.English).String(strings.ToLower(city))
}

func formatReport(city string, c *CurrentCondition) string {
	return fmt.Sprintf(
		"🌤️ **Weather in %s:**\n\n"+
			"🌡️ Temperature: %s°C (%s°F)\n"+
			"☁️ Condition: %s\n"+
			"💧 Humidity: %s%%\n"+
			"💨 Wind: %s km/h (%s mph)\n"+
			"👁️ Visibility: %s km\n"+
			"🌡️ Feels like: %s°C (%s°F)",
		city,
		c.TempC, c.TempF,
		c.Condition(),
		c.Humidity,
		c.WindspeedKmph, c.WindspeedMiles,
		c.Visibility,
		c.FeelsLikeC, c.FeelsLikeF,
	)
}
