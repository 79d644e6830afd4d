package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sumittt2004/agentforge/log"
	"github.com/sumittt2004/agentforge/orm"
	"github.com/sumittt2004/agentforge/tools"
)

// DefaultBaseURL is the public wttr.in endpoint
const DefaultBaseURL = "https://wttr.in"

// Client handles wttr.in API requests
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Cache      *orm.ResponseCache // optional
}

// NewClient creates a new wttr.in client and registers the weather tool
func NewClient(baseURL string, timeout time.Duration, registry *tools.Registry) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}

	if registry != nil {
		NewWeatherTool(c, registry)
	}
	return c
}

// Description is a localized text value as wttr.in nests it
type Description struct {
	Value string `json:"value"`
}

// CurrentCondition is the current_condition block of the j1 format.
// wttr.in encodes every number as a string.
type CurrentCondition struct {
	TempC          string        `json:"temp_C"`
	TempF          string        `json:"temp_F"`
	FeelsLikeC     string        `json:"FeelsLikeC"`
	FeelsLikeF     string        `json:"FeelsLikeF"`
	Humidity       string        `json:"humidity"`
	WindspeedKmph  string        `json:"windspeedKmph"`
	WindspeedMiles string        `json:"windspeedMiles"`
	Visibility     string        `json:"visibility"`
	WeatherDesc    []Description `json:"weatherDesc"`
}

// Condition returns the first weather description, if any
func (c CurrentCondition) Condition() string {
	if len(c.WeatherDesc) == 0 {
		return "Unknown"
	}
	return c.WeatherDesc[0].Value
}

type report struct {
	CurrentCondition []CurrentCondition `json:"current_condition"`
}

// StatusError is returned when wttr.in answers with a non-200 status
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d", e.StatusCode)
}

// GetCurrent returns the current conditions for a city
func (c *Client) GetCurrent(ctx context.Context, city string) (*CurrentCondition, error) {
	key := "weather:" + strings.ToLower(strings.TrimSpace(city))
	if b, ok := c.Cache.Get(ctx, key); ok {
		var cached CurrentCondition
		if err := json.Unmarshal(b, &cached); err == nil {
			log.Debugf(ctx, "Weather cache hit for %s", city)
			return &cached, nil
		}
	}

	current, err := c.fetch(ctx, city)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(current); err == nil {
		if err := c.Cache.Set(ctx, key, b); err != nil {
			log.Warnf(ctx, "Failed to cache weather for %s: %v", city, err)
		}
	}
	return current, nil
}

func (c *Client) fetch(ctx context.Context, city string) (*CurrentCondition, error) {
	endpoint := fmt.Sprintf("%s/%s?format=j1", c.BaseURL, url.PathEscape(city))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var r report
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(r.CurrentCondition) == 0 {
		return nil, fmt.Errorf("no current conditions for %s", city)
	}

	return &r.CurrentCondition[0], nil
}
