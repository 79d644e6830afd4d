package core

import (
	"context"
	"fmt"
	"time"

	"github.com/sumittt2004/agentforge/log"
	"github.com/sumittt2004/agentforge/tools"
)

// DateTimeTool reports the current local date and time
type DateTimeTool struct {
	Now func() time.Time
}

// NewDateTimeTool creates a DateTimeTool and registers it when a registry is given
func NewDateTimeTool(registry *tools.Registry) *DateTimeTool {
	t := &DateTimeTool{
		Now: time.Now,
	}
	if registry != nil {
		registry.Register(t)
	}
	return t
}

func (t *DateTimeTool) Name() string {
	return "get_current_datetime"
}

func (t *DateTimeTool) Description() string {
	return "Get the current date, time, and day of the week."
}

func (t *DateTimeTool) Parameters() []tools.Parameter {
	return nil
}

func (t *DateTimeTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	now := t.Now()
	log.Debugf(ctx, "DateTimeTool executing at %s", now.Format(time.RFC3339))

	return fmt.Sprintf(
		"🕒 **Current Date & Time:**\n\n"+
			"📅 Date: %s\n"+
			"⏰ Time: %s\n"+
			"📊 Week: Week %02d of %d",
		now.Format("Monday, January 02, 2006"),
		now.Format("03:04:05 PM"),
		mondayWeek(now),
		now.Year(),
	), nil
}

// mondayWeek numbers weeks starting on Monday. Days before the first
// Monday of the year fall in week 0.
func mondayWeek(t time.Time) int {
	yday := t.YearDay() - 1
	weekday := (int(t.Weekday()) + 6) % 7
	return (yday + 7 - weekday) / 7
}
