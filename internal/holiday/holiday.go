// Package holiday looks up public holidays from a calendar source.
package holiday

import (
	"context"
	"strings"
	"time"
)

// Event is a calendar entry on a single day.
type Event struct {
	Title       string
	Description string
}

// Calendar returns the events falling on day.
type Calendar interface {
	Events(ctx context.Context, day time.Time) ([]Event, error)
}

// Lookup returns the title of the first event on day whose description is
// one of the accepted markers. Other events, holidays or not, are ignored.
func Lookup(ctx context.Context, cal Calendar, day time.Time, accept []string) (string, bool, error) {
	events, err := cal.Events(ctx, day)
	if err != nil {
		return "", false, err
	}
	for _, e := range events {
		if accepted(e.Description, accept) {
			return e.Title, true, nil
		}
	}
	return "", false, nil
}

func accepted(description string, accept []string) bool {
	description = strings.TrimSpace(description)
	for _, marker := range accept {
		if description == marker {
			return true
		}
	}
	return false
}

// Finder binds a Calendar to its accepted markers.
type Finder struct {
	Calendar Calendar
	Accept   []string
}

func (f Finder) Holiday(ctx context.Context, day time.Time) (string, bool, error) {
	return Lookup(ctx, f.Calendar, day, f.Accept)
}
