package holiday

import (
	"context"
	"fmt"
	"monthsheet/internal/logger"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleCalendar reads a public Google calendar such as
// "de.german#holiday@group.v.calendar.google.com". Each month is fetched
// once and served from memory afterwards.
type GoogleCalendar struct {
	svc        *gcal.Service
	calendarID string
	loaded     map[string]bool
	byDay      map[string][]Event
}

// NewGoogleCalendar creates a client; pass option.WithAPIKey for public
// calendars.
func NewGoogleCalendar(ctx context.Context, calendarID string, opts ...option.ClientOption) (*GoogleCalendar, error) {
	if calendarID == "" {
		return nil, fmt.Errorf("calendar ID is required")
	}

	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		logger.Error("Failed to create Calendar client", "error", err)
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	logger.Info("Holiday calendar initialized", "calendar_id", calendarID)
	return &GoogleCalendar{
		svc:        svc,
		calendarID: calendarID,
		loaded:     make(map[string]bool),
		byDay:      make(map[string][]Event),
	}, nil
}

func (g *GoogleCalendar) Events(ctx context.Context, day time.Time) ([]Event, error) {
	month := day.Format("2006-01")
	if !g.loaded[month] {
		if err := g.loadMonth(ctx, day); err != nil {
			return nil, err
		}
		g.loaded[month] = true
	}
	return g.byDay[day.Format("2006-01-02")], nil
}

func (g *GoogleCalendar) loadMonth(ctx context.Context, day time.Time) error {
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	started := time.Now()
	count := 0
	err := g.svc.Events.List(g.calendarID).
		TimeMin(first.Format(time.RFC3339)).
		TimeMax(next.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Pages(ctx, func(page *gcal.Events) error {
			for _, item := range page.Items {
				date := eventDate(item)
				if date == "" {
					continue
				}
				g.byDay[date] = append(g.byDay[date], Event{Title: item.Summary, Description: item.Description})
				count++
			}
			return nil
		})
	if err != nil {
		logger.Error("Holiday calendar request failed", "calendar_id", g.calendarID, "month", first.Format("2006-01"), "error", err)
		return fmt.Errorf("failed to list holidays for %s: %w", first.Format("2006-01"), err)
	}

	logger.Info("Loaded holidays", "month", first.Format("2006-01"), "events", count, "duration", time.Since(started))
	return nil
}

// eventDate returns the YYYY-MM-DD start date of an all-day or timed event.
func eventDate(e *gcal.Event) string {
	if e.Start == nil {
		return ""
	}
	if e.Start.Date != "" {
		return e.Start.Date
	}
	if len(e.Start.DateTime) >= 10 {
		return e.Start.DateTime[:10]
	}
	return ""
}
