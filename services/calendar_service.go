package services

import (
	"context"
	"time"

	"internHubAPI/internal/apperr"
	"internHubAPI/internal/types/calendar"
)

type CalendarService struct {
	applications ApplicationStore
	profiles     ProfileResolver
	now          func() time.Time
}

func NewCalendarService(applications ApplicationStore, profiles ProfileResolver) *CalendarService {
	return &CalendarService{applications: applications, profiles: profiles, now: time.Now}
}

// GetCalendar builds the month grid of application deadlines. Zero year or
// month means the current one.
func (s *CalendarService) GetCalendar(ctx context.Context, clerkID string, year, month int) (*calendar.CalendarResponse, error) {
	now := s.now().UTC()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return nil, apperr.Validation("month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return nil, apperr.Validation("year must be between 2000 and 2100")
	}

	profile, err := s.profiles.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	startDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endDate := startDate.AddDate(0, 1, 0)

	deadlines, err := s.applications.ListDeadlinesBetween(ctx, profile.ID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	dayMap := make(map[string][]calendar.Deadline)
	for _, d := range deadlines {
		key := d.Deadline.UTC().Format("2006-01-02")
		dayMap[key] = append(dayMap[key], d)
	}

	var days []*calendar.CalendarDay
	today := now.Format("2006-01-02")

	for d := startDate; d.Before(endDate); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		day := &calendar.CalendarDay{
			Date:      d,
			IsToday:   dateStr == today,
			Deadlines: dayMap[dateStr],
		}
		if day.Deadlines == nil {
			day.Deadlines = []calendar.Deadline{}
		}
		days = append(days, day)
	}

	return &calendar.CalendarResponse{
		Year:  year,
		Month: month,
		Days:  days,
	}, nil
}
