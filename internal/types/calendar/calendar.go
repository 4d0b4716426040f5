package calendar

import "time"

// Deadline is an application deadline shown on the calendar.
type Deadline struct {
	InternshipID      string    `json:"internship_id" db:"internship_id"`
	Title             string    `json:"title" db:"title"`
	CompanyName       string    `json:"company_name" db:"company_name"`
	ApplicationStatus string    `json:"application_status" db:"status"`
	Deadline          time.Time `json:"deadline" db:"deadline"`
}

type CalendarDay struct {
	Date      time.Time  `json:"date"`
	IsToday   bool       `json:"is_today"`
	Deadlines []Deadline `json:"deadlines"`
}

type CalendarResponse struct {
	Year  int            `json:"year"`
	Month int            `json:"month"`
	Days  []*CalendarDay `json:"days"`
}
