package frontdesk

import (
	"time"

	"gorm.io/datatypes"
)

// Policy holds the calendar rules of the property.
type Policy struct {
	// CutoffHour is the hour the operating day rolls over. Arrivals before it are booked
	// against the previous calendar date.
	CutoffHour int
	// WeekStart is the first day of a revenue week.
	WeekStart time.Weekday
}

// DefaultPolicy rolls the business day over at 06:00 and starts weeks on Sunday.
var DefaultPolicy = Policy{CutoffHour: 6, WeekStart: time.Sunday}

// BusinessDate is the operating date an instant belongs to.
func (p Policy) BusinessDate(now time.Time) datatypes.Date {
	d := DateOf(now)
	if now.Hour() < p.CutoffHour {
		return AddDays(d, -1)
	}
	return d
}

// DateOf truncates an instant to its calendar date in the instant's location.
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, t.Location()))
}

func AddDays(d datatypes.Date, n int) datatypes.Date {
	return DateOf(time.Time(d).AddDate(0, 0, n))
}

// SameDate compares calendar dates, ignoring time of day and location offsets.
func SameDate(a, b datatypes.Date) bool {
	ay, am, ad := time.Time(a).Date()
	by, bm, bd := time.Time(b).Date()
	return ay == by && am == bm && ad == bd
}

// Before reports whether a falls on an earlier calendar date than b.
func Before(a, b datatypes.Date) bool {
	ay, am, ad := time.Time(a).Date()
	by, bm, bd := time.Time(b).Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}

func datePtr(d datatypes.Date) *datatypes.Date { return &d }

func timePtr(t time.Time) *time.Time { return &t }
