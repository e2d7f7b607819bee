package frontdesk

import (
	"fmt"
	"time"

	"hotel-frontdesk/models"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type StatusCounts struct {
	Available int `json:"available"`
	Occupied  int `json:"occupied"`
	Reserved  int `json:"reserved"`
	Cleaning  int `json:"cleaning"`
	Total     int `json:"total"`
	// Voided counts ledger records, not rooms.
	Voided int `json:"voided"`
}

func CountStatuses(rooms []models.Room, ledger []models.GuestHistory) StatusCounts {
	var c StatusCounts
	for _, r := range rooms {
		c.Total++
		switch r.Status {
		case models.RoomAvailable:
			c.Available++
		case models.RoomOccupied:
			c.Occupied++
		case models.RoomReserved:
			c.Reserved++
		case models.RoomCleaning:
			c.Cleaning++
		}
	}
	for _, rec := range ledger {
		if rec.Status == models.GuestVoid {
			c.Voided++
		}
	}
	return c
}

// CheckoutDue lists occupied rooms whose stay ends on today.
func CheckoutDue(rooms []models.Room, today datatypes.Date) []models.Room {
	var due []models.Room
	for _, r := range rooms {
		if r.Status != models.RoomOccupied || r.CheckInDate == nil {
			continue
		}
		if SameDate(AddDays(*r.CheckInDate, r.StayDuration), today) {
			due = append(due, r)
		}
	}
	return due
}

type Occupancy struct {
	Staying int `json:"staying"`
	Rooms   int `json:"rooms"`
	// Percent is staying records per room x 100 and can exceed 100 if the ledger and the
	// registry ever disagree.
	Percent decimal.Decimal `json:"percent"`
	// DisplayPercent is Percent capped at 100.
	DisplayPercent decimal.Decimal `json:"displayPercent"`
}

var hundred = decimal.NewFromInt(100)

func OccupancyRate(roomCount int, ledger []models.GuestHistory) Occupancy {
	o := Occupancy{Rooms: roomCount, Percent: decimal.Zero, DisplayPercent: decimal.Zero}
	for _, rec := range ledger {
		if rec.Status == models.GuestStaying {
			o.Staying++
		}
	}
	if roomCount == 0 {
		return o
	}
	o.Percent = decimal.NewFromInt(int64(o.Staying)).Mul(hundred).DivRound(decimal.NewFromInt(int64(roomCount)), 2)
	o.DisplayPercent = decimal.Min(o.Percent, hundred)
	return o
}

type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// MaxBuckets bounds a revenue series.
const MaxBuckets = 366

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	case "":
		return PeriodDay, nil
	}
	return "", invalid("period", fmt.Sprintf("unknown period %q", s))
}

func (p Period) DefaultBuckets() int {
	switch p {
	case PeriodWeek:
		return 4
	case PeriodMonth:
		return 12
	case PeriodYear:
		return 5
	default:
		return 7
	}
}

// Bucket covers [Start, End) in calendar dates.
type Bucket struct {
	Label    string          `json:"label"`
	Start    datatypes.Date  `json:"start"`
	End      datatypes.Date  `json:"end"`
	Revenue  decimal.Decimal `json:"revenue"`
	Bookings int             `json:"bookings"`
}

// RevenueSeries buckets non-void ledger records by check-in date into n periods ending with
// the one containing now, oldest first.
func RevenueSeries(ledger []models.GuestHistory, period Period, n int, now time.Time, weekStart time.Weekday) ([]Bucket, error) {
	if n == 0 {
		n = period.DefaultBuckets()
	}
	if n < 1 || n > MaxBuckets {
		return nil, invalid("buckets", fmt.Sprintf("must be between 1 and %d", MaxBuckets))
	}
	loc := now.Location()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	buckets := make([]Bucket, n)
	for i := range buckets {
		back := n - 1 - i
		var start, end time.Time
		var label string
		switch period {
		case PeriodDay:
			start = today.AddDate(0, 0, -back)
			end = start.AddDate(0, 0, 1)
			label = start.Format("2006-01-02")
		case PeriodWeek:
			offset := (int(today.Weekday()) - int(weekStart) + 7) % 7
			start = today.AddDate(0, 0, -offset-7*back)
			end = start.AddDate(0, 0, 7)
			label = start.Format("2006-01-02")
		case PeriodMonth:
			start = time.Date(y, m-time.Month(back), 1, 0, 0, 0, 0, loc)
			end = start.AddDate(0, 1, 0)
			label = start.Format("2006-01")
		case PeriodYear:
			start = time.Date(y-back, time.January, 1, 0, 0, 0, 0, loc)
			end = start.AddDate(1, 0, 0)
			label = start.Format("2006")
		default:
			return nil, invalid("period", fmt.Sprintf("unknown period %q", period))
		}
		buckets[i] = Bucket{
			Label:   label,
			Start:   datatypes.Date(start),
			End:     datatypes.Date(end),
			Revenue: decimal.Zero,
		}
	}

	for _, rec := range ledger {
		if rec.Status == models.GuestVoid {
			continue
		}
		cy, cm, cd := time.Time(rec.CheckInDate).Date()
		day := time.Date(cy, cm, cd, 0, 0, 0, 0, loc)
		for i := range buckets {
			if !day.Before(time.Time(buckets[i].Start)) && day.Before(time.Time(buckets[i].End)) {
				buckets[i].Revenue = buckets[i].Revenue.Add(rec.TotalPrice)
				buckets[i].Bookings++
				break
			}
		}
	}
	return buckets, nil
}
