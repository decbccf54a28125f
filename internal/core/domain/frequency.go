package domain

import "time"

// Frequency is the repetition interval of recurring rules and reminders.
type Frequency string

const (
	Daily     Frequency = "DAILY"
	Weekly    Frequency = "WEEKLY"
	Monthly   Frequency = "MONTHLY"
	Quarterly Frequency = "QUARTERLY"
	Yearly    Frequency = "YEARLY"
	Custom    Frequency = "CUSTOM"
)

// IsValid reports whether f is a known frequency.
func (f Frequency) IsValid() bool {
	switch f {
	case Daily, Weekly, Monthly, Quarterly, Yearly, Custom:
		return true
	}
	return false
}

// Advance returns the occurrence following date.
//
// Month based steps clamp to the last day of the target month, so 2024-01-31
// advanced monthly is 2024-02-29 and 2024-02-29 advanced yearly is 2025-02-28.
// CUSTOM steps by customDays when it is positive and falls back to one month.
func Advance(date time.Time, f Frequency, customDays int) time.Time {
	switch f {
	case Daily:
		return date.AddDate(0, 0, 1)
	case Weekly:
		return date.AddDate(0, 0, 7)
	case Monthly:
		return addMonthsClamped(date, 1)
	case Quarterly:
		return addMonthsClamped(date, 3)
	case Yearly:
		return addMonthsClamped(date, 12)
	case Custom:
		if customDays > 0 {
			return date.AddDate(0, 0, customDays)
		}
		return addMonthsClamped(date, 1)
	}
	return addMonthsClamped(date, 1)
}

func addMonthsClamped(date time.Time, months int) time.Time {
	y, m, d := date.Date()
	first := time.Date(y, m+time.Month(months), 1, date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
	if last := daysIn(first.Year(), first.Month(), date.Location()); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
