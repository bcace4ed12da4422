package money

import "time"

// maxScheduleDay clamps the day-of-month when stepping by months so generated
// due dates never overflow into the next month (e.g. Jan 31 + 1 month).
const maxScheduleDay = 28

// AddInterval steps a date forward by n periods of the given frequency.
// n <= 0 and one_time both return the date unchanged. Monthly and quarterly
// steps clamp the day-of-month to 28; yearly steps keep the month and day,
// clamping only when the day does not exist in the target year (Feb 29 on a
// non-leap year).
func AddInterval(t time.Time, f Frequency, n int) time.Time {
	if n <= 0 || f == OneTime {
		return t
	}
	switch f {
	case Weekly:
		return t.AddDate(0, 0, 7*n)
	case Quarterly:
		return addMonths(t, 3*n)
	case Yearly:
		return addYears(t, n)
	default: // Monthly
		return addMonths(t, n)
	}
}

func addMonths(t time.Time, months int) time.Time {
	year := t.Year() + (int(t.Month())-1+months)/12
	month := time.Month((int(t.Month())-1+months)%12 + 1)
	day := t.Day()
	if day > maxScheduleDay {
		day = maxScheduleDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func addYears(t time.Time, years int) time.Time {
	year := t.Year() + years
	day := t.Day()
	if last := daysIn(year, t.Month()); day > last {
		day = last
	}
	return time.Date(year, t.Month(), day, 0, 0, 0, 0, t.Location())
}

// daysIn returns the number of days in a month; day 0 of the following month
// normalizes to its last day.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DateOnly truncates a time to midnight in its location, so calendar-day
// comparisons are not affected by the time of day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
