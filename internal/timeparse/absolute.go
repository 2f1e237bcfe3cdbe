package timeparse

import (
	"regexp"
	"strings"
	"time"
)

var (
	reAbsDMYTime       = regexp.MustCompile(`^(\d{1,2})[./](\d{1,2})[./](\d{2,4})\s+(\d{1,2}):(\d{2})$`)
	reAbsISOTime       = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})\s+(\d{1,2}):(\d{2})$`)
	reAbsDMTime        = regexp.MustCompile(`^(\d{1,2})[./](\d{1,2})\s+(\d{1,2}):(\d{2})$`)
	reAbsDM            = regexp.MustCompile(`^(\d{1,2})[./](\d{1,2})$`)
	reAbsMonthNameTime = regexp.MustCompile(`^(\d{1,2})\s+([а-яё]+)\s+(?:в\s+)?(\d{1,2})(?::(\d{2}))?$`)
	reAbsMonthName     = regexp.MustCompile(`^(\d{1,2})\s+([а-яё]+)$`)
)

// resolveAbsolute handles explicit calendar dates: "25.12.2025 18:00",
// "2025-12-25 18:00", "25.12 15:30", "25.12", "4 февраля в 19:45" and
// "4 февраля". Without a year the next occurrence is taken. Impossible
// dates decline.
func resolveAbsolute(text string, now time.Time, loc *time.Location) (Result, bool) {
	t := strings.TrimSpace(text)
	now = now.In(loc)

	if m := reAbsDMYTime.FindStringSubmatch(t); m != nil {
		y := atoi(m[3])
		if y < 100 {
			y += 2000
		}
		dt, ok := makeTime(y, atoi(m[2]), atoi(m[1]), atoi(m[4]), atoi(m[5]), loc)
		return dateTime(dt, ok)
	}

	if m := reAbsISOTime.FindStringSubmatch(t); m != nil {
		dt, ok := makeTime(atoi(m[1]), atoi(m[2]), atoi(m[3]), atoi(m[4]), atoi(m[5]), loc)
		return dateTime(dt, ok)
	}

	if m := reAbsDMTime.FindStringSubmatch(t); m != nil {
		return nextDateTime(now, atoi(m[2]), atoi(m[1]), atoi(m[3]), atoi(m[4]))
	}

	if m := reAbsDM.FindStringSubmatch(t); m != nil {
		return nextDate(now, atoi(m[2]), atoi(m[1]))
	}

	lower := strings.ToLower(t)
	if m := reAbsMonthNameTime.FindStringSubmatch(lower); m != nil {
		if mo, ok := months[m[2]]; ok {
			mi := 0
			if m[4] != "" {
				mi = atoi(m[4])
			}
			return nextDateTime(now, mo, atoi(m[1]), atoi(m[3]), mi)
		}
	}

	if m := reAbsMonthName.FindStringSubmatch(lower); m != nil {
		if mo, ok := months[m[2]]; ok {
			return nextDate(now, mo, atoi(m[1]))
		}
	}

	return Result{}, false
}

func dateTime(dt time.Time, ok bool) (Result, bool) {
	if !ok {
		return Result{}, false
	}
	return Result{Time: dt, HasDate: true, HasTime: true}, true
}

// nextDateTime builds the instant in the current year and moves it to the
// next year when it is already in the past.
func nextDateTime(now time.Time, month, day, hour, minute int) (Result, bool) {
	loc := now.Location()
	dt, ok := makeTime(now.Year(), month, day, hour, minute, loc)
	if !ok {
		return Result{}, false
	}
	if dt.Before(now) {
		if dt, ok = makeTime(now.Year()+1, month, day, hour, minute, loc); !ok {
			return Result{}, false
		}
	}
	return dateTime(dt, true)
}

// nextDate is nextDateTime for a date without a clock; only the calendar
// day is compared, so today stays in the current year.
func nextDate(now time.Time, month, day int) (Result, bool) {
	loc := now.Location()
	dt, ok := makeTime(now.Year(), month, day, 0, 0, loc)
	if !ok {
		return Result{}, false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if dt.Before(today) {
		if dt, ok = makeTime(now.Year()+1, month, day, 0, 0, loc); !ok {
			return Result{}, false
		}
	}
	return Result{Time: dt, HasDate: true}, true
}

// makeTime is time.Date without normalization: out-of-range fields report
// false instead of rolling into the next unit.
func makeTime(year, month, day, hour, minute int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || hour > 23 || minute > 59 {
		return time.Time{}, false
	}
	// Noon keeps the check clear of DST gaps at midnight.
	probe := time.Date(year, time.Month(month), day, 12, 0, 0, 0, loc)
	if probe.Day() != day || int(probe.Month()) != month {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc), true
}
