package timeparse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	relativeMarker = "через"
	maxYear        = 9999
	// upper bound on day offsets; the year check below is the real limit
	maxOffsetDays = (maxYear + 1) * 366
)

var (
	reRelOneMinute   = regexp.MustCompile(`^через\s+минут(?:у|ку)$`)
	reRelHalfHour    = regexp.MustCompile(`^через\s+полчаса$`)
	reRelHourAndHalf = regexp.MustCompile(`^через\s+полтора\s+часа$`)
	reRelHourMinute  = regexp.MustCompile(`^через\s+(\d+)\s*ч(?:ас(?:а|ов)?)?\s*(\d+)\s*м(?:ин(?:ут[ауы]?)?)?$`)
	reRelMinutes     = regexp.MustCompile(`^через\s+(\d+)\s*мин(?:ут[ауы]?)?\.?$`)
	reRelWordMinutes = regexp.MustCompile(`^через\s+(\S+)\s+мин(?:ут[ауы]?)?\.?$`)
	reRelHours       = regexp.MustCompile(`^через\s+(\d+)\s*(?:час(?:а|ов)?|ч)$`)
	reRelDays        = regexp.MustCompile(`^через\s+(\d+)\s*(?:день|дня|дней)$`)
	reRelWeek        = regexp.MustCompile(`^через\s+неделю$`)
	reRelWeeks       = regexp.MustCompile(`^через\s+(\d+)\s*недел[ьюи]$`)
)

// resolveRelative handles offsets from now: "через 2 часа", "через 1ч 30м",
// "через пять минут", "через 3 дня", "через неделю".
// Minute and hour offsets keep the clock; day and week offsets are date-only.
func resolveRelative(text string, now time.Time, loc *time.Location) (Result, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if !strings.HasPrefix(t, relativeMarker) {
		return Result{}, false
	}
	now = now.In(loc)

	clock := func(d time.Duration, ok bool) (Result, bool) {
		if !ok {
			return Result{}, false
		}
		return inRange(Result{Time: now.Add(d), HasDate: true, HasTime: true})
	}
	days := func(n int, ok bool) (Result, bool) {
		if !ok || n > maxOffsetDays {
			return Result{}, false
		}
		return inRange(Result{Time: now.AddDate(0, 0, n), HasDate: true})
	}

	switch {
	case reRelOneMinute.MatchString(t):
		return clock(time.Minute, true)
	case reRelHalfHour.MatchString(t):
		return clock(30*time.Minute, true)
	case reRelHourAndHalf.MatchString(t):
		return clock(90*time.Minute, true)
	}

	if m := reRelHourMinute.FindStringSubmatch(t); m != nil {
		h, okH := offset(m[1], time.Hour)
		mi, okM := offset(m[2], time.Minute)
		return clock(h+mi, okH && okM && h <= math.MaxInt64-mi)
	}
	if m := reRelMinutes.FindStringSubmatch(t); m != nil {
		return clock(offset(m[1], time.Minute))
	}
	if m := reRelWordMinutes.FindStringSubmatch(t); m != nil {
		if n, ok := smallNumbers[m[1]]; ok {
			return clock(time.Duration(n)*time.Minute, true)
		}
	}
	if m := reRelHours.FindStringSubmatch(t); m != nil {
		return clock(offset(m[1], time.Hour))
	}
	if m := reRelDays.FindStringSubmatch(t); m != nil {
		return days(count(m[1], maxOffsetDays))
	}
	if reRelWeek.MatchString(t) {
		return days(7, true)
	}
	if m := reRelWeeks.FindStringSubmatch(t); m != nil {
		n, ok := count(m[1], maxOffsetDays/7)
		return days(7*n, ok)
	}
	return Result{}, false
}

// count parses a digit capture, declining values above limit.
func count(s string, limit int) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > limit {
		return 0, false
	}
	return n, true
}

// offset is count scaled by unit, declining anything a Duration cannot hold.
func offset(s string, unit time.Duration) (time.Duration, bool) {
	n, ok := count(s, int(math.MaxInt64/int64(unit)))
	if !ok {
		return 0, false
	}
	return time.Duration(n) * unit, true
}

func inRange(r Result) (Result, bool) {
	if r.Time.Year() > maxYear {
		return Result{}, false
	}
	return r, true
}
