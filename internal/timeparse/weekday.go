package timeparse

import (
	"regexp"
	"strings"
	"time"
)

type weekQualifier int

const (
	qualNone weekQualifier = iota
	qualNext               // "следующую субботу"
	qualThis               // "эту субботу"
)

var (
	reWeekdayNext = regexp.MustCompile(`^(?:в\s+)?следующ(?:ую|ий|ее)\s+(\S+)`)
	reWeekdayThis = regexp.MustCompile(`^(?:в\s+)?эт(?:у|от|о)\s+(\S+)`)
	reWeekdayIn   = regexp.MustCompile(`^в\s+(\S+)`)

	reWeekdayWithTime = regexp.MustCompile(`^((?:в\s+)?(?:следующ(?:ую|ий|ее)\s+|эт(?:у|от|о)\s+)?\S+)\s+(.+)$`)
)

// daysAhead returns how many days from weekday c (0 = Monday) the target t
// lies. "next" always lands in the following week, "this" may be today and
// an unqualified day skips today.
func daysAhead(c, t int, q weekQualifier) int {
	d := ((t-c)%7 + 7) % 7
	switch q {
	case qualNext:
		return d + 7
	case qualThis:
		return d
	}
	if d == 0 {
		return 7
	}
	return d
}

// mondayIndex converts time.Weekday (Sunday = 0) to a Monday-based index.
func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// resolveWeekday handles "в субботу", "в следующий понедельник", "в эту
// среду" and a bare "пт". The result is midnight of the target day.
func resolveWeekday(text string, now time.Time, loc *time.Location) (Result, bool) {
	t := strings.ToLower(strings.TrimSpace(text))

	q := qualNone
	var name string
	if m := reWeekdayNext.FindStringSubmatch(t); m != nil {
		q, name = qualNext, m[1]
	} else if m := reWeekdayThis.FindStringSubmatch(t); m != nil {
		q, name = qualThis, m[1]
	} else if m := reWeekdayIn.FindStringSubmatch(t); m != nil {
		name = m[1]
	} else {
		name = t
	}

	target, ok := weekdays[name]
	if !ok {
		return Result{}, false
	}
	now = now.In(loc)
	day := now.AddDate(0, 0, daysAhead(mondayIndex(now.Weekday()), target, q))
	return Result{
		Time:    time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc),
		HasDate: true,
	}, true
}

// resolveWeekdayWithTime handles "в субботу 18:00" and "в пятницу вечером".
// It declines unless both the weekday clause and the time fragment resolve.
func resolveWeekdayWithTime(text string, now time.Time, loc *time.Location) (Result, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	m := reWeekdayWithTime.FindStringSubmatch(t)
	if m == nil {
		return Result{}, false
	}
	day, ok := resolveWeekday(m[1], now, loc)
	if !ok {
		return Result{}, false
	}
	c, ok := ParseClock(m[2])
	if !ok {
		return Result{}, false
	}
	dt := day.Time
	return Result{
		Time:    time.Date(dt.Year(), dt.Month(), dt.Day(), c.Hour, c.Minute, 0, 0, loc),
		HasDate: true,
		HasTime: true,
	}, true
}
