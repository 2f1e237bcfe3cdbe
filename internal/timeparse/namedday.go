package timeparse

import (
	"strings"
	"time"
)

// Longest words first so "послезавтра" is not read as "завтра".
var namedDays = []struct {
	word   string
	offset int
}{
	{"послезавтра", 2},
	{"завтра", 1},
	{"сегодня", 0},
}

// resolveNamedDay handles "сегодня", "завтра", "послезавтра" with an
// optional time fragment after the word. Without a time the current clock
// is kept and HasTime is false.
func resolveNamedDay(text string, now time.Time, loc *time.Location) (Result, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, nd := range namedDays {
		if !strings.HasPrefix(t, nd.word) {
			continue
		}
		now = now.In(loc)
		day := now.AddDate(0, 0, nd.offset)
		h, mi := now.Hour(), now.Minute()
		hasTime := false
		if rest := strings.TrimSpace(t[len(nd.word):]); rest != "" {
			if c, ok := ParseClock(rest); ok {
				h, mi = c.Hour, c.Minute
				hasTime = true
			}
		}
		return Result{
			Time:    time.Date(day.Year(), day.Month(), day.Day(), h, mi, 0, 0, loc),
			HasDate: true,
			HasTime: hasTime,
		}, true
	}
	return Result{}, false
}
