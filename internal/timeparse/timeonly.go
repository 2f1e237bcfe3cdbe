package timeparse

import "time"

// resolveTimeOnly places a bare time fragment ("18:00", "в 4", "вечером")
// on today's date. HasDate stays false so callers can ask for the day.
func resolveTimeOnly(text string, now time.Time, loc *time.Location) (Result, bool) {
	c, ok := ParseClock(text)
	if !ok {
		return Result{}, false
	}
	now = now.In(loc)
	return Result{
		Time:    time.Date(now.Year(), now.Month(), now.Day(), c.Hour, c.Minute, 0, 0, loc),
		HasTime: true,
	}, true
}
