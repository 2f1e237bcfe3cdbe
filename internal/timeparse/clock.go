package timeparse

import (
	"regexp"
	"strconv"
	"strings"
)

// Clock is an hour/minute pair resolved from a time fragment.
type Clock struct {
	Hour   int
	Minute int
}

var (
	reClockColon = regexp.MustCompile(`^(?:в\s+)?(\d{1,2}):(\d{2})$`)
	reClockHour  = regexp.MustCompile(`^(?:в\s+)?(\d{1,2})\s*(?:час(?:а|ов)?)?$`)
	reClockAM    = regexp.MustCompile(`^(?:в\s+)?(\d{1,2})\s*(?:утра|am)$`)
	reClockPM    = regexp.MustCompile(`^(?:в\s+)?(\d{1,2})\s*(?:вечера|дня|pm)$`)
	reClockNight = regexp.MustCompile(`^(?:в\s+)?(\d{1,2})\s*ночи$`)
	reClockBare  = regexp.MustCompile(`^(\d{1,2})$`)
)

// ParseClock resolves a time fragment such as "18:30", "в 4", "9 утра" or
// "вечером". A bare hour from 1 to 11 is read as afternoon/evening.
func ParseClock(fragment string) (Clock, bool) {
	t := strings.ToLower(strings.TrimSpace(fragment))

	if h, ok := partsOfDay[t]; ok {
		return Clock{Hour: h}, true
	}

	if m := reClockColon.FindStringSubmatch(t); m != nil {
		h, mi := atoi(m[1]), atoi(m[2])
		if h <= 23 && mi <= 59 {
			return Clock{Hour: h, Minute: mi}, true
		}
	}

	if m := reClockHour.FindStringSubmatch(t); m != nil {
		if c, ok := pmHour(atoi(m[1])); ok {
			return c, true
		}
	}

	if m := reClockAM.FindStringSubmatch(t); m != nil {
		switch h := atoi(m[1]); {
		case h == 12:
			return Clock{Hour: 0}, true
		case h >= 1 && h <= 11:
			return Clock{Hour: h}, true
		}
	}

	if m := reClockPM.FindStringSubmatch(t); m != nil {
		switch h := atoi(m[1]); {
		case h == 12:
			return Clock{Hour: 12}, true
		case h >= 1 && h <= 11:
			return Clock{Hour: h + 12}, true
		}
	}

	if m := reClockNight.FindStringSubmatch(t); m != nil {
		switch h := atoi(m[1]); {
		case h == 12:
			return Clock{Hour: 0}, true
		case h >= 1 && h <= 4:
			return Clock{Hour: h}, true
		}
	}

	if m := reClockBare.FindStringSubmatch(t); m != nil {
		if c, ok := pmHour(atoi(m[1])); ok {
			return c, true
		}
	}

	return Clock{}, false
}

// pmHour maps 1..11 to the afternoon and keeps 0 and 12..23 as given.
func pmHour(h int) (Clock, bool) {
	switch {
	case h >= 1 && h <= 11:
		return Clock{Hour: h + 12}, true
	case h <= 23:
		return Clock{Hour: h}, true
	}
	return Clock{}, false
}

// atoi is only called on \d+ captures.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
