package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var ErrUnknownTimezone = errors.New("unknown timezone")

// ParseLocation accepts an IANA name ("Europe/Moscow") or a fixed offset
// ("UTC+3", "UTC-03:30").
func ParseLocation(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return nil, errors.Wrap(ErrUnknownTimezone, "empty")
	}
	if loc, ok := loadFixedUTC(tz); ok {
		return loc, nil
	}
	// time.LoadLocation treats "Local" as the host zone; users never mean that.
	if strings.EqualFold(tz, "local") {
		return nil, errors.Wrap(ErrUnknownTimezone, tz)
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errors.Wrap(ErrUnknownTimezone, tz)
	}
	return loc, nil
}

// LoadUserLocation is ParseLocation falling back to UTC.
func LoadUserLocation(tz string) *time.Location {
	if loc, err := ParseLocation(tz); err == nil {
		return loc
	}
	return time.UTC
}

func loadFixedUTC(name string) (*time.Location, bool) {
	name = strings.TrimSpace(strings.ToUpper(name))
	if !strings.HasPrefix(name, "UTC") {
		return nil, false
	}
	rest := strings.TrimPrefix(name, "UTC")
	if rest == "" || rest == "Z" || rest == "+0" || rest == "+00:00" {
		return time.UTC, true
	}
	sign := 1
	if strings.HasPrefix(rest, "+") {
		rest = rest[1:]
	} else if strings.HasPrefix(rest, "-") {
		sign = -1
		rest = rest[1:]
	} else {
		return nil, false
	}
	ps := strings.SplitN(rest, ":", 2)
	hh, err := strconv.Atoi(ps[0])
	if err != nil || hh > 14 {
		return nil, false
	}
	mm := 0
	if len(ps) == 2 {
		mm, err = strconv.Atoi(ps[1])
		if err != nil || mm > 59 {
			return nil, false
		}
	}
	offset := sign * (hh*3600 + mm*60)
	return time.FixedZone(fmt.Sprintf("UTC%+03d:%02d", sign*hh, mm), offset), true
}
