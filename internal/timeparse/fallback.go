package timeparse

import (
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/ru"
)

// Settings configures a Fallback the way the cascade expects it to behave.
type Settings struct {
	Locale       string
	Location     *time.Location
	PreferFuture bool
	DateOrder    string
}

// Fallback is a best-effort parser consulted after every resolver declined.
type Fallback interface {
	Parse(text string, now time.Time, s Settings) (time.Time, bool)
}

const (
	LocaleRU = "ru"
	OrderDMY = "DMY"
)

func defaultSettings(loc *time.Location) Settings {
	return Settings{
		Locale:       LocaleRU,
		Location:     loc,
		PreferFuture: true,
		DateOrder:    OrderDMY,
	}
}

// WhenFallback adapts github.com/olebedev/when.
type WhenFallback struct {
	parsers map[string]*when.Parser
}

// NewWhenFallback builds one when.Parser per supported locale and date
// order. Only Russian with day-month-year order is registered.
func NewWhenFallback() *WhenFallback {
	p := when.New(nil)
	p.Add(ru.All...)
	p.Add(common.All...)
	return &WhenFallback{parsers: map[string]*when.Parser{
		LocaleRU + "/" + OrderDMY: p,
	}}
}

var (
	reYear     = regexp.MustCompile(`\b\d{4}\b`)
	reDayMonth = regexp.MustCompile(`\d{1,2}[./\\]\d{1,2}`)
)

func (f *WhenFallback) Parse(text string, now time.Time, s Settings) (time.Time, bool) {
	p, ok := f.parsers[s.Locale+"/"+s.DateOrder]
	if !ok {
		return time.Time{}, false
	}
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)

	r, err := p.Parse(text, now)
	if err != nil || r == nil {
		return time.Time{}, false
	}
	dt := r.Time.In(loc)
	if s.PreferFuture && dt.Before(now) && yearless(r.Text) {
		dt = dt.AddDate(1, 0, 0)
	}
	return dt, true
}

// yearless reports whether matched text names a calendar day without a
// year. Relative words such as "вчера" are left alone.
func yearless(matched string) bool {
	if reYear.MatchString(matched) {
		return false
	}
	if reDayMonth.MatchString(matched) {
		return true
	}
	for _, w := range strings.Fields(strings.ToLower(matched)) {
		if _, ok := months[strings.Trim(w, ".,")]; ok {
			return true
		}
	}
	return false
}
