// Package timeparse resolves Russian free-text dates and times ("завтра в 18:00",
// "через полчаса", "в следующую пятницу", "4 февраля") into an instant in the
// user's timezone.
//
// Resolution is a fixed cascade of rule-based resolvers; the first one that
// recognizes the text wins. When every resolver declines, a generic fallback
// parser is asked. The current instant is always passed in explicitly.
package timeparse

import (
	"errors"
	"regexp"
	"time"

	"go.uber.org/zap"
)

var ErrNotRecognized = errors.New("timeparse: date/time not recognized")

// Result is a resolved instant. HasDate and HasTime tell whether the text
// named a day and a clock time; missing parts are filled from now (or
// midnight) and should be asked for by the caller.
type Result struct {
	Time    time.Time
	HasDate bool
	HasTime bool
}

// Resolver recognizes one family of expressions. It must not keep state
// between calls.
type Resolver interface {
	Name() string
	Resolve(text string, now time.Time, loc *time.Location) (Result, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc struct {
	ID string
	Fn func(text string, now time.Time, loc *time.Location) (Result, bool)
}

func (r ResolverFunc) Name() string { return r.ID }

func (r ResolverFunc) Resolve(text string, now time.Time, loc *time.Location) (Result, bool) {
	return r.Fn(text, now, loc)
}

// DefaultResolvers returns the cascade in priority order.
func DefaultResolvers() []Resolver {
	return []Resolver{
		ResolverFunc{"relative", resolveRelative},
		ResolverFunc{"named-day", resolveNamedDay},
		ResolverFunc{"weekday-time", resolveWeekdayWithTime},
		ResolverFunc{"weekday", resolveWeekday},
		ResolverFunc{"absolute", resolveAbsolute},
		ResolverFunc{"time-only", resolveTimeOnly},
	}
}

type Parser struct {
	resolvers []Resolver
	fallback  Fallback
	logger    *zap.Logger
}

type Option func(*Parser)

// WithResolvers replaces the cascade.
func WithResolvers(rs ...Resolver) Option {
	return func(p *Parser) { p.resolvers = rs }
}

// WithFallback replaces the fallback parser; nil disables it.
func WithFallback(f Fallback) Option {
	return func(p *Parser) { p.fallback = f }
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

func New(opts ...Option) *Parser {
	p := &Parser{
		resolvers: DefaultResolvers(),
		fallback:  NewWhenFallback(),
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

var reClockInText = regexp.MustCompile(`\d{1,2}:\d{2}`)

// Parse resolves text relative to now in loc. It returns ErrNotRecognized
// when neither the cascade nor the fallback understood the text.
func (p *Parser) Parse(text string, loc *time.Location, now time.Time) (Result, error) {
	if loc == nil {
		loc = time.UTC
	}
	t := Normalize(text)
	if t == "" {
		return Result{}, ErrNotRecognized
	}

	for _, r := range p.resolvers {
		res, ok := r.Resolve(t, now, loc)
		if !ok {
			continue
		}
		res.Time = res.Time.In(loc)
		p.logger.Debug("date resolved",
			zap.String("resolver", r.Name()),
			zap.String("text", t),
			zap.Time("time", res.Time),
			zap.Bool("has_date", res.HasDate),
			zap.Bool("has_time", res.HasTime),
		)
		return res, nil
	}

	if p.fallback == nil {
		return Result{}, ErrNotRecognized
	}
	dt, ok := p.fallback.Parse(t, now, defaultSettings(loc))
	if !ok {
		return Result{}, ErrNotRecognized
	}
	if y := dt.In(loc).Year(); y < 1 || y > maxYear {
		return Result{}, ErrNotRecognized
	}
	// when does not say which fields it matched; a clock in the text stands in for HasTime.
	res := Result{
		Time:    dt.In(loc),
		HasDate: true,
		HasTime: reClockInText.MatchString(t),
	}
	p.logger.Debug("date resolved by fallback", zap.String("text", t), zap.Time("time", res.Time))
	return res, nil
}

// ParseNow is Parse with the system clock.
func (p *Parser) ParseNow(text string, loc *time.Location) (Result, error) {
	return p.Parse(text, loc, time.Now())
}
