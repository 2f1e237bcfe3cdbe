package timeparse

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	moscow, _ = time.LoadLocation("Europe/Moscow")
	// Tuesday.
	fixedNow = time.Date(2025, 6, 10, 14, 0, 0, 0, moscow)
)

func rulesOnly() *Parser {
	return New(WithFallback(nil))
}

func mustParse(t *testing.T, p *Parser, text string) Result {
	t.Helper()
	r, err := p.Parse(text, moscow, fixedNow)
	require.NoError(t, err, "text %q", text)
	return r
}

func TestParse_Absolute(t *testing.T) {
	p := rulesOnly()

	tests := []struct {
		name     string
		input    string
		want     string
		wantTime bool
	}{
		{"dd.mm.yyyy hh:mm", "25.12.2025 18:00", "2025-12-25 18:00", true},
		{"dd.mm.yy hh:mm", "25.12.25 18:00", "2025-12-25 18:00", true},
		{"dd/mm/yyyy hh:mm", "25/12/2025 18:00", "2025-12-25 18:00", true},
		{"yyyy-mm-dd hh:mm", "2025-12-25 18:00", "2025-12-25 18:00", true},
		{"dd.mm hh:mm", "25.12 15:30", "2025-12-25 15:30", true},
		{"dd.mm hh:mm rolls over", "04.02 18:05", "2026-02-04 18:05", true},
		{"month name with time", "4 февраля 18:00", "2026-02-04 18:00", true},
		{"month name with в", "4 февраля в 19:45", "2026-02-04 19:45", true},
		{"short month and hour", "4 фев 18", "2026-02-04 18:00", true},
		{"dd.mm", "25.12", "2025-12-25 00:00", false},
		{"month name", "4 февраля", "2026-02-04 00:00", false},
		{"month name later this year", "1 июля", "2025-07-01 00:00", false},
		{"today by dd.mm stays", "10.06", "2025-06-10 00:00", false},
		{"past explicit year is kept", "01.01.2020 10:00", "2020-01-01 10:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mustParse(t, p, tt.input)
			assert.Equal(t, tt.want, r.Time.Format("2006-01-02 15:04"))
			assert.True(t, r.HasDate)
			assert.Equal(t, tt.wantTime, r.HasTime)
			assert.Equal(t, moscow, r.Time.Location())
		})
	}
}

func TestParse_AbsoluteRolloverComparesInstantWithTime(t *testing.T) {
	p := rulesOnly()

	// Same day, earlier clock: already past, so next year.
	r := mustParse(t, p, "10.06 13:00")
	assert.Equal(t, "2026-06-10 13:00", r.Time.Format("2006-01-02 15:04"))

	r = mustParse(t, p, "10 июня в 15:00")
	assert.Equal(t, "2025-06-10 15:00", r.Time.Format("2006-01-02 15:04"))
}

func TestParse_InvalidCalendarDatesDecline(t *testing.T) {
	p := rulesOnly()

	for _, in := range []string{
		"32.13.2025 18:00",
		"30.02.2025 10:00",
		"2025-13-01 10:00",
		"31.04 10:00",
		"30.02",
		"32 января",
		"5 мая 25:00",
		"25.12.2025 24:00",
	} {
		_, err := p.Parse(in, moscow, fixedNow)
		assert.ErrorIs(t, err, ErrNotRecognized, "input %q", in)
	}
}

func TestParse_Relative(t *testing.T) {
	p := rulesOnly()

	tests := []struct {
		input string
		delta time.Duration
	}{
		{"через 2 часа", 2 * time.Hour},
		{"через 90 минут", 90 * time.Minute},
		{"через 1ч 30м", 90 * time.Minute},
		{"через 1ч 20м", 80 * time.Minute},
		{"через 2ч 5мин", 2*time.Hour + 5*time.Minute},
		{"через 2 часа 15 минут", 2*time.Hour + 15*time.Minute},
		{"через 15 минут", 15 * time.Minute},
		{"через 1 минуту", time.Minute},
		{"через 40 мин", 40 * time.Minute},
		{"через минуту", time.Minute},
		{"через минутку", time.Minute},
		{"через полчаса", 30 * time.Minute},
		{"через полтора часа", 90 * time.Minute},
		{"через пять минут", 5 * time.Minute},
		{"через две минуты", 2 * time.Minute},
		{"Через 3 ч", 3 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := mustParse(t, p, tt.input)
			assert.True(t, r.Time.Equal(fixedNow.Add(tt.delta)), "got %s", r.Time)
			assert.True(t, r.HasDate)
			assert.True(t, r.HasTime)
		})
	}
}

func TestParse_RelativeDays(t *testing.T) {
	p := rulesOnly()

	tests := []struct {
		input string
		days  int
	}{
		{"через 3 дня", 3},
		{"через 1 день", 1},
		{"через 10 дней", 10},
		{"через неделю", 7},
		{"через 2 недели", 14},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := mustParse(t, p, tt.input)
			want := fixedNow.AddDate(0, 0, tt.days)
			assert.Equal(t, want.Format("2006-01-02"), r.Time.Format("2006-01-02"))
			assert.True(t, r.HasDate)
			assert.False(t, r.HasTime)
		})
	}
}

func TestParse_RelativeUnknownWordDeclines(t *testing.T) {
	_, err := rulesOnly().Parse("через сто минут", moscow, fixedNow)
	assert.ErrorIs(t, err, ErrNotRecognized)
}

func TestParse_RelativeOutOfRange(t *testing.T) {
	p := rulesOnly()
	for _, in := range []string{
		"через 3000000 часов",
		"через 99999999999999999999 минут",
		"через 200000000 минут",
		"через 1ч 99999999999999999999м",
		"через 9999999999999 дней",
		"через 3000000 дней",
		"через 99999999999 недель",
		"через 500000 недель",
	} {
		_, err := p.Parse(in, moscow, fixedNow)
		assert.ErrorIs(t, err, ErrNotRecognized, "input %q", in)
	}
}

func TestParse_RelativeLargeButValid(t *testing.T) {
	p := rulesOnly()

	r := mustParse(t, p, "через 2000000 часов")
	assert.True(t, r.Time.Equal(fixedNow.Add(2000000*time.Hour)), "got %s", r.Time)

	r = mustParse(t, p, "через 2000000 дней")
	assert.Equal(t, fixedNow.AddDate(0, 0, 2000000).Format("2006-01-02"), r.Time.Format("2006-01-02"))
	assert.LessOrEqual(t, r.Time.Year(), 9999)
}

func TestParse_RelativeKeepsSeconds(t *testing.T) {
	p := rulesOnly()
	now := time.Date(2025, 6, 10, 14, 3, 37, 250_000_000, moscow)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"через 2 часа", now.Add(2 * time.Hour)},
		{"через 1ч 30м", now.Add(90 * time.Minute)},
		{"через полчаса", now.Add(30 * time.Minute)},
		{"через пять минут", now.Add(5 * time.Minute)},
		{"через 3 дня", now.AddDate(0, 0, 3)},
	}
	for _, tt := range tests {
		r, err := p.Parse(tt.input, moscow, now)
		require.NoError(t, err, tt.input)
		assert.True(t, r.Time.Equal(tt.want), "%s: got %s", tt.input, r.Time)
		assert.Equal(t, 37, r.Time.Second(), tt.input)
	}
}

func TestParse_NamedDays(t *testing.T) {
	p := rulesOnly()

	tests := []struct {
		input    string
		want     string
		wantTime bool
	}{
		{"сегодня 18:00", "2025-06-10 18:00", true},
		{"завтра 09:00", "2025-06-11 09:00", true},
		{"послезавтра 12:00", "2025-06-12 12:00", true},
		{"завтра", "2025-06-11 14:00", false},
		{"Завтра вечером", "2025-06-11 19:00", true},
		{"завтра утром", "2025-06-11 09:00", true},
		{"завтра днём", "2025-06-11 14:00", true},
		{"завтра ночью", "2025-06-11 23:00", true},
		{"завтра 18:45", "2025-06-11 18:45", true},
		{"завтра в 9 утра", "2025-06-11 09:00", true},
		{"послезавтра в 5", "2025-06-12 17:00", true},
		{"завтра непонятно", "2025-06-11 14:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := mustParse(t, p, tt.input)
			assert.Equal(t, tt.want, r.Time.Format("2006-01-02 15:04"))
			assert.Equal(t, 0, r.Time.Second())
			assert.True(t, r.HasDate)
			assert.Equal(t, tt.wantTime, r.HasTime)
		})
	}
}

func TestParse_Weekdays(t *testing.T) {
	p := rulesOnly()

	tests := []struct {
		input string
		want  string
	}{
		{"в субботу", "2025-06-14"},
		{"в эту субботу", "2025-06-14"},
		{"в следующую субботу", "2025-06-21"},
		{"в пн", "2025-06-16"},
		{"в среду", "2025-06-11"},
		{"в воскресенье", "2025-06-15"},
		{"вторник", "2025-06-17"},
		{"в этот вторник", "2025-06-10"},
		{"в следующий вторник", "2025-06-17"},
		{"пт", "2025-06-13"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := mustParse(t, p, tt.input)
			assert.Equal(t, tt.want+" 00:00", r.Time.Format("2006-01-02 15:04"))
			assert.True(t, r.HasDate)
			assert.False(t, r.HasTime)
		})
	}
}

func TestParse_WeekdayWithTime(t *testing.T) {
	p := rulesOnly()

	tests := []struct {
		input string
		want  string
	}{
		{"в субботу в 18:30", "2025-06-14 18:30"},
		{"в субботу 18:00", "2025-06-14 18:00"},
		{"в субботу 18 30", "2025-06-14 18:30"},
		{"в пятницу вечером", "2025-06-13 19:00"},
		{"в следующую субботу в 10:00", "2025-06-21 10:00"},
		{"в эту среду в 4", "2025-06-11 16:00"},
		{"пн 9 утра", "2025-06-16 09:00"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := mustParse(t, p, tt.input)
			assert.Equal(t, tt.want, r.Time.Format("2006-01-02 15:04"))
			assert.True(t, r.HasDate)
			assert.True(t, r.HasTime)
		})
	}
}

func TestParse_WeekdayWithBadTimeFallsBackToDateOnly(t *testing.T) {
	r := mustParse(t, rulesOnly(), "в субботу в 25:00")
	assert.Equal(t, "2025-06-14 00:00", r.Time.Format("2006-01-02 15:04"))
	assert.True(t, r.HasDate)
	assert.False(t, r.HasTime)
}

func TestParse_TimeOnly(t *testing.T) {
	p := rulesOnly()

	tests := []struct {
		input string
		want  string
	}{
		{"18:15", "18:15"},
		{"в 18:15", "18:15"},
		{"18 15", "18:15"},
		{"в 18 15", "18:15"},
		{"в 4", "16:00"},
		{"вечером", "19:00"},
		{"7 утра", "07:00"},
		{"0", "00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := mustParse(t, p, tt.input)
			assert.Equal(t, "2025-06-10 "+tt.want, r.Time.Format("2006-01-02 15:04"))
			assert.False(t, r.HasDate)
			assert.True(t, r.HasTime)
		})
	}
}

func TestParse_NotRecognized(t *testing.T) {
	p := rulesOnly()

	for _, in := range []string{"", "   ", "в 18:75", "в 25:00", "в 18:60", "18:75", "25:00", "абвгдежз"} {
		_, err := p.Parse(in, moscow, fixedNow)
		assert.ErrorIs(t, err, ErrNotRecognized, "input %q", in)
	}
}

func TestParse_Deterministic(t *testing.T) {
	p := New()
	for _, in := range []string{"завтра 18:00", "через 2 часа", "в субботу", "25.12"} {
		a, errA := p.Parse(in, moscow, fixedNow)
		b, errB := p.Parse(in, moscow, fixedNow)
		require.NoError(t, errA)
		require.NoError(t, errB)
		assert.Equal(t, a, b)
	}
}

func TestParse_UsesCallerLocation(t *testing.T) {
	vlad, err := time.LoadLocation("Asia/Vladivostok")
	require.NoError(t, err)

	r, err := rulesOnly().Parse("18:00", vlad, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, vlad, r.Time.Location())
	// 14:00 in Moscow is 21:00 in Vladivostok, still June 10.
	assert.Equal(t, "2025-06-10 18:00", r.Time.Format("2006-01-02 15:04"))
}

type recordingResolver struct {
	name   string
	result *Result
	calls  int
}

func (r *recordingResolver) Name() string { return r.name }

func (r *recordingResolver) Resolve(string, time.Time, *time.Location) (Result, bool) {
	r.calls++
	if r.result == nil {
		return Result{}, false
	}
	return *r.result, true
}

type stubFallback struct {
	at    time.Time
	ok    bool
	calls int
	got   Settings
}

func (f *stubFallback) Parse(_ string, _ time.Time, s Settings) (time.Time, bool) {
	f.calls++
	f.got = s
	return f.at, f.ok
}

func TestParse_FirstMatchWins(t *testing.T) {
	first := &recordingResolver{name: "first"}
	second := &recordingResolver{name: "second", result: &Result{Time: fixedNow, HasDate: true}}
	third := &recordingResolver{name: "third", result: &Result{Time: fixedNow.Add(time.Hour)}}
	fb := &stubFallback{ok: true}

	p := New(WithResolvers(first, second, third), WithFallback(fb))
	r, err := p.Parse("что угодно", moscow, fixedNow)
	require.NoError(t, err)

	assert.True(t, r.Time.Equal(fixedNow))
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, 0, third.calls)
	assert.Equal(t, 0, fb.calls)
}

func TestParse_FallbackSettingsAndFlags(t *testing.T) {
	at := time.Date(2025, 8, 1, 10, 30, 0, 0, time.UTC)
	fb := &stubFallback{at: at, ok: true}
	p := New(WithResolvers(), WithFallback(fb))

	r, err := p.Parse("первого августа 10:30", moscow, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, Settings{Locale: LocaleRU, Location: moscow, PreferFuture: true, DateOrder: OrderDMY}, fb.got)
	assert.True(t, r.Time.Equal(at))
	assert.Equal(t, moscow, r.Time.Location())
	assert.True(t, r.HasDate)
	assert.True(t, r.HasTime)

	r, err = p.Parse("первого августа", moscow, fixedNow)
	require.NoError(t, err)
	assert.False(t, r.HasTime)

	fb.ok = false
	_, err = p.Parse("первого августа", moscow, fixedNow)
	assert.ErrorIs(t, err, ErrNotRecognized)
}

func TestParse_FallbackOutOfRangeYearDeclines(t *testing.T) {
	for _, at := range []time.Time{
		time.Date(10000, 1, 1, 0, 0, 0, 0, moscow),
		time.Date(0, 12, 31, 0, 0, 0, 0, moscow),
	} {
		fb := &stubFallback{at: at, ok: true}
		_, err := New(WithResolvers(), WithFallback(fb)).Parse("когда-нибудь", moscow, fixedNow)
		assert.ErrorIs(t, err, ErrNotRecognized, "year %d", at.Year())
	}
}

func TestParse_EmptyTextSkipsFallback(t *testing.T) {
	fb := &stubFallback{ok: true}
	_, err := New(WithFallback(fb)).Parse("  ", moscow, fixedNow)
	assert.ErrorIs(t, err, ErrNotRecognized)
	assert.Equal(t, 0, fb.calls)
}

func TestParse_ConcurrentUse(t *testing.T) {
	p := New()
	done := make(chan Result, 16)
	for i := 0; i < cap(done); i++ {
		go func() {
			r, _ := p.Parse("в следующую субботу в 10:00", moscow, fixedNow)
			done <- r
		}()
	}
	for i := 0; i < cap(done); i++ {
		r := <-done
		assert.Equal(t, "2025-06-21 10:00", r.Time.Format("2006-01-02 15:04"))
	}
}
