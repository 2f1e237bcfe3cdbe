package timeparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"18 15", "18:15"},
		{"  в 18 15  ", "в 18:15"},
		{"завтра 9 05", "завтра 9:05"},
		{"в субботу 18 30", "в субботу 18:30"},
		{"18:15", "18:15"},
		{"25 75", "25 75"},
		{"18 60", "18 60"},
		{"2020 10", "2020 10"},
		{"через 1ч 30м", "через 1ч 30м"},
		{"  Через 2 30", "Через 2 30"},
		{"4 февраля", "4 февраля"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, in := range []string{"18 15", "в 18 15", "через 2 часа", "25.12 15 30", "завтра", "  x  "} {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_ComposesLetters(t *testing.T) {
	assert.Equal(t, "10 май", Normalize("10 ма\u0438\u0306"))
	assert.Equal(t, "10 май 9:30", Normalize("10 ма\u0438\u0306 9 30"))
}
