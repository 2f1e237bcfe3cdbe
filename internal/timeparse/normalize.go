package timeparse

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var reSpacedClock = regexp.MustCompile(`(^|\s)(\d{1,2})\s+(\d{2})\s*$`)

// Normalize trims text and rewrites a trailing "18 15" into "18:15".
// Relative expressions ("через ...") are only trimmed. Decomposed letters
// such as "и\u0306" are composed first so the tables match.
func Normalize(text string) string {
	t := strings.TrimSpace(norm.NFC.String(text))
	if strings.HasPrefix(strings.ToLower(t), relativeMarker) {
		return t
	}
	m := reSpacedClock.FindStringSubmatchIndex(t)
	if m == nil {
		return t
	}
	hh, mm := t[m[4]:m[5]], t[m[6]:m[7]]
	h, _ := strconv.Atoi(hh)
	mi, _ := strconv.Atoi(mm)
	if h > 23 || mi > 59 {
		return t
	}
	return t[:m[3]] + hh + ":" + mm
}
