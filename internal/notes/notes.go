package notes

import "strings"

// Format turns raw user notes into the stored form. A lone "-" means no
// notes; a comma-separated list becomes one "— item" line per entry.
func Format(raw string) (string, bool) {
	text := strings.TrimSpace(raw)
	if text == "-" || text == "" {
		return "", false
	}
	if !strings.Contains(text, ",") {
		return text, true
	}
	var lines []string
	for _, p := range strings.Split(text, ",") {
		if p = strings.TrimSpace(p); p != "" {
			lines = append(lines, "— "+p)
		}
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}
