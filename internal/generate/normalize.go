package generate

import "strings"

// MaxLines caps the number of lines in a result.
const MaxLines = 12

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

// Normalize splits model text into clean lines: bullet markers and
// surrounding whitespace are stripped, empty lines dropped, and at most
// MaxLines kept in their original order. The result is never nil.
func Normalize(text string) []string {
	lines := []string{}
	for _, raw := range strings.FieldsFunc(text, isLineBreak) {
		line := cleanLine(raw)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == MaxLines {
			break
		}
	}
	return lines
}

// cleanLine strips leading "-", "•" and "* " markers until none remain.
func cleanLine(s string) string {
	for {
		prev := s
		s = strings.TrimSpace(s)
		s = strings.TrimLeft(s, "-•")
		if strings.HasPrefix(s, "* ") {
			s = s[2:]
		}
		if s == prev {
			return s
		}
	}
}

// Join reconstructs text from normalized lines.
func Join(lines []string) string {
	return strings.Join(lines, "\n")
}
