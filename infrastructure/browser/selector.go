package browser

import (
	"strings"
)

// alternative is one branch of a selector list. Drivers without a selector
// engine of their own handle the two non-CSS forms the page objects use:
// `text=Foo` (CSS empty) and `css:has-text("Foo")`.
type alternative struct {
	CSS  string
	Text string
}

// splitSelector breaks a selector list on top level commas
func splitSelector(sel string) []alternative {
	var (
		out   []alternative
		depth int
		quote rune
		start int
	)
	flush := func(end int) {
		if part := strings.TrimSpace(sel[start:end]); part != "" {
			out = append(out, parseAlternative(part))
		}
	}
	for i, r := range sel {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(' || r == '[':
			depth++
		case r == ')' || r == ']':
			depth--
		case r == ',' && depth == 0:
			flush(i)
			start = i + 1
		}
	}
	flush(len(sel))
	return out
}

func parseAlternative(part string) alternative {
	if rest, ok := strings.CutPrefix(part, "text="); ok {
		return alternative{Text: unquote(rest)}
	}
	i := strings.Index(part, ":has-text(")
	if i < 0 {
		return alternative{CSS: part}
	}
	inner := part[i+len(":has-text("):]
	j := strings.LastIndex(inner, ")")
	if j < 0 {
		return alternative{CSS: part}
	}
	css := strings.TrimSpace(part[:i] + inner[j+1:])
	if css == "" {
		css = "*"
	}
	return alternative{CSS: css, Text: unquote(inner[:j])}
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// containsText matches the way the browser engines match has-text: case
// insensitive with whitespace collapsed
func containsText(haystack, needle string) bool {
	return strings.Contains(normalize(haystack), normalize(needle))
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// matchesFilter applies a query text filter to an element's text
func matchesFilter(text, value string, exact bool) bool {
	if exact {
		return strings.TrimSpace(text) == value
	}
	return strings.Contains(text, value)
}
