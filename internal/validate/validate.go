package validate

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reQ     = regexp.MustCompile(`^[\p{L}\p{N} _'&.,/-]{1,80}$`)
)

func Email(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Password only bounds the length; strength rules are not applied at login.
func Password(s string) bool {
	return len(s) > 0 && len(s) <= 72
}

// Q validates a search or autocomplete term. Blank is allowed and means "no filter".
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	s = clip(s, 80)
	return s, reQ.MatchString(s)
}

// ID parses a positive integer product id.
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Amount parses an optional non-negative number. Blank yields (nil, true).
func Amount(s string) (*float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil, false
	}
	return &v, true
}

// Text trims a free-form field and bounds its length.
func Text(s string, max int) string {
	s = strings.TrimSpace(s)
	if max > 0 {
		s = clip(s, max)
	}
	return s
}

// clip cuts s to at most max bytes without splitting a rune.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	i := max
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return strings.TrimSpace(s[:i])
}

// ImageURLs decodes a JSON array of URLs as sent by the admin form.
// Anything that does not decode is treated as an empty list; blanks are dropped.
func ImageURLs(raw string) []string {
	out := []string{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out
	}
	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		return out
	}
	return CleanURLs(urls)
}

func CleanURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}
