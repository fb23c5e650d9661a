// Package dayexpr turns free-text day-of-week expressions such as
// "mon-fri", "weekends" or "Tue, Thu, Sat" into a set of weekdays.
//
// It is the only day-name parser in the module; the interview validators,
// the schedule builder and the auditor all resolve days through it.
package dayexpr

import (
	"regexp"
	"strings"
	"time"
)

var keywords = map[string]Set{
	"weekdays":  Weekdays,
	"weekday":   Weekdays,
	"weekends":  Weekends,
	"weekend":   Weekends,
	"daily":     AllDays,
	"everyday":  AllDays,
	"every day": AllDays,
	"all week":  AllDays,
}

var (
	dashRange = regexp.MustCompile(`^([a-z]+)\s*[-–—]\s*([a-z]+)$`)
	wordRange = regexp.MustCompile(`^([a-z]+)\s+(?:through|thru|to|until)\s+([a-z]+)$`)
	spaces    = regexp.MustCompile(`\s+`)
)

// Parse resolves expr to a set of weekdays. It never fails: text it cannot
// understand yields an empty set, and callers must treat an empty result as
// invalid input.
//
// Resolution order: whole-expression keywords, then "<day>-<day>" style
// ranges, then a comma/space separated list of day names. Ranges whose start
// comes after their end wrap across the weekend ("fri-mon").
func Parse(expr string) Set {
	norm := normalize(expr)
	if norm == "" {
		return 0
	}

	if s, ok := keywords[norm]; ok {
		return s
	}

	if s, ok := parseRange(norm); ok {
		return s
	}

	return parseList(norm)
}

// normalize lowercases expr, collapses whitespace and strips punctuation
// wrapping the whole expression ("mon-fri." or "(weekends)").
func normalize(expr string) string {
	s := strings.ToLower(strings.TrimSpace(expr))
	s = strings.TrimSpace(strings.Trim(s, punctuation))
	return spaces.ReplaceAllString(s, " ")
}

func parseRange(norm string) (Set, bool) {
	m := dashRange.FindStringSubmatch(norm)
	if m == nil {
		m = wordRange.FindStringSubmatch(norm)
	}
	if m == nil {
		return 0, false
	}
	start, ok := lookupDay(m[1])
	if !ok {
		return 0, false
	}
	end, ok := lookupDay(m[2])
	if !ok {
		return 0, false
	}
	return Span(start, end), true
}

// Span returns the inclusive run of days from start to end, wrapping past
// Saturday when end comes before start.
func Span(start, end time.Weekday) Set {
	var s Set
	d := start
	for {
		s = s.With(d)
		if d == end {
			return s
		}
		d = (d + 1) % 7
	}
}

func parseList(norm string) Set {
	tokens := strings.FieldsFunc(norm, func(r rune) bool {
		switch r {
		case ',', ';', '/', '&', '+', ' ', '\t', '\n':
			return true
		}
		return false
	})

	var s Set
	for _, tok := range tokens {
		if kw, ok := keywords[tok]; ok {
			s |= kw
			continue
		}
		if d, ok := lookupDay(tok); ok {
			s = s.With(d)
		}
	}
	return s
}
