package dayexpr

import (
	"strings"
	"time"
)

// canonicalNames is indexed by weekday number.
var canonicalNames = [7]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// synonyms maps every accepted spelling to its weekday: full names,
// three-letter abbreviations and the informal short forms people type.
// Two-letter forms that collide with ordinary words ("we", "mo") are left out.
var synonyms = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday, "tu": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday, "weds": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday, "th": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// punctuation is stripped from the ends of tokens and whole expressions.
const punctuation = ".!?'\"()"

// lookupDay resolves a single normalized token to a weekday. Plural full
// names ("mondays") are accepted.
func lookupDay(token string) (time.Weekday, bool) {
	token = strings.Trim(token, punctuation)
	if d, ok := synonyms[token]; ok {
		return d, true
	}
	if base, ok := strings.CutSuffix(token, "s"); ok {
		if d, ok := synonyms[base]; ok && canonicalNames[d] == base {
			return d, true
		}
	}
	return 0, false
}

// NamesToNumbers converts day names to their numeric codes, keeping input
// order. Any accepted spelling resolves; unrecognized names are dropped.
func NamesToNumbers(names []string) []int {
	nums := make([]int, 0, len(names))
	for _, n := range names {
		if d, ok := lookupDay(strings.ToLower(strings.TrimSpace(n))); ok {
			nums = append(nums, int(d))
		}
	}
	return nums
}

// NumbersToNames converts numeric codes 0-6 to canonical lowercase names,
// keeping input order. Out-of-range codes are dropped.
func NumbersToNames(nums []int) []string {
	names := make([]string, 0, len(nums))
	for _, n := range nums {
		if n < 0 || n > 6 {
			continue
		}
		names = append(names, canonicalNames[n])
	}
	return names
}

// DisplayName returns the title-case name of a weekday ("Saturday").
func DisplayName(d time.Weekday) string {
	if d < time.Sunday || d > time.Saturday {
		return "Unknown"
	}
	return d.String()
}
