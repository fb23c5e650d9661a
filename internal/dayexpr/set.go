package dayexpr

import (
	"math/bits"
	"strings"
	"time"
)

// Set is a set of weekdays stored as a bitmask, bit n for time.Weekday(n).
// The numbering is Sunday=0 through Saturday=6.
type Set uint8

const allBits Set = 0x7f

var (
	// Weekdays is Monday through Friday.
	Weekdays = SetOf(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
	// Weekends is Saturday and Sunday.
	Weekends = SetOf(time.Saturday, time.Sunday)
	// AllDays is the full canonical week.
	AllDays = allBits
)

// SetOf builds a Set from the given days. Out-of-range values are ignored.
func SetOf(days ...time.Weekday) Set {
	var s Set
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

// With returns s with d added.
func (s Set) With(d time.Weekday) Set {
	if d < time.Sunday || d > time.Saturday {
		return s
	}
	return s | 1<<uint(d)
}

// Contains reports whether d is in the set.
func (s Set) Contains(d time.Weekday) bool {
	if d < time.Sunday || d > time.Saturday {
		return false
	}
	return s&(1<<uint(d)) != 0
}

func (s Set) Len() int      { return bits.OnesCount8(uint8(s & allBits)) }
func (s Set) IsEmpty() bool { return s&allBits == 0 }

// Days returns the members in canonical week order, Sunday first.
func (s Set) Days() []time.Weekday {
	days := make([]time.Weekday, 0, s.Len())
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

// Numbers returns the members as their numeric codes, ascending.
func (s Set) Numbers() []int {
	days := s.Days()
	nums := make([]int, len(days))
	for i, d := range days {
		nums[i] = int(d)
	}
	return nums
}

// Names returns the canonical lowercase names of the members.
func (s Set) Names() []string {
	return NumbersToNames(s.Numbers())
}

// String renders the set as "Mon, Wed, Fri".
func (s Set) String() string {
	if s.IsEmpty() {
		return "none"
	}
	days := s.Days()
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = d.String()[:3]
	}
	return strings.Join(parts, ", ")
}
