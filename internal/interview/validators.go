package interview

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alexanderramin/goalplan/internal/dayexpr"
	"github.com/alexanderramin/goalplan/internal/domain"
)

const (
	// MaxGoalLength bounds the goal description in characters.
	MaxGoalLength = 500

	// DefaultMaxSessionMinutes is the sanity ceiling for one session.
	DefaultMaxSessionMinutes = 480

	// MaxTargetYears bounds how far ahead a target date may be.
	MaxTargetYears = 10
)

// targetDateLayouts are tried in order when reading a target date.
var targetDateLayouts = []string{
	domain.DateLayout,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
}

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6, "seven": 7,
	"once": 1, "twice": 2,
}

var (
	daysPerWeekPattern = regexp.MustCompile(`^([a-z]+|\d+)(?:\s*(?:x|times|days?))?(?:\s*(?:a|per|each|/)\s*(?:week|wk))?$`)
	durationPattern    = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(m|min|mins|minute|minutes|h|hr|hrs|hour|hours)?$`)
	hourMinutePattern  = regexp.MustCompile(`^(\d+)\s*h(?:ours?|rs?)?\s*(\d+)\s*(?:m|min|mins|minutes?)?$`)
	clockPattern       = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)
)

// ValidateGoal accepts any non-empty description up to MaxGoalLength characters.
func ValidateGoal(text string) (string, error) {
	goal := strings.TrimSpace(text)
	if goal == "" {
		return "", invalid(domain.StepGoalDescription, "Please describe the goal you want to work toward.")
	}
	if utf8.RuneCountInString(goal) > MaxGoalLength {
		return "", invalid(domain.StepGoalDescription,
			fmt.Sprintf("Please keep the goal under %d characters.", MaxGoalLength))
	}
	return goal, nil
}

// ValidateTargetDate parses text as a calendar date in now's location and
// requires it to fall strictly after tomorrow and at most MaxTargetYears
// from today.
func ValidateTargetDate(text string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, invalid(domain.StepTargetDate,
			"Please enter a target date, for example 2026-12-31.")
	}

	loc := now.Location()
	var (
		target time.Time
		parsed bool
	)
	for _, layout := range targetDateLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			target, parsed = t, true
			break
		}
	}
	if !parsed {
		return time.Time{}, invalid(domain.StepTargetDate,
			fmt.Sprintf("I couldn't read %q as a date. Please use YYYY-MM-DD, for example 2026-12-31.", s))
	}

	tomorrow := startOfDay(now).AddDate(0, 0, 1)
	if !target.After(tomorrow) {
		return time.Time{}, invalid(domain.StepTargetDate,
			fmt.Sprintf("The target date must be after %s. Please pick a later date.",
				tomorrow.Format(domain.DateLayout)))
	}
	latest := startOfDay(now).AddDate(MaxTargetYears, 0, 0)
	if target.After(latest) {
		return time.Time{}, invalid(domain.StepTargetDate,
			fmt.Sprintf("That is more than %d years away. Please pick a date on or before %s.",
				MaxTargetYears, latest.Format(domain.DateLayout)))
	}
	return target, nil
}

// ValidateDaysPerWeek accepts 1 to 7, written as digits or words.
func ValidateDaysPerWeek(text string) (int, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	msg := "Please enter how many days per week you can work on this, a whole number from 1 to 7."

	m := daysPerWeekPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, invalid(domain.StepDaysPerWeek, msg)
	}
	n, ok := numberWords[m[1]]
	if !ok {
		v, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, invalid(domain.StepDaysPerWeek, msg)
		}
		n = v
	}
	if n < 1 || n > 7 {
		return 0, invalid(domain.StepDaysPerWeek, msg)
	}
	return n, nil
}

// ValidateSessionMinutes accepts a positive duration no longer than ceiling
// minutes. Bare numbers are minutes; "1.5 hours" and "1h30" also work.
func ValidateSessionMinutes(text string, ceiling int) (int, error) {
	if ceiling <= 0 {
		ceiling = DefaultMaxSessionMinutes
	}
	s := strings.ToLower(strings.TrimSpace(text))
	msg := fmt.Sprintf("Please enter a session length in minutes between 1 and %d, for example 45.", ceiling)

	var minutes float64
	if m := hourMinutePattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		minutes = float64(h*60 + mm)
	} else if m := durationPattern.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, invalid(domain.StepSessionMinutes, msg)
		}
		switch m[2] {
		case "h", "hr", "hrs", "hour", "hours":
			v *= 60
		}
		minutes = v
	} else {
		return 0, invalid(domain.StepSessionMinutes, msg)
	}

	if minutes != math.Trunc(minutes) {
		return 0, invalid(domain.StepSessionMinutes, msg)
	}
	n := int(minutes)
	if n < 1 || n > ceiling {
		return 0, invalid(domain.StepSessionMinutes, msg)
	}
	return n, nil
}

// ValidatePreferredDays resolves text through the day expression parser and
// rejects expressions that name no days.
func ValidatePreferredDays(text string) (dayexpr.Set, error) {
	days := dayexpr.Parse(text)
	if days.IsEmpty() {
		return 0, invalid(domain.StepPreferredDays,
			`I couldn't find any days in that. Try "weekdays", "mon-fri" or "Tue, Thu, Sat".`)
	}
	return days, nil
}

// ValidateTimeOfDay accepts a 24-hour H:MM / HH:MM time, normalized to HH:MM,
// or the literal "default".
func ValidateTimeOfDay(text string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == domain.TimeOfDayDefault {
		return domain.TimeOfDayDefault, nil
	}
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return "", invalid(domain.StepTimeOfDay,
			`Please enter a time in 24-hour HH:MM format, for example 18:30, or "default" for 09:00.`)
	}
	h, _ := strconv.Atoi(m[1])
	return fmt.Sprintf("%02d:%s", h, m[2]), nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
