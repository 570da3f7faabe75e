// Package timeexpr normalises textual time fragments ("3pm", "around 3",
// "afternoon") into canonical 12-hour clock strings such as "3:00 PM".
package timeexpr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Anchors for named day periods.
const (
	Morning       = "9:00 AM"
	Afternoon     = "2:00 PM"
	Evening       = "6:00 PM"
	Night         = "8:00 PM"
	Noon          = "12:00 PM"
	Midnight      = "12:00 AM"
	BusinessHours = "10:00 AM"
)

type rule struct {
	name    string
	re      *regexp.Regexp
	resolve func(m []string) (string, bool)
}

// Rules are tried in order; the first pattern matching the whole fragment wins.
var defaultRules = []rule{
	{
		name:    "business-hours",
		re:      regexp.MustCompile(`^(?:(?:business|office|work) hours|9 ?to ?5|9 ?- ?5)$`),
		resolve: fixed(BusinessHours),
	},
	{
		name:    "night",
		re:      regexp.MustCompile(`^(?:late evening|night)$`),
		resolve: fixed(Night),
	},
	{
		name:    "period",
		re:      regexp.MustCompile(`^(?:(?:this|tomorrow|next|early|late) )?(morning|afternoon|evening)$`),
		resolve: period,
	},
	{
		name:    "noon-midnight",
		re:      regexp.MustCompile(`^(noon|midnight)$`),
		resolve: period,
	},
	{
		name:    "meridiem",
		re:      regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))? ?(am|pm)$`),
		resolve: meridiem,
	},
	{
		name:    "clock",
		re:      regexp.MustCompile(`^(\d{1,2}):(\d{2})$`),
		resolve: func(m []string) (string, bool) { return bareClock(m[1], m[2]) },
	},
	{
		name:    "bare-hour",
		re:      regexp.MustCompile(`^(?:(?:at|around|about) )?(\d{1,2})(?: ?ish| ?o'? ?clock)?$`),
		resolve: func(m []string) (string, bool) { return bareClock(m[1], "00") },
	},
}

// Resolver maps time fragments to canonical clock strings. It holds no
// mutable state and is safe for concurrent use.
type Resolver struct {
	rules []rule
}

func New() *Resolver {
	return &Resolver{rules: defaultRules}
}

// Resolve returns the canonical "H:MM AM|PM" form of fragment, or false when
// no rule recognises it.
func (r *Resolver) Resolve(fragment string) (string, bool) {
	f := normalise(fragment)
	if f == "" {
		return "", false
	}
	for _, rl := range r.rules {
		if m := rl.re.FindStringSubmatch(f); m != nil {
			return rl.resolve(m)
		}
	}
	return "", false
}

func normalise(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func fixed(v string) func([]string) (string, bool) {
	return func([]string) (string, bool) { return v, true }
}

func period(m []string) (string, bool) {
	switch m[1] {
	case "morning":
		return Morning, true
	case "afternoon":
		return Afternoon, true
	case "evening":
		return Evening, true
	case "noon":
		return Noon, true
	case "midnight":
		return Midnight, true
	}
	return "", false
}

// meridiem takes the hour and label literally.
func meridiem(m []string) (string, bool) {
	h, err := strconv.Atoi(m[1])
	if err != nil || h < 1 || h > 12 {
		return "", false
	}
	mm := m[2]
	if mm == "" {
		mm = "00"
	}
	if !validMinutes(mm) {
		return "", false
	}
	return format(h, mm, strings.ToUpper(m[3])), true
}

// bareClock handles an hour given without am/pm. Hours 13-23 are read as a
// 24-hour clock and 0 as midnight; 1-12 go through businessMeridiem.
func bareClock(hour, mm string) (string, bool) {
	h, err := strconv.Atoi(hour)
	if err != nil || h > 23 || !validMinutes(mm) {
		return "", false
	}
	switch {
	case h == 0:
		return format(12, mm, "AM"), true
	case h > 12:
		return format(h-12, mm, "PM"), true
	}
	return format(h, mm, businessMeridiem(h)), true
}

// businessMeridiem guesses am/pm for a bare hour, assuming meetings fall in
// business hours. The 6-11 morning range overlaps the first case, which is
// evaluated first, so every hour 1-12 comes out PM. Changing this shifts
// existing extractions; see TestResolve_BareHourOverlap.
func businessMeridiem(h int) string {
	switch {
	case h >= 5 && h <= 12:
		return "PM"
	case h >= 1 && h <= 4:
		return "PM"
	case h >= 6 && h <= 11:
		return "AM"
	}
	return "PM"
}

func validMinutes(mm string) bool {
	n, err := strconv.Atoi(mm)
	return err == nil && n >= 0 && n < 60
}

func format(h int, mm, label string) string {
	return fmt.Sprintf("%d:%s %s", h, mm, label)
}
