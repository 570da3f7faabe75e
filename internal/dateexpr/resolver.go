// Package dateexpr normalises textual date fragments ("tomorrow", "next
// friday", "15/01/2027", "march 5") into ISO calendar dates.
package dateexpr

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ISO is the output layout of Resolve.
const ISO = "2006-01-02"

var (
	relativeDayRe  = regexp.MustCompile(`^(today|tomorrow|yesterday)$`)
	relativeSpanRe = regexp.MustCompile(`^(next|this|last) (week|month|year)$`)
	weekdayRe      = regexp.MustCompile(`^(?:(next|this) )?(monday|tuesday|wednesday|thursday|friday|saturday|sunday)$`)
	offsetRe       = regexp.MustCompile(`^(?:in (\d+) (day|week|month)s?|(\d+) (day|week|month)s? from now)$`)
	numericRe      = regexp.MustCompile(`^(\d{1,2})([/.-])(\d{1,2})(?:([/.-])(\d{4}))?$`)
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Resolver turns date fragments into ISO dates relative to a clock.
// Relative and numeric forms are computed directly; anything else is handed
// to the natural-language parser. It is safe for concurrent use.
type Resolver struct {
	now    func() time.Time
	parser *when.Parser
}

// New builds a Resolver. A nil clock means time.Now.
func New(now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Resolver{now: now, parser: w}
}

// Resolve returns fragment as YYYY-MM-DD, or false if it cannot be read as a
// date. Failures are never errors.
func (r *Resolver) Resolve(fragment string) (string, bool) {
	f := strings.Join(strings.Fields(strings.ToLower(fragment)), " ")
	if f == "" {
		return "", false
	}
	base := r.now()
	today := time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, base.Location())

	if d, ok := resolveLocal(f, today); ok {
		return d.Format(ISO), true
	}
	if numericRe.MatchString(f) {
		// Malformed numeric dates are not worth a second opinion.
		return "", false
	}

	res, err := r.parser.Parse(f, base)
	if err != nil || res == nil {
		return "", false
	}
	return res.Time.Format(ISO), true
}

func resolveLocal(f string, today time.Time) (time.Time, bool) {
	if m := relativeDayRe.FindStringSubmatch(f); m != nil {
		switch m[1] {
		case "tomorrow":
			return today.AddDate(0, 0, 1), true
		case "yesterday":
			return today.AddDate(0, 0, -1), true
		}
		return today, true
	}

	if m := relativeSpanRe.FindStringSubmatch(f); m != nil {
		step := map[string]int{"next": 1, "this": 0, "last": -1}[m[1]]
		switch m[2] {
		case "week":
			return today.AddDate(0, 0, 7*step), true
		case "month":
			return today.AddDate(0, step, 0), true
		}
		return today.AddDate(step, 0, 0), true
	}

	if m := weekdayRe.FindStringSubmatch(f); m != nil {
		return nextWeekday(today, weekdays[m[2]], m[1] == "next"), true
	}

	if m := offsetRe.FindStringSubmatch(f); m != nil {
		n, unit := m[1], m[2]
		if n == "" {
			n, unit = m[3], m[4]
		}
		count, err := strconv.Atoi(n)
		if err != nil {
			return time.Time{}, false
		}
		switch unit {
		case "day":
			return today.AddDate(0, 0, count), true
		case "week":
			return today.AddDate(0, 0, 7*count), true
		}
		return today.AddDate(0, count, 0), true
	}

	if m := numericRe.FindStringSubmatch(f); m != nil {
		// Mixed separators ("1/2-2026") are not dates.
		if m[4] != "" && m[4] != m[2] {
			return time.Time{}, false
		}
		return dayMonthYear(m[1], m[3], m[5], today)
	}

	return time.Time{}, false
}

// nextWeekday returns the first wd on or after today, or with nextWeek set
// ("next friday") the wd of the following Monday-based week.
func nextWeekday(today time.Time, wd time.Weekday, nextWeek bool) time.Time {
	if !nextWeek {
		return today.AddDate(0, 0, (int(wd)-int(today.Weekday())+7)%7)
	}
	return today.AddDate(0, 0, 7-isoIndex(today.Weekday())+isoIndex(wd))
}

// isoIndex numbers weekdays from Monday=0 to Sunday=6.
func isoIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// dayMonthYear reads D/M[/Y]; a missing year means the current one.
func dayMonthYear(d, m, y string, today time.Time) (time.Time, bool) {
	day, err := strconv.Atoi(d)
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(m)
	if err != nil {
		return time.Time{}, false
	}
	year := today.Year()
	if y != "" {
		if year, err = strconv.Atoi(y); err != nil {
			return time.Time{}, false
		}
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, today.Location())
	// time.Date normalises 31/02 into March; reject anything that rolled over.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}
