// Package textscan runs ordered regular-expression tables over free text.
package textscan

import (
	"regexp"
	"sort"
)

// Match is one hit of a table pattern.
type Match struct {
	Text  string
	Start int
	End   int
	Rule  int // index of the pattern in the table
}

// Table is an ordered list of patterns. Earlier patterns claim text first:
// a later match overlapping an already claimed span is dropped.
type Table []*regexp.Regexp

// MustCompile builds a Table, panicking on a bad pattern.
func MustCompile(patterns ...string) Table {
	t := make(Table, len(patterns))
	for i, p := range patterns {
		t[i] = regexp.MustCompile(p)
	}
	return t
}

// FindAll returns every non-overlapping match in text order. Pattern order
// only decides which of two overlapping matches survives.
func (t Table) FindAll(text string) []Match {
	var (
		out     []Match
		claimed [][2]int
	)
	for ri, re := range t {
		for _, idx := range re.FindAllStringIndex(text, -1) {
			start, end := idx[0], idx[1]
			if overlaps(claimed, start, end) {
				continue
			}
			claimed = append(claimed, [2]int{start, end})
			out = append(out, Match{
				Text:  text[start:end],
				Start: start,
				End:   end,
				Rule:  ri,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func overlaps(spans [][2]int, start, end int) bool {
	for _, s := range spans {
		if start < s[1] && s[0] < end {
			return true
		}
	}
	return false
}
