package timeline

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// Entry pairs an item with the date it sorts by.
type Entry struct {
	Item Item
	Date time.Time
	// Parsed is false when Date came from the "now" fallback.
	Parsed bool
}

// Normalizer derives dates and orders items. The zero value uses
// time.Now and keeps unparseable periods at the top.
type Normalizer struct {
	// Now is the clock used for unparseable periods.
	Now func() time.Time
	// Strict sorts unparseable entries after every dated one instead of
	// treating them as current.
	Strict bool
}

func (n Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

// DeriveDate returns the sort date of item. An explicit item.Date wins.
// Otherwise the text before the first "-" of the period is read as
// MM/YYYY and mapped to the first day of that month in UTC. Anything
// else falls back to the current time.
func (n Normalizer) DeriveDate(item Item) Entry {
	if item.Date != nil {
		return Entry{Item: item, Date: *item.Date, Parsed: true}
	}
	if date, ok := ParsePeriodStart(item.Period); ok {
		return Entry{Item: item, Date: date, Parsed: true}
	}
	return Entry{Item: item, Date: n.now()}
}

// ParsePeriodStart reads the MM/YYYY start of a period such as
// "07/2023 - 10/2023". The year must have four digits. Months outside
// 1..12 roll over like calendar arithmetic does.
func ParsePeriodStart(period string) (time.Time, bool) {
	start, _, _ := strings.Cut(period, "-")
	parts := strings.Split(strings.TrimSpace(start), "/")
	if len(parts) < 2 {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, false
	}
	yearText := strings.TrimSpace(parts[1])
	if !isYear(yearText) {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
}

// isYear reports whether s is a four-digit year.
func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SortDescending returns new entries ordered newest first. Items with
// equal dates keep their input order. items is not modified.
func (n Normalizer) SortDescending(items []Item) []Entry {
	entries := make([]Entry, len(items))
	for i, item := range items {
		entries[i] = n.DeriveDate(item)
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		if n.Strict && a.Parsed != b.Parsed {
			if a.Parsed {
				return -1
			}
			return 1
		}
		return b.Date.Compare(a.Date)
	})
	return entries
}

// Items strips the dates from entries.
func Items(entries []Entry) []Item {
	out := make([]Item, len(entries))
	for i, e := range entries {
		out[i] = e.Item
	}
	return out
}
