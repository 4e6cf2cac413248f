package utils

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// WeekdayNames maps time.Weekday ordinals (Sunday == 0) to the lowercase
// keys used by availability templates.
var WeekdayNames = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// WeekdayKey returns the availability template key for a date.
func WeekdayKey(t time.Time) string {
	return WeekdayNames[int(t.Weekday())]
}

// ToISODate returns the canonical YYYY-MM-DD key for a date.
func ToISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

// GenerateBookingWindow returns `days` consecutive calendar dates starting
// today (inclusive), at local midnight.
func GenerateBookingWindow(now time.Time, days int) []time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dates := make([]time.Time, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, today.AddDate(0, 0, i))
	}
	return dates
}

// ParseSlot parses a timeslot string into minute offsets from midnight.
// Both the compact form "0800-0830" and the display form "08:00-08:30"
// are accepted.
func ParseSlot(slot string) (start int, end int, err error) {
	parts := strings.SplitN(slot, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid timeslot %q", slot)
	}
	start, err = parseClock(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid timeslot %q: %w", slot, err)
	}
	end, err = parseClock(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid timeslot %q: %w", slot, err)
	}
	return start, end, nil
}

func parseClock(s string) (int, error) {
	s = strings.Replace(s, ":", "", 1)
	if len(s) != 4 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%02d%02d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return h*60 + m, nil
}

// FormatSlot converts a compact slot "0800-0830" into its display form
// "08:00-08:30". Already-formatted slots pass through unchanged.
func FormatSlot(slot string) string {
	parts := strings.SplitN(slot, "-", 2)
	if len(parts) != 2 {
		return slot
	}
	return formatClock(parts[0]) + "-" + formatClock(parts[1])
}

func formatClock(s string) string {
	if len(s) == 4 && !strings.Contains(s, ":") {
		return s[:2] + ":" + s[2:]
	}
	return s
}

// UnformatSlot converts a display slot "08:00-08:30" back into the compact
// stored form "0800-0830".
func UnformatSlot(slot string) string {
	return strings.ReplaceAll(slot, ":", "")
}

// SortSlots returns a chronologically sorted copy. Both slot forms are
// zero-padded, so lexicographic order equals chronological order.
func SortSlots(slots []string) []string {
	sorted := make([]string, len(slots))
	copy(sorted, slots)
	sort.Strings(sorted)
	return sorted
}

// SlotsAreConsecutive reports whether the slots, sorted by start time, form
// an unbroken chain where each slot's end equals the next slot's start.
// Empty and singleton sets are trivially consecutive.
func SlotsAreConsecutive(slots []string) bool {
	if len(slots) <= 1 {
		return true
	}
	sorted := SortSlots(slots)
	for i := 0; i < len(sorted)-1; i++ {
		_, curEnd, err := ParseSlot(sorted[i])
		if err != nil {
			return false
		}
		nextStart, _, err := ParseSlot(sorted[i+1])
		if err != nil {
			return false
		}
		if curEnd != nextStart {
			return false
		}
	}
	return true
}
