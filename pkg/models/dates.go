package models

import (
	"fmt"
	"strconv"
	"time"
)

// Date builds a UTC midnight time for a calendar date. All dated content is
// stored this way so that range queries compare like with like.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DatePath renders t as "YYYY/MM/DD", the form used in every dated URL.
func DatePath(t time.Time) string {
	return fmt.Sprintf("%04d/%02d/%02d", t.Year(), t.Month(), t.Day())
}

// ParseDatePath parses the year, month and day segments of a dated URL. ok
// is false unless they name a real calendar date.
func ParseDatePath(year, month, day string) (time.Time, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, false
	}

	t := Date(y, time.Month(m), d)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
