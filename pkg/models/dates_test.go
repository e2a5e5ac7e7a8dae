package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDatePath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1660/01/01", DatePath(Date(1660, time.January, 1)))
	assert.Equal(t, "1669/05/31", DatePath(Date(1669, time.May, 31)))
}

func TestParseDatePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		year, month, day string
		expected         time.Time
		ok               bool
	}{
		{"valid", "1660", "01", "01", Date(1660, time.January, 1), true},
		{"unpadded", "1660", "1", "1", Date(1660, time.January, 1), true},
		{"leap day", "1664", "02", "29", Date(1664, time.February, 29), true},
		{"not a leap year", "1663", "02", "29", time.Time{}, false},
		{"month out of range", "1660", "13", "01", time.Time{}, false},
		{"day zero", "1660", "01", "00", time.Time{}, false},
		{"not a number", "1660", "jan", "01", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDatePath(tt.year, tt.month, tt.day)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}
