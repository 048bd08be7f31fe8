package streak_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/ezexam/internal/streak"
)

func date(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func TestUpdate(t *testing.T) {
	d := date(2024, time.March, 10, 9)

	tests := []struct {
		name         string
		current      int
		last         *time.Time
		now          time.Time
		wantStreak   int
		wantIncrease bool
	}{
		{"never active", 0, nil, d, 1, true},
		{"same day", 4, ptr(d), d.Add(10 * time.Hour), 4, false},
		{"next day", 4, ptr(d), d.AddDate(0, 0, 1), 5, true},
		{"next day just after midnight", 2, ptr(date(2024, time.March, 10, 23)), date(2024, time.March, 11, 0), 3, true},
		{"five day gap", 9, ptr(d), d.AddDate(0, 0, 5), 1, true},
		{"two day gap", 9, ptr(d), d.AddDate(0, 0, 2), 1, true},
		{"clock went backwards", 3, ptr(d), d.AddDate(0, 0, -1), 1, true},
		{"month boundary", 6, ptr(date(2024, time.January, 31, 12)), date(2024, time.February, 1, 8), 7, true},
		{"leap day", 1, ptr(date(2024, time.February, 28, 12)), date(2024, time.February, 29, 8), 2, true},
		{"year boundary", 30, ptr(date(2023, time.December, 31, 20)), date(2024, time.January, 1, 1), 31, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, increased := streak.Update(tt.current, tt.last, tt.now, time.UTC)
			assert.Equal(t, tt.wantStreak, got)
			assert.Equal(t, tt.wantIncrease, increased)
		})
	}
}

func TestUpdate_NormalizesTimezoneBeforeComparing(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)

	// 03:00 UTC on the 11th is still the 10th in UTC-5.
	last := date(2024, time.March, 10, 15)
	now := date(2024, time.March, 11, 3)

	got, increased := streak.Update(2, &last, now, loc)
	assert.Equal(t, 2, got)
	assert.False(t, increased)

	got, increased = streak.Update(2, &last, now, time.UTC)
	assert.Equal(t, 3, got)
	assert.True(t, increased)
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	got := streak.Day(date(2024, time.March, 10, 20), loc)
	assert.Equal(t, date(2024, time.March, 11, 0), got)
	assert.Equal(t, date(2024, time.March, 10, 0), streak.Day(date(2024, time.March, 10, 20), nil))
}
