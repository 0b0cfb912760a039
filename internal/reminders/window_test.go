package reminders

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWindowSameDay(t *testing.T) {
	w, err := BuildWindow("2025-03-10", "09:00", "17:30", time.UTC)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC), w.End)
}

func TestBuildWindowWrapsPastMidnight(t *testing.T) {
	// 21:00-00:00 means the window ends at midnight the following day
	w, err := BuildWindow("2025-03-10", "21:00", "00:00", time.UTC)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), w.End)

	assert.True(t, w.Contains(time.Date(2025, 3, 10, 23, 47, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2025, 3, 10, 20, 59, 0, 0, time.UTC)))
}

func TestBuildWindowEqualTimesWrap(t *testing.T) {
	// end == start also advances end by one day
	w, err := BuildWindow("2025-03-10", "08:00", "08:00", time.UTC)
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, w.End.Sub(w.Start))
}

func TestBuildWindowLateWrapContainsNextMorning(t *testing.T) {
	w, err := BuildWindow("2025-03-10", "22:00", "01:00", time.UTC)
	require.NoError(t, err)

	// 00:15 the next day falls inside the wrapped window
	assert.True(t, w.Contains(time.Date(2025, 3, 11, 0, 15, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2025, 3, 11, 1, 1, 0, 0, time.UTC)))
}

func TestBuildWindowRejectsMalformedInput(t *testing.T) {
	cases := []struct {
		name  string
		date  string
		start string
		end   string
	}{
		{"bad date", "10-03-2025", "09:00", "17:00"},
		{"bad start hour", "2025-03-10", "25:00", "17:00"},
		{"bad end minute", "2025-03-10", "09:00", "17:99"},
		{"empty start", "2025-03-10", "", "17:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildWindow(tc.date, tc.start, tc.end, time.UTC)
			assert.Error(t, err)
		})
	}
}

func TestRandomInstantStaysInsideWindow(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	w, err := BuildWindow("2025-03-10", "09:00", "17:00", time.UTC)
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		instant := w.RandomInstant(rng)
		assert.True(t, w.Contains(instant), "instant %s outside window [%s, %s]", instant, w.Start, w.End)
	}
}

func TestRandomInstantStaysInsideWrappedWindow(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	w, err := BuildWindow("2025-03-10", "21:00", "00:00", time.UTC)
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		instant := w.RandomInstant(rng)
		assert.True(t, w.Contains(instant), "instant %s outside wrapped window", instant)
	}
}

func TestRandomInstantTruncatedToMinute(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	w, err := BuildWindow("2025-03-10", "09:00", "10:00", time.UTC)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		instant := w.RandomInstant(rng)
		assert.Zero(t, instant.Second())
		assert.Zero(t, instant.Nanosecond())
	}
}

func TestRandomInstantCoversWindow(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	w, err := BuildWindow("2025-03-10", "09:00", "09:59", time.UTC)
	require.NoError(t, err)

	minutes := make(map[int]bool)
	for i := 0; i < 5000; i++ {
		minutes[w.RandomInstant(rng).Minute()] = true
	}
	// Uniform draws over a 59-minute window should hit most minutes
	assert.Greater(t, len(minutes), 50)
}
