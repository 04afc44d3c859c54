package analytics

import (
	"testing"
	"time"

	apperrors "github.com/EyeCodes/PAPI-BACKEND-sub001/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d, h, minute int) time.Time {
	return time.Date(y, m, d, h, minute, 0, 0, time.UTC)
}

func TestWindows(t *testing.T) {
	now := date(2026, time.October, 14, 15, 4)

	today := Today(now)
	assert.Equal(t, date(2026, time.October, 14, 0, 0), today.Start)
	assert.Equal(t, date(2026, time.October, 15, 0, 0), today.End)
	assert.False(t, today.Closed)

	month := ThisMonth(now)
	assert.Equal(t, date(2026, time.October, 1, 0, 0), month.Start)
	assert.Equal(t, now, month.End)
	assert.True(t, month.Closed)

	prev := PreviousMonth(now)
	assert.Equal(t, date(2026, time.September, 1, 0, 0), prev.Start)
	assert.Equal(t, month.Start, prev.End)
}

func TestPreviousMonth_AcrossYearBoundary(t *testing.T) {
	now := date(2026, time.January, 15, 9, 0)

	prev := PreviousMonth(now)
	assert.Equal(t, date(2025, time.December, 1, 0, 0), prev.Start)
	assert.Equal(t, date(2026, time.January, 1, 0, 0), prev.End)

	// January of the year before belongs to neither window.
	lastYear := date(2025, time.January, 20, 0, 0)
	assert.False(t, ThisMonth(now).Contains(lastYear))
	assert.False(t, prev.Contains(lastYear))
}

func TestWindow_Contains_NoDoubleCounting(t *testing.T) {
	now := date(2026, time.October, 14, 12, 0)
	boundary := date(2026, time.October, 1, 0, 0)

	assert.True(t, ThisMonth(now).Contains(boundary))
	assert.False(t, PreviousMonth(now).Contains(boundary))

	assert.True(t, ThisMonth(now).Contains(now))
	assert.False(t, ThisMonth(now).Contains(now.Add(time.Second)))

	assert.False(t, Today(now).Contains(date(2026, time.October, 15, 0, 0)))
	assert.True(t, Today(now).Contains(date(2026, time.October, 14, 0, 0)))
}

func TestWindow_Validate(t *testing.T) {
	start := date(2026, time.October, 1, 0, 0)

	tests := []struct {
		name    string
		window  Window
		wantErr bool
	}{
		{name: "half-open", window: Window{Start: start, End: start.Add(time.Hour)}},
		{name: "empty half-open", window: Window{Start: start, End: start}, wantErr: true},
		{name: "inverted", window: Window{Start: start, End: start.Add(-time.Hour)}, wantErr: true},
		{name: "closed instant", window: Window{Start: start, End: start, Closed: true}},
		{name: "inverted closed", window: Window{Start: start, End: start.Add(-time.Second), Closed: true}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.window.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidWindow)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestThisMonth_FirstInstantIsValid(t *testing.T) {
	now := date(2026, time.November, 1, 0, 0)
	assert.NoError(t, ThisMonth(now).Validate())
}

func TestWindowByName(t *testing.T) {
	now := date(2026, time.October, 14, 12, 0)

	w, err := WindowByName("all", now)
	require.NoError(t, err)
	assert.Nil(t, w)

	w, err = WindowByName("previous_month", now)
	require.NoError(t, err)
	assert.Equal(t, PreviousMonth(now), *w)

	_, err = WindowByName("last_decade", now)
	assert.ErrorIs(t, err, apperrors.ErrInvalidWindow)
}
