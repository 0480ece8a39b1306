package cell

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSerialToTime(t *testing.T) {
	tests := []struct {
		serial float64
		want   time.Time
	}{
		{1, date(1900, 1, 1)},
		{31, date(1900, 1, 31)},
		{59, date(1900, 2, 28)},
		{60, date(1900, 3, 1)},
		{61, date(1900, 3, 1)},
		{62, date(1900, 3, 2)},
		{45292, date(2024, 1, 1)},
		{45292.5, date(2024, 1, 1).Add(12 * time.Hour)},
		{59.25, date(1900, 2, 28).Add(6 * time.Hour)},
	}
	for _, tt := range tests {
		got, err := SerialToTime(tt.serial)
		require.NoError(t, err, tt.serial)
		assert.Equal(t, tt.want, got, "serial %v", tt.serial)
	}
}

func TestSerialToTimeOutOfRange(t *testing.T) {
	for _, s := range []float64{0, 0.5, -1} {
		_, err := SerialToTime(s)
		assert.ErrorIs(t, err, ErrSerialRange, s)
	}
}

func TestTimeToSerial(t *testing.T) {
	tests := []struct {
		t    time.Time
		want float64
	}{
		{date(1900, 1, 1), 1},
		{date(1900, 2, 28), 59},
		{date(1900, 3, 1), 61},
		{date(2024, 1, 1), 45292},
		{date(2024, 1, 1).Add(18 * time.Hour), 45292.75},
	}
	for _, tt := range tests {
		got, err := TimeToSerial(tt.t)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9, tt.t.String())
	}

	_, err := TimeToSerial(date(1899, 12, 31))
	assert.ErrorIs(t, err, ErrSerialRange)
}

func TestSerialRoundTripAroundLeapBug(t *testing.T) {
	for _, d := range []time.Time{
		date(1900, 1, 1),
		date(1900, 2, 28),
		date(1900, 3, 1),
		date(1900, 3, 2),
		date(1999, 12, 31).Add(23*time.Hour + 59*time.Minute + 59*time.Second),
		date(2200, 6, 15).Add(90 * time.Minute),
	} {
		s, err := TimeToSerial(d)
		require.NoError(t, err)
		back, err := SerialToTime(s)
		require.NoError(t, err)
		assert.Equal(t, d, back)
	}

	// 60 is the phantom 1900-02-29, it must not shift later dates
	d60, err := SerialToTime(60)
	require.NoError(t, err)
	d61, err := SerialToTime(61)
	require.NoError(t, err)
	assert.Equal(t, d61, d60)
	s, err := TimeToSerial(d60)
	require.NoError(t, err)
	assert.Equal(t, float64(61), s)
}

func TestTimeToSerialUsesWallClock(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	s, err := TimeToSerial(time.Date(2024, 1, 1, 6, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.InDelta(t, 45292.25, s, 1e-9)
}
