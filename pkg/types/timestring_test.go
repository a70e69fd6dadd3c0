package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", ts.String())

	for _, bad := range []string{"", "9:30:00", "25:00", "09:65", "garbage"} {
		_, err := NewTimeStringFromString(bad)
		assert.ErrorIs(t, err, ErrInvalidTimeString, bad)
	}
}

func TestMinutes(t *testing.T) {
	minutes, err := TimeString("10:45").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 645, minutes)

	minutes, err = TimeString("00:00").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 0, minutes)

	_, err = TimeString("bad").Minutes()
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestAddMinutes(t *testing.T) {
	ts, err := TimeString("10:00").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, "11:30", ts.String())

	// Переход через полночь обрезается по модулю суток
	ts, err = TimeString("23:30").AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, "00:30", ts.String())
}

func TestCompare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("17:00"))
	assert.False(t, TimeString("17:00").IsBefore("09:00"))
	assert.True(t, TimeString("17:00").IsAfter("09:00"))
	assert.False(t, TimeString("09:00").IsAfter("09:00"))
}

func TestScan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("12:15"))
	assert.Equal(t, "12:15", ts.String())

	require.NoError(t, ts.Scan([]byte("08:00")))
	assert.Equal(t, "08:00", ts.String())

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestValue(t *testing.T) {
	v, err := TimeString("14:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "14:00", v)
}
