package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	ok := map[string]Duration{
		"01:00:00": 60,
		"1:30":     90,
		"02:00:00": 120,
		"2.5h":     150,
		"180m":     180,
		"1.5":      90,
		" 3 ":      180,
	}
	for in, want := range ok {
		got, err := ParseDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "45m", "0.5", "4h", "01:15:00", "abc", "1:2:3:4"} {
		_, err := ParseDuration(in)
		assert.Error(t, err, in)
	}
}

func TestDurationRendering(t *testing.T) {
	assert.Equal(t, "01:30:00", Duration(90).Wire())
	assert.Equal(t, "03:00:00", Duration(180).Wire())
	assert.Equal(t, "1.5h", Duration(90).Label())
	assert.Equal(t, "2h", Duration(120).Label())
}

func TestParseRoomType(t *testing.T) {
	for _, in := range []string{"TABLE", "table", " Table "} {
		got, err := ParseRoomType(in)
		require.NoError(t, err)
		assert.Equal(t, RoomTypeTable, got)
	}
	for _, in := range []string{"KARAOKE_ROOM", "Karaoke Room", "karaoke-room", "karaoke"} {
		got, err := ParseRoomType(in)
		require.NoError(t, err)
		assert.Equal(t, RoomTypeKaraoke, got)
	}
	_, err := ParseRoomType("booth")
	assert.Error(t, err)
}

func TestParseStatusAnyCase(t *testing.T) {
	got, err := ParseStatus("Confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got)

	_, err = ParseStatus("done")
	assert.Error(t, err)
}

func TestDateAndClock(t *testing.T) {
	d, err := ParseDate("2030-01-02")
	require.NoError(t, err)
	assert.Equal(t, "2030-01-02", d.String())
	assert.True(t, d.Before(Date{Year: 2030, Month: 1, Day: 3}))
	assert.False(t, d.Before(d))

	_, err = ParseDate("02/01/2030")
	assert.Error(t, err)

	c, err := ParseClock("19:30")
	require.NoError(t, err)
	assert.Equal(t, "19:30:00", c.String())

	_, err = ParseClock("7pm")
	assert.Error(t, err)
}
