package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, Clock(570), c)
	assert.Equal(t, "09:30", c.String())

	c, err = ParseClock("23:05")
	require.NoError(t, err)
	assert.Equal(t, "23:05", c.String())

	for _, bad := range []string{"24:00", "10:60", "1000", "", "ab:cd", "7:05"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestOverlaps_HalfOpen(t *testing.T) {
	existing := Span(MustClock("10:00"), 30)

	assert.True(t, Span(MustClock("10:15"), 30).Overlaps(existing))
	assert.True(t, Span(MustClock("09:45"), 30).Overlaps(existing))
	assert.True(t, Span(MustClock("09:00"), 120).Overlaps(existing))

	assert.False(t, Span(MustClock("10:30"), 30).Overlaps(existing), "touching end")
	assert.False(t, Span(MustClock("09:30"), 30).Overlaps(existing), "touching start")
}

func TestFirstConflict(t *testing.T) {
	busy := []Interval{
		Span(MustClock("09:00"), 30),
		Span(MustClock("11:00"), 60),
	}

	assert.Equal(t, -1, FirstConflict(Span(MustClock("09:30"), 90), busy))
	assert.Equal(t, 1, FirstConflict(Span(MustClock("10:30"), 45), busy))
}

func TestGenerateSlots(t *testing.T) {
	busy := []Interval{
		Span(MustClock("10:00"), 45),
		Span(MustClock("10:15"), 30),
	}

	slots := GenerateSlots(MustClock("09:00"), MustClock("12:00"), busy, 30)

	assert.Equal(t,
		[]string{"09:00", "09:30", "11:00", "11:30"},
		Strings(slots),
	)
}

func TestGenerateSlots_EmptyWindow(t *testing.T) {
	assert.Empty(t, GenerateSlots(MustClock("09:00"), MustClock("09:00"), nil, 30))
	assert.Empty(t, GenerateSlots(MustClock("10:00"), MustClock("09:00"), nil, 30))
}

func TestGenerateSlots_Restartable(t *testing.T) {
	busy := []Interval{Span(MustClock("09:30"), 30)}
	first := GenerateSlots(MustClock("09:00"), MustClock("11:00"), busy, 15)
	second := GenerateSlots(MustClock("09:00"), MustClock("11:00"), busy, 15)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"09:00", "09:15", "10:00", "10:15", "10:30", "10:45"}, Strings(first))
}

func TestDayWindow_Fits(t *testing.T) {
	lunch := Interval{Start: MustClock("12:00"), End: MustClock("13:00")}
	w := DayWindow{
		Open:  true,
		Work:  Interval{Start: MustClock("09:00"), End: MustClock("18:00")},
		Lunch: &lunch,
	}

	assert.True(t, w.Fits(Span(MustClock("09:00"), 30)))
	assert.True(t, w.Fits(Span(MustClock("11:30"), 30)))
	assert.False(t, w.Fits(Span(MustClock("11:45"), 30)), "runs into lunch")
	assert.False(t, w.Fits(Span(MustClock("17:45"), 30)), "runs past closing")
	assert.False(t, w.Fits(Span(MustClock("08:30"), 30)))
}

func TestDefaultWindow(t *testing.T) {
	assert.False(t, DefaultWindow(time.Sunday).Open)

	mon := DefaultWindow(time.Monday)
	require.True(t, mon.Open)
	assert.Equal(t, "09:00", mon.Work.Start.String())
	assert.Equal(t, "17:00", mon.Work.End.String())
}

func TestClockOn(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 14, 45, 0, 0, time.UTC), MustClock("14:45").On(day))
}
