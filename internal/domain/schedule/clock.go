package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var hhmm = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Clock is a wall-clock time of day in minutes since midnight.
type Clock int

func ValidClock(s string) bool {
	return hhmm.MatchString(s)
}

func ParseClock(s string) (Clock, error) {
	if !hhmm.MatchString(s) {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}

	hs, ms, _ := strings.Cut(s, ":")
	h, _ := strconv.Atoi(hs)
	m, _ := strconv.Atoi(ms)
	return Clock(h*60 + m), nil
}

// MustClock is for literals in tests and defaults.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// On places the clock on the calendar day of d, in d's location.
func (c Clock) On(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), int(c)/60, int(c)%60, 0, 0, d.Location())
}
