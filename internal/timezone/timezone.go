package timezone

import (
	"sync/atomic"
	"time"
)

const (
	DefaultTimezone = "America/New_York"

	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04"
)

var shopTimezone atomic.Value

func init() {
	shopTimezone.Store(DefaultTimezone)
}

// SetShop changes the zone used by Now, Today and ParseDate.
func SetShop(tz string) {
	if IsValid(tz) {
		shopTimezone.Store(tz)
	}
}

func Shop() *time.Location {
	return Location(shopTimezone.Load().(string))
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Shop())
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// DateOnly keeps the calendar day carried by t and moves it to midnight in
// the shop zone. Dates read back from a `date` column arrive as UTC midnight,
// so t is not converted before truncation.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Shop())
}

func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, Shop())
}

func SameDay(a, b time.Time) bool {
	return DateKey(a) == DateKey(b)
}

func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}
