package waitlist

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// Slot is a freed (date, time) that can be offered.
type Slot struct {
	Date      time.Time
	Time      string
	StylistID *uint
}

func (s Slot) Offered() models.OfferedSlot {
	return models.OfferedSlot{Date: s.Date, Time: s.Time, StylistID: s.StylistID}
}

// Matches checks the slot against the explicit preferred dates. A preferred
// date only matches inside one of its time windows. An entry with flexible
// dates enabled accepts any slot.
func Matches(e *models.WaitlistEntry, slot Slot) bool {
	if e.Flexible.Enabled {
		return true
	}

	key := timezone.DateKey(slot.Date)
	for _, pd := range e.PreferredDates {
		if timezone.DateKey(pd.Date) != key {
			continue
		}
		for _, w := range pd.TimeSlots {
			if slot.Time >= w.StartTime && slot.Time <= w.EndTime {
				return true
			}
		}
	}
	return false
}
