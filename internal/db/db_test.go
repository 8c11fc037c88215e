package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotIndexDDL(t *testing.T) {
	assert.Equal(t,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_bookings_stylist_slot ON bookings (stylist_id, date, time) WHERE status NOT IN ('cancelled', 'no-show')`,
		slotIndexDDL(),
	)
}
