package models

import (
	"time"

	"gorm.io/datatypes"
)

type RecurrencePattern struct {
	Type       string                   `gorm:"size:10;not null" json:"type"`
	Interval   int                      `gorm:"default:1" json:"interval"`
	DaysOfWeek datatypes.JSONSlice[int] `json:"days_of_week"`
	DayOfMonth int                      `json:"day_of_month,omitempty"`
}

type GeneratedOccurrence struct {
	BookingID     *uint     `json:"booking_id,omitempty"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Status        string    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type RecurrenceException struct {
	Date           time.Time  `json:"date"`
	Reason         string     `json:"reason"`
	Action         string     `json:"action"`
	RescheduleDate *time.Time `json:"reschedule_date,omitempty"`
	RescheduleTime string     `json:"reschedule_time,omitempty"`
}

type RecurringBooking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID uint         `gorm:"not null;index" json:"customer_id"`
	Customer   CustomerInfo `gorm:"embedded;embeddedPrefix:customer_" json:"customer_info"`

	ServiceID uint  `gorm:"not null" json:"service_id"`
	StylistID *uint `json:"stylist_id,omitempty"`

	Title       string `gorm:"size:100" json:"title"`
	Description string `gorm:"size:500" json:"description"`

	Pattern RecurrencePattern `gorm:"embedded;embeddedPrefix:pattern_" json:"pattern"`

	StartDate      time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate        *time.Time `gorm:"type:date" json:"end_date,omitempty"`
	Time           string     `gorm:"size:5;not null" json:"time"`
	Duration       int        `gorm:"not null" json:"duration"`
	MaxOccurrences int        `json:"max_occurrences,omitempty"`

	Status      string `gorm:"size:20;not null;index:idx_recurring_due,priority:1" json:"status"`
	AutoConfirm bool   `json:"auto_confirm"`

	GeneratedBookings datatypes.JSONSlice[GeneratedOccurrence] `json:"generated_bookings"`
	Exceptions        datatypes.JSONSlice[RecurrenceException] `json:"exceptions"`

	NextOccurrence       *time.Time `gorm:"type:date;index:idx_recurring_due,priority:2" json:"next_occurrence,omitempty"`
	TotalOccurrences     int        `json:"total_occurrences"`
	CompletedOccurrences int        `json:"completed_occurrences"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
