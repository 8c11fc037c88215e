package models

import (
	"time"

	"gorm.io/datatypes"
)

type TimeWindow struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type PreferredDate struct {
	Date      time.Time    `json:"date"`
	TimeSlots []TimeWindow `json:"time_slots"`
}

type FlexibleDates struct {
	Enabled    bool                     `json:"enabled"`
	RangeStart *time.Time               `json:"range_start,omitempty"`
	RangeEnd   *time.Time               `json:"range_end,omitempty"`
	DaysOfWeek datatypes.JSONSlice[int] `json:"days_of_week"`
	Morning    bool                     `json:"morning"`
	Afternoon  bool                     `json:"afternoon"`
	Evening    bool                     `json:"evening"`
}

type NotificationPreferences struct {
	Email         bool `gorm:"default:true" json:"email"`
	SMS           bool `json:"sms"`
	InApp         bool `gorm:"default:true" json:"in_app"`
	AdvanceNotice int  `gorm:"default:24" json:"advance_notice_hours"`
}

type OfferedSlot struct {
	Date      time.Time `json:"date"`
	Time      string    `json:"time"`
	StylistID *uint     `json:"stylist_id,omitempty"`
}

type WaitlistAttempt struct {
	Date             time.Time   `json:"date"`
	Method           string      `json:"method"`
	Status           string      `json:"status"`
	Response         string      `json:"response,omitempty"`
	OfferedSlot      OfferedSlot `json:"offered_slot"`
	ResponseDeadline time.Time   `json:"response_deadline"`
}

type WaitlistEntry struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID uint         `gorm:"not null;index" json:"customer_id"`
	Customer   CustomerInfo `gorm:"embedded;embeddedPrefix:customer_" json:"customer_info"`
	Notes      string       `gorm:"size:500" json:"notes"`

	ServiceID uint  `gorm:"not null;index:idx_waitlist_group,priority:1" json:"service_id"`
	StylistID *uint `gorm:"index:idx_waitlist_group,priority:2" json:"stylist_id,omitempty"`

	PreferredDates datatypes.JSONSlice[PreferredDate] `json:"preferred_dates"`
	Flexible       FlexibleDates                      `gorm:"embedded;embeddedPrefix:flexible_" json:"flexible_dates"`

	Priority string `gorm:"size:10;not null;default:'normal'" json:"priority"`
	Status   string `gorm:"size:20;not null;index" json:"status"`

	Position           int `json:"position"`
	EstimatedWaitHours int `json:"estimated_wait_hours"`

	Notifications NotificationPreferences `gorm:"embedded;embeddedPrefix:notify_" json:"notification_preferences"`

	Attempts       datatypes.JSONSlice[WaitlistAttempt] `json:"attempts"`
	LastNotifiedAt *time.Time                           `json:"last_notified_at,omitempty"`

	BookedBookingID *uint      `json:"booked_booking_id,omitempty"`
	BookedDate      *time.Time `gorm:"type:date" json:"booked_date,omitempty"`
	BookedTime      string     `gorm:"size:5" json:"booked_time,omitempty"`

	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
