package models

import "time"

type WorkingHours struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	StylistID uint `gorm:"uniqueIndex:ux_working_hours_stylist_weekday" json:"stylist_id"`

	// 0 = Sunday
	Weekday int `gorm:"uniqueIndex:ux_working_hours_stylist_weekday" json:"weekday"`

	StartTime  string `gorm:"size:5" json:"start_time"`
	EndTime    string `gorm:"size:5" json:"end_time"`
	LunchStart string `gorm:"size:5" json:"lunch_start"`
	LunchEnd   string `gorm:"size:5" json:"lunch_end"`
	Active     bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AvailabilityOverride replaces the weekly row for one calendar date.
type AvailabilityOverride struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StylistID uint      `gorm:"uniqueIndex:ux_override_stylist_date" json:"stylist_id"`
	Date      time.Time `gorm:"type:date;uniqueIndex:ux_override_stylist_date" json:"date"`

	Available bool   `json:"available"`
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	Reason    string `gorm:"size:100" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
