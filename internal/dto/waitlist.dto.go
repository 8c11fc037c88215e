package dto

type TimeWindow struct {
	StartTime string `json:"start_time" binding:"required,hhmm"`
	EndTime   string `json:"end_time" binding:"required,hhmm"`
}

type PreferredDate struct {
	Date      string       `json:"date" binding:"required,ymd"`
	TimeSlots []TimeWindow `json:"time_slots" binding:"omitempty,dive"`
}

type FlexibleDates struct {
	Enabled    bool    `json:"enabled"`
	RangeStart *string `json:"range_start" binding:"omitempty,ymd"`
	RangeEnd   *string `json:"range_end" binding:"omitempty,ymd"`
	DaysOfWeek []int   `json:"days_of_week" binding:"omitempty,dive,min=0,max=6"`
	Morning    bool    `json:"morning"`
	Afternoon  bool    `json:"afternoon"`
	Evening    bool    `json:"evening"`
}

type NotificationPreferences struct {
	Email         bool `json:"email"`
	SMS           bool `json:"sms"`
	InApp         bool `json:"in_app"`
	AdvanceNotice int  `json:"advance_notice_hours" binding:"min=0,max=168"`
}

type AddWaitlistRequest struct {
	Customer       CustomerInfo             `json:"customer_info" binding:"required"`
	CustomerID     uint                     `json:"customer_id"`
	ServiceID      uint                     `json:"service_id" binding:"required"`
	StylistID      *uint                    `json:"stylist_id"`
	Notes          string                   `json:"notes" binding:"max=500"`
	PreferredDates []PreferredDate          `json:"preferred_dates" binding:"omitempty,dive"`
	Flexible       FlexibleDates            `json:"flexible_dates"`
	Priority       string                   `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	Notifications  *NotificationPreferences `json:"notification_preferences"`
}

type OfferSlotRequest struct {
	ServiceID uint   `json:"service_id" binding:"required"`
	StylistID uint   `json:"stylist_id" binding:"required"`
	Date      string `json:"date" binding:"required,ymd"`
	Time      string `json:"time" binding:"required,hhmm"`
}
