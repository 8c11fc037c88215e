package dto

type RecurrencePattern struct {
	Type       string `json:"type" binding:"required,oneof=daily weekly monthly"`
	Interval   int    `json:"interval" binding:"omitempty,min=1,max=12"`
	DaysOfWeek []int  `json:"days_of_week" binding:"omitempty,dive,min=0,max=6"`
	DayOfMonth int    `json:"day_of_month" binding:"omitempty,min=1,max=31"`
}

type CreateRecurringRequest struct {
	Customer       CustomerInfo      `json:"customer_info" binding:"required"`
	ServiceID      uint              `json:"service_id" binding:"required"`
	StylistID      *uint             `json:"stylist_id"`
	Title          string            `json:"title" binding:"max=100"`
	Description    string            `json:"description" binding:"max=500"`
	Pattern        RecurrencePattern `json:"pattern" binding:"required"`
	StartDate      string            `json:"start_date" binding:"required,ymd"`
	EndDate        *string           `json:"end_date" binding:"omitempty,ymd"`
	Time           string            `json:"time" binding:"required,hhmm"`
	Duration       int               `json:"duration" binding:"omitempty,min=5,max=480"`
	MaxOccurrences int               `json:"max_occurrences" binding:"omitempty,min=1"`
	AutoConfirm    bool              `json:"auto_confirm"`
}

type ExceptionRequest struct {
	Date           string  `json:"date" binding:"required,ymd"`
	Reason         string  `json:"reason" binding:"max=200"`
	Action         string  `json:"action" binding:"required,oneof=skip reschedule"`
	RescheduleDate *string `json:"reschedule_date" binding:"omitempty,ymd"`
	RescheduleTime string  `json:"reschedule_time" binding:"omitempty,hhmm"`
}
