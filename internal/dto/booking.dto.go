package dto

type CustomerInfo struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required,phone"`

	Location string `json:"location" binding:"omitempty,max=200"`
	Gender   string `json:"gender" binding:"omitempty,max=20"`
	Age      int    `json:"age" binding:"omitempty,min=1,max=120"`
}

type CreateBookingRequest struct {
	Customer      CustomerInfo `json:"customer_info" binding:"required"`
	ServiceID     uint         `json:"service_id" binding:"required"`
	StylistID     uint         `json:"stylist_id" binding:"required"`
	Date          string       `json:"date" binding:"required,ymd"`
	Time          string       `json:"time" binding:"required,hhmm"`
	Notes         string       `json:"notes" binding:"max=500"`
	PaymentMethod string       `json:"payment_method"`
	Source        string       `json:"source"`
}

type UpdateBookingRequest struct {
	Date  *string `json:"date" binding:"omitempty,ymd"`
	Time  *string `json:"time" binding:"omitempty,hhmm"`
	Notes *string `json:"notes" binding:"omitempty,max=500"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=1000"`
}

type AvailabilityQuery struct {
	StylistID uint   `form:"stylistId" binding:"required"`
	Date      string `form:"date" binding:"required,ymd"`
	Time      string `form:"time" binding:"required,hhmm"`
	Duration  int    `form:"duration" binding:"required,min=5,max=480"`
}

type SlotsQuery struct {
	Date     string `form:"date" binding:"required,ymd"`
	Step     int    `form:"step" binding:"omitempty,min=5,max=120"`
	Duration int    `form:"duration" binding:"omitempty,min=5,max=480"`
}

// BookingListQuery serves both the admin listing and the caller's own
// calendar. Date wins over Year/Month, which win over the range.
type BookingListQuery struct {
	Status    string `form:"status"`
	StylistID *uint  `form:"stylistId"`
	Customer  string `form:"customerEmail" binding:"omitempty,email"`

	Date      string `form:"date" binding:"omitempty,ymd"`
	Year      int    `form:"year" binding:"omitempty,min=2000,max=2100"`
	Month     int    `form:"month" binding:"omitempty,min=1,max=12"`
	StartDate string `form:"startDate" binding:"omitempty,ymd"`
	EndDate   string `form:"endDate" binding:"omitempty,ymd"`

	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

type RejectStylistRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}
