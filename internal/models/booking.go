package models

import "time"

// CustomerInfo is the contact data copied onto bookings, rules and
// waitlist entries.
type CustomerInfo struct {
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:100;not null;index" json:"email"`
	Phone    string `gorm:"size:20;not null" json:"phone"`
	Location string `gorm:"size:200" json:"location"`
	Gender   string `gorm:"size:20" json:"gender"`
	Age      int    `json:"age"`
}

// ServiceSnapshot is written once, when the booking is created.
type ServiceSnapshot struct {
	Name        string  `gorm:"size:100" json:"name"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"`
	Description string  `gorm:"size:500" json:"description"`
}

type StylistSnapshot struct {
	Name       string `gorm:"size:100" json:"name"`
	Title      string `gorm:"size:50" json:"title"`
	Experience int    `json:"experience"`
}

type Review struct {
	Rating  *int       `json:"rating"`
	Comment string     `gorm:"size:500" json:"comment"`
	Date    *time.Time `json:"date"`
}

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID *uint        `gorm:"index" json:"customer_id,omitempty"`
	Customer   CustomerInfo `gorm:"embedded;embeddedPrefix:customer_" json:"customer_info"`

	ServiceID       uint            `gorm:"not null;index" json:"service_id"`
	ServiceSnapshot ServiceSnapshot `gorm:"embedded;embeddedPrefix:service_" json:"service_snapshot"`

	StylistID       uint            `gorm:"not null;index:idx_bookings_stylist_date,priority:1" json:"stylist_id"`
	StylistSnapshot StylistSnapshot `gorm:"embedded;embeddedPrefix:stylist_" json:"stylist_snapshot"`

	Date time.Time `gorm:"type:date;not null;index:idx_bookings_stylist_date,priority:2" json:"date"`
	Time string    `gorm:"size:5;not null" json:"time"`

	Status string `gorm:"size:20;not null;index" json:"status"`
	Notes  string `gorm:"size:500" json:"notes"`

	PaymentMethod string  `gorm:"size:20;default:'pending'" json:"payment_method"`
	PaymentStatus string  `gorm:"size:20;default:'pending'" json:"payment_status"`
	TotalAmount   float64 `json:"total_amount"`

	ConfirmationCode string `gorm:"size:12;uniqueIndex;not null" json:"confirmation_code"`

	Review Review `gorm:"embedded;embeddedPrefix:review_" json:"review"`

	CancellationReason string     `gorm:"size:500" json:"cancellation_reason,omitempty"`
	CancelledBy        string     `gorm:"size:20" json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Source string `gorm:"size:20;default:'website'" json:"source"`

	RecurringBookingID *uint `gorm:"index" json:"recurring_booking_id,omitempty"`
	WaitlistEntryID    *uint `json:"waitlist_entry_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
