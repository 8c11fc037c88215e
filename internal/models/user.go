package models

import (
	"strings"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleBarber   = "barber"
	RoleAdmin    = "admin"
)

const (
	RegistrationPending  = "pending"
	RegistrationApproved = "approved"
	RegistrationRejected = "rejected"
)

// User covers customers, admins and stylists (role barber).
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FirstName    string `gorm:"size:50;not null" json:"first_name"`
	LastName     string `gorm:"size:50;not null" json:"last_name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'customer';index" json:"role"`

	Title              string `gorm:"size:50" json:"title"`
	Experience         int    `json:"experience"`
	RegistrationStatus string `gorm:"size:20;default:'pending'" json:"registration_status"`
	IsActive           bool   `gorm:"default:true" json:"is_active"`

	Rating       float64 `gorm:"default:0" json:"rating"`
	TotalReviews int     `gorm:"default:0" json:"total_reviews"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsBookableStylist reports whether customers may book this user.
func (u *User) IsBookableStylist() bool {
	return u.Role == RoleBarber &&
		u.RegistrationStatus == RegistrationApproved &&
		u.IsActive
}
