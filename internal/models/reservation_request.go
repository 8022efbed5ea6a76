package models

import "time"

// ReservationRequest is a stored reservation enquiry from the public site.
type ReservationRequest struct {
	ID              int64      `json:"id"`
	FullName        string     `json:"fullName"`
	PhoneNumber     string     `json:"phoneNumber"`
	Email           string     `json:"email,omitempty"`
	GuestCount      int        `json:"guestCount"`
	ReservationDate string     `json:"reservationDate"` // YYYY-MM-DD
	ReservationTime string     `json:"reservationTime"` // HH:MM
	Note            string     `json:"note,omitempty"`
	Source          string     `json:"source,omitempty"`
	Locale          string     `json:"locale,omitempty"`
	Status          string     `json:"status"` // pending, confirmed, cancelled, completed
	EmailedAt       *time.Time `json:"emailedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	Version         int64      `json:"version"`
}
