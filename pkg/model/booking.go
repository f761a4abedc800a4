package model

import (
	"time"
)

type Booking struct {
	ID        string    `json:"id,omitempty" validate:"omitempty,mongodb"`
	EventID   string    `json:"eventId" validate:"required,mongodb"`
	Email     string    `json:"email" validate:"required,booking_email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
