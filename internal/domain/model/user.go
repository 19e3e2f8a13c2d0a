package model

import "time"

// User is the authenticated customer profile checkout reads and updates.
type User struct {
	ID             int64
	IdentityNumber string
	UpdatedAt      time.Time
}
