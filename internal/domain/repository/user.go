package repository

import "context"

// UserRepository describes persistence operations for users.
type UserRepository interface {
	// UpdateIdentityNumber stores the national ID on an existing profile; it never inserts.
	UpdateIdentityNumber(ctx context.Context, userID int64, identityNumber string) error
}
