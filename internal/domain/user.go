package domain

import "time"

// User is the administrative account. There is no self-registration;
// a bootstrap admin is created on first start if the table is empty.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
