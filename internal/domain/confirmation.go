package domain

import "time"

// DateFormat is the only accepted layout for date_of_birth and
// confirmation_date, on input and on output.
const DateFormat = "2006-01-02"

// Confirmation is the domain entity for a confirmation record.
// ID and CreatedAt are assigned by the store and never change.
type Confirmation struct {
	ID               int64
	FullName         string
	DateOfBirth      time.Time
	ConfirmationDate time.Time
	ChurchName       string
	PriestName       string
	SponsorName      string
	Remarks          string
	CreatedAt        time.Time
}
