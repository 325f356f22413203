package models

import (
	"time"

	"github.com/google/uuid"
)

type Sponsor struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `gorm:"index" json:"last_name"`
	Email          string    `json:"email,omitempty"`
	VariableSymbol string    `gorm:"index" json:"variable_symbol,omitempty"`
	BankAccount    string    `gorm:"index" json:"bank_account,omitempty"`
	Active         bool      `gorm:"index" json:"active"`

	Sponsorships []Sponsorship `gorm:"foreignKey:SponsorID" json:"sponsorships,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Sponsorship links a sponsor to a student for a date range.
type Sponsorship struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SponsorID uuid.UUID  `gorm:"type:uuid;index" json:"sponsor_id"`
	StudentID uuid.UUID  `gorm:"type:uuid;index" json:"student_id"`
	Active    bool       `gorm:"index" json:"active"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}
