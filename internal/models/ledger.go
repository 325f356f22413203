package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SponsorPayment is a settled payment in the ledger, created only when an
// import row is approved (or entered manually elsewhere in the system).
type SponsorPayment struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SponsorID   *uuid.UUID      `gorm:"type:uuid;index" json:"sponsor_id,omitempty"`
	StudentID   uuid.UUID       `gorm:"type:uuid;index" json:"student_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);index" json:"amount"`
	Currency    string          `json:"currency"`
	PaymentType string          `json:"payment_type"`
	PaidAt      time.Time       `gorm:"index" json:"paid_at"`
	Note        string          `json:"note,omitempty"`
	ImportRowID *uuid.UUID      `gorm:"type:uuid" json:"import_row_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// VoucherPurchase is a settled meal-voucher purchase.
type VoucherPurchase struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SponsorID   *uuid.UUID      `gorm:"type:uuid;index" json:"sponsor_id,omitempty"`
	StudentID   uuid.UUID       `gorm:"type:uuid;index" json:"student_id"`
	Count       int             `json:"count"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(12,2);index" json:"total_price"`
	PurchasedAt time.Time       `gorm:"index" json:"purchased_at"`
	Note        string          `json:"note,omitempty"`
	ImportRowID *uuid.UUID      `gorm:"type:uuid" json:"import_row_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
