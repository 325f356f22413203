package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentType is reference data: a named payment category such as tuition or
// meal vouchers. The matcher reads it, never writes it.
type PaymentType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex" json:"name"`
	IsVoucher bool      `json:"is_voucher"`
	Active    bool      `gorm:"index" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
