package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ImportRow struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BatchID uuid.UUID `gorm:"index" json:"batch_id"`

	TransactionDate time.Time       `gorm:"column:transaction_date" json:"transaction_date"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	Currency        string          `json:"currency"`
	VariableSymbol  string          `json:"variable_symbol,omitempty"`
	SenderName      string          `json:"sender_name,omitempty"`
	SenderAccount   string          `json:"sender_account,omitempty"`
	Message         string          `json:"message,omitempty"`

	// RawData keeps the original statement line for audit, untouched by
	// normalization.
	RawData datatypes.JSON `json:"raw_data,omitempty"`

	SponsorID     *uuid.UUID `gorm:"type:uuid;index" json:"sponsor_id,omitempty"`
	StudentID     *uuid.UUID `gorm:"type:uuid;index" json:"student_id,omitempty"`
	PaymentTypeID *uuid.UUID `gorm:"type:uuid" json:"payment_type_id,omitempty"`
	VoucherCount  *int       `json:"voucher_count,omitempty"`

	Status         RowStatus  `gorm:"index" json:"status"`
	Confidence     Confidence `json:"confidence"`
	MatchRationale string     `json:"match_rationale,omitempty"`

	DuplicateOfID   *uuid.UUID `gorm:"type:uuid" json:"duplicate_of_id,omitempty"`
	DuplicateOfKind string     `json:"duplicate_of_kind,omitempty"`
	ParentRowID     *uuid.UUID `gorm:"type:uuid;index" json:"parent_row_id,omitempty"`
	LedgerEntryID   *uuid.UUID `gorm:"type:uuid" json:"ledger_entry_id,omitempty"`
	LedgerEntryKind string     `json:"ledger_entry_kind,omitempty"`

	ApprovedBy string     `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
