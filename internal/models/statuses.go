package models

// RowStatus is the lifecycle tag of one imported transaction row.
type RowStatus string

const (
	RowStatusNew       RowStatus = "new"
	RowStatusPartial   RowStatus = "partial"
	RowStatusMatched   RowStatus = "matched"
	RowStatusDuplicate RowStatus = "duplicate"
	RowStatusApproved  RowStatus = "approved"
	RowStatusRejected  RowStatus = "rejected"
	RowStatusSplit     RowStatus = "split"
)

// Terminal reports whether the row can no longer be edited or re-matched.
func (s RowStatus) Terminal() bool {
	switch s {
	case RowStatusApproved, RowStatusRejected, RowStatusSplit:
		return true
	}
	return false
}

type BatchStatus string

const (
	BatchStatusProcessing BatchStatus = "processing"
	BatchStatusReady      BatchStatus = "ready"
	BatchStatusCompleted  BatchStatus = "completed"
	BatchStatusCancelled  BatchStatus = "cancelled"
)

// Confidence is the qualitative trust level of an automatic match.
type Confidence string

const (
	ConfidenceNone   Confidence = "none"
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Ledger entry kinds referenced from approved import rows.
const (
	LedgerKindSponsorPayment  = "sponsor_payment"
	LedgerKindVoucherPurchase = "voucher_purchase"
)
