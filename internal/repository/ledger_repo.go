package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"sponsorship-backend/internal/models"
	"sponsorship-backend/internal/services/matching"
)

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// WithTx rebinds the repository to a running transaction.
func (r *LedgerRepository) WithTx(tx *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: tx}
}

// SettledBetween loads the settled ledger entries dated in [from, to] as the
// duplicate-detection window for one batch run.
func (r *LedgerRepository) SettledBetween(ctx context.Context, from, to time.Time) (matching.SettledWindow, error) {
	var window matching.SettledWindow

	err := r.db.WithContext(ctx).
		Where("paid_at BETWEEN ? AND ?", from, to).
		Find(&window.Payments).Error
	if err != nil {
		return window, err
	}

	err = r.db.WithContext(ctx).
		Where("purchased_at BETWEEN ? AND ?", from, to).
		Find(&window.Vouchers).Error
	return window, err
}

func (r *LedgerRepository) CreateSponsorPayment(ctx context.Context, p *models.SponsorPayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *LedgerRepository) CreateVoucherPurchase(ctx context.Context, v *models.VoucherPurchase) error {
	return r.db.WithContext(ctx).Create(v).Error
}
