package matching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sponsorship-backend/internal/models"
)

func settledContext() *Context {
	ctx := newTestContext()
	ctx.Settled = SettledWindow{
		Payments: []models.SponsorPayment{
			{
				ID:       uuid.MustParse("eeeeeeee-eeee-eeee-eeee-eeeeeeeeeeee"),
				Amount:   decimal.NewFromInt(1500),
				Currency: "CZK",
				PaidAt:   date("2026-01-15"),
			},
		},
		Vouchers: []models.VoucherPurchase{
			{
				ID:          uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff"),
				TotalPrice:  decimal.NewFromInt(750),
				PurchasedAt: date("2026-01-15"),
			},
		},
	}
	return ctx
}

func TestFindDuplicateWindowSymmetry(t *testing.T) {
	ctx := settledContext()
	amount := decimal.NewFromInt(1500)

	testCases := []struct {
		name      string
		date      string
		duplicate bool
	}{
		{"SameDay", "2026-01-15", true},
		{"OneDayBefore", "2026-01-14", true},
		{"OneDayAfter", "2026-01-16", true},
		{"TwoDaysBefore", "2026-01-13", false},
		{"TwoDaysAfter", "2026-01-17", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dup := ctx.FindDuplicate(date(tc.date), amount, "CZK")
			if tc.duplicate {
				require.NotNil(t, dup)
				assert.Equal(t, models.LedgerKindSponsorPayment, dup.Kind)
			} else {
				assert.Nil(t, dup)
			}
		})
	}
}

func TestFindDuplicateRequiresExactAmount(t *testing.T) {
	ctx := settledContext()

	assert.Nil(t, ctx.FindDuplicate(date("2026-01-15"), decimal.NewFromInt(1501), "CZK"))
	assert.Nil(t, ctx.FindDuplicate(date("2026-01-15"), decimal.RequireFromString("1500.01"), "CZK"))
}

func TestFindDuplicateRequiresCurrencyForPayments(t *testing.T) {
	ctx := settledContext()

	assert.Nil(t, ctx.FindDuplicate(date("2026-01-15"), decimal.NewFromInt(1500), "EUR"))
}

func TestFindDuplicateVoucherPurchase(t *testing.T) {
	ctx := settledContext()

	dup := ctx.FindDuplicate(date("2026-01-16"), decimal.NewFromInt(750), "CZK")
	require.NotNil(t, dup)
	assert.Equal(t, models.LedgerKindVoucherPurchase, dup.Kind)
}

func TestFindDuplicatePaymentsCheckedBeforeVouchers(t *testing.T) {
	ctx := settledContext()
	// a voucher purchase with the same amount as the sponsor payment
	ctx.Settled.Vouchers = append(ctx.Settled.Vouchers, models.VoucherPurchase{
		ID:          uuid.New(),
		TotalPrice:  decimal.NewFromInt(1500),
		PurchasedAt: date("2026-01-15"),
	})

	dup := ctx.FindDuplicate(date("2026-01-15"), decimal.NewFromInt(1500), "CZK")
	require.NotNil(t, dup)
	assert.Equal(t, models.LedgerKindSponsorPayment, dup.Kind)
}
