package matching

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sponsorship-backend/internal/models"
)

// Duplicate points at the settled ledger entry a candidate row appears to
// re-import.
type Duplicate struct {
	ID   uuid.UUID
	Kind string
	Note string
}

// FindDuplicate scans settled entries dated within one calendar day of the
// candidate for an exact amount match (and, for sponsor payments, currency).
// Sponsor payments are checked before voucher purchases; the first hit wins.
// The window is deliberately tight: it catches a re-uploaded statement without
// flagging distinct payments of different amounts.
func (c *Context) FindDuplicate(date time.Time, amount decimal.Decimal, currency string) *Duplicate {
	for i := range c.Settled.Payments {
		p := &c.Settled.Payments[i]
		if dayDiff(date, p.PaidAt) <= 1 && p.Amount.Equal(amount) && strings.EqualFold(p.Currency, currency) {
			return &Duplicate{
				ID:   p.ID,
				Kind: models.LedgerKindSponsorPayment,
				Note: fmt.Sprintf("duplicate of sponsor payment %s (%s %s paid %s)",
					p.ID, p.Amount.StringFixed(2), p.Currency, p.PaidAt.Format("2006-01-02")),
			}
		}
	}
	for i := range c.Settled.Vouchers {
		v := &c.Settled.Vouchers[i]
		if dayDiff(date, v.PurchasedAt) <= 1 && v.TotalPrice.Equal(amount) {
			return &Duplicate{
				ID:   v.ID,
				Kind: models.LedgerKindVoucherPurchase,
				Note: fmt.Sprintf("duplicate of voucher purchase %s (%s purchased %s)",
					v.ID, v.TotalPrice.StringFixed(2), v.PurchasedAt.Format("2006-01-02")),
			}
		}
	}
	return nil
}

// dayDiff compares calendar days, not 24-hour spans, so time-of-day on ledger
// entries cannot push an adjacent-day entry out of the window.
func dayDiff(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	d := int(ad.Sub(bd).Hours() / 24)
	if d < 0 {
		d = -d
	}
	return d
}
