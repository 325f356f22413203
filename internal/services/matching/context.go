package matching

import (
	"strings"

	"github.com/google/uuid"

	"sponsorship-backend/internal/models"
)

// Context is the read-only reference snapshot for one batch run. It is built
// once per run (sponsors, students and payment types are small tables) so the
// resolvers never touch the database.
type Context struct {
	// Sponsors are active sponsors with only their currently active
	// sponsorships preloaded.
	Sponsors     []models.Sponsor
	Students     []models.Student
	PaymentTypes []models.PaymentType
	Settled      SettledWindow
}

// SettledWindow holds the ledger entries whose dates fall near the batch's
// transaction-date span, loaded once for duplicate detection.
type SettledWindow struct {
	Payments []models.SponsorPayment
	Vouchers []models.VoucherPurchase
}

// PaymentTypeByName resolves a category name against the active reference set.
// A nil result means the configured name has drifted from the reference table;
// the caller then leaves the category unset.
func (c *Context) PaymentTypeByName(name string) *models.PaymentType {
	for i := range c.PaymentTypes {
		if strings.EqualFold(c.PaymentTypes[i].Name, name) {
			return &c.PaymentTypes[i]
		}
	}
	return nil
}

func (c *Context) studentByID(id uuid.UUID) *models.Student {
	for i := range c.Students {
		if c.Students[i].ID == id {
			return &c.Students[i]
		}
	}
	return nil
}
