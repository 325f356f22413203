package matching

import (
	"time"

	"github.com/google/uuid"

	"sponsorship-backend/internal/models"
)

// Shared fixture ids so tests can assert on specific matches.
var (
	sponsorNovakID    = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	sponsorSvobodaID  = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	sponsorNovakovaID = uuid.MustParse("33333333-3333-3333-3333-333333333333")

	studentAnnaID  = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	studentDavidID = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")

	typeTuitionID  = uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")
	typeVouchersID = uuid.MustParse("dddddddd-dddd-dddd-dddd-dddddddddddd")
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// newTestContext builds a reference snapshot with one sponsor per resolution
// rule: Novák carries a variable symbol and bank account with a single active
// sponsorship, Svoboda has two sponsorships, Nováková none.
func newTestContext() *Context {
	return &Context{
		Sponsors: []models.Sponsor{
			{
				ID:             sponsorNovakID,
				FirstName:      "Jan",
				LastName:       "Novák",
				VariableSymbol: "12345",
				BankAccount:    "123456789/0100",
				Active:         true,
				Sponsorships: []models.Sponsorship{
					{ID: uuid.New(), SponsorID: sponsorNovakID, StudentID: studentAnnaID, Active: true},
				},
			},
			{
				ID:        sponsorSvobodaID,
				FirstName: "Petr",
				LastName:  "Svoboda",
				Active:    true,
				Sponsorships: []models.Sponsorship{
					{ID: uuid.New(), SponsorID: sponsorSvobodaID, StudentID: studentAnnaID, Active: true},
					{ID: uuid.New(), SponsorID: sponsorSvobodaID, StudentID: studentDavidID, Active: true},
				},
			},
			{
				ID:        sponsorNovakovaID,
				FirstName: "Jana",
				LastName:  "Nováková",
				Active:    true,
			},
		},
		Students: []models.Student{
			{ID: studentAnnaID, FirstName: "Anna", LastName: "Malá", Active: true},
			{ID: studentDavidID, FirstName: "David", LastName: "Horák", Active: true},
		},
		PaymentTypes: []models.PaymentType{
			{ID: typeTuitionID, Name: "Tuition", Active: true},
			{ID: typeVouchersID, Name: "Vouchers", IsVoucher: true, Active: true},
		},
	}
}
