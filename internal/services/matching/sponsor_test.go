package matching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sponsorship-backend/internal/models"
)

func TestResolveSponsorVariableSymbol(t *testing.T) {
	ctx := newTestContext()

	m := ctx.ResolveSponsor("12345", "", "COMPLETELY UNRELATED NAME")
	require.NotNil(t, m)
	assert.Equal(t, sponsorNovakID, m.Sponsor.ID)
	assert.Equal(t, models.ConfidenceHigh, m.Confidence)
	assert.Contains(t, m.Note, "variable symbol")
}

func TestResolveSponsorBankAccount(t *testing.T) {
	ctx := newTestContext()

	m := ctx.ResolveSponsor("99999", "123456789/0100", "")
	require.NotNil(t, m)
	assert.Equal(t, sponsorNovakID, m.Sponsor.ID)
	assert.Equal(t, models.ConfidenceHigh, m.Confidence)
	assert.Contains(t, m.Note, "bank account")
}

func TestResolveSponsorFullName(t *testing.T) {
	ctx := newTestContext()

	// order-independent, diacritics-insensitive
	m := ctx.ResolveSponsor("", "", "NOVAK JAN")
	require.NotNil(t, m)
	assert.Equal(t, sponsorNovakID, m.Sponsor.ID)
	assert.Equal(t, models.ConfidenceMedium, m.Confidence)
}

func TestResolveSponsorFullNameWithExtraTokens(t *testing.T) {
	ctx := newTestContext()

	m := ctx.ResolveSponsor("", "", "Ing. Jan Novák, Praha")
	require.NotNil(t, m)
	assert.Equal(t, sponsorNovakID, m.Sponsor.ID)
	assert.Equal(t, models.ConfidenceMedium, m.Confidence)
}

func TestResolveSponsorUniqueLastName(t *testing.T) {
	ctx := newTestContext()

	m := ctx.ResolveSponsor("", "", "platba svoboda")
	require.NotNil(t, m)
	assert.Equal(t, sponsorSvobodaID, m.Sponsor.ID)
	assert.Equal(t, models.ConfidenceLow, m.Confidence)
}

func TestResolveSponsorAmbiguousLastNameYieldsNothing(t *testing.T) {
	ctx := newTestContext()
	ctx.Sponsors = append(ctx.Sponsors, models.Sponsor{
		ID:        uuid.New(),
		FirstName: "Karel",
		LastName:  "Svoboda",
		Active:    true,
	})

	// two sponsors share the normalized last name: no attribution
	assert.Nil(t, ctx.ResolveSponsor("", "", "platba svoboda"))
}

func TestResolveSponsorPrecedence(t *testing.T) {
	ctx := newTestContext()

	// variable symbol outranks a conflicting sender name
	m := ctx.ResolveSponsor("12345", "", "Petr Svoboda")
	require.NotNil(t, m)
	assert.Equal(t, sponsorNovakID, m.Sponsor.ID)
}

func TestResolveSponsorNoSignal(t *testing.T) {
	ctx := newTestContext()

	assert.Nil(t, ctx.ResolveSponsor("", "", ""))
	assert.Nil(t, ctx.ResolveSponsor("00000", "nope/0000", "unknown person"))
}

func TestResolveSponsorSingleTokenSenderSkipsFullNameRule(t *testing.T) {
	ctx := newTestContext()

	// one sender token cannot satisfy the two-token full-name rule, but a
	// unique last name still resolves at low confidence
	m := ctx.ResolveSponsor("", "", "Svoboda")
	require.NotNil(t, m)
	assert.Equal(t, models.ConfidenceLow, m.Confidence)
}
