package matching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sponsorship-backend/internal/models"
)

func TestResolveStudentSingleSponsorship(t *testing.T) {
	ctx := newTestContext()
	sponsor := &ctx.Sponsors[0] // Novák, one active sponsorship

	res := ctx.ResolveStudent(sponsor, "")
	require.NotNil(t, res.Student)
	assert.Equal(t, studentAnnaID, res.Student.ID)
	assert.False(t, res.ViaMessage)
}

func TestResolveStudentMultipleSponsorshipsDoesNotGuess(t *testing.T) {
	ctx := newTestContext()
	sponsor := &ctx.Sponsors[1] // Svoboda, two active sponsorships

	res := ctx.ResolveStudent(sponsor, "")
	assert.Nil(t, res.Student)
	assert.Contains(t, res.Note, "manual selection")
}

func TestResolveStudentNoSponsorshipsNoMessage(t *testing.T) {
	ctx := newTestContext()
	sponsor := &ctx.Sponsors[2] // Nováková, no sponsorships

	res := ctx.ResolveStudent(sponsor, "")
	assert.Nil(t, res.Student)
	assert.Empty(t, res.Note)
}

func TestResolveStudentFromMessageSeparateNames(t *testing.T) {
	ctx := newTestContext()

	res := ctx.ResolveStudent(nil, "skolne pro Malá Anna leden")
	require.NotNil(t, res.Student)
	assert.Equal(t, studentAnnaID, res.Student.ID)
	assert.True(t, res.ViaMessage)
}

func TestResolveStudentFromMessageContiguousName(t *testing.T) {
	ctx := newTestContext()

	res := ctx.ResolveStudent(nil, "dar David Horák, brezen")
	require.NotNil(t, res.Student)
	assert.Equal(t, studentDavidID, res.Student.ID)
	assert.True(t, res.ViaMessage)
}

func TestResolveStudentMessageScanRunsAfterAmbiguity(t *testing.T) {
	ctx := newTestContext()
	sponsor := &ctx.Sponsors[1] // ambiguous sponsorships

	res := ctx.ResolveStudent(sponsor, "stravenky David Horák")
	require.NotNil(t, res.Student)
	assert.Equal(t, studentDavidID, res.Student.ID)
	assert.Contains(t, res.Note, "manual selection")
	assert.Contains(t, res.Note, "mentions student")
}

func TestResolveStudentShortNamesDoNotMatchSeparately(t *testing.T) {
	ctx := newTestContext()
	ctx.Students = append(ctx.Students, models.Student{
		ID: uuid.New(), FirstName: "A", LastName: "Vo", Active: true,
	})

	res := ctx.ResolveStudent(nil, "a vo x")
	// "a vo" is under the contiguous minimum of five characters and both
	// names are under the separate minimum of three
	assert.Nil(t, res.Student)
}
