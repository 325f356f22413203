package matching

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sponsorship-backend/internal/models"
)

// RowInput is the slice of an import row the matcher reads. The matcher never
// sees persistence types directly.
type RowInput struct {
	TransactionDate time.Time
	Amount          decimal.Decimal
	Currency        string
	VariableSymbol  string
	SenderName      string
	SenderAccount   string
	Message         string
}

// Result is the outcome of matching a single row.
type Result struct {
	Duplicate     *Duplicate
	SponsorID     *uuid.UUID
	StudentID     *uuid.UUID
	PaymentTypeID *uuid.UUID
	Status        models.RowStatus
	Confidence    models.Confidence
	Rationale     string
}

// MatchRow runs duplicate detection, sponsor and student resolution and
// category classification over one row and derives the final status. Rows are
// independent; the only shared state is the read-only Context.
func (c *Context) MatchRow(row RowInput) Result {
	if dup := c.FindDuplicate(row.TransactionDate, row.Amount, row.Currency); dup != nil {
		return Result{
			Duplicate:  dup,
			Status:     models.RowStatusDuplicate,
			Confidence: models.ConfidenceHigh,
			Rationale:  dup.Note,
		}
	}

	res := Result{Confidence: models.ConfidenceNone}
	var notes []string

	var sponsor *models.Sponsor
	if m := c.ResolveSponsor(row.VariableSymbol, row.SenderAccount, row.SenderName); m != nil {
		sponsor = m.Sponsor
		id := m.Sponsor.ID
		res.SponsorID = &id
		res.Confidence = m.Confidence
		notes = append(notes, m.Note)
	}

	sr := c.ResolveStudent(sponsor, row.Message)
	if sr.Student != nil {
		id := sr.Student.ID
		res.StudentID = &id
		if sr.ViaMessage && res.Confidence == models.ConfidenceNone {
			res.Confidence = models.ConfidenceLow
		}
	}
	if sr.Note != "" {
		notes = append(notes, sr.Note)
	}

	if pt, note := c.ClassifyCategory(row.Message); pt != nil {
		id := pt.ID
		res.PaymentTypeID = &id
		notes = append(notes, note)
	}

	res.Status = StatusFor(res.SponsorID != nil, res.StudentID != nil, res.PaymentTypeID != nil)
	res.Rationale = strings.Join(notes, "; ")
	return res
}

// StatusFor applies the three-way status rule shared by automatic matching,
// manual edits and split parts: all three resolved is matched, at least one is
// partial, none is new.
func StatusFor(sponsor, student, category bool) models.RowStatus {
	switch {
	case sponsor && student && category:
		return models.RowStatusMatched
	case sponsor || student || category:
		return models.RowStatusPartial
	default:
		return models.RowStatusNew
	}
}
