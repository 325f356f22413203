package payimport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sponsorship-backend/internal/config"
	"sponsorship-backend/internal/models"
	"sponsorship-backend/internal/repository"
	"sponsorship-backend/internal/services/matching"
)

// Service orchestrates the payment-import workflow: ingest, matching, manual
// review operations and ledger materialization on approval.
type Service struct {
	importRepo *repository.ImportRepository
	ledgerRepo *repository.LedgerRepository
	refRepo    *repository.ReferenceRepository
	db         *gorm.DB
	logger     *slog.Logger

	defaultCurrency  string
	voucherUnitPrice decimal.Decimal
}

func NewService(
	logger *slog.Logger,
	importRepo *repository.ImportRepository,
	ledgerRepo *repository.LedgerRepository,
	refRepo *repository.ReferenceRepository,
	cfg config.ImportConfig,
) *Service {
	return &Service{
		importRepo:       importRepo,
		ledgerRepo:       ledgerRepo,
		refRepo:          refRepo,
		db:               importRepo.DB(),
		logger:           logger,
		defaultCurrency:  cfg.DefaultCurrency,
		voucherUnitPrice: cfg.VoucherUnitPrice,
	}
}

// IngestResult reports what an upload produced.
type IngestResult struct {
	BatchID     uuid.UUID    `json:"batch_id"`
	RowCount    int          `json:"row_count"`
	MatchedRows int          `json:"matched_rows"`
	ParseErrors []ParseError `json:"parse_errors,omitempty"`
}

// Ingest parses an uploaded statement, persists its rows and runs matching
// synchronously. Parse errors are non-fatal and returned alongside the batch;
// an upload with zero parseable rows fails hard and creates nothing.
func (s *Service) Ingest(ctx context.Context, filename string, raw []byte, createdBy string) (*IngestResult, error) {
	parsed, parseErrs := ParseStatement(raw, s.defaultCurrency)
	if len(parsed) == 0 {
		return &IngestResult{ParseErrors: parseErrs}, ErrNoRowsParsed
	}

	batch := &models.ImportBatch{
		ID:        uuid.New(),
		Filename:  filename,
		TotalRows: len(parsed),
		Status:    models.BatchStatusProcessing,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}
	if err := s.importRepo.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("creating batch: %w", err)
	}

	rows := make([]models.ImportRow, len(parsed))
	for i, p := range parsed {
		rawJSON, _ := json.Marshal(p.Raw)
		rows[i] = models.ImportRow{
			ID:              uuid.New(),
			BatchID:         batch.ID,
			TransactionDate: p.TransactionDate,
			Amount:          p.Amount,
			Currency:        p.Currency,
			VariableSymbol:  p.VariableSymbol,
			SenderName:      p.SenderName,
			SenderAccount:   p.SenderAccount,
			Message:         p.Message,
			RawData:         rawJSON,
			Status:          models.RowStatusNew,
			Confidence:      models.ConfidenceNone,
		}
	}
	if err := s.importRepo.CreateRows(ctx, rows); err != nil {
		return nil, fmt.Errorf("persisting rows: %w", err)
	}

	if err := s.RunMatching(ctx, batch.ID); err != nil {
		return nil, err
	}

	batch, err := s.importRepo.GetBatch(ctx, batch.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("statement ingested",
		"batch_id", batch.ID,
		"filename", filename,
		"rows", batch.TotalRows,
		"matched", batch.MatchedRows,
		"parse_errors", len(parseErrs),
	)

	return &IngestResult{
		BatchID:     batch.ID,
		RowCount:    batch.TotalRows,
		MatchedRows: batch.MatchedRows,
		ParseErrors: parseErrs,
	}, nil
}

// RunMatching matches every row of the batch still in the new state. Rows are
// resolved independently; a row that fails to persist keeps its state and is
// picked up by the next run.
func (s *Service) RunMatching(ctx context.Context, batchID uuid.UUID) error {
	batch, err := s.importRepo.GetBatch(ctx, batchID)
	if err != nil {
		return err
	}
	switch batch.Status {
	case models.BatchStatusCompleted, models.BatchStatusCancelled:
		return StateError{Reason: fmt.Sprintf("batch %s is %s and cannot be re-matched", batchID, batch.Status)}
	}

	rows, err := s.importRepo.RowsByStatus(ctx, batchID, models.RowStatusNew)
	if err != nil {
		return err
	}

	if len(rows) > 0 {
		mctx, err := s.buildContext(ctx, rows)
		if err != nil {
			return fmt.Errorf("loading reference data: %w", err)
		}

		for i := range rows {
			row := &rows[i]
			res := mctx.MatchRow(matching.RowInput{
				TransactionDate: row.TransactionDate,
				Amount:          row.Amount,
				Currency:        row.Currency,
				VariableSymbol:  row.VariableSymbol,
				SenderName:      row.SenderName,
				SenderAccount:   row.SenderAccount,
				Message:         row.Message,
			})
			applyResult(row, res)
			if err := s.importRepo.SaveRow(ctx, row); err != nil {
				// partial batch runs are fine, the row stays eligible
				s.logger.Warn("failed to persist match result", "row_id", row.ID, "error", err)
			}
		}
	}

	if batch.Status == models.BatchStatusProcessing {
		batch.Status = models.BatchStatusReady
		if err := s.importRepo.SaveBatch(ctx, batch); err != nil {
			return err
		}
	}
	return s.importRepo.RefreshBatchCounters(ctx, batchID)
}

// buildContext loads the reference snapshot for one batch run: sponsors with
// active sponsorships, students, active payment types, and the settled ledger
// window spanning the rows' dates plus one day on each side.
func (s *Service) buildContext(ctx context.Context, rows []models.ImportRow) (*matching.Context, error) {
	sponsors, err := s.refRepo.Sponsors(ctx)
	if err != nil {
		return nil, err
	}
	students, err := s.refRepo.Students(ctx)
	if err != nil {
		return nil, err
	}
	types, err := s.refRepo.ActivePaymentTypes(ctx)
	if err != nil {
		return nil, err
	}

	min, max := rows[0].TransactionDate, rows[0].TransactionDate
	for _, r := range rows[1:] {
		if r.TransactionDate.Before(min) {
			min = r.TransactionDate
		}
		if r.TransactionDate.After(max) {
			max = r.TransactionDate
		}
	}
	from := time.Date(min.Year(), min.Month(), min.Day(), 0, 0, 0, 0, min.Location()).AddDate(0, 0, -1)
	to := time.Date(max.Year(), max.Month(), max.Day(), 0, 0, 0, 0, max.Location()).AddDate(0, 0, 2)

	settled, err := s.ledgerRepo.SettledBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &matching.Context{
		Sponsors:     sponsors,
		Students:     students,
		PaymentTypes: types,
		Settled:      settled,
	}, nil
}

func applyResult(row *models.ImportRow, res matching.Result) {
	row.Status = res.Status
	row.Confidence = res.Confidence
	row.MatchRationale = res.Rationale
	row.SponsorID = res.SponsorID
	row.StudentID = res.StudentID
	row.PaymentTypeID = res.PaymentTypeID
	if res.Duplicate != nil {
		row.DuplicateOfID = &res.Duplicate.ID
		row.DuplicateOfKind = res.Duplicate.Kind
	}
}

// RowEdit carries the fields a reviewer may override; nil fields are left
// untouched.
type RowEdit struct {
	SponsorID     *uuid.UUID
	StudentID     *uuid.UUID
	PaymentTypeID *uuid.UUID
	VoucherCount  *int
}

// EditRow applies a manual override to a non-terminal, non-duplicate row,
// recomputes its status and forces confidence to high: a human decision is
// maximally trusted.
func (s *Service) EditRow(ctx context.Context, rowID uuid.UUID, edit RowEdit, editedBy string) (*models.ImportRow, error) {
	row, err := s.importRepo.GetRow(ctx, rowID)
	if err != nil {
		return nil, err
	}
	if row.Status.Terminal() {
		return nil, StateError{Reason: fmt.Sprintf("row %s is %s and can no longer be edited", rowID, row.Status)}
	}
	if row.Status == models.RowStatusDuplicate {
		return nil, StateError{Reason: fmt.Sprintf("row %s is flagged duplicate; reject it or split the original instead", rowID)}
	}

	if edit.SponsorID != nil {
		if err := s.mustExist(ctx, &models.Sponsor{}, *edit.SponsorID, "sponsor"); err != nil {
			return nil, err
		}
		row.SponsorID = edit.SponsorID
	}
	if edit.StudentID != nil {
		if err := s.mustExist(ctx, &models.Student{}, *edit.StudentID, "student"); err != nil {
			return nil, err
		}
		row.StudentID = edit.StudentID
	}
	if edit.PaymentTypeID != nil {
		if err := s.mustExist(ctx, &models.PaymentType{}, *edit.PaymentTypeID, "payment type"); err != nil {
			return nil, err
		}
		row.PaymentTypeID = edit.PaymentTypeID
	}
	if edit.VoucherCount != nil {
		if *edit.VoucherCount <= 0 {
			return nil, ValidationError{Reason: "voucher count must be positive"}
		}
		row.VoucherCount = edit.VoucherCount
	}

	row.Status = matching.StatusFor(row.SponsorID != nil, row.StudentID != nil, row.PaymentTypeID != nil)
	row.Confidence = models.ConfidenceHigh
	row.MatchRationale = appendNote(row.MatchRationale, "manually edited by "+editedBy)

	if err := s.importRepo.SaveRow(ctx, row); err != nil {
		return nil, err
	}
	if err := s.importRepo.RefreshBatchCounters(ctx, row.BatchID); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *Service) mustExist(ctx context.Context, model interface{}, id uuid.UUID, what string) error {
	err := s.db.WithContext(ctx).First(model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ValidationError{Reason: fmt.Sprintf("%s %s does not exist", what, id)}
	}
	return err
}

// SplitPart is one requested fragment of a split row.
type SplitPart struct {
	Amount        decimal.Decimal
	StudentID     *uuid.UUID
	PaymentTypeID *uuid.UUID
	VoucherCount  *int
}

var splitTolerance = decimal.NewFromFloat(0.01)

// validateSplit checks part count, per-part amounts and the sum-preservation
// invariant against the original amount.
func validateSplit(original decimal.Decimal, parts []SplitPart) error {
	if len(parts) < 2 || len(parts) > 5 {
		return ValidationError{Reason: fmt.Sprintf("part count must be between 2 and 5, got %d", len(parts))}
	}
	sum := decimal.Zero
	for i, p := range parts {
		if !p.Amount.IsPositive() {
			return ValidationError{Reason: fmt.Sprintf("part %d amount must be positive, got %s", i+1, p.Amount)}
		}
		sum = sum.Add(p.Amount)
	}
	if sum.Sub(original).Abs().GreaterThan(splitTolerance) {
		return ValidationError{Reason: fmt.Sprintf(
			"split amounts must equal the original amount: expected %s, actual %s",
			original.StringFixed(2), sum.StringFixed(2))}
	}
	return nil
}

// SplitRow divides a non-terminal, non-duplicate row into 2-5 parts whose
// amounts must add up to the original. Parts inherit the parent's sponsor and
// may carry their own student and category; the parent becomes terminal.
func (s *Service) SplitRow(ctx context.Context, rowID uuid.UUID, parts []SplitPart, splitBy string) ([]models.ImportRow, error) {
	row, err := s.importRepo.GetRow(ctx, rowID)
	if err != nil {
		return nil, err
	}
	if row.Status.Terminal() {
		return nil, StateError{Reason: fmt.Sprintf("row %s is %s and can no longer be split", rowID, row.Status)}
	}
	if row.Status == models.RowStatusDuplicate {
		return nil, StateError{Reason: fmt.Sprintf("row %s is flagged duplicate and cannot be split", rowID)}
	}
	if err := validateSplit(row.Amount, parts); err != nil {
		return nil, err
	}

	children := make([]models.ImportRow, len(parts))
	for i, p := range parts {
		child := models.ImportRow{
			ID:              uuid.New(),
			BatchID:         row.BatchID,
			TransactionDate: row.TransactionDate,
			Amount:          p.Amount,
			Currency:        row.Currency,
			VariableSymbol:  row.VariableSymbol,
			SenderName:      row.SenderName,
			SenderAccount:   row.SenderAccount,
			Message:         row.Message,
			RawData:         row.RawData,
			SponsorID:       row.SponsorID,
			StudentID:       p.StudentID,
			PaymentTypeID:   p.PaymentTypeID,
			VoucherCount:    p.VoucherCount,
			Confidence:      row.Confidence,
			ParentRowID:     &row.ID,
			MatchRationale:  fmt.Sprintf("created by splitting row %s (%d of %d) by %s", row.ID, i+1, len(parts), splitBy),
		}
		child.Status = matching.StatusFor(child.SponsorID != nil, child.StudentID != nil, child.PaymentTypeID != nil)
		children[i] = child
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.importRepo.WithTx(tx)
		row.Status = models.RowStatusSplit
		row.MatchRationale = appendNote(row.MatchRationale, fmt.Sprintf("split into %d parts by %s", len(parts), splitBy))
		if err := repo.SaveRow(ctx, row); err != nil {
			return err
		}
		return repo.CreateRows(ctx, children)
	})
	if err != nil {
		return nil, err
	}

	if err := s.importRepo.RefreshBatchCounters(ctx, row.BatchID); err != nil {
		return nil, err
	}
	return children, nil
}

// Approve materializes the selected rows into ledger entries inside a single
// transaction. Every selected row must still be reviewable and carry both a
// student and a category; otherwise the whole operation is rejected naming
// the offending rows.
func (s *Service) Approve(ctx context.Context, batchID uuid.UUID, rowIDs []uuid.UUID, approvedBy string) (int, error) {
	rows, err := s.selectRows(ctx, batchID, rowIDs,
		models.RowStatusMatched, models.RowStatusPartial, models.RowStatusNew)
	if err != nil {
		return 0, err
	}

	var missing []string
	for i := range rows {
		if rows[i].StudentID == nil || rows[i].PaymentTypeID == nil {
			missing = append(missing, rows[i].ID.String())
		}
	}
	if len(missing) > 0 {
		return 0, ValidationError{Reason: "rows missing student or category: " + strings.Join(missing, ", ")}
	}

	types, err := s.paymentTypesByID(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		importRepo := s.importRepo.WithTx(tx)
		ledgerRepo := s.ledgerRepo.WithTx(tx)

		for i := range rows {
			row := &rows[i]
			pt, ok := types[*row.PaymentTypeID]
			if !ok {
				return ValidationError{Reason: fmt.Sprintf("row %s references unknown payment type %s", row.ID, *row.PaymentTypeID)}
			}

			if pt.IsVoucher {
				entry := &models.VoucherPurchase{
					ID:          uuid.New(),
					SponsorID:   row.SponsorID,
					StudentID:   *row.StudentID,
					Count:       s.voucherCount(row),
					TotalPrice:  row.Amount,
					PurchasedAt: row.TransactionDate,
					Note:        "bank statement import",
					ImportRowID: &row.ID,
				}
				if err := ledgerRepo.CreateVoucherPurchase(ctx, entry); err != nil {
					return err
				}
				row.LedgerEntryID = &entry.ID
				row.LedgerEntryKind = models.LedgerKindVoucherPurchase
			} else {
				entry := &models.SponsorPayment{
					ID:          uuid.New(),
					SponsorID:   row.SponsorID,
					StudentID:   *row.StudentID,
					Amount:      row.Amount,
					Currency:    row.Currency,
					PaymentType: pt.Name,
					PaidAt:      row.TransactionDate,
					Note:        "bank statement import",
					ImportRowID: &row.ID,
				}
				if err := ledgerRepo.CreateSponsorPayment(ctx, entry); err != nil {
					return err
				}
				row.LedgerEntryID = &entry.ID
				row.LedgerEntryKind = models.LedgerKindSponsorPayment
			}

			row.Status = models.RowStatusApproved
			row.ApprovedBy = approvedBy
			row.ApprovedAt = &now
			if err := importRepo.SaveRow(ctx, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := s.finishReview(ctx, batchID); err != nil {
		return len(rows), err
	}
	s.logger.Info("rows approved", "batch_id", batchID, "count", len(rows), "approved_by", approvedBy)
	return len(rows), nil
}

// Reject marks the selected rows rejected. Approved and terminal rows cannot
// be rejected.
func (s *Service) Reject(ctx context.Context, batchID uuid.UUID, rowIDs []uuid.UUID, rejectedBy string) (int, error) {
	rows, err := s.selectRows(ctx, batchID, rowIDs,
		models.RowStatusMatched, models.RowStatusPartial, models.RowStatusNew, models.RowStatusDuplicate)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.importRepo.WithTx(tx)
		for i := range rows {
			rows[i].Status = models.RowStatusRejected
			rows[i].ApprovedBy = rejectedBy
			rows[i].ApprovedAt = &now
			if err := repo.SaveRow(ctx, &rows[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := s.finishReview(ctx, batchID); err != nil {
		return len(rows), err
	}
	s.logger.Info("rows rejected", "batch_id", batchID, "count", len(rows), "rejected_by", rejectedBy)
	return len(rows), nil
}

// selectRows loads the requested rows and verifies each is in an allowed
// state, naming every violation.
func (s *Service) selectRows(ctx context.Context, batchID uuid.UUID, rowIDs []uuid.UUID, allowed ...models.RowStatus) ([]models.ImportRow, error) {
	if len(rowIDs) == 0 {
		return nil, ValidationError{Reason: "no row ids given"}
	}
	rows, err := s.importRepo.RowsByIDs(ctx, batchID, rowIDs)
	if err != nil {
		return nil, err
	}
	if len(rows) != len(rowIDs) {
		return nil, ValidationError{Reason: fmt.Sprintf("%d of %d rows not found in batch %s", len(rowIDs)-len(rows), len(rowIDs), batchID)}
	}

	var bad []string
	for i := range rows {
		ok := false
		for _, a := range allowed {
			if rows[i].Status == a {
				ok = true
				break
			}
		}
		if !ok {
			bad = append(bad, fmt.Sprintf("%s (%s)", rows[i].ID, rows[i].Status))
		}
	}
	if len(bad) > 0 {
		return nil, StateError{Reason: "rows not in a reviewable state: " + strings.Join(bad, ", ")}
	}
	return rows, nil
}

// voucherCount prefers a reviewer's explicit override, then derives the count
// from the configured unit price, falling back to one voucher.
func (s *Service) voucherCount(row *models.ImportRow) int {
	if row.VoucherCount != nil && *row.VoucherCount > 0 {
		return *row.VoucherCount
	}
	if s.voucherUnitPrice.IsPositive() {
		count := int(row.Amount.Div(s.voucherUnitPrice).Floor().IntPart())
		if count > 0 {
			return count
		}
	}
	return 1
}

// finishReview refreshes counters and completes the batch once no reviewable
// row remains.
func (s *Service) finishReview(ctx context.Context, batchID uuid.UUID) error {
	if err := s.importRepo.RefreshBatchCounters(ctx, batchID); err != nil {
		return err
	}
	open, err := s.importRepo.CountRows(ctx, batchID,
		models.RowStatusNew, models.RowStatusMatched, models.RowStatusPartial)
	if err != nil {
		return err
	}
	if open > 0 {
		return nil
	}

	batch, err := s.importRepo.GetBatch(ctx, batchID)
	if err != nil {
		return err
	}
	if batch.Status == models.BatchStatusCompleted || batch.Status == models.BatchStatusCancelled {
		return nil
	}
	now := time.Now()
	batch.Status = models.BatchStatusCompleted
	batch.CompletedAt = &now
	return s.importRepo.SaveBatch(ctx, batch)
}

// CancelBatch drops a batch's rows and marks it cancelled, refused once
// anything has been approved.
func (s *Service) CancelBatch(ctx context.Context, batchID uuid.UUID) error {
	batch, err := s.importRepo.GetBatch(ctx, batchID)
	if err != nil {
		return err
	}
	if batch.Status == models.BatchStatusCancelled {
		return nil
	}
	approved, err := s.importRepo.CountRows(ctx, batchID, models.RowStatusApproved)
	if err != nil {
		return err
	}
	if approved > 0 {
		return StateError{Reason: fmt.Sprintf("batch %s has %d approved rows and cannot be cancelled", batchID, approved)}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.importRepo.WithTx(tx)
		if err := repo.DeleteRows(ctx, batchID); err != nil {
			return err
		}
		batch.Status = models.BatchStatusCancelled
		batch.TotalRows = 0
		batch.MatchedRows = 0
		return repo.SaveBatch(ctx, batch)
	})
}

// GetBatch returns the batch for progress display.
func (s *Service) GetBatch(ctx context.Context, batchID uuid.UUID) (*models.ImportBatch, error) {
	return s.importRepo.GetBatch(ctx, batchID)
}

// ListRows pages through a batch's rows for the review UI.
func (s *Service) ListRows(ctx context.Context, batchID uuid.UUID, status, cursor string, limit int) ([]models.ImportRow, string, bool, error) {
	return s.importRepo.ListRows(ctx, batchID, status, cursor, limit)
}

func (s *Service) paymentTypesByID(ctx context.Context) (map[uuid.UUID]models.PaymentType, error) {
	var all []models.PaymentType
	if err := s.db.WithContext(ctx).Find(&all).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.PaymentType, len(all))
	for _, t := range all {
		byID[t.ID] = t
	}
	return byID, nil
}

func appendNote(rationale, note string) string {
	if rationale == "" {
		return note
	}
	return rationale + "; " + note
}
