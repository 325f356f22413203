package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sponsorship-backend/internal/models"
)

type ImportRepository struct {
	db *gorm.DB
}

func NewImportRepository(db *gorm.DB) *ImportRepository {
	return &ImportRepository{db: db}
}

// WithTx rebinds the repository to a running transaction.
func (r *ImportRepository) WithTx(tx *gorm.DB) *ImportRepository {
	return &ImportRepository{db: tx}
}

// DB exposes the underlying connection for transaction boundaries.
func (r *ImportRepository) DB() *gorm.DB {
	return r.db
}

func (r *ImportRepository) CreateBatch(ctx context.Context, batch *models.ImportBatch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *ImportRepository) GetBatch(ctx context.Context, id uuid.UUID) (*models.ImportBatch, error) {
	var batch models.ImportBatch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *ImportRepository) SaveBatch(ctx context.Context, batch *models.ImportBatch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// DeleteRows removes every row of a batch. Callers must have verified no row
// is approved.
func (r *ImportRepository) DeleteRows(ctx context.Context, batchID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("batch_id = ?", batchID).Delete(&models.ImportRow{}).Error
}

func (r *ImportRepository) CreateRows(ctx context.Context, rows []models.ImportRow) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *ImportRepository) GetRow(ctx context.Context, id uuid.UUID) (*models.ImportRow, error) {
	var row models.ImportRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *ImportRepository) SaveRow(ctx context.Context, row *models.ImportRow) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// RowsByStatus returns the batch's rows currently in any of the given states.
func (r *ImportRepository) RowsByStatus(ctx context.Context, batchID uuid.UUID, statuses ...models.RowStatus) ([]models.ImportRow, error) {
	var rows []models.ImportRow
	err := r.db.WithContext(ctx).
		Where("batch_id = ? AND status IN ?", batchID, statuses).
		Order("transaction_date ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

// RowsByIDs returns the batch's rows with the given ids.
func (r *ImportRepository) RowsByIDs(ctx context.Context, batchID uuid.UUID, ids []uuid.UUID) ([]models.ImportRow, error) {
	var rows []models.ImportRow
	err := r.db.WithContext(ctx).
		Where("batch_id = ? AND id IN ?", batchID, ids).
		Find(&rows).Error
	return rows, err
}

// ListRows pages through a batch's rows with an optional status filter,
// cursor-based like the review UI consumes them.
func (r *ImportRepository) ListRows(ctx context.Context, batchID uuid.UUID, status string, cursor string, limit int) ([]models.ImportRow, string, bool, error) {
	var rows []models.ImportRow
	query := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("id ASC").
		Limit(limit + 1)

	if status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}
	if cursor != "" {
		query = query.Where("id > ?", cursor)
	}

	if err := query.Find(&rows).Error; err != nil {
		return nil, "", false, err
	}

	hasMore := false
	nextCursor := ""
	if len(rows) > limit {
		hasMore = true
		nextCursor = rows[limit-1].ID.String()
		rows = rows[:limit]
	}
	return rows, nextCursor, hasMore, nil
}

// CountRows counts the batch's rows in the given states; with no states it
// counts everything.
func (r *ImportRepository) CountRows(ctx context.Context, batchID uuid.UUID, statuses ...models.RowStatus) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ImportRow{}).Where("batch_id = ?", batchID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	err := query.Count(&count).Error
	return count, err
}

// RefreshBatchCounters recomputes the batch's total and matched-row counters
// from its rows.
func (r *ImportRepository) RefreshBatchCounters(ctx context.Context, batchID uuid.UUID) error {
	total, err := r.CountRows(ctx, batchID)
	if err != nil {
		return err
	}
	matched, err := r.CountRows(ctx, batchID, models.RowStatusMatched)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&models.ImportBatch{}).
		Where("id = ?", batchID).
		Updates(map[string]interface{}{
			"total_rows":   total,
			"matched_rows": matched,
		}).Error
}
