package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"sponsorship-backend/internal/models"
)

// ReferenceRepository loads the read-only reference data the matcher works
// over. Each load happens once per batch run, not per row.
type ReferenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// Sponsors returns active sponsors with only their currently active
// sponsorship links preloaded.
func (r *ReferenceRepository) Sponsors(ctx context.Context) ([]models.Sponsor, error) {
	now := time.Now()
	var sponsors []models.Sponsor
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Preload("Sponsorships", "active = ? AND start_date <= ? AND (end_date IS NULL OR end_date >= ?)", true, now, now).
		Find(&sponsors).Error
	return sponsors, err
}

func (r *ReferenceRepository) Students(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).Where("active = ?", true).Find(&students).Error
	return students, err
}

func (r *ReferenceRepository) ActivePaymentTypes(ctx context.Context) ([]models.PaymentType, error) {
	var types []models.PaymentType
	err := r.db.WithContext(ctx).Where("active = ?", true).Find(&types).Error
	return types, err
}
