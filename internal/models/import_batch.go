package models

import (
	"time"

	"github.com/google/uuid"
)

type ImportBatch struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Filename    string      `json:"filename"`
	TotalRows   int         `json:"total_rows"`
	MatchedRows int         `json:"matched_rows"`
	Status      BatchStatus `gorm:"index" json:"status"`
	CreatedBy   string      `json:"created_by"`
	CreatedAt   time.Time   `json:"created_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}
