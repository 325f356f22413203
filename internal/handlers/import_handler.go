package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sponsorship-backend/internal/middleware"
	"sponsorship-backend/internal/services/payimport"
)

type ImportHandler struct {
	service        *payimport.Service
	maxUploadBytes int64
}

func NewImportHandler(s *payimport.Service, maxUploadMB int) *ImportHandler {
	return &ImportHandler{
		service:        s,
		maxUploadBytes: int64(maxUploadMB) * 1024 * 1024,
	}
}

// Upload ingests a bank-statement CSV and runs matching synchronously; the
// response carries the created batch and any per-line parse errors.
func (h *ImportHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only .csv files are accepted"})
		return
	}
	if header.Size > h.maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	raw, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil || int64(len(raw)) > h.maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}

	result, err := h.service.Ingest(c.Request.Context(), header.Filename, raw, middleware.Username(c))
	if err != nil {
		if errors.Is(err, payimport.ErrNoRowsParsed) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":        err.Error(),
				"parse_errors": result.ParseErrors,
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"batch_id":     result.BatchID,
		"row_count":    result.RowCount,
		"matched_rows": result.MatchedRows,
		"parse_errors": result.ParseErrors,
	})
}

func (h *ImportHandler) GetBatch(c *gin.Context) {
	batchID, ok := parseID(c, c.Param("batchId"))
	if !ok {
		return
	}
	batch, err := h.service.GetBatch(c.Request.Context(), batchID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"batch": batch})
}

func (h *ImportHandler) ListRows(c *gin.Context) {
	batchID, ok := parseID(c, c.Param("batchId"))
	if !ok {
		return
	}

	limit := 50
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 200 {
		limit = l
	}

	rows, nextCursor, hasMore, err := h.service.ListRows(
		c.Request.Context(), batchID, c.Query("status"), c.Query("cursor"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       rows,
		"next_cursor": nextCursor,
		"has_more":    hasMore,
	})
}

// RunMatching re-runs the matcher over the batch's remaining new rows.
func (h *ImportHandler) RunMatching(c *gin.Context) {
	batchID, ok := parseID(c, c.Param("batchId"))
	if !ok {
		return
	}
	if err := h.service.RunMatching(c.Request.Context(), batchID); err != nil {
		respondError(c, err)
		return
	}
	batch, err := h.service.GetBatch(c.Request.Context(), batchID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"batch": batch})
}

type rowSelection struct {
	RowIDs []uuid.UUID `json:"row_ids" binding:"required"`
}

func (h *ImportHandler) Approve(c *gin.Context) {
	batchID, ok := parseID(c, c.Param("batchId"))
	if !ok {
		return
	}
	var payload rowSelection
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	count, err := h.service.Approve(c.Request.Context(), batchID, payload.RowIDs, middleware.Username(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"approved": count})
}

func (h *ImportHandler) Reject(c *gin.Context) {
	batchID, ok := parseID(c, c.Param("batchId"))
	if !ok {
		return
	}
	var payload rowSelection
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	count, err := h.service.Reject(c.Request.Context(), batchID, payload.RowIDs, middleware.Username(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rejected": count})
}

func (h *ImportHandler) CancelBatch(c *gin.Context) {
	batchID, ok := parseID(c, c.Param("batchId"))
	if !ok {
		return
	}
	if err := h.service.CancelBatch(c.Request.Context(), batchID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "batch cancelled"})
}

func (h *ImportHandler) EditRow(c *gin.Context) {
	rowID, ok := parseID(c, c.Param("id"))
	if !ok {
		return
	}

	var payload struct {
		SponsorID     *uuid.UUID `json:"sponsor_id"`
		StudentID     *uuid.UUID `json:"student_id"`
		PaymentTypeID *uuid.UUID `json:"payment_type_id"`
		VoucherCount  *int       `json:"voucher_count"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	row, err := h.service.EditRow(c.Request.Context(), rowID, payimport.RowEdit{
		SponsorID:     payload.SponsorID,
		StudentID:     payload.StudentID,
		PaymentTypeID: payload.PaymentTypeID,
		VoucherCount:  payload.VoucherCount,
	}, middleware.Username(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"row": row})
}

func (h *ImportHandler) SplitRow(c *gin.Context) {
	rowID, ok := parseID(c, c.Param("id"))
	if !ok {
		return
	}

	var payload struct {
		Parts []struct {
			Amount        decimal.Decimal `json:"amount"`
			StudentID     *uuid.UUID      `json:"student_id"`
			PaymentTypeID *uuid.UUID      `json:"payment_type_id"`
			VoucherCount  *int            `json:"voucher_count"`
		} `json:"parts" binding:"required"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	parts := make([]payimport.SplitPart, len(payload.Parts))
	for i, p := range payload.Parts {
		parts[i] = payimport.SplitPart{
			Amount:        p.Amount,
			StudentID:     p.StudentID,
			PaymentTypeID: p.PaymentTypeID,
			VoucherCount:  p.VoucherCount,
		}
	}

	children, err := h.service.SplitRow(c.Request.Context(), rowID, parts, middleware.Username(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"parts_created": len(children),
		"rows":          children,
	})
}

func parseID(c *gin.Context, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service errors onto HTTP statuses: validation problems are
// client errors, lifecycle conflicts 409, unknown ids 404.
func respondError(c *gin.Context, err error) {
	var vErr payimport.ValidationError
	var sErr payimport.StateError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Reason})
	case errors.As(err, &sErr):
		c.JSON(http.StatusConflict, gin.H{"error": sErr.Reason})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
