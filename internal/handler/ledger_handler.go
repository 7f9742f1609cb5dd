package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/vanbang-api/internal/models"
	"github.com/noah-isme/vanbang-api/internal/service"
	appErrors "github.com/noah-isme/vanbang-api/pkg/errors"
	"github.com/noah-isme/vanbang-api/pkg/response"
)

// LedgerHandler exposes whole-ledger transfer and integrity endpoints.
type LedgerHandler struct {
	transfer *service.TransferService
}

// NewLedgerHandler constructs a LedgerHandler.
func NewLedgerHandler(transfer *service.TransferService) *LedgerHandler {
	return &LedgerHandler{transfer: transfer}
}

// Export godoc
// @Summary Download every ledger collection as one JSON document
// @Tags Ledger
// @Produce json
// @Success 200 {object} models.Snapshot
// @Router /ledger/export [get]
func (h *LedgerHandler) Export(c *gin.Context) {
	snapshot := h.transfer.Export(c.Request.Context())
	filename := fmt.Sprintf("vanbang-ledger-%s.json", time.Now().UTC().Format("20060102-150405"))
	response.Attachment(c, filename, snapshot)
}

// Import godoc
// @Summary Replace every ledger collection
// @Tags Ledger
// @Accept json
// @Produce json
// @Param payload body models.Snapshot true "Ledger document"
// @Success 200 {object} response.Envelope
// @Router /ledger/import [post]
func (h *LedgerHandler) Import(c *gin.Context) {
	var snapshot models.Snapshot
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid ledger document"))
		return
	}
	summary, err := h.transfer.Import(c.Request.Context(), snapshot)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Verify godoc
// @Summary Report dangling references
// @Tags Ledger
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /ledger/verify [get]
func (h *LedgerHandler) Verify(c *gin.Context) {
	report := h.transfer.Verify(c.Request.Context())
	response.JSON(c, http.StatusOK, report, nil)
}
