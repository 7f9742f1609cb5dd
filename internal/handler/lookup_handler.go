package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/vanbang-api/internal/dto"
	"github.com/noah-isme/vanbang-api/internal/service"
	appErrors "github.com/noah-isme/vanbang-api/pkg/errors"
	"github.com/noah-isme/vanbang-api/pkg/response"
)

const defaultLookupSourceHeader = "X-Lookup-Source"

// LookupHandler serves the public verification portal.
type LookupHandler struct {
	lookups      *service.LookupService
	sourceHeader string
}

// NewLookupHandler constructs a LookupHandler. The verification source is
// read from sourceHeader.
func NewLookupHandler(lookups *service.LookupService, sourceHeader string) *LookupHandler {
	if sourceHeader == "" {
		sourceHeader = defaultLookupSourceHeader
	}
	return &LookupHandler{lookups: lookups, sourceHeader: sourceHeader}
}

// Search godoc
// @Summary Search diplomas by at least two criteria
// @Tags Lookup
// @Produce json
// @Param diplomaSerialNumber query string false "Serial number"
// @Param bookEntryNumber query int false "Entry number"
// @Param studentId query string false "Student ID"
// @Param fullName query string false "Name fragment"
// @Param dateOfBirth query string false "YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /lookup/diplomas [get]
func (h *LookupHandler) Search(c *gin.Context) {
	var query dto.LookupQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lookup query"))
		return
	}
	results, err := h.lookups.Search(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}

// Detail godoc
// @Summary Show a diploma and record the verification
// @Tags Lookup
// @Produce json
// @Param id path string true "Diploma ID"
// @Param X-Lookup-Source header string false "Verification channel"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lookup/diplomas/{id} [get]
func (h *LookupHandler) Detail(c *gin.Context) {
	detail, err := h.lookups.Verify(c.Request.Context(), c.Param("id"), c.GetHeader(h.sourceHeader))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}
