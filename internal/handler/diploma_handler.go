package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/vanbang-api/internal/dto"
	"github.com/noah-isme/vanbang-api/internal/service"
	appErrors "github.com/noah-isme/vanbang-api/pkg/errors"
	"github.com/noah-isme/vanbang-api/pkg/response"
)

// DiplomaHandler exposes administrative diploma entry endpoints.
type DiplomaHandler struct {
	diplomas *service.DiplomaService
}

// NewDiplomaHandler constructs a DiplomaHandler.
func NewDiplomaHandler(diplomas *service.DiplomaService) *DiplomaHandler {
	return &DiplomaHandler{diplomas: diplomas}
}

// List godoc
// @Summary List diploma entries
// @Tags Diplomas
// @Produce json
// @Param diplomaBookId query string false "Book ID"
// @Param decisionId query string false "Decision ID"
// @Param q query string false "Serial, student id or name fragment"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /diplomas [get]
func (h *DiplomaHandler) List(c *gin.Context) {
	var query dto.DiplomaListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	entries, pagination, err := h.diplomas.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, pagination)
}

// Get godoc
// @Summary Get diploma entry
// @Tags Diplomas
// @Produce json
// @Param id path string true "Diploma ID"
// @Success 200 {object} response.Envelope
// @Router /diplomas/{id} [get]
func (h *DiplomaHandler) Get(c *gin.Context) {
	entry, err := h.diplomas.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Create godoc
// @Summary Record a diploma in its book
// @Tags Diplomas
// @Accept json
// @Produce json
// @Param payload body dto.CreateDiplomaRequest true "Diploma payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /diplomas [post]
func (h *DiplomaHandler) Create(c *gin.Context) {
	var req dto.CreateDiplomaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid diploma payload"))
		return
	}
	entry, err := h.diplomas.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Update godoc
// @Summary Update diploma entry
// @Tags Diplomas
// @Accept json
// @Produce json
// @Param id path string true "Diploma ID"
// @Param payload body dto.UpdateDiplomaRequest true "Diploma payload"
// @Success 200 {object} response.Envelope
// @Router /diplomas/{id} [put]
func (h *DiplomaHandler) Update(c *gin.Context) {
	var req dto.UpdateDiplomaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid diploma payload"))
		return
	}
	entry, err := h.diplomas.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Delete diploma entry
// @Tags Diplomas
// @Param id path string true "Diploma ID"
// @Success 204
// @Router /diplomas/{id} [delete]
func (h *DiplomaHandler) Delete(c *gin.Context) {
	if err := h.diplomas.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Lookups godoc
// @Summary Verification history of a diploma
// @Tags Diplomas
// @Produce json
// @Param id path string true "Diploma ID"
// @Success 200 {object} response.Envelope
// @Router /diplomas/{id}/lookups [get]
func (h *DiplomaHandler) Lookups(c *gin.Context) {
	records, err := h.diplomas.Lookups(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}
