package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/vanbang-api/internal/dto"
	"github.com/noah-isme/vanbang-api/internal/service"
	appErrors "github.com/noah-isme/vanbang-api/pkg/errors"
	"github.com/noah-isme/vanbang-api/pkg/response"
)

// FieldTemplateHandler exposes the extra diploma field definitions.
type FieldTemplateHandler struct {
	fields *service.FieldTemplateService
}

// NewFieldTemplateHandler constructs a FieldTemplateHandler.
func NewFieldTemplateHandler(fields *service.FieldTemplateService) *FieldTemplateHandler {
	return &FieldTemplateHandler{fields: fields}
}

// List godoc
// @Summary List diploma field templates
// @Tags Fields
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /diploma-fields [get]
func (h *FieldTemplateHandler) List(c *gin.Context) {
	fields, err := h.fields.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fields, nil)
}

// Create godoc
// @Summary Declare a diploma field
// @Tags Fields
// @Accept json
// @Produce json
// @Param payload body dto.FieldTemplateRequest true "Field payload"
// @Success 201 {object} response.Envelope
// @Router /diploma-fields [post]
func (h *FieldTemplateHandler) Create(c *gin.Context) {
	var req dto.FieldTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid field payload"))
		return
	}
	field, err := h.fields.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, field)
}

// Update godoc
// @Summary Update a diploma field
// @Tags Fields
// @Accept json
// @Produce json
// @Param id path string true "Field ID"
// @Param payload body dto.FieldTemplateRequest true "Field payload"
// @Success 200 {object} response.Envelope
// @Router /diploma-fields/{id} [put]
func (h *FieldTemplateHandler) Update(c *gin.Context) {
	var req dto.FieldTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid field payload"))
		return
	}
	field, err := h.fields.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, field, nil)
}

// Delete godoc
// @Summary Delete a diploma field
// @Tags Fields
// @Param id path string true "Field ID"
// @Success 204
// @Router /diploma-fields/{id} [delete]
func (h *FieldTemplateHandler) Delete(c *gin.Context) {
	if err := h.fields.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
