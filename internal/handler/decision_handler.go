package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/vanbang-api/internal/dto"
	"github.com/noah-isme/vanbang-api/internal/service"
	appErrors "github.com/noah-isme/vanbang-api/pkg/errors"
	"github.com/noah-isme/vanbang-api/pkg/response"
)

// DecisionHandler exposes graduation decision endpoints.
type DecisionHandler struct {
	decisions *service.DecisionService
}

// NewDecisionHandler constructs a DecisionHandler.
func NewDecisionHandler(decisions *service.DecisionService) *DecisionHandler {
	return &DecisionHandler{decisions: decisions}
}

// List godoc
// @Summary List graduation decisions
// @Tags Decisions
// @Produce json
// @Param diplomaBookId query string false "Restrict to one book"
// @Success 200 {object} response.Envelope
// @Router /graduation-decisions [get]
func (h *DecisionHandler) List(c *gin.Context) {
	decisions, err := h.decisions.List(c.Request.Context(), strings.TrimSpace(c.Query("diplomaBookId")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, decisions, nil)
}

// Get godoc
// @Summary Get graduation decision
// @Tags Decisions
// @Produce json
// @Param id path string true "Decision ID"
// @Success 200 {object} response.Envelope
// @Router /graduation-decisions/{id} [get]
func (h *DecisionHandler) Get(c *gin.Context) {
	decision, err := h.decisions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, decision, nil)
}

// Create godoc
// @Summary Record a graduation decision
// @Tags Decisions
// @Accept json
// @Produce json
// @Param payload body dto.DecisionRequest true "Decision payload"
// @Success 201 {object} response.Envelope
// @Router /graduation-decisions [post]
func (h *DecisionHandler) Create(c *gin.Context) {
	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}
	decision, err := h.decisions.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, decision)
}

// Update godoc
// @Summary Update graduation decision
// @Tags Decisions
// @Accept json
// @Produce json
// @Param id path string true "Decision ID"
// @Param payload body dto.DecisionRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Router /graduation-decisions/{id} [put]
func (h *DecisionHandler) Update(c *gin.Context) {
	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}
	decision, err := h.decisions.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, decision, nil)
}

// Delete godoc
// @Summary Delete graduation decision
// @Tags Decisions
// @Param id path string true "Decision ID"
// @Success 204
// @Router /graduation-decisions/{id} [delete]
func (h *DecisionHandler) Delete(c *gin.Context) {
	if err := h.decisions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
