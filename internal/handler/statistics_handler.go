package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/vanbang-api/internal/middleware"
	"github.com/noah-isme/vanbang-api/internal/service"
	"github.com/noah-isme/vanbang-api/pkg/response"
)

// StatisticsHandler exposes ledger statistics.
type StatisticsHandler struct {
	stats *service.StatisticsService
}

// NewStatisticsHandler constructs a StatisticsHandler.
func NewStatisticsHandler(stats *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{stats: stats}
}

// Get godoc
// @Summary Ledger statistics
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /statistics [get]
func (h *StatisticsHandler) Get(c *gin.Context) {
	stats, hit, err := h.stats.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, stats, nil, middleware.ExtractMeta(c))
}
