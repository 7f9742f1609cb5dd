package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/vanbang-api/internal/middleware"
	"github.com/noah-isme/vanbang-api/internal/service"
	"github.com/noah-isme/vanbang-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/vanbang-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/vanbang-api/pkg/middleware/requestid"
)

// RouterConfig carries the HTTP settings the router needs.
type RouterConfig struct {
	APIPrefix          string
	AllowedOrigins     []string
	LookupSourceHeader string
	ReadOnly           bool
	EnableDocs         bool
}

// Handlers groups every HTTP handler. Exports is optional.
type Handlers struct {
	Books      *BookHandler
	Decisions  *DecisionHandler
	Fields     *FieldTemplateHandler
	Diplomas   *DiplomaHandler
	Lookup     *LookupHandler
	Statistics *StatisticsHandler
	Ledger     *LedgerHandler
	Exports    *ExportHandler
	Metrics    *MetricsHandler
}

// NewRouter builds the gin engine with the middleware chain and all routes.
func NewRouter(cfg RouterConfig, h Handlers, metrics *service.MetricsService, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	prefix := "/" + strings.Trim(cfg.APIPrefix, "/")
	if prefix == "/" {
		prefix = ""
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log, cfg.LookupSourceHeader))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins, cfg.LookupSourceHeader))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(prefix)
	// Exports only write rendered files, never the ledger.
	api.Use(middleware.ReadOnly(cfg.ReadOnly, prefix+"/exports"))

	books := api.Group("/diploma-books", middleware.Audit(log, "diploma-books"))
	books.GET("", h.Books.List)
	books.POST("", h.Books.Create)
	books.GET("/:id", h.Books.Get)
	books.PUT("/:id", h.Books.Update)
	books.DELETE("/:id", h.Books.Delete)

	decisions := api.Group("/graduation-decisions", middleware.Audit(log, "graduation-decisions"))
	decisions.GET("", h.Decisions.List)
	decisions.POST("", h.Decisions.Create)
	decisions.GET("/:id", h.Decisions.Get)
	decisions.PUT("/:id", h.Decisions.Update)
	decisions.DELETE("/:id", h.Decisions.Delete)

	fields := api.Group("/diploma-fields", middleware.Audit(log, "diploma-fields"))
	fields.GET("", h.Fields.List)
	fields.POST("", h.Fields.Create)
	fields.PUT("/:id", h.Fields.Update)
	fields.DELETE("/:id", h.Fields.Delete)

	diplomas := api.Group("/diplomas", middleware.Audit(log, "diplomas"))
	diplomas.GET("", h.Diplomas.List)
	diplomas.POST("", h.Diplomas.Create)
	diplomas.GET("/:id", h.Diplomas.Get)
	diplomas.PUT("/:id", h.Diplomas.Update)
	diplomas.DELETE("/:id", h.Diplomas.Delete)
	diplomas.GET("/:id/lookups", h.Diplomas.Lookups)

	api.GET("/lookup/diplomas", h.Lookup.Search)
	api.GET("/lookup/diplomas/:id", h.Lookup.Detail)
	api.GET("/statistics", h.Statistics.Get)
	api.GET("/system/metrics", h.Metrics.System)

	ledgerGroup := api.Group("/ledger", middleware.Audit(log, "ledger"))
	ledgerGroup.GET("/export", h.Ledger.Export)
	ledgerGroup.POST("/import", h.Ledger.Import)
	ledgerGroup.GET("/verify", h.Ledger.Verify)

	if h.Exports != nil {
		api.POST("/exports", h.Exports.Create)
		api.GET("/exports/:id", h.Exports.Status)
		api.GET("/export/:token", h.Exports.Download)
	}

	return r
}
