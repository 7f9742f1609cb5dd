package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuditLogsSuccessfulMutations(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	router := gin.New()
	router.Use(Audit(zap.New(core), "diplomas"))
	router.GET("/diplomas/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.PUT("/diplomas/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.DELETE("/diplomas/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(method, "/diplomas/abc", nil))
	}

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "ledger mutation", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "diplomas", fields["resource"])
	assert.Equal(t, "abc", fields["resource_id"])
	assert.Equal(t, http.MethodPut, fields["method"])
}
