package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/vanbang-api/pkg/errors"
	"github.com/noah-isme/vanbang-api/pkg/response"
)

const readOnlyHeader = "X-Ledger-Mode"

// ReadOnly rejects mutating requests with 503 while the ledger is frozen.
// Safe methods pass, which keeps public lookups (and their audit records)
// working. Paths under one of the allowed prefixes also pass.
func ReadOnly(enabled bool, allowedPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}
		c.Writer.Header().Set(readOnlyHeader, "read-only")
		if isSafeMethod(c.Request.Method) || hasAnyPrefix(c.Request.URL.Path, allowedPrefixes) {
			c.Next()
			return
		}
		response.Error(c, appErrors.ErrReadOnly)
		c.Abort()
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
