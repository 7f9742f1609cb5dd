package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/vanbang-api/internal/ledger"
	"github.com/noah-isme/vanbang-api/internal/service"
)

type envelope struct {
	Data       json.RawMessage        `json:"data"`
	Error      *struct{ Code string } `json:"error"`
	Pagination *struct {
		TotalCount int `json:"total_count"`
	} `json:"pagination"`
	Meta map[string]interface{} `json:"meta"`
}

func buildTestRouter(t *testing.T, readOnly bool) (*gin.Engine, *ledger.Ledger) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	l := ledger.New(nil)
	metrics := service.NewMetricsService()
	cache := service.NewCacheService(nil, metrics, time.Minute, zap.NewNop(), false)
	stats := service.NewStatisticsService(l, cache, time.Minute, nil)

	h := Handlers{
		Books:      NewBookHandler(service.NewBookService(l, stats, nil, nil)),
		Decisions:  NewDecisionHandler(service.NewDecisionService(l, stats, nil, nil)),
		Fields:     NewFieldTemplateHandler(service.NewFieldTemplateService(l, nil, nil)),
		Diplomas:   NewDiplomaHandler(service.NewDiplomaService(l, stats, nil, nil)),
		Lookup:     NewLookupHandler(service.NewLookupService(l, stats, metrics, nil, nil, service.LookupServiceConfig{}), "X-Lookup-Source"),
		Statistics: NewStatisticsHandler(stats),
		Ledger:     NewLedgerHandler(service.NewTransferService(l, stats, nil)),
		Metrics:    NewMetricsHandler(metrics, nil),
	}
	cfg := RouterConfig{APIPrefix: "/api/v1", LookupSourceHeader: "X-Lookup-Source", ReadOnly: readOnly}
	return NewRouter(cfg, h, metrics, zap.NewNop()), l
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func dataID(t *testing.T, env envelope) string {
	t.Helper()
	var payload struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	require.NotEmpty(t, payload.ID)
	return payload.ID
}

func TestRouterDiplomaFlow(t *testing.T) {
	router, l := buildTestRouter(t, false)

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/diploma-books", map[string]interface{}{"year": 2025})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bookID := dataID(t, env)

	rec, env = doJSON(t, router, http.MethodPost, "/api/v1/diploma-books", map[string]interface{}{"year": 2025})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_YEAR", env.Error.Code)

	rec, env = doJSON(t, router, http.MethodPost, "/api/v1/graduation-decisions", map[string]interface{}{
		"decisionNumber": "77/QD",
		"issuanceDate":   "2025-06-30",
		"diplomaBookId":  bookID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	decisionID := dataID(t, env)

	var entryIDs []string
	for i, name := range []string{"Nguyen Van An", "Le Thi Binh"} {
		rec, env = doJSON(t, router, http.MethodPost, "/api/v1/diplomas", map[string]interface{}{
			"diplomaBookId":       bookID,
			"decisionId":          decisionID,
			"diplomaSerialNumber": []string{"CT-1", "CT-2"}[i],
			"studentId":           []string{"SV01", "SV02"}[i],
			"fullName":            name,
			"dateOfBirth":         "2003-02-01",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var entry struct {
			ID              string `json:"id"`
			BookEntryNumber int    `json:"bookEntryNumber"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &entry))
		assert.Equal(t, i+1, entry.BookEntryNumber)
		entryIDs = append(entryIDs, entry.ID)
	}

	rec, env = doJSON(t, router, http.MethodGet, "/api/v1/diplomas?diplomaBookId="+bookID+"&pageSize=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.TotalCount)

	rec, env = doJSON(t, router, http.MethodGet, "/api/v1/lookup/diplomas?studentId=SV01", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INSUFFICIENT_CRITERIA", env.Error.Code)

	rec, env = doJSON(t, router, http.MethodGet, "/api/v1/lookup/diplomas?studentId=SV01&fullName=an", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var hits []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &hits))
	require.Len(t, hits, 1)
	assert.Equal(t, "77/QD", hits[0]["decisionNumber"])

	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/lookup/diplomas/"+entryIDs[0], nil, "X-Lookup-Source", "employer-check")
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/lookup/diplomas/unknown", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	records := l.LookupRecords(entryIDs[0])
	require.Len(t, records, 1)
	assert.Equal(t, "employer-check", records[0].LookupSource)

	rec, env = doJSON(t, router, http.MethodGet, "/api/v1/statistics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, env.Meta["cacheHit"])
	var stats struct {
		TotalDiplomas  int            `json:"totalDiplomas"`
		TotalLookups   int            `json:"totalLookups"`
		DiplomasByYear map[string]int `json:"diplomasByYear"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 2, stats.TotalDiplomas)
	assert.Equal(t, 1, stats.TotalLookups)
	assert.Equal(t, map[string]int{"2025": 2}, stats.DiplomasByYear)

	rec, _ = doJSON(t, router, http.MethodDelete, "/api/v1/diploma-books/"+bookID, nil)
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
}

func TestRouterLedgerTransfer(t *testing.T) {
	source, l := buildTestRouter(t, false)
	rec, env := doJSON(t, source, http.MethodPost, "/api/v1/diploma-books", map[string]interface{}{"year": 2024})
	require.Equal(t, http.StatusCreated, rec.Code)
	_ = dataID(t, env)

	exportRec := httptest.NewRecorder()
	source.ServeHTTP(exportRec, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/export", nil))
	require.Equal(t, http.StatusOK, exportRec.Code)
	assert.Contains(t, exportRec.Header().Get("Content-Disposition"), "attachment")

	target, imported := buildTestRouter(t, false)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ledger/import", bytes.NewReader(exportRec.Body.Bytes()))
	req.Header.Set("Content-Type", "application/json")
	importRec := httptest.NewRecorder()
	target.ServeHTTP(importRec, req)
	require.Equal(t, http.StatusOK, importRec.Code, importRec.Body.String())

	if diff := cmp.Diff(l.ExportAll(), imported.ExportAll()); diff != "" {
		t.Fatalf("imported ledger differs (-want +got):\n%s", diff)
	}

	rec, _ = doJSON(t, target, http.MethodGet, "/api/v1/ledger/verify", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterReadOnlyMode(t *testing.T) {
	router, _ := buildTestRouter(t, true)

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/diploma-books", map[string]interface{}{"year": 2024})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "LEDGER_READ_ONLY", env.Error.Code)

	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/diploma-books", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterOpsEndpoints(t *testing.T) {
	router, _ := buildTestRouter(t, false)

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
