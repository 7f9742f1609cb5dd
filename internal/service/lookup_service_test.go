package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/vanbang-api/internal/dto"
	"github.com/noah-isme/vanbang-api/internal/models"
	appErrors "github.com/noah-isme/vanbang-api/pkg/errors"
)

type lookupMetricsStub struct {
	calls []string
}

func (m *lookupMetricsStub) RecordLookup(source, outcome string) {
	m.calls = append(m.calls, source+":"+outcome)
}

func TestLookupServiceSearchRequiresTwoCriteria(t *testing.T) {
	l := newMemoryLedger(t)
	seedRegister(t, l, 2024, "Nguyen Van An")
	svc := NewLookupService(l, nil, nil, nil, nil, LookupServiceConfig{})

	_, err := svc.Search(context.Background(), dto.LookupQuery{FullName: "an"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInsufficientCriteria.Code, appErr.Code)
	assert.Equal(t, 1, appErr.Details["provided"])
}

func TestLookupServiceSearchEnrichesResults(t *testing.T) {
	l := newMemoryLedger(t)
	_, decision, entries := seedRegister(t, l, 2024, "Nguyen Van An", "Le Thi Binh")
	svc := NewLookupService(l, nil, nil, nil, nil, LookupServiceConfig{})

	results, err := svc.Search(context.Background(), dto.LookupQuery{
		FullName:    "van an",
		DateOfBirth: entries[0].DateOfBirth.String(),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, entries[0].ID, results[0].ID)
	assert.Equal(t, 2024, results[0].BookYear)
	assert.Equal(t, decision.DecisionNumber, results[0].DecisionNumber)
	require.NotNil(t, results[0].IssuanceDate)
	assert.True(t, results[0].IssuanceDate.Equal(decision.IssuanceDate))
}

func TestLookupServiceSearchRejectsBadDate(t *testing.T) {
	svc := NewLookupService(newMemoryLedger(t), nil, nil, nil, nil, LookupServiceConfig{})
	_, err := svc.Search(context.Background(), dto.LookupQuery{StudentID: "B1", DateOfBirth: "31/12/2001"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLookupServiceVerifyRecordsLookup(t *testing.T) {
	l := newMemoryLedger(t)
	_, decision, entries := seedRegister(t, l, 2024, "Nguyen Van An")
	stats := &invalidatorStub{}
	metrics := &lookupMetricsStub{}
	svc := NewLookupService(l, stats, metrics, nil, nil, LookupServiceConfig{DefaultSource: "portal"})
	ctx := context.Background()

	detail, err := svc.Verify(ctx, entries[0].ID, "")
	require.NoError(t, err)
	assert.Equal(t, "portal", detail.Lookup.LookupSource)
	assert.Equal(t, entries[0].ID, detail.Lookup.DiplomaID)
	assert.Equal(t, entries[0].FullName, detail.Diploma.FullName)

	_, err = svc.Verify(ctx, entries[0].ID, "  "+strings.Repeat("k", 80))
	require.NoError(t, err)

	refreshed, err := l.Decision(decision.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, refreshed.TotalLookups)
	assert.Len(t, l.LookupRecords(entries[0].ID), 2)
	assert.Equal(t, 2, stats.calls)
	assert.Equal(t, "portal:recorded", metrics.calls[0])
	assert.Equal(t, "other:recorded", metrics.calls[1])
	assert.Equal(t, strings.Repeat("k", maxLookupSourceLength), l.LookupRecords(entries[0].ID)[1].LookupSource)
}

func TestLookupServiceVerifyUnknownEntry(t *testing.T) {
	l := newMemoryLedger(t)
	seedRegister(t, l, 2024, "Nguyen Van An")
	stats := &invalidatorStub{}
	metrics := &lookupMetricsStub{}
	svc := NewLookupService(l, stats, metrics, nil, nil, LookupServiceConfig{KnownSources: []string{"kiosk"}})

	_, err := svc.Verify(context.Background(), "missing", "kiosk")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEntryNotFound.Code, appErrors.FromError(err).Code)
	assert.Equal(t, []string{"kiosk:not_found"}, metrics.calls)
	assert.Zero(t, stats.calls)
	assert.Zero(t, l.Statistics().TotalLookups)
}

func TestLookupServiceVerifyTruncatesSourceOnRuneBoundary(t *testing.T) {
	l := newMemoryLedger(t)
	_, _, entries := seedRegister(t, l, 2024, "Nguyen Van An")
	metrics := NewMetricsService()
	prefix := strings.Repeat("k", maxLookupSourceLength-1)
	svc := NewLookupService(l, nil, metrics, nil, nil, LookupServiceConfig{KnownSources: []string{prefix}})
	ctx := context.Background()

	detail, err := svc.Verify(ctx, entries[0].ID, prefix+"ữ")
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(detail.Lookup.LookupSource))
	assert.Equal(t, prefix, detail.Lookup.LookupSource)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.lookups.WithLabelValues(prefix, "recorded")))

	detail, err = svc.Verify(ctx, entries[0].ID, "kiosk\xff\xfe")
	require.NoError(t, err)
	assert.Equal(t, "kiosk", detail.Lookup.LookupSource)

	payload, err := json.Marshal(l.ExportAll())
	require.NoError(t, err)
	var snapshot models.Snapshot
	require.NoError(t, json.Unmarshal(payload, &snapshot))
	restored := newMemoryLedger(t)
	require.NoError(t, restored.ImportAll(ctx, snapshot))
	records := restored.LookupRecords(entries[0].ID)
	require.Len(t, records, 2)
	assert.ElementsMatch(t, []string{prefix, "kiosk"}, []string{records[0].LookupSource, records[1].LookupSource})
}

func TestLookupServiceVerifyCollapsesUnknownSourceLabel(t *testing.T) {
	l := newMemoryLedger(t)
	_, _, entries := seedRegister(t, l, 2024, "Nguyen Van An")
	metrics := NewMetricsService()
	svc := NewLookupService(l, nil, metrics, nil, nil, LookupServiceConfig{KnownSources: []string{"kiosk"}})
	ctx := context.Background()

	for _, source := range []string{"", "kiosk", "attacker-1", "attacker-2"} {
		_, err := svc.Verify(ctx, entries[0].ID, source)
		require.NoError(t, err)
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.lookups.WithLabelValues("public-portal", "recorded")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.lookups.WithLabelValues("kiosk", "recorded")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.lookups.WithLabelValues(otherLookupSource, "recorded")))
	assert.Equal(t, map[string]uint64{"public-portal": 1, "kiosk": 1, otherLookupSource: 2}, metrics.Snapshot().LookupsBySource)

	var sources []string
	for _, record := range l.LookupRecords(entries[0].ID) {
		sources = append(sources, record.LookupSource)
	}
	assert.ElementsMatch(t, []string{"public-portal", "kiosk", "attacker-1", "attacker-2"}, sources)
}
