package service

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/vanbang-api/internal/models"
)

func TestTransferServiceRoundTrip(t *testing.T) {
	source := newMemoryLedger(t)
	_, _, entries := seedRegister(t, source, 2024, "Nguyen Van An", "Le Thi Binh")
	_, err := source.RecordLookup(context.Background(), entries[1].ID, "kiosk")
	require.NoError(t, err)

	exported := NewTransferService(source, nil, nil).Export(context.Background())

	target := newMemoryLedger(t)
	stats := &invalidatorStub{}
	svc := NewTransferService(target, stats, nil)
	summary, err := svc.Import(context.Background(), exported)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Counts[models.CollectionEntries])
	assert.Equal(t, 1, summary.Counts[models.CollectionLookups])
	assert.Equal(t, 1, stats.calls)

	if diff := cmp.Diff(exported, target.ExportAll()); diff != "" {
		t.Fatalf("imported ledger differs (-want +got):\n%s", diff)
	}
	assert.True(t, svc.Verify(context.Background()).OK())
}

func TestTransferServiceImportKeepsDanglingReferences(t *testing.T) {
	target := newMemoryLedger(t)
	svc := NewTransferService(target, nil, nil)

	_, err := svc.Import(context.Background(), models.Snapshot{
		DiplomaInformations: []models.DiplomaEntry{{ID: "e1", DiplomaBookID: "gone", DecisionID: "gone"}},
	})
	require.NoError(t, err)

	report := svc.Verify(context.Background())
	assert.False(t, report.OK())
	assert.Len(t, report.Issues, 2)
	assert.Empty(t, target.ExportAll().DiplomaBooks)
}
