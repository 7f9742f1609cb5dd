package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/vanbang-api/internal/models"
)

func TestSnapshotFileRepositoryMissingFileIsEmpty(t *testing.T) {
	repo, err := NewSnapshotFileRepository(filepath.Join(t.TempDir(), "data", "ledger.json"), nil)
	require.NoError(t, err)

	snapshot, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, snapshot.Empty())
	assert.NotNil(t, snapshot.DiplomaBooks)
}

func TestSnapshotFileRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, err := NewSnapshotFileRepository(filepath.Join(t.TempDir(), "ledger.json"), nil)
	require.NoError(t, err)

	start := models.NewDate(2025, time.January, 1)
	in := models.Snapshot{
		DiplomaBooks:        []models.DiplomaBook{{ID: "b1", Year: 2025, StartDate: &start, CurrentEntryNumber: 1}},
		DiplomaInformations: []models.DiplomaEntry{{ID: "e1", DiplomaBookID: "b1", BookEntryNumber: 1, AdditionalFields: map[string]interface{}{"GPA": 3.2}}},
	}
	in.Normalize()
	require.NoError(t, repo.Save(ctx, in, models.CollectionBooks))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotFileRepositoryReadsLegacyKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"diplomaBooks":[],"diplomaInfos":[{"id":"e1"}],"diplomaLookupLogs":[{"id":"l1","diplomaId":"e1"}]}`), 0o644))
	repo, err := NewSnapshotFileRepository(path, nil)
	require.NoError(t, err)

	snapshot, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.DiplomaInformations, 1)
	require.Len(t, snapshot.DiplomaLookupRecords, 1)
}

func TestSnapshotFileRepositoryWatchIgnoresOwnWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	repo, err := NewSnapshotFileRepository(path, nil)
	require.NoError(t, err)
	repo.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- repo.Watch(ctx, func(context.Context) { changes <- struct{}{} })
	}()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, repo.Save(ctx, models.Snapshot{}))
	select {
	case <-changes:
		t.Fatal("own write must not trigger a reload")
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(path, []byte(`{"diplomaBooks":[{"id":"external","year":2030}]}`), 0o644))
	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("external write was not detected")
	}

	cancel()
	require.NoError(t, <-done)
}
