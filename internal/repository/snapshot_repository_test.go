package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/vanbang-api/internal/models"
)

func newSnapshotRepoMock(t *testing.T) (*SnapshotRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewSnapshotRepository(sqlx.NewDb(db, "postgres")), mock, func() { db.Close() }
}

func TestSnapshotRepositoryLoad(t *testing.T) {
	repo, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"key", "payload"}).
		AddRow("diplomaBooks", []byte(`[{"id":"b1","year":2025,"currentEntryNumber":2}]`)).
		AddRow("diplomaInfos", []byte(`[{"id":"e1","diplomaBookId":"b1","bookEntryNumber":1}]`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT key, payload FROM ledger_collections")).WillReturnRows(rows)

	snapshot, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.DiplomaBooks, 1)
	assert.Equal(t, 2, snapshot.DiplomaBooks[0].CurrentEntryNumber)
	require.Len(t, snapshot.DiplomaInformations, 1)
	assert.Empty(t, snapshot.GraduationDecisions)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositorySaveUpsertsNamedCollections(t *testing.T) {
	repo, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	upsert := regexp.QuoteMeta("INSERT INTO ledger_collections (key, payload, updated_at)")
	mock.ExpectBegin()
	mock.ExpectExec(upsert).
		WithArgs("diplomaBooks", `[{"id":"b1","year":2025,"currentEntryNumber":1,"createdAt":"0001-01-01T00:00:00Z","updatedAt":"0001-01-01T00:00:00Z"}]`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsert).
		WithArgs("diplomaInformations", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	snapshot := models.Snapshot{
		DiplomaBooks:        []models.DiplomaBook{{ID: "b1", Year: 2025, CurrentEntryNumber: 1}},
		DiplomaInformations: []models.DiplomaEntry{{ID: "e1", DiplomaBookID: "b1", BookEntryNumber: 1}},
	}
	require.NoError(t, repo.Save(context.Background(), snapshot, models.CollectionEntries, models.CollectionBooks))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositorySaveRollsBackOnError(t *testing.T) {
	repo, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ledger_collections")).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Save(context.Background(), models.Snapshot{}, models.CollectionBooks)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert collection diplomaBooks")
	require.NoError(t, mock.ExpectationsWereMet())
}
