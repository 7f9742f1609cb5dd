package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/vanbang-api/internal/models"
)

const sampleSeed = `
fields:
  - name: Classification
    dataType: String
    default: Good
books:
  - key: y2024
    year: 2024
    startDate: 2024-01-01
    endDate: 2024-12-31
decisions:
  - key: qd1
    book: y2024
    number: 1024/QD-DHCT
    issuedOn: 2024-06-20
    summary: Regular cohort
diplomas:
  - book: y2024
    decision: qd1
    serial: CT-000101
    studentId: B2001001
    fullName: Nguyen Van An
    dateOfBirth: 2002-03-14
  - book: y2024
    decision: qd1
    serial: CT-000102
    studentId: B2001002
    fullName: Le Thi Binh
    dateOfBirth: 2002-07-01
    fields:
      Classification: Excellent
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSeedServiceApply(t *testing.T) {
	l := newMemoryLedger(t)
	stats := &invalidatorStub{}
	svc := NewSeedService(l, stats, nil)

	file, err := LoadSeedFile(writeSeed(t, sampleSeed))
	require.NoError(t, err)

	result, err := svc.Apply(context.Background(), file)
	require.NoError(t, err)
	assert.Equal(t, &SeedResult{Fields: 1, Books: 1, Decisions: 1, Diplomas: 2}, result)
	assert.Equal(t, 1, stats.calls)

	entries := l.Entries(models.DiplomaEntryFilter{})
	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[1].BookEntryNumber)
	assert.Equal(t, "Good", entries[0].AdditionalFields["Classification"])
	assert.Equal(t, "Excellent", entries[1].AdditionalFields["Classification"])

	again, err := svc.Apply(context.Background(), file)
	require.NoError(t, err)
	assert.True(t, again.Skipped)
	assert.Len(t, l.Entries(models.DiplomaEntryFilter{}), 2)
}

func TestSeedServiceUnknownKey(t *testing.T) {
	svc := NewSeedService(newMemoryLedger(t), nil, nil)
	file, err := LoadSeedFile(writeSeed(t, `
books:
  - key: y2024
    year: 2024
decisions:
  - key: qd1
    book: y2023
    number: 1/QD
    issuedOn: 2024-06-20
`))
	require.NoError(t, err)

	_, err = svc.Apply(context.Background(), file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "y2023")
}

func TestLoadSeedFileErrors(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = LoadSeedFile(writeSeed(t, "books: [oops"))
	require.Error(t, err)
}
