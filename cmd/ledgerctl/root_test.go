package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/vanbang-api/internal/models"
)

const cliSeed = `
books:
  - key: y2025
    year: 2025
decisions:
  - key: qd
    book: y2025
    number: 77/QD
    issuedOn: 2025-06-30
diplomas:
  - book: y2025
    decision: qd
    serial: SN-1
    studentId: SV01
    fullName: Tran An
    dateOfBirth: 2003-01-02
  - book: y2025
    decision: qd
    serial: SN-2
    studentId: SV02
    fullName: Pham Binh
    dateOfBirth: 2003-05-06
`

func useFileLedger(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("SNAPSHOT_FILE", filepath.Join(dir, "ledger.json"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SEED_FILE", "")
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSeedThenStats(t *testing.T) {
	dir := useFileLedger(t)
	seedPath := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(cliSeed), 0o644))

	_, err := runCLI(t, "seed", "--file", seedPath)
	require.NoError(t, err)

	out, err := runCLI(t, "stats")
	require.NoError(t, err)

	var stats models.DiplomaStatistics
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 2, stats.TotalDiplomas)
	assert.Equal(t, 1, stats.TotalBooks)
	assert.Equal(t, map[int]int{2025: 2}, stats.DiplomasByYear)
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := useFileLedger(t)
	seedPath := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(cliSeed), 0o644))
	_, err := runCLI(t, "seed", "-f", seedPath)
	require.NoError(t, err)

	exported := filepath.Join(dir, "export.json")
	_, err = runCLI(t, "export", "--out", exported)
	require.NoError(t, err)

	// Import into a second, empty ledger.
	t.Setenv("SNAPSHOT_FILE", filepath.Join(dir, "other.json"))
	_, err = runCLI(t, "import", "--in", exported)
	require.NoError(t, err)

	out, err := runCLI(t, "export")
	require.NoError(t, err)
	original, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.JSONEq(t, string(original), out)

	_, err = runCLI(t, "verify")
	assert.NoError(t, err)
}

func TestVerifyReportsDanglingReferences(t *testing.T) {
	dir := useFileLedger(t)
	doc := `{"diplomaBooks":[],"graduationDecisions":[{"id":"d1","decisionNumber":"1/QD","issuanceDate":"2025-01-01","diplomaBookId":"missing","totalLookups":0}],"diplomaFieldTemplates":[],"diplomaInformations":[],"diplomaLookupRecords":[]}`
	in := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(in, []byte(doc), 0o644))

	_, err := runCLI(t, "import", "--in", in)
	require.NoError(t, err)

	_, err = runCLI(t, "verify")
	require.Error(t, err)
	assert.ErrorIs(t, err, errIntegrity)
}

func TestSeedRequiresFile(t *testing.T) {
	useFileLedger(t)
	_, err := runCLI(t, "seed")
	require.Error(t, err)
}
