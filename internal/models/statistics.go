package models

import "time"

// DiplomaStatistics aggregates ledger counters for dashboards.
type DiplomaStatistics struct {
	TotalDiplomas  int         `json:"totalDiplomas"`
	TotalBooks     int         `json:"totalBooks"`
	TotalDecisions int         `json:"totalDecisions"`
	TotalLookups   int         `json:"totalLookups"`
	DiplomasByYear map[int]int `json:"diplomasByYear"`
	GeneratedAt    time.Time   `json:"generatedAt"`
}

// IntegrityIssue describes one dangling reference found in the ledger.
type IntegrityIssue struct {
	Collection Collection `json:"collection"`
	RecordID   string     `json:"recordId"`
	Field      string     `json:"field"`
	MissingID  string     `json:"missingId"`
}

// IntegrityReport is the result of a referential integrity sweep.
// OrphanedLookups lists lookup records whose entry was deleted. Deleting an
// entry keeps its lookup history, so they are informational and do not
// affect OK.
type IntegrityReport struct {
	Issues          []IntegrityIssue `json:"issues"`
	OrphanedLookups []IntegrityIssue `json:"orphanedLookups"`
	CheckedAt       time.Time        `json:"checkedAt"`
}

// OK reports whether no dangling references were found.
func (r IntegrityReport) OK() bool {
	return len(r.Issues) == 0
}
