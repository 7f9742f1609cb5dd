package ledger

import "github.com/noah-isme/vanbang-api/internal/models"

// Verify reports dangling references without changing anything. Lookups of
// deleted entries are listed separately.
func (l *Ledger) Verify() models.IntegrityReport {
	report := models.IntegrityReport{Issues: []models.IntegrityIssue{}, OrphanedLookups: []models.IntegrityIssue{}}
	l.read(func(state *models.Snapshot) {
		books := make(map[string]struct{}, len(state.DiplomaBooks))
		for _, b := range state.DiplomaBooks {
			books[b.ID] = struct{}{}
		}
		decisions := make(map[string]struct{}, len(state.GraduationDecisions))
		for _, d := range state.GraduationDecisions {
			decisions[d.ID] = struct{}{}
			if _, ok := books[d.DiplomaBookID]; !ok {
				report.Issues = append(report.Issues, models.IntegrityIssue{
					Collection: models.CollectionDecisions, RecordID: d.ID, Field: "diplomaBookId", MissingID: d.DiplomaBookID,
				})
			}
		}
		entries := make(map[string]struct{}, len(state.DiplomaInformations))
		for _, e := range state.DiplomaInformations {
			entries[e.ID] = struct{}{}
			if _, ok := books[e.DiplomaBookID]; !ok {
				report.Issues = append(report.Issues, models.IntegrityIssue{
					Collection: models.CollectionEntries, RecordID: e.ID, Field: "diplomaBookId", MissingID: e.DiplomaBookID,
				})
			}
			if _, ok := decisions[e.DecisionID]; e.DecisionID != "" && !ok {
				report.Issues = append(report.Issues, models.IntegrityIssue{
					Collection: models.CollectionEntries, RecordID: e.ID, Field: "decisionId", MissingID: e.DecisionID,
				})
			}
		}
		for _, r := range state.DiplomaLookupRecords {
			if _, ok := entries[r.DiplomaID]; !ok {
				report.OrphanedLookups = append(report.OrphanedLookups, models.IntegrityIssue{
					Collection: models.CollectionLookups, RecordID: r.ID, Field: "diplomaId", MissingID: r.DiplomaID,
				})
			}
		}
	})
	report.CheckedAt = l.now()
	return report
}
