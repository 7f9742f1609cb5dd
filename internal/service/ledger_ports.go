package service

import (
	"context"

	"github.com/noah-isme/vanbang-api/internal/models"
)

// The services depend on narrow views of *ledger.Ledger so tests can stub them.

type bookLedger interface {
	Books() []models.DiplomaBook
	Book(id string) (models.DiplomaBook, error)
	BookByYear(year int) (models.DiplomaBook, error)
	AddBook(ctx context.Context, book models.DiplomaBook) (models.DiplomaBook, error)
	UpdateBook(ctx context.Context, book models.DiplomaBook) (models.DiplomaBook, error)
	DeleteBook(ctx context.Context, id string) error
}

type decisionLedger interface {
	Decisions(bookID string) []models.GraduationDecision
	Decision(id string) (models.GraduationDecision, error)
	AddDecision(ctx context.Context, decision models.GraduationDecision) (models.GraduationDecision, error)
	UpdateDecision(ctx context.Context, decision models.GraduationDecision) (models.GraduationDecision, error)
	DeleteDecision(ctx context.Context, id string) error
}

type fieldTemplateLedger interface {
	FieldTemplates() []models.DiplomaFieldTemplate
	AddFieldTemplate(ctx context.Context, tpl models.DiplomaFieldTemplate) (models.DiplomaFieldTemplate, error)
	UpdateFieldTemplate(ctx context.Context, tpl models.DiplomaFieldTemplate) (models.DiplomaFieldTemplate, error)
	DeleteFieldTemplate(ctx context.Context, id string) error
}

type entryLedger interface {
	Entries(filter models.DiplomaEntryFilter) []models.DiplomaEntry
	Entry(id string) (models.DiplomaEntry, error)
	AddEntry(ctx context.Context, entry models.DiplomaEntry, bookID string) (models.DiplomaEntry, error)
	UpdateEntry(ctx context.Context, entry models.DiplomaEntry) (models.DiplomaEntry, error)
	DeleteEntry(ctx context.Context, id string) error
	LookupRecords(entryID string) []models.DiplomaLookupRecord
}

type lookupLedger interface {
	Search(criteria models.DiplomaSearchCriteria) ([]models.DiplomaEntry, error)
	Entry(id string) (models.DiplomaEntry, error)
	RecordLookup(ctx context.Context, entryID, source string) (models.DiplomaLookupRecord, error)
	Decision(id string) (models.GraduationDecision, error)
	Book(id string) (models.DiplomaBook, error)
}

type transferLedger interface {
	ExportAll() models.Snapshot
	ImportAll(ctx context.Context, snapshot models.Snapshot) error
	Verify() models.IntegrityReport
}

type statisticsSource interface {
	Statistics() models.DiplomaStatistics
}

// statisticsInvalidator drops cached statistics after a ledger write.
type statisticsInvalidator interface {
	Invalidate(ctx context.Context)
}

func invalidate(ctx context.Context, stats statisticsInvalidator) {
	if stats != nil {
		stats.Invalidate(ctx)
	}
}
