package ledger

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/vanbang-api/internal/models"
	appErrors "github.com/noah-isme/vanbang-api/pkg/errors"
)

func findEntry(state *models.Snapshot, id string) int {
	for i := range state.DiplomaInformations {
		if state.DiplomaInformations[i].ID == id {
			return i
		}
	}
	return -1
}

func checkDecisionForBook(state *models.Snapshot, decisionID, bookID string) error {
	if decisionID == "" {
		return nil
	}
	idx := findDecision(state, decisionID)
	if idx < 0 {
		return appErrors.ErrDecisionNotFound
	}
	if state.GraduationDecisions[idx].DiplomaBookID != bookID {
		return appErrors.WithDetails(
			appErrors.Clone(appErrors.ErrValidation, "graduation decision belongs to another diploma book"),
			map[string]interface{}{"decisionId": decisionID, "diplomaBookId": bookID},
		)
	}
	return nil
}

// AddEntry appends a diploma to the book and assigns it the next entry number.
// The book counter and the entry are persisted together.
func (l *Ledger) AddEntry(ctx context.Context, entry models.DiplomaEntry, bookID string) (models.DiplomaEntry, error) {
	entry = entry.Clone()
	if entry.ID == "" {
		entry.ID = l.newID()
	}
	entry.DiplomaBookID = bookID

	err := l.apply(ctx, "add_entry", func(staged *models.Snapshot) ([]models.Collection, error) {
		idx := findBook(staged, bookID)
		if idx < 0 {
			return nil, appErrors.ErrBookNotFound
		}
		if findEntry(staged, entry.ID) >= 0 {
			return nil, appErrors.Clone(appErrors.ErrConflict, "diploma entry id already in use")
		}
		if err := checkDecisionForBook(staged, entry.DecisionID, bookID); err != nil {
			return nil, err
		}
		fields, err := ValidateFields(staged.DiplomaFieldTemplates, entry.AdditionalFields)
		if err != nil {
			return nil, err
		}

		now := l.now()
		book := &staged.DiplomaBooks[idx]
		book.CurrentEntryNumber++
		book.UpdatedAt = now

		entry.BookEntryNumber = book.CurrentEntryNumber
		entry.AdditionalFields = fields
		entry.CreatedAt = now
		entry.UpdatedAt = now
		staged.DiplomaInformations = append(staged.DiplomaInformations, entry)
		return []models.Collection{models.CollectionBooks, models.CollectionEntries}, nil
	})
	if err != nil {
		return models.DiplomaEntry{}, err
	}
	return entry.Clone(), nil
}

// UpdateEntry replaces an entry by id. Book, entry number and creation time
// cannot change.
func (l *Ledger) UpdateEntry(ctx context.Context, entry models.DiplomaEntry) (models.DiplomaEntry, error) {
	var updated models.DiplomaEntry
	err := l.apply(ctx, "update_entry", func(staged *models.Snapshot) ([]models.Collection, error) {
		idx := findEntry(staged, entry.ID)
		if idx < 0 {
			return nil, appErrors.ErrEntryNotFound
		}
		current := staged.DiplomaInformations[idx]
		if err := checkDecisionForBook(staged, entry.DecisionID, current.DiplomaBookID); err != nil {
			return nil, err
		}
		fields, err := ValidateFields(staged.DiplomaFieldTemplates, entry.AdditionalFields)
		if err != nil {
			return nil, err
		}

		updated = entry.Clone()
		updated.DiplomaBookID = current.DiplomaBookID
		updated.BookEntryNumber = current.BookEntryNumber
		updated.CreatedAt = current.CreatedAt
		updated.UpdatedAt = l.now()
		updated.AdditionalFields = fields
		staged.DiplomaInformations[idx] = updated
		return []models.Collection{models.CollectionEntries}, nil
	})
	if err != nil {
		return models.DiplomaEntry{}, err
	}
	return updated.Clone(), nil
}

// DeleteEntry removes an entry. Its lookup records are kept and its number is
// never handed out again.
func (l *Ledger) DeleteEntry(ctx context.Context, id string) error {
	return l.apply(ctx, "delete_entry", func(staged *models.Snapshot) ([]models.Collection, error) {
		idx := findEntry(staged, id)
		if idx < 0 {
			return nil, appErrors.ErrEntryNotFound
		}
		staged.DiplomaInformations = append(staged.DiplomaInformations[:idx], staged.DiplomaInformations[idx+1:]...)
		return []models.Collection{models.CollectionEntries}, nil
	})
}

// Entry returns the entry with the given id.
func (l *Ledger) Entry(id string) (models.DiplomaEntry, error) {
	var (
		entry models.DiplomaEntry
		found bool
	)
	l.read(func(state *models.Snapshot) {
		if idx := findEntry(state, id); idx >= 0 {
			entry, found = state.DiplomaInformations[idx].Clone(), true
		}
	})
	if !found {
		return models.DiplomaEntry{}, appErrors.ErrEntryNotFound
	}
	return entry, nil
}

// Entries lists entries matching the administrative filter, ordered by book and
// entry number. Query matches serial number, student id or name ignoring case.
// Pagination is left to the caller.
func (l *Ledger) Entries(filter models.DiplomaEntryFilter) []models.DiplomaEntry {
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	var out []models.DiplomaEntry
	l.read(func(state *models.Snapshot) {
		out = make([]models.DiplomaEntry, 0)
		for _, e := range state.DiplomaInformations {
			if filter.BookID != "" && e.DiplomaBookID != filter.BookID {
				continue
			}
			if filter.DecisionID != "" && e.DecisionID != filter.DecisionID {
				continue
			}
			if query != "" &&
				!strings.Contains(strings.ToLower(e.DiplomaSerialNumber), query) &&
				!strings.Contains(strings.ToLower(e.StudentID), query) &&
				!strings.Contains(strings.ToLower(e.FullName), query) {
				continue
			}
			out = append(out, e.Clone())
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DiplomaBookID != out[j].DiplomaBookID {
			return out[i].DiplomaBookID < out[j].DiplomaBookID
		}
		return out[i].BookEntryNumber < out[j].BookEntryNumber
	})
	return out
}

// Search runs the public lookup. At least two criteria must be supplied; all of
// them must hold for an entry to match.
func (l *Ledger) Search(criteria models.DiplomaSearchCriteria) ([]models.DiplomaEntry, error) {
	if provided := criteria.Provided(); provided < 2 {
		return nil, appErrors.WithDetails(appErrors.ErrInsufficientCriteria, map[string]interface{}{"provided": provided})
	}
	var out []models.DiplomaEntry
	l.read(func(state *models.Snapshot) {
		out = make([]models.DiplomaEntry, 0)
		for _, e := range state.DiplomaInformations {
			if criteria.Matches(e) {
				out = append(out, e.Clone())
			}
		}
	})
	return out, nil
}

// RecordLookup appends a lookup record for the entry and bumps the lookup
// counter of the entry's graduation decision.
func (l *Ledger) RecordLookup(ctx context.Context, entryID, source string) (models.DiplomaLookupRecord, error) {
	record := models.DiplomaLookupRecord{
		ID:           l.newID(),
		DiplomaID:    entryID,
		LookupDate:   l.now(),
		LookupSource: source,
	}
	err := l.apply(ctx, "record_lookup", func(staged *models.Snapshot) ([]models.Collection, error) {
		idx := findEntry(staged, entryID)
		if idx < 0 {
			return nil, appErrors.ErrEntryNotFound
		}
		staged.DiplomaLookupRecords = append(staged.DiplomaLookupRecords, record)

		decisionID := staged.DiplomaInformations[idx].DecisionID
		didx := findDecision(staged, decisionID)
		if didx < 0 {
			l.logger.Warn("lookup recorded for entry without decision",
				zap.String("entry_id", entryID),
				zap.String("decision_id", decisionID))
			return []models.Collection{models.CollectionLookups}, nil
		}
		staged.GraduationDecisions[didx].TotalLookups++
		return []models.Collection{models.CollectionLookups, models.CollectionDecisions}, nil
	})
	if err != nil {
		return models.DiplomaLookupRecord{}, err
	}
	return record, nil
}

// LookupRecords lists the lookups of one entry, oldest first.
func (l *Ledger) LookupRecords(entryID string) []models.DiplomaLookupRecord {
	var out []models.DiplomaLookupRecord
	l.read(func(state *models.Snapshot) {
		out = make([]models.DiplomaLookupRecord, 0)
		for _, r := range state.DiplomaLookupRecords {
			if r.DiplomaID == entryID {
				out = append(out, r)
			}
		}
	})
	return out
}
