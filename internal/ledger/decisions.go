package ledger

import (
	"context"
	"sort"

	"github.com/noah-isme/vanbang-api/internal/models"
	appErrors "github.com/noah-isme/vanbang-api/pkg/errors"
)

func findDecision(state *models.Snapshot, id string) int {
	for i := range state.GraduationDecisions {
		if state.GraduationDecisions[i].ID == id {
			return i
		}
	}
	return -1
}

// AddDecision records a graduation decision against an existing book. The
// lookup counter is forced to zero.
func (l *Ledger) AddDecision(ctx context.Context, decision models.GraduationDecision) (models.GraduationDecision, error) {
	if decision.ID == "" {
		decision.ID = l.newID()
	}
	decision.TotalLookups = 0
	decision.CreatedAt = l.now()
	decision.UpdatedAt = decision.CreatedAt

	err := l.apply(ctx, "add_decision", func(staged *models.Snapshot) ([]models.Collection, error) {
		if findBook(staged, decision.DiplomaBookID) < 0 {
			return nil, appErrors.ErrBookNotFound
		}
		if findDecision(staged, decision.ID) >= 0 {
			return nil, appErrors.Clone(appErrors.ErrConflict, "graduation decision id already in use")
		}
		staged.GraduationDecisions = append(staged.GraduationDecisions, decision)
		return []models.Collection{models.CollectionDecisions}, nil
	})
	if err != nil {
		return models.GraduationDecision{}, err
	}
	return decision, nil
}

// UpdateDecision replaces the descriptive fields of a decision. The lookup
// counter only moves through RecordLookup.
func (l *Ledger) UpdateDecision(ctx context.Context, decision models.GraduationDecision) (models.GraduationDecision, error) {
	var updated models.GraduationDecision
	err := l.apply(ctx, "update_decision", func(staged *models.Snapshot) ([]models.Collection, error) {
		idx := findDecision(staged, decision.ID)
		if idx < 0 {
			return nil, appErrors.ErrDecisionNotFound
		}
		if findBook(staged, decision.DiplomaBookID) < 0 {
			return nil, appErrors.ErrBookNotFound
		}
		current := staged.GraduationDecisions[idx]
		updated = decision
		updated.TotalLookups = current.TotalLookups
		updated.CreatedAt = current.CreatedAt
		updated.UpdatedAt = l.now()
		staged.GraduationDecisions[idx] = updated
		return []models.Collection{models.CollectionDecisions}, nil
	})
	if err != nil {
		return models.GraduationDecision{}, err
	}
	return updated, nil
}

// DeleteDecision removes a decision no entry refers to.
func (l *Ledger) DeleteDecision(ctx context.Context, id string) error {
	return l.apply(ctx, "delete_decision", func(staged *models.Snapshot) ([]models.Collection, error) {
		idx := findDecision(staged, id)
		if idx < 0 {
			return nil, appErrors.ErrDecisionNotFound
		}
		for _, e := range staged.DiplomaInformations {
			if e.DecisionID == id {
				return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "graduation decision still has entries")
			}
		}
		staged.GraduationDecisions = append(staged.GraduationDecisions[:idx], staged.GraduationDecisions[idx+1:]...)
		return []models.Collection{models.CollectionDecisions}, nil
	})
}

// Decision returns the decision with the given id.
func (l *Ledger) Decision(id string) (models.GraduationDecision, error) {
	var (
		decision models.GraduationDecision
		found    bool
	)
	l.read(func(state *models.Snapshot) {
		if idx := findDecision(state, id); idx >= 0 {
			decision, found = state.GraduationDecisions[idx], true
		}
	})
	if !found {
		return models.GraduationDecision{}, appErrors.ErrDecisionNotFound
	}
	return decision, nil
}

// Decisions lists decisions ordered by issuance date, optionally limited to one book.
func (l *Ledger) Decisions(bookID string) []models.GraduationDecision {
	var out []models.GraduationDecision
	l.read(func(state *models.Snapshot) {
		out = make([]models.GraduationDecision, 0, len(state.GraduationDecisions))
		for _, d := range state.GraduationDecisions {
			if bookID == "" || d.DiplomaBookID == bookID {
				out = append(out, d)
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].IssuanceDate.Before(out[j].IssuanceDate.Time) })
	return out
}
