package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/noah-isme/vanbang-api/internal/models"
	appErrors "github.com/noah-isme/vanbang-api/pkg/errors"
)

func findBook(state *models.Snapshot, id string) int {
	for i := range state.DiplomaBooks {
		if state.DiplomaBooks[i].ID == id {
			return i
		}
	}
	return -1
}

func duplicateYear(year int) error {
	return appErrors.WithDetails(
		appErrors.Clone(appErrors.ErrDuplicateYear, fmt.Sprintf("a diploma book for %d already exists", year)),
		map[string]interface{}{"year": year},
	)
}

// AddBook registers a new yearly book. Its entry counter always starts at zero.
func (l *Ledger) AddBook(ctx context.Context, book models.DiplomaBook) (models.DiplomaBook, error) {
	book = book.Clone()
	if book.ID == "" {
		book.ID = l.newID()
	}
	book.CurrentEntryNumber = 0
	book.CreatedAt = l.now()
	book.UpdatedAt = book.CreatedAt

	err := l.apply(ctx, "add_book", func(staged *models.Snapshot) ([]models.Collection, error) {
		for _, existing := range staged.DiplomaBooks {
			if existing.Year == book.Year {
				return nil, duplicateYear(book.Year)
			}
			if existing.ID == book.ID {
				return nil, appErrors.Clone(appErrors.ErrConflict, "diploma book id already in use")
			}
		}
		staged.DiplomaBooks = append(staged.DiplomaBooks, book)
		return []models.Collection{models.CollectionBooks}, nil
	})
	if err != nil {
		return models.DiplomaBook{}, err
	}
	return book.Clone(), nil
}

// UpdateBook replaces the year and date range of a book. The entry counter and
// creation time are kept.
func (l *Ledger) UpdateBook(ctx context.Context, book models.DiplomaBook) (models.DiplomaBook, error) {
	var updated models.DiplomaBook
	err := l.apply(ctx, "update_book", func(staged *models.Snapshot) ([]models.Collection, error) {
		idx := findBook(staged, book.ID)
		if idx < 0 {
			return nil, appErrors.ErrBookNotFound
		}
		for _, existing := range staged.DiplomaBooks {
			if existing.ID != book.ID && existing.Year == book.Year {
				return nil, duplicateYear(book.Year)
			}
		}
		current := staged.DiplomaBooks[idx]
		updated = book.Clone()
		updated.CurrentEntryNumber = current.CurrentEntryNumber
		updated.CreatedAt = current.CreatedAt
		updated.UpdatedAt = l.now()
		staged.DiplomaBooks[idx] = updated
		return []models.Collection{models.CollectionBooks}, nil
	})
	if err != nil {
		return models.DiplomaBook{}, err
	}
	return updated.Clone(), nil
}

// DeleteBook removes a book that no decision or entry refers to.
func (l *Ledger) DeleteBook(ctx context.Context, id string) error {
	return l.apply(ctx, "delete_book", func(staged *models.Snapshot) ([]models.Collection, error) {
		idx := findBook(staged, id)
		if idx < 0 {
			return nil, appErrors.ErrBookNotFound
		}
		for _, e := range staged.DiplomaInformations {
			if e.DiplomaBookID == id {
				return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "diploma book still has entries")
			}
		}
		for _, d := range staged.GraduationDecisions {
			if d.DiplomaBookID == id {
				return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "diploma book still has graduation decisions")
			}
		}
		staged.DiplomaBooks = append(staged.DiplomaBooks[:idx], staged.DiplomaBooks[idx+1:]...)
		return []models.Collection{models.CollectionBooks}, nil
	})
}

// Book returns the book with the given id.
func (l *Ledger) Book(id string) (models.DiplomaBook, error) {
	var (
		book  models.DiplomaBook
		found bool
	)
	l.read(func(state *models.Snapshot) {
		if idx := findBook(state, id); idx >= 0 {
			book, found = state.DiplomaBooks[idx].Clone(), true
		}
	})
	if !found {
		return models.DiplomaBook{}, appErrors.ErrBookNotFound
	}
	return book, nil
}

// BookByYear returns the book registered for year.
func (l *Ledger) BookByYear(year int) (models.DiplomaBook, error) {
	var (
		book  models.DiplomaBook
		found bool
	)
	l.read(func(state *models.Snapshot) {
		for _, b := range state.DiplomaBooks {
			if b.Year == year {
				book, found = b.Clone(), true
				return
			}
		}
	})
	if !found {
		return models.DiplomaBook{}, appErrors.Clone(appErrors.ErrBookNotFound, fmt.Sprintf("no diploma book for %d", year))
	}
	return book, nil
}

// Books lists every book, newest year first.
func (l *Ledger) Books() []models.DiplomaBook {
	var books []models.DiplomaBook
	l.read(func(state *models.Snapshot) {
		books = make([]models.DiplomaBook, 0, len(state.DiplomaBooks))
		for _, b := range state.DiplomaBooks {
			books = append(books, b.Clone())
		}
	})
	sort.SliceStable(books, func(i, j int) bool { return books[i].Year > books[j].Year })
	return books
}
