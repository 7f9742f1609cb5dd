package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/vanbang-api/internal/dto"
	"github.com/noah-isme/vanbang-api/internal/models"
	appErrors "github.com/noah-isme/vanbang-api/pkg/errors"
)

// BookService manages yearly diploma books.
type BookService struct {
	ledger    bookLedger
	stats     statisticsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookService constructs a BookService.
func NewBookService(ledger bookLedger, stats statisticsInvalidator, validate *validator.Validate, logger *zap.Logger) *BookService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookService{ledger: ledger, stats: stats, validator: validate, logger: logger}
}

// List returns every book, newest first.
func (s *BookService) List(ctx context.Context) ([]models.DiplomaBook, error) {
	return s.ledger.Books(), nil
}

// Get returns a book by id.
func (s *BookService) Get(ctx context.Context, id string) (*models.DiplomaBook, error) {
	book, err := s.ledger.Book(id)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Create opens a new yearly book.
func (s *BookService) Create(ctx context.Context, req dto.BookRequest) (*models.DiplomaBook, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	book, err := s.ledger.AddBook(ctx, models.DiplomaBook{Year: req.Year, StartDate: req.StartDate, EndDate: req.EndDate})
	if err != nil {
		return nil, err
	}
	s.logger.Info("diploma book created", zap.String("book_id", book.ID), zap.Int("year", book.Year))
	invalidate(ctx, s.stats)
	return &book, nil
}

// Update changes the year or period of a book.
func (s *BookService) Update(ctx context.Context, id string, req dto.BookRequest) (*models.DiplomaBook, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	book, err := s.ledger.UpdateBook(ctx, models.DiplomaBook{ID: id, Year: req.Year, StartDate: req.StartDate, EndDate: req.EndDate})
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.stats)
	return &book, nil
}

// Delete removes an unused book.
func (s *BookService) Delete(ctx context.Context, id string) error {
	if err := s.ledger.DeleteBook(ctx, id); err != nil {
		return err
	}
	s.logger.Info("diploma book deleted", zap.String("book_id", id))
	invalidate(ctx, s.stats)
	return nil
}

func (s *BookService) validate(req dto.BookRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid diploma book payload")
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(req.StartDate.Time) {
		return appErrors.Clone(appErrors.ErrValidation, "endDate must not be before startDate")
	}
	return nil
}
