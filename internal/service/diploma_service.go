package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/vanbang-api/internal/dto"
	"github.com/noah-isme/vanbang-api/internal/models"
	appErrors "github.com/noah-isme/vanbang-api/pkg/errors"
)

const (
	defaultDiplomaPageSize = 20
	maxDiplomaPageSize     = 200
)

// DiplomaService manages diploma entries.
type DiplomaService struct {
	ledger    entryLedger
	stats     statisticsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDiplomaService constructs a DiplomaService.
func NewDiplomaService(ledger entryLedger, stats statisticsInvalidator, validate *validator.Validate, logger *zap.Logger) *DiplomaService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiplomaService{ledger: ledger, stats: stats, validator: validate, logger: logger}
}

// List returns one page of entries plus pagination data.
func (s *DiplomaService) List(ctx context.Context, query dto.DiplomaListQuery) ([]models.DiplomaEntry, *models.Pagination, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	size := query.PageSize
	if size <= 0 {
		size = defaultDiplomaPageSize
	}
	if size > maxDiplomaPageSize {
		size = maxDiplomaPageSize
	}

	all := s.ledger.Entries(models.DiplomaEntryFilter{
		BookID:     strings.TrimSpace(query.BookID),
		DecisionID: strings.TrimSpace(query.DecisionID),
		Query:      query.Query,
	})
	start := len(all)
	if page-1 <= len(all)/size {
		start = min((page-1)*size, len(all))
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], &models.Pagination{Page: page, PageSize: size, TotalCount: len(all)}, nil
}

// Get returns an entry by id.
func (s *DiplomaService) Get(ctx context.Context, id string) (*models.DiplomaEntry, error) {
	entry, err := s.ledger.Entry(id)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create records a diploma in its book; the entry number is assigned by the ledger.
func (s *DiplomaService) Create(ctx context.Context, req dto.CreateDiplomaRequest) (*models.DiplomaEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid diploma payload")
	}
	if req.DateOfBirth.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dateOfBirth is required")
	}
	entry, err := s.ledger.AddEntry(ctx, models.DiplomaEntry{
		DecisionID:          req.DecisionID,
		DiplomaSerialNumber: strings.TrimSpace(req.DiplomaSerialNumber),
		StudentID:           strings.TrimSpace(req.StudentID),
		FullName:            strings.TrimSpace(req.FullName),
		DateOfBirth:         req.DateOfBirth,
		AdditionalFields:    req.AdditionalFields,
	}, req.DiplomaBookID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("diploma recorded",
		zap.String("diploma_id", entry.ID),
		zap.String("book_id", entry.DiplomaBookID),
		zap.Int("entry_number", entry.BookEntryNumber))
	invalidate(ctx, s.stats)
	return &entry, nil
}

// Update replaces the editable fields of an entry.
func (s *DiplomaService) Update(ctx context.Context, id string, req dto.UpdateDiplomaRequest) (*models.DiplomaEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid diploma payload")
	}
	if req.DateOfBirth.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dateOfBirth is required")
	}
	entry, err := s.ledger.UpdateEntry(ctx, models.DiplomaEntry{
		ID:                  id,
		DecisionID:          req.DecisionID,
		DiplomaSerialNumber: strings.TrimSpace(req.DiplomaSerialNumber),
		StudentID:           strings.TrimSpace(req.StudentID),
		FullName:            strings.TrimSpace(req.FullName),
		DateOfBirth:         req.DateOfBirth,
		AdditionalFields:    req.AdditionalFields,
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete removes an entry.
func (s *DiplomaService) Delete(ctx context.Context, id string) error {
	if err := s.ledger.DeleteEntry(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, s.stats)
	return nil
}

// Lookups returns the verification history of an entry.
func (s *DiplomaService) Lookups(ctx context.Context, id string) ([]models.DiplomaLookupRecord, error) {
	if _, err := s.ledger.Entry(id); err != nil {
		return nil, err
	}
	return s.ledger.LookupRecords(id), nil
}
