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

// DecisionService manages graduation decisions.
type DecisionService struct {
	ledger    decisionLedger
	stats     statisticsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDecisionService constructs a DecisionService.
func NewDecisionService(ledger decisionLedger, stats statisticsInvalidator, validate *validator.Validate, logger *zap.Logger) *DecisionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DecisionService{ledger: ledger, stats: stats, validator: validate, logger: logger}
}

// List returns decisions, optionally of one book.
func (s *DecisionService) List(ctx context.Context, bookID string) ([]models.GraduationDecision, error) {
	return s.ledger.Decisions(strings.TrimSpace(bookID)), nil
}

// Get returns a decision by id.
func (s *DecisionService) Get(ctx context.Context, id string) (*models.GraduationDecision, error) {
	decision, err := s.ledger.Decision(id)
	if err != nil {
		return nil, err
	}
	return &decision, nil
}

// Create records a decision against its book.
func (s *DecisionService) Create(ctx context.Context, req dto.DecisionRequest) (*models.GraduationDecision, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	decision, err := s.ledger.AddDecision(ctx, toDecision("", req))
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.stats)
	return &decision, nil
}

// Update replaces the descriptive fields of a decision.
func (s *DecisionService) Update(ctx context.Context, id string, req dto.DecisionRequest) (*models.GraduationDecision, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	decision, err := s.ledger.UpdateDecision(ctx, toDecision(id, req))
	if err != nil {
		return nil, err
	}
	return &decision, nil
}

// Delete removes a decision without entries.
func (s *DecisionService) Delete(ctx context.Context, id string) error {
	if err := s.ledger.DeleteDecision(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, s.stats)
	return nil
}

func (s *DecisionService) validate(req dto.DecisionRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid graduation decision payload")
	}
	if req.IssuanceDate.IsZero() {
		return appErrors.Clone(appErrors.ErrValidation, "issuanceDate is required")
	}
	return nil
}

func toDecision(id string, req dto.DecisionRequest) models.GraduationDecision {
	return models.GraduationDecision{
		ID:             id,
		DecisionNumber: strings.TrimSpace(req.DecisionNumber),
		IssuanceDate:   req.IssuanceDate,
		Summary:        strings.TrimSpace(req.Summary),
		DiplomaBookID:  req.DiplomaBookID,
	}
}
