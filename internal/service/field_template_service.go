package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/vanbang-api/internal/dto"
	"github.com/noah-isme/vanbang-api/internal/models"
	appErrors "github.com/noah-isme/vanbang-api/pkg/errors"
)

// FieldTemplateService manages the configurable extra diploma fields.
type FieldTemplateService struct {
	ledger    fieldTemplateLedger
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFieldTemplateService constructs a FieldTemplateService.
func NewFieldTemplateService(ledger fieldTemplateLedger, validate *validator.Validate, logger *zap.Logger) *FieldTemplateService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FieldTemplateService{ledger: ledger, validator: validate, logger: logger}
}

// List returns every template.
func (s *FieldTemplateService) List(ctx context.Context) ([]models.DiplomaFieldTemplate, error) {
	return s.ledger.FieldTemplates(), nil
}

// Create declares a new field.
func (s *FieldTemplateService) Create(ctx context.Context, req dto.FieldTemplateRequest) (*models.DiplomaFieldTemplate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid field template payload")
	}
	tpl, err := s.ledger.AddFieldTemplate(ctx, toFieldTemplate("", req))
	if err != nil {
		return nil, err
	}
	s.logger.Info("diploma field declared", zap.String("field", tpl.Name), zap.String("type", string(tpl.DataType)))
	return &tpl, nil
}

// Update replaces a field declaration.
func (s *FieldTemplateService) Update(ctx context.Context, id string, req dto.FieldTemplateRequest) (*models.DiplomaFieldTemplate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid field template payload")
	}
	tpl, err := s.ledger.UpdateFieldTemplate(ctx, toFieldTemplate(id, req))
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

// Delete removes a field declaration.
func (s *FieldTemplateService) Delete(ctx context.Context, id string) error {
	return s.ledger.DeleteFieldTemplate(ctx, id)
}

func toFieldTemplate(id string, req dto.FieldTemplateRequest) models.DiplomaFieldTemplate {
	return models.DiplomaFieldTemplate{
		ID:           id,
		Name:         req.Name,
		DataType:     req.DataType,
		IsRequired:   req.IsRequired,
		DefaultValue: req.DefaultValue,
	}
}
