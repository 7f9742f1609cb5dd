package service

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/vanbang-api/internal/dto"
	"github.com/noah-isme/vanbang-api/internal/models"
	appErrors "github.com/noah-isme/vanbang-api/pkg/errors"
)

type seedLedger interface {
	ExportAll() models.Snapshot
	AddFieldTemplate(ctx context.Context, tpl models.DiplomaFieldTemplate) (models.DiplomaFieldTemplate, error)
	AddBook(ctx context.Context, book models.DiplomaBook) (models.DiplomaBook, error)
	AddDecision(ctx context.Context, decision models.GraduationDecision) (models.GraduationDecision, error)
	AddEntry(ctx context.Context, entry models.DiplomaEntry, bookID string) (models.DiplomaEntry, error)
}

// SeedResult counts the records a seed run created.
type SeedResult struct {
	Skipped   bool `json:"skipped"`
	Fields    int  `json:"fields"`
	Books     int  `json:"books"`
	Decisions int  `json:"decisions"`
	Diplomas  int  `json:"diplomas"`
}

// SeedService loads demo or bootstrap data from a YAML file.
type SeedService struct {
	ledger seedLedger
	stats  statisticsInvalidator
	logger *zap.Logger
}

// NewSeedService constructs a SeedService.
func NewSeedService(ledger seedLedger, stats statisticsInvalidator, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{ledger: ledger, stats: stats, logger: logger}
}

// LoadSeedFile parses a seed document.
func LoadSeedFile(path string) (*dto.SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var file dto.SeedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return &file, nil
}

// Apply writes the seed through the regular ledger operations, so entry
// numbers and field values follow the same rules as API writes. A ledger that
// already holds data is left untouched.
func (s *SeedService) Apply(ctx context.Context, file *dto.SeedFile) (*SeedResult, error) {
	if file == nil {
		return &SeedResult{Skipped: true}, nil
	}
	if snap := s.ledger.ExportAll(); !snap.Empty() {
		s.logger.Info("ledger not empty, seed skipped")
		return &SeedResult{Skipped: true}, nil
	}

	result := &SeedResult{}
	for _, f := range file.Fields {
		if _, err := s.ledger.AddFieldTemplate(ctx, models.DiplomaFieldTemplate{
			Name:         f.Name,
			DataType:     models.FieldDataType(f.DataType),
			IsRequired:   f.Required,
			DefaultValue: f.DefaultValue,
		}); err != nil {
			return result, fmt.Errorf("seed field %q: %w", f.Name, err)
		}
		result.Fields++
	}

	books := make(map[string]string, len(file.Books))
	for _, b := range file.Books {
		book := models.DiplomaBook{Year: b.Year}
		var err error
		if book.StartDate, err = optionalSeedDate(b.StartDate); err != nil {
			return result, fmt.Errorf("seed book %q: %w", b.Key, err)
		}
		if book.EndDate, err = optionalSeedDate(b.EndDate); err != nil {
			return result, fmt.Errorf("seed book %q: %w", b.Key, err)
		}
		created, err := s.ledger.AddBook(ctx, book)
		if err != nil {
			return result, fmt.Errorf("seed book %q: %w", b.Key, err)
		}
		books[b.Key] = created.ID
		result.Books++
	}

	decisions := make(map[string]string, len(file.Decisions))
	for _, d := range file.Decisions {
		bookID, ok := books[d.Book]
		if !ok {
			return result, fmt.Errorf("seed decision %q: %w", d.Key, appErrors.Clone(appErrors.ErrBookNotFound, "unknown book key "+d.Book))
		}
		issued, err := models.ParseDate(d.IssuanceDate)
		if err != nil {
			return result, fmt.Errorf("seed decision %q: %w", d.Key, err)
		}
		created, err := s.ledger.AddDecision(ctx, models.GraduationDecision{
			DecisionNumber: d.DecisionNumber,
			IssuanceDate:   issued,
			Summary:        d.Summary,
			DiplomaBookID:  bookID,
		})
		if err != nil {
			return result, fmt.Errorf("seed decision %q: %w", d.Key, err)
		}
		decisions[d.Key] = created.ID
		result.Decisions++
	}

	for _, d := range file.Diplomas {
		bookID, ok := books[d.Book]
		if !ok {
			return result, fmt.Errorf("seed diploma %q: %w", d.SerialNumber, appErrors.Clone(appErrors.ErrBookNotFound, "unknown book key "+d.Book))
		}
		decisionID, ok := decisions[d.Decision]
		if !ok {
			return result, fmt.Errorf("seed diploma %q: %w", d.SerialNumber, appErrors.Clone(appErrors.ErrDecisionNotFound, "unknown decision key "+d.Decision))
		}
		dob, err := models.ParseDate(d.DateOfBirth)
		if err != nil {
			return result, fmt.Errorf("seed diploma %q: %w", d.SerialNumber, err)
		}
		if _, err := s.ledger.AddEntry(ctx, models.DiplomaEntry{
			DecisionID:          decisionID,
			DiplomaSerialNumber: d.SerialNumber,
			StudentID:           d.StudentID,
			FullName:            d.FullName,
			DateOfBirth:         dob,
			AdditionalFields:    d.Fields,
		}, bookID); err != nil {
			return result, fmt.Errorf("seed diploma %q: %w", d.SerialNumber, err)
		}
		result.Diplomas++
	}

	invalidate(ctx, s.stats)
	s.logger.Info("ledger seeded",
		zap.Int("fields", result.Fields),
		zap.Int("books", result.Books),
		zap.Int("decisions", result.Decisions),
		zap.Int("diplomas", result.Diplomas))
	return result, nil
}

func optionalSeedDate(raw string) (*models.Date, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
