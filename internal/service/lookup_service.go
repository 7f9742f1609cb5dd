package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/vanbang-api/internal/dto"
	"github.com/noah-isme/vanbang-api/internal/models"
	appErrors "github.com/noah-isme/vanbang-api/pkg/errors"
)

const (
	maxLookupSourceLength = 64
	// otherLookupSource is the metric label for sources outside the configured list.
	otherLookupSource = "other"
)

type lookupMetrics interface {
	RecordLookup(source, outcome string)
}

// LookupServiceConfig tunes the public verification flow. KnownSources are
// the sources counted under their own metric label; the default source is
// always known.
type LookupServiceConfig struct {
	DefaultSource string
	KnownSources  []string
}

// LookupService implements public diploma search and verification.
type LookupService struct {
	ledger    lookupLedger
	stats     statisticsInvalidator
	metrics   lookupMetrics
	validator *validator.Validate
	logger    *zap.Logger
	cfg       LookupServiceConfig
	known     map[string]struct{}
}

// NewLookupService constructs a LookupService.
func NewLookupService(ledger lookupLedger, stats statisticsInvalidator, metrics lookupMetrics, validate *validator.Validate, logger *zap.Logger, cfg LookupServiceConfig) *LookupService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(cfg.DefaultSource) == "" {
		cfg.DefaultSource = "public-portal"
	}
	known := map[string]struct{}{cfg.DefaultSource: {}}
	for _, src := range cfg.KnownSources {
		if src = strings.TrimSpace(src); src != "" {
			known[src] = struct{}{}
		}
	}
	return &LookupService{ledger: ledger, stats: stats, metrics: metrics, validator: validate, logger: logger, cfg: cfg, known: known}
}

// Search runs a public lookup. At least two criteria are required.
func (s *LookupService) Search(ctx context.Context, query dto.LookupQuery) ([]dto.LookupResult, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lookup query")
	}
	dob, err := models.ParseDate(query.DateOfBirth)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	entries, err := s.ledger.Search(models.DiplomaSearchCriteria{
		SerialNumber: query.SerialNumber,
		EntryNumber:  query.EntryNumber,
		StudentID:    query.StudentID,
		FullName:     query.FullName,
		DateOfBirth:  dob,
	})
	if err != nil {
		return nil, err
	}
	results := make([]dto.LookupResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, s.present(e))
	}
	return results, nil
}

// Verify shows one diploma and records the lookup against it.
func (s *LookupService) Verify(ctx context.Context, id, source string) (*dto.LookupDetail, error) {
	source = s.normalizeSource(source)
	record, err := s.ledger.RecordLookup(ctx, id, source)
	if err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrEntryNotFound.Code {
			s.recordMetric(source, "not_found")
		}
		return nil, err
	}
	s.recordMetric(source, "recorded")
	invalidate(ctx, s.stats)

	entry, err := s.ledger.Entry(id)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("diploma verified", zap.String("diploma_id", id), zap.String("source", source))
	return &dto.LookupDetail{Diploma: s.present(entry), Lookup: record}, nil
}

func (s *LookupService) present(e models.DiplomaEntry) dto.LookupResult {
	result := dto.LookupResult{
		ID:                  e.ID,
		DiplomaSerialNumber: e.DiplomaSerialNumber,
		BookEntryNumber:     e.BookEntryNumber,
		StudentID:           e.StudentID,
		FullName:            e.FullName,
		DateOfBirth:         e.DateOfBirth,
		AdditionalFields:    e.AdditionalFields,
	}
	if book, err := s.ledger.Book(e.DiplomaBookID); err == nil {
		result.BookYear = book.Year
	}
	if decision, err := s.ledger.Decision(e.DecisionID); err == nil {
		issued := decision.IssuanceDate
		result.DecisionNumber = decision.DecisionNumber
		result.IssuanceDate = &issued
	}
	return result
}

// normalizeSource returns valid UTF-8 of at most maxLookupSourceLength bytes,
// cut on a rune boundary.
func (s *LookupService) normalizeSource(source string) string {
	source = strings.TrimSpace(strings.ToValidUTF8(source, ""))
	if source == "" {
		return s.cfg.DefaultSource
	}
	if len(source) <= maxLookupSourceLength {
		return source
	}
	end := 0
	for end < len(source) {
		_, size := utf8.DecodeRuneInString(source[end:])
		if end+size > maxLookupSourceLength {
			break
		}
		end += size
	}
	return strings.TrimSpace(source[:end])
}

// recordMetric labels unconfigured sources as other. The lookup record keeps
// the full value.
func (s *LookupService) recordMetric(source, outcome string) {
	if s.metrics == nil {
		return
	}
	label := otherLookupSource
	if _, ok := s.known[source]; ok {
		label = source
	}
	s.metrics.RecordLookup(label, outcome)
}
