package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/vanbang-api/internal/dto"
	"github.com/noah-isme/vanbang-api/internal/models"
)

// TransferService exports and imports the whole ledger as one JSON document.
type TransferService struct {
	ledger transferLedger
	stats  statisticsInvalidator
	logger *zap.Logger
}

// NewTransferService constructs a TransferService.
func NewTransferService(ledger transferLedger, stats statisticsInvalidator, logger *zap.Logger) *TransferService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransferService{ledger: ledger, stats: stats, logger: logger}
}

// Export returns every collection.
func (s *TransferService) Export(ctx context.Context) models.Snapshot {
	return s.ledger.ExportAll()
}

// Import replaces every collection with the document. References are not
// checked; the summary lists the resulting collection sizes.
func (s *TransferService) Import(ctx context.Context, snapshot models.Snapshot) (*dto.ImportSummary, error) {
	snapshot.Normalize()
	if err := s.ledger.ImportAll(ctx, snapshot); err != nil {
		return nil, err
	}
	invalidate(ctx, s.stats)

	summary := &dto.ImportSummary{Counts: map[models.Collection]int{
		models.CollectionBooks:          len(snapshot.DiplomaBooks),
		models.CollectionDecisions:      len(snapshot.GraduationDecisions),
		models.CollectionFieldTemplates: len(snapshot.DiplomaFieldTemplates),
		models.CollectionEntries:        len(snapshot.DiplomaInformations),
		models.CollectionLookups:        len(snapshot.DiplomaLookupRecords),
	}}
	if report := s.ledger.Verify(); !report.OK() {
		s.logger.Warn("imported ledger has dangling references", zap.Int("issues", len(report.Issues)))
	}
	s.logger.Info("ledger imported", zap.Any("counts", summary.Counts))
	return summary, nil
}

// Verify runs the referential integrity sweep.
func (s *TransferService) Verify(ctx context.Context) models.IntegrityReport {
	return s.ledger.Verify()
}
