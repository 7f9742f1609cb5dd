package service

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/vanbang-api/internal/models"
	"github.com/noah-isme/vanbang-api/pkg/export"
	"github.com/noah-isme/vanbang-api/pkg/storage"
)

const registerExportDir = "registers"

type registerSource interface {
	Book(id string) (models.DiplomaBook, error)
	BookByYear(year int) (models.DiplomaBook, error)
	Decisions(bookID string) []models.GraduationDecision
	FieldTemplates() []models.DiplomaFieldTemplate
	Entries(filter models.DiplomaEntryFilter) []models.DiplomaEntry
}

type fileStorage interface {
	Save(name string, data []byte) (string, error)
	Open(name string) (*os.File, error)
	Delete(name string) error
	CleanupOlderThan(dir string, ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// ExportService renders diploma registers and stores the files.
type ExportService struct {
	source  registerSource
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
	now     func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(source registerSource, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter(true)
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		source:  source,
		storage: store,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ResolveBook finds the register a request targets, by id first, then by year.
func (s *ExportService) ResolveBook(bookID string, year int) (models.DiplomaBook, error) {
	if strings.TrimSpace(bookID) != "" {
		return s.source.Book(bookID)
	}
	return s.source.BookByYear(year)
}

// Generate renders the register of job's book and stores it.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	book, err := s.source.Book(job.BookID)
	if err != nil {
		return nil, err
	}
	dataset := s.BuildRegister(book)
	title := fmt.Sprintf("Diploma Register %d", book.Year)

	var payload []byte
	switch job.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(s.buildFilename(book, job.Format), payload)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	s.logger.Debug("register rendered",
		zap.String("job_id", job.ID),
		zap.Int("year", book.Year),
		zap.Int("rows", len(dataset.Rows)),
		zap.Int("bytes", len(payload)))

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/export/%s", prefix, token),
		Format:       job.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// BuildRegister lists every entry of the book in entry-number order, one
// column per field template after the fixed ones.
func (s *ExportService) BuildRegister(book models.DiplomaBook) export.Dataset {
	decisions := map[string]models.GraduationDecision{}
	for _, d := range s.source.Decisions(book.ID) {
		decisions[d.ID] = d
	}
	templates := s.source.FieldTemplates()
	sort.SliceStable(templates, func(i, j int) bool { return templates[i].Name < templates[j].Name })

	headers := []string{"No.", "Serial", "Student ID", "Full name", "Date of birth", "Decision"}
	for _, tpl := range templates {
		headers = append(headers, tpl.Name)
	}

	entries := s.source.Entries(models.DiplomaEntryFilter{BookID: book.ID})
	rows := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		row := map[string]string{
			"No.":           strconv.Itoa(e.BookEntryNumber),
			"Serial":        e.DiplomaSerialNumber,
			"Student ID":    e.StudentID,
			"Full name":     e.FullName,
			"Date of birth": e.DateOfBirth.String(),
		}
		if d, ok := decisions[e.DecisionID]; ok {
			row["Decision"] = fmt.Sprintf("%s (%s)", d.DecisionNumber, d.IssuanceDate.String())
		}
		for _, tpl := range templates {
			row[tpl.Name] = formatFieldValue(e.AdditionalFields[tpl.Name])
		}
		rows = append(rows, row)
	}

	notes := []string{fmt.Sprintf("Year %d, %d entries", book.Year, len(rows))}
	if book.StartDate != nil && book.EndDate != nil {
		notes = append(notes, fmt.Sprintf("Period %s to %s", book.StartDate.String(), book.EndDate.String()))
	}
	return export.Dataset{Headers: headers, Rows: rows, Notes: notes}
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (storage.DownloadToken, error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(registerExportDir, ttl)
}

func (s *ExportService) buildFilename(book models.DiplomaBook, format models.ExportFormat) string {
	timestamp := s.now().Format("20060102_150405")
	return fmt.Sprintf("%s/register_%d_%s.%s", registerExportDir, book.Year, timestamp, format)
}

func formatFieldValue(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}
