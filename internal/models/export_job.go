package models

import "time"

// ExportFormat enumerates supported register export formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// Valid reports whether the format can be rendered.
func (f ExportFormat) Valid() bool {
	return f == ExportFormatCSV || f == ExportFormatPDF
}

// ExportStatus captures background job lifecycle states.
type ExportStatus string

const (
	ExportStatusQueued     ExportStatus = "QUEUED"
	ExportStatusProcessing ExportStatus = "PROCESSING"
	ExportStatusFinished   ExportStatus = "FINISHED"
	ExportStatusFailed     ExportStatus = "FAILED"
)

// ExportJob tracks the asynchronous rendering of a diploma register.
type ExportJob struct {
	ID           string       `json:"id"`
	BookID       string       `json:"diplomaBookId"`
	Year         int          `json:"year"`
	Format       ExportFormat `json:"format"`
	Status       ExportStatus `json:"status"`
	Progress     int          `json:"progress"`
	Attempts     int          `json:"attempts"`
	ResultPath   string       `json:"-"`
	ResultURL    *string      `json:"resultUrl,omitempty"`
	ErrorMessage *string      `json:"error,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	FinishedAt   *time.Time   `json:"finishedAt,omitempty"`
}

// Finished reports whether the job reached a terminal state.
func (j ExportJob) Finished() bool {
	return j.Status == ExportStatusFinished || j.Status == ExportStatusFailed
}
