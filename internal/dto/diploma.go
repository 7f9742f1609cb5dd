package dto

import "github.com/noah-isme/vanbang-api/internal/models"

// BookRequest captures POST/PUT /diploma-books payloads.
type BookRequest struct {
	Year      int          `json:"year" validate:"required,min=1900,max=2200"`
	StartDate *models.Date `json:"startDate,omitempty"`
	EndDate   *models.Date `json:"endDate,omitempty"`
}

// DecisionRequest captures POST/PUT /graduation-decisions payloads.
type DecisionRequest struct {
	DecisionNumber string      `json:"decisionNumber" validate:"required,max=100"`
	IssuanceDate   models.Date `json:"issuanceDate"`
	Summary        string      `json:"summary" validate:"max=2000"`
	DiplomaBookID  string      `json:"diplomaBookId" validate:"required"`
}

// FieldTemplateRequest captures POST/PUT /diploma-fields payloads.
type FieldTemplateRequest struct {
	Name         string               `json:"name" validate:"required,max=100"`
	DataType     models.FieldDataType `json:"dataType" validate:"required,oneof=String Number Date"`
	IsRequired   bool                 `json:"isRequired"`
	DefaultValue interface{}          `json:"defaultValue,omitempty"`
}

// CreateDiplomaRequest captures POST /diplomas payloads. The entry number is
// always assigned by the ledger.
type CreateDiplomaRequest struct {
	DiplomaBookID       string                 `json:"diplomaBookId" validate:"required"`
	DecisionID          string                 `json:"decisionId" validate:"required"`
	DiplomaSerialNumber string                 `json:"diplomaSerialNumber" validate:"required,max=50"`
	StudentID           string                 `json:"studentId" validate:"required,max=50"`
	FullName            string                 `json:"fullName" validate:"required,max=200"`
	DateOfBirth         models.Date            `json:"dateOfBirth"`
	AdditionalFields    map[string]interface{} `json:"additionalFields,omitempty"`
}

// UpdateDiplomaRequest captures PUT /diplomas/:id payloads.
type UpdateDiplomaRequest struct {
	DecisionID          string                 `json:"decisionId" validate:"required"`
	DiplomaSerialNumber string                 `json:"diplomaSerialNumber" validate:"required,max=50"`
	StudentID           string                 `json:"studentId" validate:"required,max=50"`
	FullName            string                 `json:"fullName" validate:"required,max=200"`
	DateOfBirth         models.Date            `json:"dateOfBirth"`
	AdditionalFields    map[string]interface{} `json:"additionalFields,omitempty"`
}

// DiplomaListQuery holds GET /diplomas query parameters.
type DiplomaListQuery struct {
	BookID     string `form:"diplomaBookId"`
	DecisionID string `form:"decisionId"`
	Query      string `form:"q"`
	Page       int    `form:"page"`
	PageSize   int    `form:"pageSize"`
}

// LookupQuery holds GET /lookup/diplomas query parameters.
type LookupQuery struct {
	SerialNumber string `form:"diplomaSerialNumber"`
	EntryNumber  int    `form:"bookEntryNumber" validate:"min=0"`
	StudentID    string `form:"studentId"`
	FullName     string `form:"fullName"`
	DateOfBirth  string `form:"dateOfBirth"`
}

// LookupResult is one public search hit. Internal identifiers of the decision
// and book are replaced by what a verifier reads on the paper diploma.
type LookupResult struct {
	ID                  string                 `json:"id"`
	DiplomaSerialNumber string                 `json:"diplomaSerialNumber"`
	BookEntryNumber     int                    `json:"bookEntryNumber"`
	BookYear            int                    `json:"bookYear,omitempty"`
	StudentID           string                 `json:"studentId"`
	FullName            string                 `json:"fullName"`
	DateOfBirth         models.Date            `json:"dateOfBirth"`
	DecisionNumber      string                 `json:"decisionNumber,omitempty"`
	IssuanceDate        *models.Date           `json:"issuanceDate,omitempty"`
	AdditionalFields    map[string]interface{} `json:"additionalFields"`
}

// LookupDetail is returned by GET /lookup/diplomas/:id.
type LookupDetail struct {
	Diploma LookupResult               `json:"diploma"`
	Lookup  models.DiplomaLookupRecord `json:"lookup"`
}

// ImportSummary reports how many records each collection holds after an import.
type ImportSummary struct {
	Counts map[models.Collection]int `json:"counts"`
}

// ExportRequest captures POST /exports payload. Either the book id or its year
// identifies the register.
type ExportRequest struct {
	DiplomaBookID string              `json:"diplomaBookId"`
	Year          int                 `json:"year" validate:"omitempty,min=1900,max=2200"`
	Format        models.ExportFormat `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportJobResponse is returned after enqueueing an export.
type ExportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ExportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ExportStatusResponse exposes export job progress.
type ExportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ExportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	Format    models.ExportFormat `json:"format"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
