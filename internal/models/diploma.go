package models

import (
	"strings"
	"time"
)

// DiplomaBook is the yearly register that hands out sequential entry numbers.
type DiplomaBook struct {
	ID                 string    `json:"id"`
	Year               int       `json:"year"`
	StartDate          *Date     `json:"startDate,omitempty"`
	EndDate            *Date     `json:"endDate,omitempty"`
	CurrentEntryNumber int       `json:"currentEntryNumber"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the book.
func (b DiplomaBook) Clone() DiplomaBook {
	if b.StartDate != nil {
		start := *b.StartDate
		b.StartDate = &start
	}
	if b.EndDate != nil {
		end := *b.EndDate
		b.EndDate = &end
	}
	return b
}

// GraduationDecision is the administrative order authorising a graduating cohort.
type GraduationDecision struct {
	ID             string    `json:"id"`
	DecisionNumber string    `json:"decisionNumber"`
	IssuanceDate   Date      `json:"issuanceDate"`
	Summary        string    `json:"summary"`
	DiplomaBookID  string    `json:"diplomaBookId"`
	TotalLookups   int       `json:"totalLookups"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FieldDataType enumerates the value types an extra diploma field may declare.
type FieldDataType string

const (
	FieldTypeString FieldDataType = "String"
	FieldTypeNumber FieldDataType = "Number"
	FieldTypeDate   FieldDataType = "Date"
)

// Valid reports whether the data type is one of the supported tags.
func (t FieldDataType) Valid() bool {
	switch t {
	case FieldTypeString, FieldTypeNumber, FieldTypeDate:
		return true
	}
	return false
}

// DiplomaFieldTemplate declares an additional attribute diploma entries carry.
type DiplomaFieldTemplate struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	DataType     FieldDataType `json:"dataType"`
	IsRequired   bool          `json:"isRequired"`
	DefaultValue interface{}   `json:"defaultValue,omitempty"`
}

// DiplomaEntry is one diploma recorded in a book.
type DiplomaEntry struct {
	ID                  string                 `json:"id"`
	DiplomaBookID       string                 `json:"diplomaBookId"`
	DecisionID          string                 `json:"decisionId"`
	BookEntryNumber     int                    `json:"bookEntryNumber"`
	DiplomaSerialNumber string                 `json:"diplomaSerialNumber"`
	StudentID           string                 `json:"studentId"`
	FullName            string                 `json:"fullName"`
	DateOfBirth         Date                   `json:"dateOfBirth"`
	AdditionalFields    map[string]interface{} `json:"additionalFields"`
	CreatedAt           time.Time              `json:"createdAt"`
	UpdatedAt           time.Time              `json:"updatedAt"`
}

// Clone returns a deep copy of the entry.
func (e DiplomaEntry) Clone() DiplomaEntry {
	fields := make(map[string]interface{}, len(e.AdditionalFields))
	for k, v := range e.AdditionalFields {
		fields[k] = v
	}
	e.AdditionalFields = fields
	return e
}

// DiplomaLookupRecord is an append-only audit row written on every verification.
type DiplomaLookupRecord struct {
	ID           string    `json:"id"`
	DiplomaID    string    `json:"diplomaId"`
	LookupDate   time.Time `json:"lookupDate"`
	LookupSource string    `json:"lookupSource"`
}

// DiplomaSearchCriteria is the public lookup predicate. Empty members are ignored.
type DiplomaSearchCriteria struct {
	SerialNumber string `json:"diplomaSerialNumber,omitempty"`
	EntryNumber  int    `json:"bookEntryNumber,omitempty"`
	StudentID    string `json:"studentId,omitempty"`
	FullName     string `json:"fullName,omitempty"`
	DateOfBirth  Date   `json:"dateOfBirth"`
}

// Provided counts the non-empty criteria.
func (c DiplomaSearchCriteria) Provided() int {
	count := 0
	if strings.TrimSpace(c.SerialNumber) != "" {
		count++
	}
	if c.EntryNumber > 0 {
		count++
	}
	if strings.TrimSpace(c.StudentID) != "" {
		count++
	}
	if strings.TrimSpace(c.FullName) != "" {
		count++
	}
	if !c.DateOfBirth.IsZero() {
		count++
	}
	return count
}

// Matches applies the AND of all supplied criteria to the entry. The full name
// is a case-insensitive substring match, every other member is exact.
func (c DiplomaSearchCriteria) Matches(e DiplomaEntry) bool {
	if serial := strings.TrimSpace(c.SerialNumber); serial != "" && e.DiplomaSerialNumber != serial {
		return false
	}
	if c.EntryNumber > 0 && e.BookEntryNumber != c.EntryNumber {
		return false
	}
	if studentID := strings.TrimSpace(c.StudentID); studentID != "" && e.StudentID != studentID {
		return false
	}
	if name := strings.TrimSpace(c.FullName); name != "" && !strings.Contains(strings.ToLower(e.FullName), strings.ToLower(name)) {
		return false
	}
	if !c.DateOfBirth.IsZero() && !e.DateOfBirth.Equal(c.DateOfBirth) {
		return false
	}
	return true
}

// DiplomaEntryFilter narrows administrative listings.
type DiplomaEntryFilter struct {
	BookID     string
	DecisionID string
	Query      string
	Page       int
	PageSize   int
}
