package dto

// SeedFile is the YAML document accepted by the seed command. Records refer
// to each other by the keys declared in the file, not by generated ids.
type SeedFile struct {
	Fields    []SeedField    `yaml:"fields"`
	Books     []SeedBook     `yaml:"books"`
	Decisions []SeedDecision `yaml:"decisions"`
	Diplomas  []SeedDiploma  `yaml:"diplomas"`
}

type SeedField struct {
	Name         string      `yaml:"name"`
	DataType     string      `yaml:"dataType"`
	Required     bool        `yaml:"required"`
	DefaultValue interface{} `yaml:"default,omitempty"`
}

type SeedBook struct {
	Key       string `yaml:"key"`
	Year      int    `yaml:"year"`
	StartDate string `yaml:"startDate,omitempty"`
	EndDate   string `yaml:"endDate,omitempty"`
}

type SeedDecision struct {
	Key            string `yaml:"key"`
	Book           string `yaml:"book"`
	DecisionNumber string `yaml:"number"`
	IssuanceDate   string `yaml:"issuedOn"`
	Summary        string `yaml:"summary"`
}

type SeedDiploma struct {
	Book         string                 `yaml:"book"`
	Decision     string                 `yaml:"decision"`
	SerialNumber string                 `yaml:"serial"`
	StudentID    string                 `yaml:"studentId"`
	FullName     string                 `yaml:"fullName"`
	DateOfBirth  string                 `yaml:"dateOfBirth"`
	Fields       map[string]interface{} `yaml:"fields,omitempty"`
}
