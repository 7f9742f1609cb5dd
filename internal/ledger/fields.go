package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/vanbang-api/internal/models"
	appErrors "github.com/noah-isme/vanbang-api/pkg/errors"
)

var fieldValidator = validator.New()

// ValidateFields checks extra field values against the templates and returns a
// normalised copy: missing values take the template default, String values are
// strings, Number values float64 and Date values YYYY-MM-DD strings. Values
// without a template are kept unchanged.
func ValidateFields(templates []models.DiplomaFieldTemplate, values map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(values))
	for k, v := range values {
		out[k] = v
	}

	problems := map[string]interface{}{}
	for _, tpl := range templates {
		raw, present := out[tpl.Name]
		if !present || isBlank(raw) {
			if tpl.DefaultValue != nil && !isBlank(tpl.DefaultValue) {
				raw, present = tpl.DefaultValue, true
			} else {
				present = false
			}
		}
		if !present {
			delete(out, tpl.Name)
			if tpl.IsRequired {
				problems[tpl.Name] = "required"
			}
			continue
		}

		value, err := NormalizeFieldValue(tpl.DataType, raw)
		if err != nil {
			problems[tpl.Name] = err.Error()
			continue
		}
		out[tpl.Name] = value
	}

	if len(problems) > 0 {
		return nil, appErrors.WithDetails(
			appErrors.Clone(appErrors.ErrValidation, "invalid additional fields"),
			map[string]interface{}{"fields": problems},
		)
	}
	return out, nil
}

// NormalizeFieldValue coerces raw into the canonical representation of dataType.
func NormalizeFieldValue(dataType models.FieldDataType, raw interface{}) (interface{}, error) {
	switch dataType {
	case models.FieldTypeString:
		switch v := raw.(type) {
		case string:
			return v, nil
		case fmt.Stringer:
			return v.String(), nil
		case float64, int, int64, bool:
			return fmt.Sprint(v), nil
		}
		return nil, fmt.Errorf("expected text, got %T", raw)

	case models.FieldTypeNumber:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case json.Number:
			return v.Float64()
		case string:
			s := strings.TrimSpace(v)
			if err := fieldValidator.Var(s, "required,numeric"); err != nil {
				return nil, fmt.Errorf("expected a number, got %q", v)
			}
			return strconv.ParseFloat(s, 64)
		}
		return nil, fmt.Errorf("expected a number, got %T", raw)

	case models.FieldTypeDate:
		switch v := raw.(type) {
		case models.Date:
			return v.String(), nil
		case time.Time:
			return models.DateOf(v).String(), nil
		case string:
			d, err := models.ParseDate(v)
			if err != nil || d.String() == "" {
				return nil, fmt.Errorf("expected a date, got %q", v)
			}
			return d.String(), nil
		}
		return nil, fmt.Errorf("expected a date, got %T", raw)
	}
	return nil, fmt.Errorf("unsupported data type %q", dataType)
}

func isBlank(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func findFieldTemplate(state *models.Snapshot, id string) int {
	for i := range state.DiplomaFieldTemplates {
		if state.DiplomaFieldTemplates[i].ID == id {
			return i
		}
	}
	return -1
}

func prepareFieldTemplate(tpl models.DiplomaFieldTemplate) (models.DiplomaFieldTemplate, error) {
	tpl.Name = strings.TrimSpace(tpl.Name)
	if tpl.Name == "" {
		return tpl, appErrors.Clone(appErrors.ErrValidation, "field name is required")
	}
	if !tpl.DataType.Valid() {
		return tpl, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported data type %q", tpl.DataType))
	}
	if isBlank(tpl.DefaultValue) {
		tpl.DefaultValue = nil
		return tpl, nil
	}
	value, err := NormalizeFieldValue(tpl.DataType, tpl.DefaultValue)
	if err != nil {
		return tpl, appErrors.Clone(appErrors.ErrValidation, "invalid default value: "+err.Error())
	}
	tpl.DefaultValue = value
	return tpl, nil
}

func fieldNameTaken(state *models.Snapshot, name, exceptID string) bool {
	for _, existing := range state.DiplomaFieldTemplates {
		if existing.ID != exceptID && strings.EqualFold(existing.Name, name) {
			return true
		}
	}
	return false
}

// AddFieldTemplate declares a new extra field. Names are unique ignoring case.
func (l *Ledger) AddFieldTemplate(ctx context.Context, tpl models.DiplomaFieldTemplate) (models.DiplomaFieldTemplate, error) {
	tpl, err := prepareFieldTemplate(tpl)
	if err != nil {
		return models.DiplomaFieldTemplate{}, err
	}
	if tpl.ID == "" {
		tpl.ID = l.newID()
	}

	err = l.apply(ctx, "add_field_template", func(staged *models.Snapshot) ([]models.Collection, error) {
		if fieldNameTaken(staged, tpl.Name, "") {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("field %q already exists", tpl.Name))
		}
		staged.DiplomaFieldTemplates = append(staged.DiplomaFieldTemplates, tpl)
		return []models.Collection{models.CollectionFieldTemplates}, nil
	})
	if err != nil {
		return models.DiplomaFieldTemplate{}, err
	}
	return tpl, nil
}

// UpdateFieldTemplate replaces a template. Existing entries are not rewritten.
func (l *Ledger) UpdateFieldTemplate(ctx context.Context, tpl models.DiplomaFieldTemplate) (models.DiplomaFieldTemplate, error) {
	tpl, err := prepareFieldTemplate(tpl)
	if err != nil {
		return models.DiplomaFieldTemplate{}, err
	}

	err = l.apply(ctx, "update_field_template", func(staged *models.Snapshot) ([]models.Collection, error) {
		idx := findFieldTemplate(staged, tpl.ID)
		if idx < 0 {
			return nil, appErrors.ErrFieldTemplateNotFound
		}
		if fieldNameTaken(staged, tpl.Name, tpl.ID) {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("field %q already exists", tpl.Name))
		}
		staged.DiplomaFieldTemplates[idx] = tpl
		return []models.Collection{models.CollectionFieldTemplates}, nil
	})
	if err != nil {
		return models.DiplomaFieldTemplate{}, err
	}
	return tpl, nil
}

// DeleteFieldTemplate removes a template. Values already stored on entries stay.
func (l *Ledger) DeleteFieldTemplate(ctx context.Context, id string) error {
	return l.apply(ctx, "delete_field_template", func(staged *models.Snapshot) ([]models.Collection, error) {
		idx := findFieldTemplate(staged, id)
		if idx < 0 {
			return nil, appErrors.ErrFieldTemplateNotFound
		}
		staged.DiplomaFieldTemplates = append(staged.DiplomaFieldTemplates[:idx], staged.DiplomaFieldTemplates[idx+1:]...)
		return []models.Collection{models.CollectionFieldTemplates}, nil
	})
}

// FieldTemplates lists templates by name.
func (l *Ledger) FieldTemplates() []models.DiplomaFieldTemplate {
	var out []models.DiplomaFieldTemplate
	l.read(func(state *models.Snapshot) {
		out = append([]models.DiplomaFieldTemplate{}, state.DiplomaFieldTemplates...)
	})
	sort.SliceStable(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out
}
