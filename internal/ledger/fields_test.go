package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/vanbang-api/internal/models"
	appErrors "github.com/noah-isme/vanbang-api/pkg/errors"
)

var sampleTemplates = []models.DiplomaFieldTemplate{
	{ID: "f1", Name: "Dan toc", DataType: models.FieldTypeString, IsRequired: true, DefaultValue: "Kinh"},
	{ID: "f2", Name: "GPA", DataType: models.FieldTypeNumber, IsRequired: true},
	{ID: "f3", Name: "Ngay nhap hoc", DataType: models.FieldTypeDate},
}

func TestValidateFieldsNormalises(t *testing.T) {
	out, err := ValidateFields(sampleTemplates, map[string]interface{}{
		"GPA":           "3.25",
		"Ngay nhap hoc": "2021-09-05T08:00:00Z",
		"Ghi chu":       true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Kinh", out["Dan toc"])
	assert.Equal(t, 3.25, out["GPA"])
	assert.Equal(t, "2021-09-05", out["Ngay nhap hoc"])
	assert.Equal(t, true, out["Ghi chu"])
}

func TestValidateFieldsReportsEveryProblem(t *testing.T) {
	_, err := ValidateFields(sampleTemplates, map[string]interface{}{
		"Ngay nhap hoc": "not a date",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	fields, ok := appErr.Details["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "required", fields["GPA"])
	assert.Contains(t, fields, "Ngay nhap hoc")
	assert.NotContains(t, fields, "Dan toc")
}

func TestNormalizeFieldValue(t *testing.T) {
	v, err := NormalizeFieldValue(models.FieldTypeNumber, 7)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)

	_, err = NormalizeFieldValue(models.FieldTypeNumber, "seven")
	require.Error(t, err)

	v, err = NormalizeFieldValue(models.FieldTypeDate, models.NewDate(2020, time.February, 29))
	require.NoError(t, err)
	assert.Equal(t, "2020-02-29", v)

	v, err = NormalizeFieldValue(models.FieldTypeDate, " 2024-09-05 ")
	require.NoError(t, err)
	assert.Equal(t, "2024-09-05", v)

	v, err = NormalizeFieldValue(models.FieldTypeDate, "2024-09-05T23:30:00+07:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-09-05", v)

	for _, bad := range []string{"", "   ", "05/09/2024", "2023-02-29"} {
		_, err = NormalizeFieldValue(models.FieldTypeDate, bad)
		assert.Error(t, err, bad)
	}

	v, err = NormalizeFieldValue(models.FieldTypeString, 12.5)
	require.NoError(t, err)
	assert.Equal(t, "12.5", v)

	_, err = NormalizeFieldValue(models.FieldDataType("Boolean"), "x")
	require.Error(t, err)
}

func TestFieldTemplateLifecycle(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, nil)

	tpl, err := l.AddFieldTemplate(ctx, models.DiplomaFieldTemplate{Name: " Noi sinh ", DataType: models.FieldTypeString})
	require.NoError(t, err)
	assert.Equal(t, "Noi sinh", tpl.Name)

	_, err = l.AddFieldTemplate(ctx, models.DiplomaFieldTemplate{Name: "NOI SINH", DataType: models.FieldTypeString})
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	_, err = l.AddFieldTemplate(ctx, models.DiplomaFieldTemplate{Name: "Diem", DataType: models.FieldTypeNumber, DefaultValue: "abc"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = l.AddFieldTemplate(ctx, models.DiplomaFieldTemplate{Name: "Xep loai", DataType: "Enum"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	tpl.IsRequired = true
	tpl.DefaultValue = "Ha Noi"
	updated, err := l.UpdateFieldTemplate(ctx, tpl)
	require.NoError(t, err)
	assert.True(t, updated.IsRequired)

	book := mustBook(t, l, 2025)
	entry := mustEntry(t, l, book.ID, models.DiplomaEntry{})
	assert.Equal(t, "Ha Noi", entry.AdditionalFields["Noi sinh"])

	require.NoError(t, l.DeleteFieldTemplate(ctx, tpl.ID))
	assert.Empty(t, l.FieldTemplates())
	err = l.DeleteFieldTemplate(ctx, tpl.ID)
	assert.Equal(t, appErrors.ErrFieldTemplateNotFound.Code, appErrors.FromError(err).Code)
}
