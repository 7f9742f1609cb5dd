package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/vanbang-api/internal/dto"
	"github.com/noah-isme/vanbang-api/internal/models"
	appErrors "github.com/noah-isme/vanbang-api/pkg/errors"
)

func TestBookServiceCreateAndList(t *testing.T) {
	l := newMemoryLedger(t)
	stats := &invalidatorStub{}
	svc := NewBookService(l, stats, nil, nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, dto.BookRequest{Year: 2023})
	require.NoError(t, err)
	assert.Equal(t, 0, first.CurrentEntryNumber)

	_, err = svc.Create(ctx, dto.BookRequest{Year: 2024})
	require.NoError(t, err)

	books, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, 2024, books[0].Year)
	assert.Equal(t, 2, stats.calls)
}

func TestBookServiceValidation(t *testing.T) {
	svc := NewBookService(newMemoryLedger(t), nil, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.BookRequest{Year: 0})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	start := models.NewDate(2024, time.September, 1)
	end := models.NewDate(2024, time.January, 1)
	_, err = svc.Create(ctx, dto.BookRequest{Year: 2024, StartDate: &start, EndDate: &end})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBookServiceDuplicateYear(t *testing.T) {
	svc := NewBookService(newMemoryLedger(t), nil, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.BookRequest{Year: 2024})
	require.NoError(t, err)
	_, err = svc.Create(ctx, dto.BookRequest{Year: 2024})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateYear.Code, appErrors.FromError(err).Code)
}

func TestBookServiceDeleteReferencedBook(t *testing.T) {
	l := newMemoryLedger(t)
	book, _, _ := seedRegister(t, l, 2024, "Nguyen Van An")
	svc := NewBookService(l, nil, nil, nil)

	err := svc.Delete(context.Background(), book.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestDecisionServiceLifecycle(t *testing.T) {
	l := newMemoryLedger(t)
	books := NewBookService(l, nil, nil, nil)
	svc := NewDecisionService(l, nil, nil, nil)
	ctx := context.Background()

	book, err := books.Create(ctx, dto.BookRequest{Year: 2024})
	require.NoError(t, err)

	_, err = svc.Create(ctx, dto.DecisionRequest{DecisionNumber: "123/QD", DiplomaBookID: book.ID})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	decision, err := svc.Create(ctx, dto.DecisionRequest{
		DecisionNumber: "123/QD",
		IssuanceDate:   models.NewDate(2024, time.June, 20),
		DiplomaBookID:  book.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, decision.TotalLookups)

	updated, err := svc.Update(ctx, decision.ID, dto.DecisionRequest{
		DecisionNumber: "124/QD",
		IssuanceDate:   models.NewDate(2024, time.June, 21),
		Summary:        "Cohort K46",
		DiplomaBookID:  book.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "124/QD", updated.DecisionNumber)

	list, err := svc.List(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, decision.ID))
	_, err = svc.Get(ctx, decision.ID)
	assert.Equal(t, appErrors.ErrDecisionNotFound.Code, appErrors.FromError(err).Code)
}

func TestDecisionServiceUnknownBook(t *testing.T) {
	svc := NewDecisionService(newMemoryLedger(t), nil, nil, nil)
	_, err := svc.Create(context.Background(), dto.DecisionRequest{
		DecisionNumber: "1/QD",
		IssuanceDate:   models.NewDate(2024, time.June, 1),
		DiplomaBookID:  "missing",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrBookNotFound.Code, appErrors.FromError(err).Code)
}

func TestFieldTemplateServiceLifecycle(t *testing.T) {
	svc := NewFieldTemplateService(newMemoryLedger(t), nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.FieldTemplateRequest{Name: "Rank", DataType: "Colour"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	tpl, err := svc.Create(ctx, dto.FieldTemplateRequest{Name: "GPA", DataType: models.FieldTypeNumber, IsRequired: true})
	require.NoError(t, err)

	_, err = svc.Create(ctx, dto.FieldTemplateRequest{Name: "gpa", DataType: models.FieldTypeString})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	updated, err := svc.Update(ctx, tpl.ID, dto.FieldTemplateRequest{Name: "GPA", DataType: models.FieldTypeNumber, DefaultValue: "3.2"})
	require.NoError(t, err)
	assert.Equal(t, 3.2, updated.DefaultValue)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NoError(t, svc.Delete(ctx, tpl.ID))
}
