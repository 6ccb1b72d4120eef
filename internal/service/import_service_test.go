package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/haven/internal/app"
	"github.com/alexanderramin/haven/internal/domain"
	"github.com/alexanderramin/haven/internal/importer"
	"github.com/alexanderramin/haven/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCatalogSchema() *importer.CatalogSchema {
	eff := 8.0
	return &importer.CatalogSchema{
		Content: []importer.ContentImport{
			{ID: "crisis-988", Title: "988 Lifeline", Type: "crisis-resource", ImmediateRelief: true},
			{ID: "c-breath", Title: "Box breathing", ImmediateRelief: true, Effectiveness: &eff},
		},
		Practices: []importer.PracticeImport{
			{ID: "p-walk", Title: "Mindful walk"},
		},
	}
}

func TestImportCatalog_SuccessPath(t *testing.T) {
	st := newSQLiteStack(t)
	svc := NewImportService(st.uow)
	ctx := context.Background()

	result, err := svc.ImportCatalogFromSchema(ctx, validCatalogSchema())
	require.NoError(t, err)
	assert.Equal(t, &app.CatalogImportResult{ContentCount: 2, PracticeCount: 1}, result)

	content, err := st.catalog.FindContent(ctx, domain.CatalogFilter{})
	require.NoError(t, err)
	assert.Len(t, content, 2)
	practices, err := st.catalog.FindPractices(ctx, domain.CatalogFilter{})
	require.NoError(t, err)
	assert.Len(t, practices, 1)
}

func TestImportCatalog_ReimportIsIdempotent(t *testing.T) {
	st := newSQLiteStack(t)
	svc := NewImportService(st.uow)
	ctx := context.Background()

	_, err := svc.ImportCatalogFromSchema(ctx, validCatalogSchema())
	require.NoError(t, err)
	_, err = svc.ImportCatalogFromSchema(ctx, validCatalogSchema())
	require.NoError(t, err)

	content, err := st.catalog.FindContent(ctx, domain.CatalogFilter{})
	require.NoError(t, err)
	assert.Len(t, content, 2)
}

func TestImportCatalog_RollsBackOnFailure(t *testing.T) {
	st := newSQLiteStack(t)
	failUoW := &testutil.FailOnNthExecUoW{DB: st.db, FailOn: 3, Err: assert.AnError}
	svc := NewImportService(failUoW)
	ctx := context.Background()

	_, err := svc.ImportCatalogFromSchema(ctx, validCatalogSchema())
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), `importing practice "Mindful walk"`)

	content, err := st.catalog.FindContent(ctx, domain.CatalogFilter{})
	require.NoError(t, err)
	assert.Empty(t, content, "no content should exist after rollback")
}

func TestImportCatalog_ValidationErrors(t *testing.T) {
	svc := NewImportService(newSQLiteStack(t).uow)

	_, err := svc.ImportCatalogFromSchema(context.Background(), &importer.CatalogSchema{
		Content: []importer.ContentImport{{Title: ""}},
	})
	var engineErr *app.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, app.ErrInvalidInput, engineErr.Code)
	assert.Contains(t, err.Error(), "content[0].title is required")
}

func TestImportCatalog_FromFile(t *testing.T) {
	st := newSQLiteStack(t)
	svc := NewImportService(st.uow)
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
content:
  - title: Grounding audio
    immediate_relief: true
    tags: [Anxiety]
`), 0o644))

	result, err := svc.ImportCatalog(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ContentCount)

	content, err := st.catalog.FindContent(context.Background(), domain.CatalogFilter{Tags: []string{"anxiety"}})
	require.NoError(t, err)
	require.Len(t, content, 1)
	assert.Equal(t, "Grounding audio", content[0].Title)

	_, err = svc.ImportCatalog(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "loading catalog file")
}
