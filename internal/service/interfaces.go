package service

import (
	"context"

	"github.com/alexanderramin/haven/internal/app"
	"github.com/alexanderramin/haven/internal/domain"
	"github.com/alexanderramin/haven/internal/importer"
)

// ImportService loads catalog files. The schema form serves callers that
// already parsed or built the catalog.
type ImportService interface {
	app.CatalogImportUseCase
	ImportCatalogFromSchema(ctx context.Context, schema *importer.CatalogSchema) (*app.CatalogImportResult, error)
}

// EventSink receives crisis events. Implementations may block; callers
// reach it through an EventEmitter, which never waits on it.
type EventSink interface {
	RecordCrisisEvent(ctx context.Context, event domain.CrisisEvent) error
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(ctx context.Context, event domain.CrisisEvent) error

func (f EventSinkFunc) RecordCrisisEvent(ctx context.Context, event domain.CrisisEvent) error {
	return f(ctx, event)
}
