package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/haven/internal/app"
	"github.com/alexanderramin/haven/internal/db"
	"github.com/alexanderramin/haven/internal/importer"
	"github.com/alexanderramin/haven/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportCatalog(ctx context.Context, filePath string) (*app.CatalogImportResult, error) {
	schema, err := importer.LoadCatalogSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading catalog file: %w", err)
	}
	return s.ImportCatalogFromSchema(ctx, schema)
}

// ImportCatalogFromSchema upserts every item in one transaction; any
// failure leaves the catalog unchanged.
func (s *importService) ImportCatalogFromSchema(ctx context.Context, schema *importer.CatalogSchema) (result *app.CatalogImportResult, err error) {
	start := time.Now()
	defer func() { observe(ctx, s.observer, "catalog.import", start, err, nil) }()

	if errs := importer.ValidateCatalogSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	generated := importer.Convert(schema)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		catalog := repository.NewSQLiteCatalogRepo(tx)
		for _, c := range generated.Content {
			if err := catalog.UpsertContent(ctx, c); err != nil {
				return fmt.Errorf("importing content %q: %w", c.Title, err)
			}
		}
		for _, p := range generated.Practices {
			if err := catalog.UpsertPractice(ctx, p); err != nil {
				return fmt.Errorf("importing practice %q: %w", p.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &app.CatalogImportResult{
		ContentCount:  len(generated.Content),
		PracticeCount: len(generated.Practices),
	}, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("catalog validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return &app.EngineError{Code: app.ErrInvalidInput, Message: msg}
}
