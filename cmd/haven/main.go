package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/haven/internal/cli"
	"github.com/alexanderramin/haven/internal/config"
	"github.com/alexanderramin/haven/internal/db"
	"github.com/alexanderramin/haven/internal/detection"
	"github.com/alexanderramin/haven/internal/httpapi"
	"github.com/alexanderramin/haven/internal/recommend"
	"github.com/alexanderramin/haven/internal/repository"
	"github.com/alexanderramin/haven/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	logger := cfg.NewLogger(os.Stderr)

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	detector, err := loadDetector(cfg)
	if err != nil {
		return err
	}

	// Wire repositories
	historyRepo := repository.NewSQLiteHistoryRepo(database)
	catalogRepo := repository.NewSQLiteCatalogRepo(database)
	profileRepo := repository.NewSQLiteUserProfileRepo(database)
	eventRepo := repository.NewSQLiteCrisisEventRepo(database)

	uow := db.NewSQLiteUnitOfWork(database, logger)

	metrics := service.NewMetrics()
	observer := service.NewMultiObserver(service.NewLogUseCaseObserver(logger), metrics)

	// Crisis events fan out to storage, the log and the event counter.
	sink := service.NewMultiSink(service.NewRepoEventSink(eventRepo), service.NewLogEventSink(logger), metrics)
	emitter := service.NewEventEmitter(sink, cfg.EventTimeout(), logger, metrics)
	defer emitter.Wait()

	loader := service.NewSnapshotLoader(historyRepo, cfg.HistoryLimit, cfg.SourceTimeout(), logger)

	// Wire services
	crisisSvc := service.NewCrisisService(detector, loader, emitter, service.CrisisOptions{
		AnalyzerTimeout: cfg.AnalyzerTimeout(),
		Logger:          logger,
		Metrics:         metrics,
	}, observer)
	pipeline := recommend.NewDefaultPipeline(catalogRepo, cfg.GeneratorTimeout(), logger)
	recommendSvc := service.NewRecommendService(pipeline, crisisSvc, loader, profileRepo, service.RecommendOptions{
		DefaultMaxItems: cfg.DefaultMaxItems,
		Logger:          logger,
		Metrics:         metrics,
	}, observer)

	app := &cli.App{
		Crisis:    crisisSvc,
		Recommend: recommendSvc,
		Signals:   service.NewSignalLogService(historyRepo, uow, observer),
		Profiles:  service.NewProfileService(profileRepo, observer),
		Import:    service.NewImportService(uow, observer),
		Handler: httpapi.NewServer(httpapi.Deps{
			Crisis:    crisisSvc,
			Recommend: recommendSvc,
			Health:    database,
			Registry:  metrics.Registry(),
			Logger:    logger,
		}),
		HTTPAddr: cfg.HTTPAddr,
		Logger:   logger,
		IsTerminal: func() bool {
			return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		},
	}

	// Execute root command
	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}

// loadDetector uses the built-in rules unless HAVEN_RULES_FILE names an
// override file.
func loadDetector(cfg config.Config) (*detection.Detector, error) {
	if cfg.RulesFile == "" {
		return detection.MustDefaultDetector(), nil
	}
	rules, err := detection.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("loading detection rules: %w", err)
	}
	detector, err := detection.NewDetector(rules)
	if err != nil {
		return nil, fmt.Errorf("compiling detection rules: %w", err)
	}
	return detector, nil
}
