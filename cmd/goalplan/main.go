package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/goalplan/internal/cli"
	"github.com/alexanderramin/goalplan/internal/config"
	"github.com/alexanderramin/goalplan/internal/db"
	"github.com/alexanderramin/goalplan/internal/dedupe"
	"github.com/alexanderramin/goalplan/internal/interview"
	"github.com/alexanderramin/goalplan/internal/logging"
	"github.com/alexanderramin/goalplan/internal/planclient"
	"github.com/alexanderramin/goalplan/internal/repository"
	"github.com/alexanderramin/goalplan/internal/service"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := os.Getenv("GOALPLAN_CONFIG")
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	now := func() time.Time { return time.Now().In(loc) }

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	conversationRepo := repository.NewSQLiteConversationRepo(database)
	goalRepo := repository.NewSQLiteGoalRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	observer := service.NewZapUseCaseObserver(logger)
	store := service.NewPlanStore(goalRepo, uow, observer)

	// Plans go to the remote service when one is configured, otherwise to
	// the local store. Either way identical submissions are deduplicated.
	var submitter dedupe.Submitter = store
	if pc := cfg.PlanClient(); pc.Enabled() {
		client := planclient.NewClient(pc, planclient.NewZapObserver(logger))
		logger.Info("submitting plans to remote service", zap.String("endpoint", pc.Endpoint))
		warnIfUnreachable(context.Background(), client, pc.Endpoint, logger)
		submitter = client
	}
	deduper := dedupe.New(submitter,
		dedupe.WithWindow(cfg.Dedupe.Window),
		dedupe.WithMaxEntries(cfg.Dedupe.MaxEntries),
		dedupe.WithLogger(logger.Named("dedupe")),
	)

	engine := interview.NewEngine(
		interview.WithClock(now),
		interview.WithMaxSessionMinutes(cfg.Interview.MaxSessionMinutes),
	)

	app := &cli.App{
		Conversations:     service.NewConversationService(conversationRepo, engine, observer),
		Planning:          service.NewPlanningService(conversationRepo, deduper, now, observer),
		Goals:             store,
		Now:               now,
		MaxSessionMinutes: engine.MaxSessionMinutes(),
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	return cli.NewRootCmd(app).Execute()
}

type availabilityChecker interface {
	Available(ctx context.Context) bool
}

// warnIfUnreachable logs a warning when the plan service does not answer its
// health check. Startup continues; submissions report their own errors.
func warnIfUnreachable(ctx context.Context, c availabilityChecker, endpoint string, logger *zap.Logger) bool {
	if c.Available(ctx) {
		return true
	}
	logger.Warn("plan service is unreachable; plan submission will fail until it is back",
		zap.String("endpoint", endpoint))
	return false
}
