package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/tourdesk/internal/changefeed"
	"github.com/alexanderramin/tourdesk/internal/cli"
	"github.com/alexanderramin/tourdesk/internal/config"
	"github.com/alexanderramin/tourdesk/internal/db"
	"github.com/alexanderramin/tourdesk/internal/geocode"
	"github.com/alexanderramin/tourdesk/internal/locsearch"
	"github.com/alexanderramin/tourdesk/internal/repository"
	"github.com/alexanderramin/tourdesk/internal/service"
	"github.com/alexanderramin/tourdesk/internal/telemetry"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	var database *sql.DB
	var tp *sdktrace.TracerProvider
	defer func() {
		if app.Feed != nil {
			app.Feed.Close()
		}
		if database != nil {
			database.Close()
		}
		if err := telemetry.Shutdown(context.Background(), tp); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}()

	// Configuration is only known once flags are parsed, so wiring happens
	// in the root command's pre-run hook.
	app.Bootstrap = func(cmd *cobra.Command) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath, cmd.Flags())
		if err != nil {
			return err
		}

		tp, err = telemetry.InitTracing(cmd.Context(), cfg.TelemetryConfig(version))
		if err != nil {
			return fmt.Errorf("initializing tracing: %w", err)
		}

		database, err = db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		wire(app, database, cfg, tp)
		return nil
	}

	return cli.NewRootCmd(app).Execute()
}

func wire(app *cli.App, database *sql.DB, cfg *config.Config, tp *sdktrace.TracerProvider) {
	uow := db.NewSQLiteUnitOfWork(database)

	observers := []service.UseCaseObserver{service.NewTraceUseCaseObserver(tp)}
	if cfg.Log.UseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}
	var geoObserver geocode.Observer = geocode.NoopObserver{}
	if cfg.Log.GeocodeCalls {
		geoObserver = geocode.NewLogObserver(os.Stderr)
	}

	itineraryCfg := service.DefaultItineraryConfig()
	itineraryCfg.StepGate = cfg.Wizard.StepGate
	itineraryCfg.WarningRatio = cfg.WarningRatio()

	app.Leads = service.NewLeadService(repository.NewSQLiteLeadRepo(database), uow, observers...)
	app.Packages = service.NewPackageService(repository.NewSQLitePackageRepo(database), uow, observers...)
	app.Itineraries = service.NewItineraryService(repository.NewSQLiteDraftRepo(database), uow, itineraryCfg, observers...)
	app.Imports = service.NewImportService(uow, observers...)

	app.Geocoder = geocode.NewClient(cfg.GeocodeClientConfig(), geoObserver)
	app.Search = []locsearch.Option{
		locsearch.WithDebounce(cfg.Debounce()),
		locsearch.WithMinLength(cfg.Search.MinLength),
	}
	app.Feed = changefeed.New(repository.NewSQLiteChangeLogRepo(database),
		changefeed.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))))

	app.Principal = cfg.Principal()
	app.WarnRatio = cfg.WarningRatio()
}
