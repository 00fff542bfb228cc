package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/The-Unpaid-Developers/core-service/internal/adapter/memory"
	"github.com/The-Unpaid-Developers/core-service/internal/adapter/metrics"
	mongoadapter "github.com/The-Unpaid-Developers/core-service/internal/adapter/mongo"
	"github.com/The-Unpaid-Developers/core-service/internal/app"
	"github.com/The-Unpaid-Developers/core-service/internal/domain"
	"github.com/The-Unpaid-Developers/core-service/internal/platform/config"
	"github.com/The-Unpaid-Developers/core-service/internal/platform/correlation"
	apperrors "github.com/The-Unpaid-Developers/core-service/internal/platform/errors"
	"github.com/The-Unpaid-Developers/core-service/internal/platform/logging"
	"github.com/The-Unpaid-Developers/core-service/internal/platform/version"
	"github.com/The-Unpaid-Developers/core-service/internal/report"
)

type options struct {
	uri         string
	database    string
	mode        string
	metricsFile string
	plan        bool
	verify      bool
	dryRun      bool
	verbose     bool
	showVersion bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("provision", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.uri, "uri", "", "MongoDB connection string (or set MONGODB_URI env)")
	fs.StringVar(&opts.database, "database", "", "Database to provision (or MONGODB_DATABASE env, URI path, default \"solutions\")")
	fs.StringVar(&opts.mode, "mode", "", "strict: fail on existing collections; ensure: skip matching ones (or PROVISION_MODE env)")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after the run (or METRICS_TEXTFILE env)")
	fs.BoolVar(&opts.plan, "plan", false, "Show what a run would do without changing anything")
	fs.BoolVar(&opts.verify, "verify", false, "Check that all collections exist with the expected collation")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "Run against an empty in-memory catalog (no server contact)")
	fs.BoolVar(&opts.verbose, "verbose", false, "Verbose logging")
	fs.BoolVar(&opts.showVersion, "version", false, "Print build information and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage of provision:\n")
		fmt.Fprintf(stderr, "\nCreates the solutionReviews, lookups and queries collections with case-insensitive English collation.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  provision -uri mongodb://localhost:27017/solutions\n")
		fmt.Fprintf(stderr, "  provision -uri $MONGODB_URI -mode ensure       # Safe to repeat on every deploy\n")
		fmt.Fprintf(stderr, "  provision -uri $MONGODB_URI -verify            # Check an existing database\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if opts.plan && opts.verify {
		return opts, fmt.Errorf("-plan and -verify are mutually exclusive")
	}
	return opts, nil
}

// applyFlags lets explicit flags win over environment configuration.
func applyFlags(cfg *config.Config, opts options) error {
	if opts.uri != "" {
		cfg.MongoURI = opts.uri
	}
	if opts.database != "" {
		cfg.MongoDatabase = opts.database
	}
	if opts.mode != "" {
		cfg.ProvisionMode = opts.mode
	}
	if opts.metricsFile != "" {
		cfg.MetricsTextfile = opts.metricsFile
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !opts.dryRun {
		return cfg.RequireURI()
	}
	return nil
}

// resolveDatabase picks the configured database, then the URI path, then the default.
func resolveDatabase(cfg *config.Config) string {
	if cfg.MongoDatabase != "" {
		return cfg.MongoDatabase
	}
	if db := mongoadapter.DatabaseFromURI(cfg.MongoURI); db != "" {
		return db
	}
	return domain.DefaultDatabase
}

func action(opts options) string {
	switch {
	case opts.plan:
		return app.ActionPlan
	case opts.verify:
		return app.ActionVerify
	default:
		return app.ActionRun
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return apperrors.ExitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "provision: %v\n", err)
		return apperrors.ExitValidation
	}

	if opts.showVersion {
		fmt.Fprintln(stdout, version.Get())
		return apperrors.ExitOK
	}

	cfg, err := config.Load()
	if err == nil {
		err = applyFlags(cfg, opts)
	}
	if err != nil {
		// Use stderr directly before slog is initialized
		fmt.Fprintf(stderr, "provision: invalid configuration: %v\n", err)
		return apperrors.ExitValidation
	}

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	ctx = correlation.WithRunID(ctx, correlation.NewRunID())

	mode, _ := app.ParseMode(cfg.ProvisionMode)
	database := resolveDatabase(cfg)
	slog.InfoContext(ctx, "Provisioner starting",
		append(version.Get().LogAttrs(), "env", cfg.AppEnv, "database", database, "mode", mode, "dry_run", opts.dryRun)...)

	reg := metrics.NewRegistry()
	m := metrics.NewProvisionMetrics(reg)

	catalog, closeCatalog, err := setupCatalog(ctx, cfg, opts.dryRun, m)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to connect to MongoDB", apperrors.AsStructuredError(err).LogAttrs()...)
		m.ObserveRun(action(opts), err)
		writeMetrics(ctx, cfg, reg)
		return apperrors.ExitCode(err)
	}
	defer closeCatalog()

	opCtx, cancel := context.WithTimeout(ctx, cfg.OperationTimeout)
	defer cancel()

	provisioner := app.NewProvisioner(catalog, domain.SolutionsLayout(), mode, clockwork.NewRealClock(), m)

	var result app.Result
	switch action(opts) {
	case app.ActionPlan:
		result, err = provisioner.Plan(opCtx, database)
	case app.ActionVerify:
		result, err = provisioner.Verify(opCtx, database)
	default:
		result, err = provisioner.Run(opCtx, database)
	}

	if werr := report.Write(stdout, result); werr != nil {
		slog.WarnContext(ctx, "Failed to write report", "error", werr)
	}
	writeMetrics(ctx, cfg, reg)

	if err != nil {
		slog.ErrorContext(ctx, "Provisioning failed", apperrors.AsStructuredError(err).LogAttrs()...)
		return apperrors.ExitCode(err)
	}
	return apperrors.ExitOK
}

func setupCatalog(ctx context.Context, cfg *config.Config, dryRun bool, m *metrics.ProvisionMetrics) (domain.Catalog, func(), error) {
	if dryRun {
		slog.InfoContext(ctx, "Dry run: using in-memory catalog")
		return memory.NewCatalog(), func() {}, nil
	}

	client, err := mongoadapter.Connect(ctx, cfg.MongoURI, mongoadapter.ConnectOptions{
		Timeout:  cfg.ConnectTimeout,
		Attempts: cfg.ConnectAttempts,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			m.ConnectRetries.Inc()
			slog.WarnContext(ctx, "MongoDB ping failed, retrying",
				"attempt", attempt, "backoff", backoff, "error", err)
		},
	})
	if err != nil {
		return nil, nil, apperrors.ExternalError("failed to connect to MongoDB", err).
			WithField("uri", mongoadapter.Redact(cfg.MongoURI))
	}

	return mongoadapter.NewCatalog(client), func() { disconnect(client) }, nil
}

func disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		slog.Warn("Failed to disconnect from MongoDB", "error", err)
	}
}

func writeMetrics(ctx context.Context, cfg *config.Config, reg prometheus.Gatherer) {
	if cfg.MetricsTextfile == "" {
		return
	}
	if err := metrics.WriteTextfile(cfg.MetricsTextfile, reg); err != nil {
		slog.WarnContext(ctx, "Failed to write metrics", "error", err)
		return
	}
	slog.DebugContext(ctx, "Metrics written", "path", cfg.MetricsTextfile)
}
