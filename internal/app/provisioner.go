package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/The-Unpaid-Developers/core-service/internal/adapter/metrics"
	"github.com/The-Unpaid-Developers/core-service/internal/domain"
	apperrors "github.com/The-Unpaid-Developers/core-service/internal/platform/errors"
)

const (
	ActionRun    = "run"
	ActionPlan   = "plan"
	ActionVerify = "verify"
)

// Provisioner creates the collections of a layout, in order, through a catalog.
// It runs one action at a time from a single goroutine.
type Provisioner struct {
	catalog domain.Catalog
	layout  []domain.CollectionSpec
	mode    Mode
	clock   clockwork.Clock
	metrics *metrics.ProvisionMetrics
}

// NewProvisioner creates a provisioner. m may be nil when metrics are not collected.
func NewProvisioner(catalog domain.Catalog, layout []domain.CollectionSpec, mode Mode, clock clockwork.Clock, m *metrics.ProvisionMetrics) *Provisioner {
	return &Provisioner{
		catalog: catalog,
		layout:  append([]domain.CollectionSpec(nil), layout...),
		mode:    mode,
		clock:   clock,
		metrics: m,
	}
}

// SelectDatabase scopes every later catalog call to database. Selecting
// creates nothing and may be repeated.
func (p *Provisioner) SelectDatabase(database string) error {
	if err := p.catalog.Use(database); err != nil {
		return apperrors.ValidationError("cannot select database").WithCause(err).WithField("database", database)
	}
	slog.Debug("Database selected", "database", database)
	return nil
}

// Run selects database and creates every collection of the layout in order.
// The first failure stops the run: later collections are reported as
// not attempted and collections created earlier are left in place.
func (p *Provisioner) Run(ctx context.Context, database string) (Result, error) {
	start := p.clock.Now()
	result := p.newResult(ActionRun, database)

	err := p.run(ctx, database, &result)

	result.Duration = p.clock.Since(start)
	p.observeRun(ActionRun, err)
	return result, err
}

func (p *Provisioner) run(ctx context.Context, database string, result *Result) error {
	if err := p.SelectDatabase(database); err != nil {
		markNotAttempted(result.Steps, 0)
		return err
	}

	var existing map[string]domain.CollectionInfo
	if p.mode == ModeEnsure {
		var err error
		if existing, err = p.listCollections(ctx); err != nil {
			markNotAttempted(result.Steps, 0)
			return err
		}
	}

	for i := range result.Steps {
		step := &result.Steps[i]
		spec := p.layout[i]

		if info, ok := existing[spec.Name]; ok {
			if err := checkCollation(database, spec, info); err != nil {
				step.Outcome = OutcomeFailed
				step.Detail = err.Message
				p.observeCollection(step)
				markNotAttempted(result.Steps, i+1)
				return err
			}
			step.Outcome = OutcomeSkipped
			step.Detail = "exists with matching collation"
			p.observeCollection(step)
			slog.InfoContext(ctx, "Collection already provisioned", "database", database, "collection", spec.Name)
			continue
		}

		if err := p.createCollection(ctx, database, spec, step); err != nil {
			markNotAttempted(result.Steps, i+1)
			return err
		}
	}

	slog.InfoContext(ctx, "Provisioning complete",
		"database", database,
		"created", result.Count(OutcomeCreated),
		"skipped", result.Count(OutcomeSkipped))
	return nil
}

func (p *Provisioner) createCollection(ctx context.Context, database string, spec domain.CollectionSpec, step *Step) error {
	start := p.clock.Now()
	err := p.catalog.CreateCollection(ctx, spec)
	step.Duration = p.clock.Since(start)
	p.observeDuration("create_collection", step.Duration)

	if err != nil {
		structured := classify(err, "cannot create collection").
			WithField("database", database).
			WithField("collection", spec.Name)
		step.Outcome = OutcomeFailed
		step.Detail = err.Error()
		p.observeCollection(step)
		slog.ErrorContext(ctx, "Collection creation failed", structured.LogAttrs()...)
		return structured
	}

	step.Outcome = OutcomeCreated
	step.Detail = "collation " + spec.Collation.String()
	p.observeCollection(step)
	slog.InfoContext(ctx, "Collection created",
		"database", database,
		"collection", spec.Name,
		"collation", spec.Collation.String(),
		"duration_ms", step.Duration.Milliseconds())
	return nil
}

// Plan reports what Run would do against the current catalog without changing it.
func (p *Provisioner) Plan(ctx context.Context, database string) (Result, error) {
	start := p.clock.Now()
	result := p.newResult(ActionPlan, database)

	err := p.plan(ctx, database, &result)

	result.Duration = p.clock.Since(start)
	p.observeRun(ActionPlan, err)
	return result, err
}

func (p *Provisioner) plan(ctx context.Context, database string, result *Result) error {
	if err := p.SelectDatabase(database); err != nil {
		markNotAttempted(result.Steps, 0)
		return err
	}
	existing, err := p.listCollections(ctx)
	if err != nil {
		markNotAttempted(result.Steps, 0)
		return err
	}

	for i := range result.Steps {
		step := &result.Steps[i]
		spec := p.layout[i]

		info, exists := existing[spec.Name]
		switch {
		case !exists:
			step.Outcome = OutcomeWouldCreate
			step.Detail = "collation " + spec.Collation.String()
			continue
		case p.mode == ModeStrict:
			step.Outcome = OutcomeWouldFail
			step.Detail = domain.ErrCollectionExists.Error()
		default:
			if cerr := checkCollation(database, spec, info); cerr != nil {
				step.Outcome = OutcomeWouldFail
				step.Detail = cerr.Message
			} else {
				step.Outcome = OutcomeWouldSkip
				step.Detail = "exists with matching collation"
				continue
			}
		}
		markNotAttempted(result.Steps, i+1)
		break
	}
	return nil
}

// Verify checks that every layout collection exists with its collation.
func (p *Provisioner) Verify(ctx context.Context, database string) (Result, error) {
	start := p.clock.Now()
	result := p.newResult(ActionVerify, database)

	err := p.verify(ctx, database, &result)

	result.Duration = p.clock.Since(start)
	p.observeRun(ActionVerify, err)
	return result, err
}

func (p *Provisioner) verify(ctx context.Context, database string, result *Result) error {
	if err := p.SelectDatabase(database); err != nil {
		markNotAttempted(result.Steps, 0)
		return err
	}
	existing, err := p.listCollections(ctx)
	if err != nil {
		markNotAttempted(result.Steps, 0)
		return err
	}

	for i := range result.Steps {
		step := &result.Steps[i]
		spec := p.layout[i]

		info, exists := existing[spec.Name]
		switch {
		case !exists:
			step.Outcome = OutcomeMissing
			step.Detail = "collection does not exist"
		case info.Collation == nil || !info.Collation.Equal(spec.Collation):
			step.Outcome = OutcomeMismatch
			step.Detail = collationMismatch(info.Collation, spec.Collation)
		default:
			step.Outcome = OutcomeOK
			step.Detail = "collation " + info.Collation.String()
		}
	}

	missing := result.Collections(OutcomeMissing)
	mismatched := result.Collections(OutcomeMismatch)
	if len(missing) > 0 || len(mismatched) > 0 {
		return apperrors.ConflictError("collections do not match the layout").
			WithCause(domain.ErrLayoutMismatch).
			WithField("database", database).
			WithField("missing", missing).
			WithField("mismatched", mismatched)
	}

	slog.InfoContext(ctx, "Layout verified", "database", database, "collections", len(result.Steps))
	return nil
}

func (p *Provisioner) listCollections(ctx context.Context) (map[string]domain.CollectionInfo, error) {
	start := p.clock.Now()
	infos, err := p.catalog.ListCollections(ctx)
	p.observeDuration("list_collections", p.clock.Since(start))
	if err != nil {
		return nil, classify(err, "cannot list collections").WithField("database", p.catalog.Database())
	}

	existing := make(map[string]domain.CollectionInfo, len(infos))
	for _, info := range infos {
		existing[info.Name] = info
	}
	return existing, nil
}

func (p *Provisioner) newResult(action, database string) Result {
	steps := make([]Step, len(p.layout))
	for i, spec := range p.layout {
		steps[i] = Step{Collection: spec.Name, Collation: spec.Collation}
	}
	return Result{Action: action, Database: database, Mode: p.mode, Steps: steps}
}

func (p *Provisioner) observeCollection(step *Step) {
	if p.metrics != nil {
		p.metrics.Collections.WithLabelValues(step.Collection, string(step.Outcome)).Inc()
	}
}

func (p *Provisioner) observeDuration(operation string, d time.Duration) {
	if p.metrics != nil {
		p.metrics.StepDuration.WithLabelValues(operation).Observe(d.Seconds())
	}
}

func (p *Provisioner) observeRun(action string, err error) {
	if p.metrics != nil {
		p.metrics.ObserveRun(action, err)
	}
}

func markNotAttempted(steps []Step, from int) {
	for i := from; i < len(steps); i++ {
		steps[i].Outcome = OutcomeNotAttempted
	}
}

func checkCollation(database string, spec domain.CollectionSpec, info domain.CollectionInfo) *apperrors.Error {
	if info.Collation != nil && info.Collation.Equal(spec.Collation) {
		return nil
	}
	return apperrors.ConflictError(collationMismatch(info.Collation, spec.Collation)).
		WithCause(fmt.Errorf("%s: %w", spec.Name, domain.ErrCollectionExists)).
		WithField("database", database).
		WithField("collection", spec.Name)
}

func collationMismatch(got *domain.Collation, want domain.Collation) string {
	if got == nil {
		return fmt.Sprintf("exists without collation, want %s", want)
	}
	return fmt.Sprintf("exists with collation %s, want %s", got, want)
}

// classify maps a catalog error onto the structured error taxonomy.
func classify(err error, message string) *apperrors.Error {
	var structured *apperrors.Error
	switch {
	case errors.As(err, &structured):
		return structured
	case errors.Is(err, domain.ErrCollectionExists):
		return apperrors.ConflictError(message).WithCause(err)
	case errors.Is(err, domain.ErrInvalidName), errors.Is(err, domain.ErrInvalidCollation):
		return apperrors.ValidationError(message).WithCause(err)
	case errors.Is(err, domain.ErrNoDatabase):
		return apperrors.InternalError(message, err)
	default:
		return apperrors.ExternalError(message, err)
	}
}
