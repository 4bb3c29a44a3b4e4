package application

import (
	"context"
	"io"
	"log/slog"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
	"github.com/wangyi68/hoyolab-auto-checkin/internal/ports"
)

// Orchestrator runs check-ins for a set of targets sequentially, isolating
// per-account failures, and hands the aggregated summary to the reporting
// sinks. Sink failures are logged and never abort a run.
type Orchestrator struct {
	client   ports.CheckinClient
	notifier ports.Notifier
	history  ports.RunHistory
	clock    ports.Clock
	settings Settings
	logger   *slog.Logger
}

type OrchestratorOption func(*Orchestrator)

func WithNotifier(notifier ports.Notifier) OrchestratorOption {
	return func(o *Orchestrator) { o.notifier = notifier }
}

func WithHistory(history ports.RunHistory) OrchestratorOption {
	return func(o *Orchestrator) { o.history = history }
}

func WithLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) { o.logger = logger }
}

func NewOrchestrator(client ports.CheckinClient, clock ports.Clock, settings Settings, opts ...OrchestratorOption) *Orchestrator {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	o := &Orchestrator{
		client:   client,
		clock:    clock,
		settings: settings.withDefaults(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Run performs one orchestration pass over the given targets in order,
// producing exactly one AttemptResult per target. A terminal failure of one
// target never halts the remaining ones.
func (o *Orchestrator) Run(ctx context.Context, targets []Target) domain.RunSummary {
	summary := domain.RunSummary{
		StartedAt: o.clock.Now(),
		Results:   make([]domain.AttemptResult, 0, len(targets)),
	}

	for i, target := range targets {
		if i > 0 && o.settings.DelayBetweenGames > 0 {
			if err := o.clock.Sleep(ctx, o.settings.DelayBetweenGames); err != nil {
				break
			}
		}
		if ctx.Err() != nil {
			break
		}

		spec, cred := target.Spec, target.Credential
		result := executeWithRetry(ctx, o.clock, o.settings.MaxRetries, o.settings.RetryDelay,
			func(ctx context.Context) domain.AttemptResult {
				return o.client.CheckIn(ctx, spec, cred)
			})
		result.Account = cred.LtUID

		o.logger.Info("check-in finished",
			"game", result.Game,
			"status", result.Status,
			"attempts", result.AttemptCount,
		)
		summary.Results = append(summary.Results, result)
	}

	summary.Finalize(o.clock.Now())
	// An interrupted run skipped targets and is never overall-successful.
	if len(summary.Results) < len(targets) {
		summary.OverallSuccess = false
	}
	o.report(ctx, summary)

	return summary
}

// RunSubset re-runs only the targets whose keys appear in failed. Used by
// the scheduler's retry pass after a partially failed run.
func (o *Orchestrator) RunSubset(ctx context.Context, targets []Target, failed []domain.AttemptKey) domain.RunSummary {
	wanted := make(map[domain.AttemptKey]struct{}, len(failed))
	for _, key := range failed {
		wanted[key] = struct{}{}
	}

	subset := make([]Target, 0, len(failed))
	for _, target := range targets {
		if _, ok := wanted[target.Key()]; ok {
			subset = append(subset, target)
		}
	}

	return o.Run(ctx, subset)
}

func (o *Orchestrator) report(ctx context.Context, summary domain.RunSummary) {
	if o.notifier != nil {
		if err := o.notifier.NotifyRun(ctx, summary); err != nil {
			o.logger.Warn("notify run summary", "error", err)
		}
	}
	if o.history != nil {
		if err := o.history.Append(ctx, summary); err != nil {
			o.logger.Warn("append run history", "error", err)
		}
	}
}
