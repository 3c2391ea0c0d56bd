package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/civic-report/internal/config"
	"github.com/spec-kit/civic-report/internal/domain"
	"github.com/spec-kit/civic-report/internal/events"
	"github.com/spec-kit/civic-report/internal/repository"
)

// Escalator is the recurring job that promotes stale unresolved issues to
// ASSIGNED with a default department. It shares the issue repository with the
// request handlers and mutates records only through the same Update contract.
type Escalator struct {
	issues     repository.IssueRepository
	dispatcher events.Dispatcher
	lock       TickLock
	logger     *zap.Logger
	cfg        config.EscalationConfig
	cron       *cron.Cron
	now        func() time.Time
}

// EscalatorDependencies bundles collaborators for the escalator.
type EscalatorDependencies struct {
	IssueRepo  repository.IssueRepository
	Dispatcher events.Dispatcher
	Lock       TickLock
	Logger     *zap.Logger
}

// NewEscalator constructs the job without starting it.
func NewEscalator(cfg config.EscalationConfig, deps EscalatorDependencies) *Escalator {
	return &Escalator{
		issues:     deps.IssueRepo,
		dispatcher: deps.Dispatcher,
		lock:       deps.Lock,
		logger:     deps.Logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Start schedules the recurring sweep. The job runs on its own goroutine and
// never blocks request handling.
func (e *Escalator) Start() error {
	e.cron = cron.New()
	spec := fmt.Sprintf("@every %s", e.cfg.Interval())
	if _, err := e.cron.AddFunc(spec, e.tick); err != nil {
		return err
	}
	e.cron.Start()
	e.logger.Info("escalation scheduler started",
		zap.Duration("interval", e.cfg.Interval()),
		zap.Duration("staleness_window", e.cfg.StalenessWindow()))
	return nil
}

// Stop cancels the recurring job and waits for a running sweep to finish.
func (e *Escalator) Stop() {
	if e.cron == nil {
		return
	}
	ctx := e.cron.Stop()
	<-ctx.Done()
	e.logger.Info("escalation scheduler stopped")
}

func (e *Escalator) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Interval())
	defer cancel()

	if e.lock != nil {
		acquired, err := e.lock.TryAcquire(ctx)
		if err != nil {
			e.logger.Warn("escalation lock unavailable", zap.Error(err))
			return
		}
		if !acquired {
			return
		}
		defer func() { _ = e.lock.Release(context.Background()) }()
	}

	promoted, err := e.Sweep(ctx)
	if err != nil {
		e.logger.Error("escalation sweep failed", zap.Error(err))
		return
	}
	if promoted > 0 {
		e.logger.Info("escalation sweep promoted issues", zap.Int("count", promoted))
	}
}

// Sweep scans every issue once and escalates the stale unresolved ones. The
// listing is only a candidate snapshot: each promotion goes through the
// store's Escalate, which re-checks the resolved status under its write lock,
// so an issue resolved between the snapshot and the write is left alone. A
// failure on one record is logged and does not abort the pass. Sweep is
// idempotent: re-running it on an already escalated issue only refreshes the
// timestamp and leaves the department untouched.
func (e *Escalator) Sweep(ctx context.Context) (int, error) {
	issues, err := e.issues.List(ctx, repository.IssueFilter{})
	if err != nil {
		return 0, err
	}

	now := e.now()
	window := e.cfg.StalenessWindow()
	promoted := 0

	for i := range issues {
		issue := issues[i]
		if issue.Status == domain.IssueStatusResolved {
			continue
		}
		age := now.Sub(issue.CreatedAt)
		if age <= window {
			continue
		}

		result, err := e.issues.Escalate(ctx, issue.ID, e.cfg.DefaultDepartment, now)
		if err != nil {
			e.logger.Warn("failed to escalate issue",
				zap.String("issue_id", issue.ID), zap.Error(err))
			continue
		}
		if result == nil {
			// resolved or removed since the snapshot
			continue
		}
		promoted++

		if e.dispatcher != nil {
			_ = e.dispatcher.Publish(ctx, events.Event{
				ID:        uuid.NewString(),
				Type:      events.EventIssueEscalated,
				IssueID:   issue.ID,
				Timestamp: now,
				Payload: events.IssueEscalatedPayload{
					OldStatus:  result.PrevStatus,
					Department: result.Department,
					AgeDays:    int(age.Hours() / 24),
				},
			})
		}
	}
	return promoted, nil
}
