package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bobby-s-dev/weather-dashboard/internal/models"
	"github.com/bobby-s-dev/weather-dashboard/internal/services"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const runTimeout = 60 * time.Second

// Refresher re-runs the dashboard search for the selected city.
type Refresher interface {
	Refresh(ctx context.Context) (models.ViewState, error)
}

// Scheduler periodically refreshes the dashboard on a cron schedule.
// An empty schedule leaves it disabled; ForceRun still works.
type Scheduler struct {
	refresher Refresher
	logger    *zap.Logger
	schedule  string

	cron    *cron.Cron
	job     cron.Job
	entryID cron.EntryID

	mu        sync.Mutex
	running   bool
	lastRun   time.Time
	lastError string
	runCount  int
}

func NewScheduler(refresher Refresher, schedule string, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		refresher: refresher,
		logger:    logger,
		schedule:  schedule,
	}

	cl := cronLogger{logger.Sugar()}
	// Scheduled and forced runs share one skip guard, so they never overlap.
	s.job = cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).Then(cron.FuncJob(s.runRefresh))
	s.cron = cron.New(cron.WithLogger(cl))

	if schedule != "" {
		id, err := s.cron.AddJob(schedule, s.job)
		if err != nil {
			return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
		}
		s.entryID = id
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	if s.schedule == "" {
		s.logger.Info("Scheduler disabled, no refresh schedule configured")
		return
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("Scheduler started",
		zap.String("schedule", s.schedule),
		zap.Time("next_run", s.cron.Entry(s.entryID).Next))
}

// Stop halts the schedule and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) ForceRun() {
	s.logger.Info("Manually triggering dashboard refresh")
	go s.job.Run()
}

func (s *Scheduler) runRefresh() {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	state, err := s.refresher.Refresh(ctx)

	s.mu.Lock()
	s.lastRun = startTime
	s.runCount++
	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
	}
	s.mu.Unlock()

	switch {
	case errors.Is(err, services.ErrEmptyCity):
		s.logger.Debug("Skipping refresh, no city selected")
	case errors.Is(err, services.ErrSuperseded):
		s.logger.Info("Scheduled refresh superseded by a newer search")
	case err != nil:
		s.logger.Error("Scheduled refresh failed",
			zap.String("city", state.SelectedCity),
			zap.Error(err),
			zap.Duration("duration", time.Since(startTime)))
	default:
		s.logger.Info("Scheduled refresh completed",
			zap.String("city", state.SelectedCity),
			zap.Uint64("generation", state.Generation),
			zap.Duration("duration", time.Since(startTime)))
	}
}

func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"running":    s.running,
		"enabled":    s.schedule != "",
		"schedule":   s.schedule,
		"last_run":   s.lastRun,
		"run_count":  s.runCount,
		"last_error": s.lastError,
	}
	if s.running {
		status["next_run"] = s.cron.Entry(s.entryID).Next
	}
	return status
}

// cronLogger routes cron's internal logging through zap.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
