package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bobby-s-dev/weather-dashboard/internal/models"
	"github.com/bobby-s-dev/weather-dashboard/internal/services"
	"go.uber.org/zap"
)

type fakeRefresher struct {
	calls   int32
	started chan struct{}
	release chan struct{}
	err     error
}

func newFakeRefresher() *fakeRefresher {
	return &fakeRefresher{
		started: make(chan struct{}, 10),
		release: make(chan struct{}),
	}
}

func (f *fakeRefresher) Refresh(ctx context.Context) (models.ViewState, error) {
	atomic.AddInt32(&f.calls, 1)
	f.started <- struct{}{}
	<-f.release
	return models.ViewState{SelectedCity: "Bangkok", Generation: 2}, f.err
}

func TestNewSchedulerRejectsBadSchedule(t *testing.T) {
	if _, err := NewScheduler(newFakeRefresher(), "every now and then", zap.NewNop()); err == nil {
		t.Fatal("expected an error for an invalid schedule")
	}
}

func TestSchedulerDisabled(t *testing.T) {
	s, err := NewScheduler(newFakeRefresher(), "", zap.NewNop())
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	s.Start()
	defer s.Stop()

	status := s.GetStatus()
	if status["running"] != false || status["enabled"] != false {
		t.Errorf("status = %v, want disabled", status)
	}
}

func TestSchedulerStartStop(t *testing.T) {
	s, err := NewScheduler(newFakeRefresher(), "@every 1h", zap.NewNop())
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	s.Start()
	status := s.GetStatus()
	if status["running"] != true {
		t.Errorf("status = %v, want running", status)
	}
	next, ok := status["next_run"].(time.Time)
	if !ok || next.Before(time.Now()) {
		t.Errorf("next_run = %v", status["next_run"])
	}

	s.Stop()
	if s.GetStatus()["running"] != false {
		t.Error("scheduler should report stopped")
	}
}

func TestSchedulerForceRunSkipsOverlap(t *testing.T) {
	f := newFakeRefresher()
	s, err := NewScheduler(f, "@every 1h", zap.NewNop())
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}

	s.ForceRun()
	<-f.started
	s.ForceRun()
	time.Sleep(50 * time.Millisecond)
	close(f.release)

	deadline := time.Now().Add(2 * time.Second)
	for s.GetStatus()["run_count"] != 1 {
		if time.Now().After(deadline) {
			t.Fatal("refresh did not complete")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := atomic.LoadInt32(&f.calls); got != 1 {
		t.Errorf("refresh called %d times, want 1", got)
	}
}

func TestSchedulerRecordsError(t *testing.T) {
	f := newFakeRefresher()
	f.err = services.ErrEmptyCity
	close(f.release)
	s, err := NewScheduler(f, "", zap.NewNop())
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}

	s.ForceRun()
	<-f.started

	deadline := time.Now().Add(2 * time.Second)
	for s.GetStatus()["last_error"] != services.ErrEmptyCity.Error() {
		if time.Now().After(deadline) {
			t.Fatalf("status = %v", s.GetStatus())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
