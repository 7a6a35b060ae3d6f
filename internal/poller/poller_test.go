package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/0a1b/TrackTramReliablilty/internal/ingest"
)

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	passes := 0
	p := &Poller{
		Interval: time.Millisecond,
		RunPass: func(ctx context.Context) (ingest.Result, error) {
			passes++
			if passes >= 3 {
				cancel()
			}
			return ingest.Result{}, nil
		},
	}

	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop after cancellation")
	}
	if passes < 3 {
		t.Errorf("expected at least 3 passes, got %d", passes)
	}
}

func TestRunSurvivesFailingPasses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	passes := 0
	p := &Poller{
		Interval: time.Millisecond,
		RunPass: func(ctx context.Context) (ingest.Result, error) {
			passes++
			if passes >= 2 {
				cancel()
			}
			return ingest.Result{}, errors.New("upstream down")
		},
	}

	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop after cancellation")
	}
	// A failing pass backs off and retries instead of exiting.
	if passes < 2 {
		t.Errorf("expected the poller to retry after failure, got %d passes", passes)
	}
}

func TestRunNeverStartsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Poller{
		Interval: time.Millisecond,
		RunPass: func(ctx context.Context) (ingest.Result, error) {
			t.Error("pass must not run with a cancelled context")
			return ingest.Result{}, nil
		},
	}
	p.Run(ctx)
}

func TestSleep(t *testing.T) {
	if !sleep(context.Background(), 0) {
		t.Error("zero sleep with live context must report true")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if sleep(ctx, time.Minute) {
		t.Error("sleep must report false on cancellation")
	}
	if sleep(ctx, 0) {
		t.Error("zero sleep with cancelled context must report false")
	}
}
