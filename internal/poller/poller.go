package poller

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/0a1b/TrackTramReliablilty/internal/ingest"
)

const (
	backoffFloor = 1 * time.Second
	backoffCap   = 60 * time.Second
)

// PassFunc runs one ingestion pass.
type PassFunc func(ctx context.Context) (ingest.Result, error)

// Poller drives ingestion passes on a fixed cadence until the context
// is cancelled. A failing pass is reported and backed off from, never
// fatal; backoff delay is added on top of the regular cadence sleep.
type Poller struct {
	Interval time.Duration
	RunPass  PassFunc
}

// Run loops until ctx is cancelled. Cancellation is cooperative: it is
// checked before each pass and again after it, so an in-flight pass is
// never aborted mid-way.
func (p *Poller) Run(ctx context.Context) {
	backoff := backoffFloor
	for {
		if ctx.Err() != nil {
			log.Println("poller: stopped")
			return
		}

		passID := uuid.New().String()[:8]
		start := time.Now()

		res, err := p.RunPass(ctx)
		if err != nil {
			log.Printf("poller: pass %s failed: %v (backing off %v)", passID, err, backoff)
			if !sleep(ctx, backoff) {
				log.Println("poller: stopped")
				return
			}
			backoff = min(backoff*2, backoffCap)
		} else {
			log.Printf("poller: pass %s ok: stations=%d inserted=%d skipped=%d",
				passID, res.StationsProcessed, res.RowsInserted, res.RowsSkipped)
			backoff = backoffFloor
		}

		if ctx.Err() != nil {
			log.Println("poller: stopped")
			return
		}
		if !sleep(ctx, p.Interval-time.Since(start)) {
			log.Println("poller: stopped")
			return
		}
	}
}

// sleep waits for d or until ctx is cancelled; it reports false on
// cancellation.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
