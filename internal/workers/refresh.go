package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/bucket-filter/domain"
)

const DefaultRefreshInterval = 30 * time.Second

type refreshWorker struct {
	Refresher domain.Refresher
	interval  time.Duration
	ch        chan domain.RefreshTarget
}

var _ domain.RefreshWorker = (*refreshWorker)(nil)

func NewRefreshWorker(r domain.Refresher, interval time.Duration) *refreshWorker {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &refreshWorker{
		Refresher: r,
		interval:  interval,
		ch:        make(chan domain.RefreshTarget, 16),
	}
}

// Send asks for target to be refreshed on the next tick.
func (w *refreshWorker) Send(target domain.RefreshTarget) {
	select {
	case w.ch <- target:
	default:
		logrus.Info("RefreshWorker's channel is full, request dropped")
	}
}

// Start refreshes the stale stores and the requested ones on every tick
// until ctx is done.
func (w *refreshWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	pending := make(map[domain.RefreshTarget]struct{})
	for {
		select {
		case target := <-w.ch:
			pending[target] = struct{}{}
		case <-ticker.C:
			for _, target := range w.Refresher.Stale() {
				pending[target] = struct{}{}
			}
			w.flush(ctx, pending)
			pending = make(map[domain.RefreshTarget]struct{})
		case <-ctx.Done():
			logrus.Info("shutting down RefreshWorker")
			return
		}
	}
}

func (w *refreshWorker) flush(ctx context.Context, pending map[domain.RefreshTarget]struct{}) {
	// signatures first, so a request for both refreshes in a stable order
	for _, target := range []domain.RefreshTarget{domain.RefreshSignatures, domain.RefreshBuckets} {
		if _, ok := pending[target]; !ok {
			continue
		}

		var (
			n   uint64
			err error
		)
		switch target {
		case domain.RefreshSignatures:
			n, err = w.Refresher.RefreshSignatures(ctx)
		case domain.RefreshBuckets:
			n, err = w.Refresher.RefreshBuckets(ctx)
		}

		log := logrus.WithField("target", target.String())
		if err != nil {
			log.Errorf("refresh failed: %v", err)
			continue
		}
		log.WithField("inserted", n).Debug("refreshed")
	}
}
