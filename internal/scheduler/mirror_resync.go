package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/gemshub/internal/domain"
	"github.com/MrSnakeDoc/gemshub/internal/logger"
)

// Source returns the full current collection.
type Source interface {
	All() []domain.Gem
}

// Pusher replicates the collection returned by load to the remote mirror
// and reports how many gems it pushed.
type Pusher interface {
	Resync(ctx context.Context, load func() []domain.Gem) (int, error)
}

// MirrorResync pushes the whole collection to the mirror on a timer and on
// demand. It repairs a remote copy left stale by a failed background push.
type MirrorResync struct {
	source        Source
	pusher        Pusher
	logger        logger.Logger
	interval      time.Duration
	timeout       time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewMirrorResync creates a new resync scheduler. An interval of zero
// disables the timer; manual triggers still work.
func NewMirrorResync(
	source Source,
	pusher Pusher,
	log logger.Logger,
	interval time.Duration,
	timeout time.Duration,
	manualTrigger chan struct{},
) *MirrorResync {
	return &MirrorResync{
		source:        source,
		pusher:        pusher,
		logger:        log,
		interval:      interval,
		timeout:       timeout,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start runs the resync loop in the background.
func (mr *MirrorResync) Start(ctx context.Context) {
	var tick <-chan time.Time
	if mr.interval > 0 {
		ticker := time.NewTicker(mr.interval)
		tick = ticker.C
		go func() {
			<-mr.stopCh
			ticker.Stop()
		}()
		mr.logger.Info("mirror resync scheduled", logger.Duration("interval", mr.interval))
	}

	go func() {
		for {
			select {
			case <-tick:
				if err := mr.Resync(ctx); err != nil {
					mr.logger.Error("scheduled mirror resync failed", logger.Error(err))
				}
			case <-mr.manualTrigger:
				mr.logger.Info("manual mirror sync triggered")
				if err := mr.Resync(ctx); err != nil {
					mr.logger.Error("manual mirror sync failed", logger.Error(err))
				}
			case <-mr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the scheduler
func (mr *MirrorResync) Stop() {
	close(mr.stopCh)
}

// Resync pushes the current collection once.
func (mr *MirrorResync) Resync(ctx context.Context) error {
	if mr.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, mr.timeout)
		defer cancel()
	}

	count, err := mr.pusher.Resync(ctx, mr.source.All)
	if err != nil {
		return fmt.Errorf("failed to resync gems: %w", err)
	}
	mr.logger.Debug("mirror resync done", logger.Int("count", count))
	return nil
}
