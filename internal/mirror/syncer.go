package mirror

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gammazero/workerpool"

	"github.com/MrSnakeDoc/gemshub/internal/domain"
	"github.com/MrSnakeDoc/gemshub/internal/logger"
	"github.com/MrSnakeDoc/gemshub/internal/store/file"
)

// DefaultPushTimeout bounds one background push (version fetch + write).
const DefaultPushTimeout = 15 * time.Second

var (
	// ErrDisabled is returned by Push and Resync when no remote is configured.
	ErrDisabled = errors.New("remote mirror is disabled")
	// ErrClosed is returned by Resync once the syncer has been closed.
	ErrClosed = errors.New("mirror syncer is closed")
)

// Syncer replicates the full collection to a Remote, best effort.
//
// Background pushes run one at a time on a single worker. A queued push
// that has been superseded by a newer notification is skipped, since the
// newer one carries the whole collection anyway. Failures are sent to an
// error channel that a dedicated goroutine logs; nothing is retried.
type Syncer struct {
	remote  Remote
	logger  logger.Logger
	timeout time.Duration

	pool   *workerpool.WorkerPool
	errs   chan error
	done   chan struct{}
	latest atomic.Uint64

	mu     sync.RWMutex
	closed bool
}

// NewSyncer starts the background worker. A nil remote yields a disabled
// syncer whose Notify is a no-op.
func NewSyncer(remote Remote, log logger.Logger, timeout time.Duration) *Syncer {
	if timeout <= 0 {
		timeout = DefaultPushTimeout
	}

	s := &Syncer{
		remote:  remote,
		logger:  log,
		timeout: timeout,
		pool:    workerpool.New(1),
		errs:    make(chan error, 16),
		done:    make(chan struct{}),
	}
	go s.logErrors()

	if remote == nil {
		log.Warn("remote mirror disabled, gems are only stored locally")
	} else {
		log.Info("remote mirror enabled", logger.String("target", remote.Describe()))
	}
	return s
}

// Enabled reports whether a remote is configured.
func (s *Syncer) Enabled() bool {
	return s.remote != nil
}

// Notify queues a push of gems and returns immediately.
func (s *Syncer) Notify(gems []domain.Gem) {
	if s.remote == nil {
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.logger.Warn("mirror syncer closed, dropping push", logger.Int("count", len(gems)))
		return
	}

	gen := s.latest.Add(1)
	s.pool.Submit(func() {
		if s.latest.Load() != gen {
			s.logger.Debug("skipping superseded mirror push")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.Push(ctx, gems); err != nil {
			s.report(err)
		}
	})
}

// Resync queues a full push on the worker and waits for it. load is called
// when the push runs, so the snapshot is never older than what a pending
// notification carries; notifications queued before the call are skipped.
// It returns the number of gems pushed.
func (s *Syncer) Resync(ctx context.Context, load func() []domain.Gem) (int, error) {
	if s.remote == nil {
		return 0, ErrDisabled
	}

	type result struct {
		count int
		err   error
	}
	res := make(chan result, 1)

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return 0, ErrClosed
	}
	s.latest.Add(1)
	s.pool.Submit(func() {
		if err := ctx.Err(); err != nil {
			res <- result{err: err}
			return
		}
		gems := load()
		res <- result{count: len(gems), err: s.Push(ctx, gems)}
	})
	s.mu.RUnlock()

	select {
	case r := <-res:
		return r.count, r.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Push runs the mirror protocol synchronously:
//  1. fetch the remote version token (absent object means first write),
//  2. write the canonical JSON carrying that token,
//  3. log the outcome.
//
// A stale token makes the remote reject the write; the rejection is
// returned, never reconciled.
func (s *Syncer) Push(ctx context.Context, gems []domain.Gem) error {
	if s.remote == nil {
		return ErrDisabled
	}

	version, err := s.remote.Version(ctx)
	switch {
	case errors.Is(err, ErrRemoteNotFound):
		s.logger.Info("remote copy does not exist yet, creating it",
			logger.String("target", s.remote.Describe()))
		version = ""
	case err != nil:
		return fmt.Errorf("mirror push abandoned: %w", err)
	}

	content, err := file.Encode(gems)
	if err != nil {
		return err
	}

	if err := s.remote.Put(ctx, content, version); err != nil {
		return fmt.Errorf("mirror push failed: %w", err)
	}

	s.logger.Info("gems mirrored",
		logger.String("target", s.remote.Describe()),
		logger.Int("count", len(gems)),
		logger.Bool("first_write", version == ""))
	return nil
}

// Close waits for queued pushes to finish and stops the error logger.
func (s *Syncer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.pool.StopWait()
	close(s.errs)
	<-s.done
}

func (s *Syncer) report(err error) {
	select {
	case s.errs <- err:
	default:
		// error logger is behind, log inline rather than block the worker
		s.logger.Error("remote mirror sync failed", logger.Error(err))
	}
}

func (s *Syncer) logErrors() {
	defer close(s.done)
	for err := range s.errs {
		s.logger.Error("remote mirror sync failed", logger.Error(err))
	}
}
