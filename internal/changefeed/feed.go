// Package changefeed delivers change_log rows to subscribers by polling the
// log. Services append to the log inside their write transactions, so a
// subscriber only ever sees committed changes.
package changefeed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/alexanderramin/tourdesk/internal/repository"
)

const (
	DefaultPollInterval = 500 * time.Millisecond
	defaultBatchSize    = 100
)

// Handler receives events for the subscribed table in sequence order.
type Handler func(domain.ChangeEvent)

// Source is the read side of the change log.
type Source interface {
	Since(ctx context.Context, table string, afterSeq int64, limit int) ([]domain.ChangeEvent, error)
	Head(ctx context.Context) (int64, error)
}

var _ Source = (*repository.SQLiteChangeLogRepo)(nil)

// Feed fans the change log out to polling subscriptions.
type Feed struct {
	src      Source
	interval time.Duration
	logger   *slog.Logger

	mu   sync.Mutex
	subs map[int]context.CancelFunc
	next int
	wg   sync.WaitGroup
}

type Option func(*Feed)

func WithPollInterval(d time.Duration) Option {
	return func(f *Feed) {
		if d > 0 {
			f.interval = d
		}
	}
}

// WithLogger reports poll errors; they are otherwise dropped and retried on
// the next tick.
func WithLogger(l *slog.Logger) Option {
	return func(f *Feed) { f.logger = l }
}

func New(src Source, opts ...Option) *Feed {
	f := &Feed{
		src:      src,
		interval: DefaultPollInterval,
		subs:     make(map[int]context.CancelFunc),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Subscribe starts delivering events for table (every table when empty)
// committed after the call. The returned function unsubscribes and waits for
// any in-progress handler call to return; it is safe to call more than once.
// Cancelling ctx also ends the subscription.
func (f *Feed) Subscribe(ctx context.Context, table string, h Handler) (func(), error) {
	start, err := f.src.Head(ctx)
	if err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = cancel
	f.mu.Unlock()

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		defer close(done)
		f.poll(subCtx, table, start, h)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
			cancel()
			<-done
		})
	}, nil
}

// Close ends every subscription and waits for the pollers to exit.
func (f *Feed) Close() {
	f.mu.Lock()
	for id, cancel := range f.subs {
		cancel()
		delete(f.subs, id)
	}
	f.mu.Unlock()
	f.wg.Wait()
}

func (f *Feed) poll(ctx context.Context, table string, after int64, h Handler) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		for {
			events, err := f.src.Since(ctx, table, after, defaultBatchSize)
			if err != nil {
				if ctx.Err() == nil && f.logger != nil {
					f.logger.Warn("change feed poll failed", "table", table, "error", err)
				}
				break
			}
			for _, ev := range events {
				if ctx.Err() != nil {
					return
				}
				h(ev)
				after = ev.Seq
			}
			if len(events) < defaultBatchSize {
				break
			}
		}
	}
}
