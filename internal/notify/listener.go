package notify

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Listener subscribes to a Postgres notification channel and fans each
// event out to registered handlers. The payload carries no meaning:
// every notification is just a cue that reservation rows changed and
// observers should re-read.
type Listener struct {
	pool    *pgxpool.Pool
	channel string

	mu       sync.Mutex
	handlers []func()

	retryDelay time.Duration
}

func NewListener(pool *pgxpool.Pool, channel string) *Listener {
	return &Listener{
		pool:       pool,
		channel:    channel,
		retryDelay: 5 * time.Second,
	}
}

// Subscribe registers a handler invoked on every change notification.
// Handlers must be fast or dispatch their own work; they run on the
// listener goroutine.
func (l *Listener) Subscribe(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers = append(l.handlers, fn)
}

func (l *Listener) dispatch() {
	l.mu.Lock()
	handlers := make([]func(), len(l.handlers))
	copy(handlers, l.handlers)
	l.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

// Run blocks listening for notifications until ctx is cancelled. The
// dedicated connection is re-acquired with a delay after any failure so
// a database restart does not kill the feed.
func (l *Listener) Run(ctx context.Context) error {
	for {
		if err := l.listen(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("notify listener error: %v (retrying in %s)", err, l.retryDelay)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.retryDelay):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+l.channel); err != nil {
		return fmt.Errorf("listen on %s: %w", l.channel, err)
	}

	for {
		if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		l.dispatch()
	}
}
