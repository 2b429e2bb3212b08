package kanban

import (
	"context"
	"sync"
	"time"
)

// FetchFunc loads the raw session and cron payloads for one refresh. A
// failed cron fetch should resolve to a nil cronRaw instead of an error;
// only the session fetch failure aborts a refresh.
type FetchFunc func(ctx context.Context) (sessionsRaw, cronRaw any, err error)

// DefaultInterval is the wall-clock period between automatic refreshes.
const DefaultInterval = 10 * time.Second

// Store holds the board between refreshes and applies manual moves.
//
// Moves are a purely local reordering: nothing is written upstream and the
// next refresh rebuilds all four buckets from live data, silently
// discarding them. Refreshes carry no overlap guard, so the last response
// to settle wins.
type Store struct {
	fetch    FetchFunc
	interval time.Duration
	now      func() time.Time

	mu    sync.Mutex
	board Board
}

// NewStore creates a store that refreshes via fetch.
func NewStore(fetch FetchFunc, interval time.Duration) *Store {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Store{
		fetch:    fetch,
		interval: interval,
		now:      time.Now,
		board:    BuildBoard(nil, nil, time.Now()),
	}
}

// Board returns a copy of the current buckets.
func (s *Store) Board() Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.clone()
}

// Refresh replaces all four buckets with a freshly built board. On fetch
// failure the previous board is kept. A refresh that settles after ctx is
// cancelled does not touch the state.
func (s *Store) Refresh(ctx context.Context) error {
	sessionsRaw, cronRaw, err := s.fetch(ctx)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	board := BuildBoard(sessionsRaw, cronRaw, s.now())

	s.mu.Lock()
	s.board = board
	s.mu.Unlock()
	return nil
}

// MoveTask moves one task between buckets, appending it to the target.
// No-op when source and target match, the task is not in the source
// bucket, the placeholder is dragged, or a bucket name is unknown.
func (s *Store) MoveTask(taskID string, from, to Bucket) bool {
	if taskID == "" || taskID == PlaceholderID || from == to {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.board.bucket(from)
	dst := s.board.bucket(to)
	if src == nil || dst == nil {
		return false
	}
	for i, task := range *src {
		if task.ID == taskID {
			*src = append((*src)[:i], (*src)[i+1:]...)
			*dst = append(*dst, task)
			return true
		}
	}
	return false
}

// Run refreshes once immediately and then on a fixed ticker until ctx is
// cancelled. Refresh errors are reported through onError (may be nil) and
// leave the previous board in place.
func (s *Store) Run(ctx context.Context, onError func(error)) {
	refresh := func() {
		if err := s.Refresh(ctx); err != nil && ctx.Err() == nil && onError != nil {
			onError(err)
		}
	}
	refresh()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
