// Package timeline persists the dashboard activity log in sqlite and fans
// recorded events out to live subscribers and an optional Kafka mirror.
package timeline

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Service is the activity log. Safe for concurrent use.
type Service struct {
	db     *sql.DB
	hub    *Hub
	mirror *Mirror
}

// NewService opens (or creates) the activity log database at dbPath.
func NewService(dbPath string) (*Service, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open timeline db: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Service{db: db, hub: NewHub()}, nil
}

// SetMirror attaches a Kafka mirror; every recorded event is also
// published there, best-effort.
func (s *Service) SetMirror(m *Mirror) {
	s.mirror = m
}

// Subscribe registers a live event listener. The returned cancel func must
// be called when the listener goes away.
func (s *Service) Subscribe() (<-chan Event, func()) {
	return s.hub.Subscribe()
}

// Record appends one event to the log and notifies subscribers.
func (s *Service) Record(level, source, message string) error {
	ev := Event{
		EventID:   uuid.NewString(),
		Timestamp: time.Now(),
		Level:     level,
		Source:    source,
		Message:   message,
	}
	res, err := s.db.Exec(
		`INSERT INTO events (event_id, timestamp, level, source, message) VALUES (?, ?, ?, ?, ?)`,
		ev.EventID, ev.Timestamp, ev.Level, ev.Source, ev.Message,
	)
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	ev.ID, _ = res.LastInsertId()

	s.hub.Publish(ev)
	if s.mirror != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// Mirror failures must not fail the log write.
		_ = s.mirror.Publish(ctx, ev)
	}
	return nil
}

// Info records an INFO event.
func (s *Service) Info(source, message string) {
	_ = s.Record(LevelInfo, source, message)
}

// Error records an ERROR event.
func (s *Service) Error(source, message string) {
	_ = s.Record(LevelError, source, message)
}

// Recent returns up to limit events, newest first.
func (s *Service) Recent(limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, event_id, timestamp, level, source, message FROM events ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.EventID, &ev.Timestamp, &ev.Level, &ev.Source, &ev.Message); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Close closes the underlying database and the mirror, if any.
func (s *Service) Close() error {
	if s.mirror != nil {
		_ = s.mirror.Close()
	}
	return s.db.Close()
}
