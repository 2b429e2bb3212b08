package timeline

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(filepath.Join(t.TempDir(), "timeline.db"))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestRecordAndRecent(t *testing.T) {
	svc := newTestService(t)

	svc.Info("dashboard", "primeira")
	svc.Error("proxy", "segunda")

	events, err := svc.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	// Newest first.
	if events[0].Message != "segunda" || events[0].Level != LevelError {
		t.Errorf("events[0] = %+v", events[0])
	}
	if events[1].Message != "primeira" || events[1].Level != LevelInfo {
		t.Errorf("events[1] = %+v", events[1])
	}
	if events[0].EventID == "" || events[0].EventID == events[1].EventID {
		t.Error("event ids not unique")
	}
	if events[0].ID <= events[1].ID {
		t.Errorf("ids not monotonic: %d <= %d", events[0].ID, events[1].ID)
	}
}

func TestRecentLimit(t *testing.T) {
	svc := newTestService(t)
	for i := 0; i < 5; i++ {
		svc.Info("test", "msg")
	}
	events, err := svc.Recent(3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("got %d events, want 3", len(events))
	}
}

func TestRecentEmpty(t *testing.T) {
	svc := newTestService(t)
	events, err := svc.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}

func TestSubscribeReceivesRecordedEvents(t *testing.T) {
	svc := newTestService(t)
	events, cancel := svc.Subscribe()
	defer cancel()

	svc.Info("auth", "login")

	select {
	case ev := <-events:
		if ev.Source != "auth" || ev.Message != "login" {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestHubDropsWhenFull(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	// The buffer holds 16; the rest must drop without blocking.
	for i := 0; i < 40; i++ {
		hub.Publish(Event{Message: "m"})
	}
	if got := len(ch); got != 16 {
		t.Errorf("buffered %d events, want 16", got)
	}
}

func TestHubCancelUnsubscribes(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()
	cancel()
	cancel() // Idempotent.

	hub.Publish(Event{Message: "late"})
	if _, ok := <-ch; ok {
		t.Error("channel not closed after cancel")
	}
}
