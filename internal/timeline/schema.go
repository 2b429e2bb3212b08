package timeline

import "time"

// Event is one line of the dashboard activity log: a fetch result, a proxy
// call, a login attempt. Message is a display string in the UI's locale.
type Event struct {
	ID        int64     `json:"id"`
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`  // INFO or ERROR
	Source    string    `json:"source"` // dashboard, proxy, auth, kanban
	Message   string    `json:"message"`
}

// Event levels.
const (
	LevelInfo  = "INFO"
	LevelError = "ERROR"
)

// Schema is the activity log table definition.
const Schema = `
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	event_id TEXT NOT NULL UNIQUE,
	timestamp DATETIME NOT NULL,
	level TEXT NOT NULL DEFAULT 'INFO',
	source TEXT NOT NULL DEFAULT '',
	message TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
`
