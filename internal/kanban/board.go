// Package kanban buckets the live session list into a four-column board
// and holds the in-memory state behind the drag-and-drop view.
package kanban

import (
	"fmt"
	"strings"
	"time"

	"github.com/missionctl/missionctl/internal/roster"
)

// Bucket names one of the four board columns.
type Bucket string

const (
	Backlog    Bucket = "backlog"
	InProgress Bucket = "in_progress"
	Review     Bucket = "review"
	Done       Bucket = "done"
)

// PlaceholderID marks the synthetic "no tasks yet" card. It is not
// draggable and never counts as a real task.
const PlaceholderID = "placeholder"

// Age thresholds for bucket assignment. Buckets reflect recency, not the
// active flag.
const (
	workingWindow    = 60 * time.Second
	inProgressWindow = 5 * time.Minute
	reviewWindow     = time.Hour
)

// Task is one board card.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
}

// Board holds the four ordered bucket sequences.
type Board struct {
	Backlog    []Task `json:"backlog"`
	InProgress []Task `json:"in_progress"`
	Review     []Task `json:"review"`
	Done       []Task `json:"done"`
}

// bucket returns the slice backing the named bucket, or nil for an unknown
// name.
func (b *Board) bucket(name Bucket) *[]Task {
	switch name {
	case Backlog:
		return &b.Backlog
	case InProgress:
		return &b.InProgress
	case Review:
		return &b.Review
	case Done:
		return &b.Done
	}
	return nil
}

// clone deep-copies the board so callers can read it without holding the
// store lock.
func (b Board) clone() Board {
	out := Board{
		Backlog:    make([]Task, len(b.Backlog)),
		InProgress: make([]Task, len(b.InProgress)),
		Review:     make([]Task, len(b.Review)),
		Done:       make([]Task, len(b.Done)),
	}
	copy(out.Backlog, b.Backlog)
	copy(out.InProgress, b.InProgress)
	copy(out.Review, b.Review)
	copy(out.Done, b.Done)
	return out
}

// BuildBoard buckets the filtered session set by age. Cron sessions and
// anything touched in the last five minutes land in in_progress, the last
// hour in review, the rest in done. When every working bucket is empty the
// backlog gets a single placeholder card.
func BuildBoard(sessionsRaw, cronRaw any, now time.Time) Board {
	enabled := roster.EnabledCronIDs(cronRaw)
	records := roster.FilterSessions(roster.NormalizeList(sessionsRaw, roster.SessionFields...), enabled, now)

	var board Board
	for _, rec := range records {
		key := rec.Str("key")
		updatedAt := int64(rec.Num("updatedAt"))

		// Missing timestamps sort as oldest.
		age := time.Duration(1<<62 - 1)
		if updatedAt > 0 {
			age = time.Duration(now.UnixMilli()-updatedAt) * time.Millisecond
		}

		status := "inativo"
		if age < workingWindow {
			status = "trabalhando"
		}

		model := rec.Str("model")
		if model == "" {
			model = "N/A"
		}
		title := rec.Str("displayName", "label")
		if title == "" {
			title = key
		}

		task := Task{
			ID:          rec.Str("sessionId", "key"),
			Title:       title,
			Description: fmt.Sprintf("%d tokens · %s", int64(rec.Num("totalTokens")), model),
			Status:      status,
		}

		switch {
		case strings.Contains(key, "cron:") || age < inProgressWindow:
			board.InProgress = append(board.InProgress, task)
		case age < reviewWindow:
			board.Review = append(board.Review, task)
		default:
			board.Done = append(board.Done, task)
		}
	}

	if len(board.InProgress) == 0 && len(board.Review) == 0 && len(board.Done) == 0 {
		board.Backlog = append(board.Backlog, Task{
			ID:          PlaceholderID,
			Title:       "Nenhuma tarefa",
			Description: "Tarefas aparecerão aqui automaticamente",
		})
	}
	return board
}
