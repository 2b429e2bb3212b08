package roster

import (
	"strings"
	"time"
)

const (
	// cronMarker tags sessions that belong to a scheduled job. The cron id
	// is whatever follows the last occurrence of the marker, so keys like
	// "agent:main:cron:<uuid>" resolve to the uuid.
	cronMarker = "cron:"

	// activeWindow is how recently a session must have been touched to
	// count as active.
	activeWindow = 120 * time.Second

	// staleAfter is the cutoff past which non-cron sessions are dropped
	// from every list, active or not.
	staleAfter = 24 * time.Hour
)

// SessionFields is the preferred field order for locating a session list
// inside an object payload.
var SessionFields = []string{"sessions", "data"}

// CronFields is the preferred field order for locating a cron job list.
var CronFields = []string{"jobs", "details.jobs"}

// CronID extracts the cron job id from a session key, or "" when the key
// does not carry the cron marker.
func CronID(key string) string {
	idx := strings.LastIndex(key, cronMarker)
	if idx < 0 {
		return ""
	}
	return key[idx+len(cronMarker):]
}

// EnabledCronIDs collects the ids of enabled jobs from a cron payload.
func EnabledCronIDs(cronRaw any) map[string]bool {
	ids := make(map[string]bool)
	for _, v := range NormalizeList(cronRaw, CronFields...) {
		job, ok := asRecord(v)
		if !ok {
			continue
		}
		if !job.Bool("enabled") {
			continue
		}
		if id := job.Str("id"); id != "" {
			ids[id] = true
		}
	}
	return ids
}

// Classify computes the derived activity state of one session record.
// Cron sessions are active while their job is enabled; everything else is
// active when touched within the last two minutes, strict boundary.
func Classify(rec Record, enabledCronIDs map[string]bool, now time.Time) (active bool, kind string) {
	key := rec.Str("key")
	if strings.Contains(key, cronMarker) {
		return enabledCronIDs[CronID(key)], "cron"
	}
	updatedAt := int64(rec.Num("updatedAt"))
	if updatedAt > 0 && now.UnixMilli()-updatedAt < activeWindow.Milliseconds() {
		active = true
	}
	if ch := rec.Str("channel"); ch != "" {
		return active, ch
	}
	return active, "chat"
}

// FilterSessions drops sessions that should not appear anywhere in the UI:
// cron sessions whose job is disabled or unknown, and non-cron sessions
// untouched for a day or more. A missing or zero updatedAt counts as very
// old.
func FilterSessions(list []any, enabledCronIDs map[string]bool, now time.Time) []Record {
	out := make([]Record, 0, len(list))
	for _, v := range list {
		rec, ok := asRecord(v)
		if !ok {
			continue
		}
		key := rec.Str("key")
		if strings.Contains(key, cronMarker) {
			if enabledCronIDs[CronID(key)] {
				out = append(out, rec)
			}
			continue
		}
		updatedAt := int64(rec.Num("updatedAt"))
		if updatedAt > 0 && now.UnixMilli()-updatedAt < staleAfter.Milliseconds() {
			out = append(out, rec)
		}
	}
	return out
}
