package roster

import (
	"strings"
	"time"
)

// DefaultModel is shown when a session carries no model field.
const DefaultModel = "openrouter/auto"

// defaultName is the pt-BR placeholder the UI shows for unnamed sessions.
const defaultName = "Agente"

// timestampLayout matches the pt-BR display format of the original UI.
const timestampLayout = "02/01/2006 15:04:05"

// Agent is one row of the roster, rebuilt wholesale on every fetch. ID is
// the natural key for list diffing; there is no identity across refreshes
// beyond it.
type Agent struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	Model        string `json:"model"`
	Active       bool   `json:"active"`
	LastActivity string `json:"lastActivity,omitempty"`
}

// BuildAgents derives the roster from the raw session and cron payloads.
// Pure function of its inputs and now; upstream order is preserved and no
// deduplication happens.
func BuildAgents(sessionsRaw, cronRaw any, now time.Time) []Agent {
	enabled := EnabledCronIDs(cronRaw)
	records := FilterSessions(NormalizeList(sessionsRaw, SessionFields...), enabled, now)

	agents := make([]Agent, 0, len(records))
	for _, rec := range records {
		active, kind := Classify(rec, enabled, now)
		key := rec.Str("key")

		name := rec.Str("displayName", "label")
		if name == "" {
			name = key
		}
		if name == "" {
			name = defaultName
		}

		model := rec.Str("model")
		if model == "" {
			model = DefaultModel
		}

		lastActivity := ""
		if ms := int64(rec.Num("updatedAt")); ms > 0 {
			lastActivity = time.UnixMilli(ms).Format(timestampLayout)
		}

		agents = append(agents, Agent{
			ID:           rec.Str("sessionId", "key"),
			Name:         name,
			Kind:         kind,
			Model:        model,
			Active:       active,
			LastActivity: lastActivity,
		})
	}
	return agents
}

// Overview is the home page status strip: raw counts, no filtering.
type Overview struct {
	SessionCount int `json:"sessionCount"`
	CronCount    int `json:"cronCount"`
}

// BuildOverview counts the sessions and cron jobs as received.
func BuildOverview(sessionsRaw, cronRaw any) Overview {
	return Overview{
		SessionCount: len(NormalizeList(sessionsRaw, SessionFields...)),
		CronCount:    len(NormalizeList(cronRaw, CronFields...)),
	}
}

// Stats summarizes the roster for the dashboard stat cards.
type Stats struct {
	Total  int `json:"total"`
	Online int `json:"online"`
	Crons  int `json:"crons"`
}

// BuildStats derives the dashboard counters from an already-built roster
// and the raw cron payload.
func BuildStats(agents []Agent, cronRaw any) Stats {
	online := 0
	for _, a := range agents {
		if a.Active {
			online++
		}
	}
	return Stats{
		Total:  len(agents),
		Online: online,
		Crons:  len(NormalizeList(cronRaw, CronFields...)),
	}
}

// SubAgentIDs lists roster ids that look like spawned children: composite
// keys carrying a subagent or cron segment. Presentational only.
func SubAgentIDs(agents []Agent) []string {
	var ids []string
	for _, a := range agents {
		if strings.Contains(a.ID, ":") &&
			(strings.Contains(a.ID, "subagent") || strings.Contains(a.ID, "cron")) {
			ids = append(ids, a.ID)
		}
	}
	return ids
}
