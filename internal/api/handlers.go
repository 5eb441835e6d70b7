package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"matchsim/internal/sim"
)

// Handler methods for routerHandlers.
// These are used by both the standalone router (for testing) and the
// full Server.

// speed bounds: 100ms per minute (fast replay) to 10s per minute.
const (
	minTickMs = 100
	maxTickMs = 10_000
)

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, stateView(h.engine.Snapshot(), h.homeName, h.awayName))
}

func (h *routerHandlers) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			writeError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		if n > 500 {
			n = 500
		}
		limit = n
	}

	s := h.engine.Snapshot()
	events := s.Events
	if len(events) > limit {
		events = events[:limit]
	}
	writeJSON(w, map[string]interface{}{
		"minute": s.Minute,
		"events": events, // newest first
	})
}

func (h *routerHandlers) handleGetResult(w http.ResponseWriter, r *http.Request) {
	res := h.engine.Result()
	if res == nil {
		writeError(w, "match not finished", http.StatusNotFound)
		return
	}
	writeJSON(w, res)
}

func (h *routerHandlers) handlePause(w http.ResponseWriter, r *http.Request) {
	h.engine.Pause()
	log.Println("⏸ match paused by API request")
	writeJSON(w, map[string]interface{}{"paused": true})
}

func (h *routerHandlers) handleResume(w http.ResponseWriter, r *http.Request) {
	h.engine.Resume()
	log.Println("▶️ match resumed by API request")
	writeJSON(w, map[string]interface{}{"paused": false})
}

func (h *routerHandlers) handleSetSpeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IntervalMs int `json:"intervalMs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.IntervalMs < minTickMs || req.IntervalMs > maxTickMs {
		writeError(w, "intervalMs out of range", http.StatusBadRequest)
		return
	}
	h.engine.SetSpeed(time.Duration(req.IntervalMs) * time.Millisecond)
	writeJSON(w, map[string]interface{}{"intervalMs": req.IntervalMs})
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	s := h.engine.Snapshot()
	stats := map[string]interface{}{
		"minute":   s.Minute,
		"period":   s.Period.String(),
		"finished": s.Finished(),
	}
	if h.eventLog != nil {
		stats["eventLog"] = h.eventLog.Stats()
	}
	if h.limiter != nil {
		stats["rateLimiter"] = h.limiter.GetStats()
	}
	writeJSON(w, stats)
}

// stateView trims a snapshot to the JSON the scoreboard needs.
func stateView(s *sim.MatchState, homeName, awayName string) map[string]interface{} {
	view := map[string]interface{}{
		"minute":   s.Minute,
		"period":   s.Period.String(),
		"paused":   s.Paused,
		"stopped":  s.PausedForEvent,
		"momentum": s.Momentum,
		"home":     teamView(&s.Teams[sim.Home], homeName),
		"away":     teamView(&s.Teams[sim.Away], awayName),
	}
	if s.Penalty != nil {
		view["penalty"] = s.Penalty
	}
	if s.Shootout != nil {
		view["shootout"] = map[string]interface{}{
			"homeGoals": s.Shootout.Result.HomeGoals,
			"awayGoals": s.Shootout.Result.AwayGoals,
			"kicks":     s.Shootout.Result.Kicks,
			"done":      s.Shootout.Done,
		}
	}
	return view
}

func teamView(ts *sim.TeamState, name string) map[string]interface{} {
	view := map[string]interface{}{
		"name":    name,
		"score":   ts.Score,
		"tactic":  ts.Lineup.Tactic.String(),
		"fielded": ts.Lineup.FieldedIDs(),
		"subs":    ts.SubsUsed,
	}
	if ts.Shout != nil {
		view["shout"] = ts.Shout
	}
	return view
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("⚠️ JSON encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
