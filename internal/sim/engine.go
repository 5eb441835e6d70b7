package sim

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Simulator is the one contract both engines satisfy: a fixture in, a
// fully populated MatchResult out.
type Simulator interface {
	Simulate(ctx context.Context) (*MatchResult, error)
}

// DefaultTickInterval is one simulated minute of wall time at 1x speed.
const DefaultTickInterval = 2 * time.Second

// maxLiveTicks bounds a run-to-completion loop. A match consumes one
// tick per minute plus a handful per stoppage and shootout phase, so
// anything near this ceiling is a bug, not a long match.
const maxLiveTicks = 2000

// LiveEngine drives a single fixture minute by minute. All mutation
// funnels through Tick under the lock; everything else reads immutable
// snapshots.
type LiveEngine struct {
	mu       sync.RWMutex
	cfg      MatchConfig
	squad    map[int]*Player
	initCond map[int]float64
	state    *MatchState

	interval time.Duration
	ticker   *time.Ticker
	stop     chan struct{}
	running  bool

	onEvent func(MatchEvent)
	onTick  func(time.Duration)
}

// NewLiveEngine prepares a fixture. Lineups are normalized so every
// slot naming a known player is marked occupied with its role group.
func NewLiveEngine(cfg MatchConfig) *LiveEngine {
	e := &LiveEngine{
		cfg:      cfg,
		interval: DefaultTickInterval,
	}
	e.squad = cfg.indexSquad()
	normalizeLineup(e.squad, &e.cfg.HomeLineup)
	normalizeLineup(e.squad, &e.cfg.AwayLineup)
	e.state = NewMatchState(&e.cfg)
	e.initCond = make(map[int]float64, len(e.squad))
	for id, p := range e.squad {
		e.initCond[id] = p.Condition
	}
	return e
}

// normalizeLineup fills slot roles and occupancy from the squad so
// loaders only have to provide player ids.
func normalizeLineup(squad map[int]*Player, l *Lineup) {
	for i := range l.Slots {
		p, ok := squad[l.Slots[i].PlayerID]
		if !ok {
			l.Slots[i].Occupied = false
			continue
		}
		l.Slots[i].Occupied = true
		if l.Slots[i].Role == "" {
			l.Slots[i].Role = RoleOf(p.Position)
		}
	}
}

// OnEvent registers a callback invoked, outside the lock, for every
// event a tick produced.
func (e *LiveEngine) OnEvent(fn func(MatchEvent)) {
	e.mu.Lock()
	e.onEvent = fn
	e.mu.Unlock()
}

// OnTick registers a callback receiving each tick's compute duration.
func (e *LiveEngine) OnTick(fn func(time.Duration)) {
	e.mu.Lock()
	e.onTick = fn
	e.mu.Unlock()
}

// Tick advances the match one step and returns the new snapshot.
func (e *LiveEngine) Tick() *MatchState {
	e.mu.Lock()
	started := time.Now()
	prev := e.state
	next := e.Step(prev)
	e.state = next
	elapsed := time.Since(started)

	var fresh []MatchEvent
	if n := len(next.Events) - len(prev.Events); n > 0 {
		// Events are prepended; the newest n entries are this tick's, in
		// reverse generation order.
		fresh = make([]MatchEvent, n)
		for i := 0; i < n; i++ {
			fresh[i] = next.Events[n-1-i]
		}
	}
	onEvent, onTick := e.onEvent, e.onTick
	e.mu.Unlock()

	if onTick != nil {
		onTick(elapsed)
	}
	if onEvent != nil {
		for _, ev := range fresh {
			onEvent(ev)
		}
	}
	return next
}

// Start launches the tick loop. Safe to call once; subsequent calls
// are ignored while running.
func (e *LiveEngine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.ticker = time.NewTicker(e.interval)
	e.stop = make(chan struct{})
	ticker, stop := e.ticker, e.stop
	e.mu.Unlock()

	log.Printf("⚽ match started: %s vs %s (seed %d)", e.cfg.nameFor(Home), e.cfg.nameFor(Away), e.cfg.Seed)
	go func() {
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s := e.Tick()
				if s.Finished() {
					log.Printf("🏁 full-time: %s %d-%d %s", e.cfg.nameFor(Home), s.Teams[Home].Score, s.Teams[Away].Score, e.cfg.nameFor(Away))
					e.Stop()
					return
				}
			}
		}
	}()
}

// Stop halts the tick loop. The match state stays readable.
func (e *LiveEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.running = false
	e.ticker.Stop()
	close(e.stop)
}

// SetSpeed changes the wall-clock length of a simulated minute.
func (e *LiveEngine) SetSpeed(interval time.Duration) {
	if interval <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.interval = interval
	if e.running {
		e.ticker.Reset(interval)
	}
}

// Pause freezes the clock. Ticks while paused are no-ops.
func (e *LiveEngine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Paused || e.state.Finished() {
		return
	}
	next := e.state.Clone()
	next.Paused = true
	e.state = next
}

// Resume unfreezes the clock.
func (e *LiveEngine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.Paused {
		return
	}
	next := e.state.Clone()
	next.Paused = false
	e.state = next
}

// Snapshot returns the current immutable state.
func (e *LiveEngine) Snapshot() *MatchState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Result builds the output contract. Nil until the match finishes.
func (e *LiveEngine) Result() *MatchResult {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.state.Finished() {
		return nil
	}
	return buildResult(e.squad, e.initCond, e.state)
}

// Simulate runs the fixture to completion without the wall clock,
// ignoring pauses. Implements Simulator.
func (e *LiveEngine) Simulate(ctx context.Context) (*MatchResult, error) {
	for i := 0; i < maxLiveTicks; i++ {
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "live simulation canceled")
		default:
		}
		e.mu.Lock()
		if e.state.Paused {
			next := e.state.Clone()
			next.Paused = false
			e.state = next
		}
		e.state = e.Step(e.state)
		done := e.state.Finished()
		e.mu.Unlock()
		if done {
			return e.Result(), nil
		}
	}
	return nil, errors.Errorf("match did not finish within %d ticks", maxLiveTicks)
}

// buildResult assembles the shared output contract from a finished
// state.
func buildResult(squad map[int]*Player, initCond map[int]float64, s *MatchState) *MatchResult {
	res := &MatchResult{
		Seed:             s.Seed,
		HomeScore:        s.Teams[Home].Score,
		AwayScore:        s.Teams[Away].Score,
		Scorers:          append([]Scorer(nil), s.Scorers...),
		Cards:            append([]Card(nil), s.Cards...),
		Injuries:         append([]InjuryRecord(nil), s.Injuries...),
		Substitutions:    append([]Substitution(nil), s.Subs...),
		ConditionDelta:   make(map[int]float64),
		FatigueDebtDelta: make(map[int]float64),
		Ratings:          computeRatings(squad, s),
	}

	// Chronological order in the contract regardless of how the engine
	// stored its log.
	res.Events = make([]MatchEvent, len(s.Events))
	for i, ev := range s.Events {
		res.Events[len(s.Events)-1-i] = ev
	}

	for side := Home; side <= Away; side++ {
		ts := &s.Teams[side]
		for id, cond := range ts.Condition {
			if init, ok := initCond[id]; ok && cond != init {
				res.ConditionDelta[id] = cond - init
			}
		}
		for id, mins := range ts.MinutesOn {
			p, ok := squad[id]
			if !ok {
				continue
			}
			if delta := AccrueDebt(p, mins, p.FatigueDebt); delta > 0 {
				res.FatigueDebtDelta[id] = delta
			}
		}
	}

	if s.Shootout != nil && s.Shootout.Done {
		r := s.Shootout.Result
		r.Kicks = append([]ShootoutKick(nil), s.Shootout.Result.Kicks...)
		res.Shootout = &r
	}
	return res
}
