package sim

// MatchState is the per-match record. The live engine never mutates a
// state in place across ticks: Step clones the previous snapshot and
// returns a new one, so readers can hold a snapshot without locking.

// Period is the coarse match phase.
type Period int

const (
	PeriodNotStarted Period = iota
	PeriodFirstHalf
	PeriodHalfTime
	PeriodSecondHalf
	PeriodExtraFirst
	PeriodExtraBreak
	PeriodExtraSecond
	PeriodPenalties
	PeriodFinished
)

func (p Period) String() string {
	switch p {
	case PeriodNotStarted:
		return "NOT_STARTED"
	case PeriodFirstHalf:
		return "FIRST_HALF"
	case PeriodHalfTime:
		return "HALFTIME"
	case PeriodSecondHalf:
		return "SECOND_HALF"
	case PeriodExtraFirst:
		return "EXTRA_TIME_1"
	case PeriodExtraBreak:
		return "EXTRA_TIME_BREAK"
	case PeriodExtraSecond:
		return "EXTRA_TIME_2"
	case PeriodPenalties:
		return "PENALTIES"
	case PeriodFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// activeInjury tracks a light knock still on the pitch, at risk of
// upgrade.
type activeInjury struct {
	Minute   int
	Severity Severity
}

// TeamState is one side's mutable match record.
type TeamState struct {
	Lineup         Lineup
	Score          int
	Condition      map[int]float64
	MinutesOn      map[int]int
	Yellows        map[int]int
	SentOff        map[int]bool
	Removed        map[int]bool // severe-injury removals
	Injuries       map[int]activeInjury
	Vacancies      map[int]string // slot index -> reason
	SubsUsed       int
	UsedBench      map[int]bool
	Instruction    Instruction
	Shout          *Shout
	LastScoredAt   int
	LastConcededAt int
}

func newTeamState(squad []Player, lineup Lineup) TeamState {
	ts := TeamState{
		Lineup:         lineup,
		Condition:      make(map[int]float64, len(squad)),
		MinutesOn:      make(map[int]int),
		Yellows:        make(map[int]int),
		SentOff:        make(map[int]bool),
		Removed:        make(map[int]bool),
		Injuries:       make(map[int]activeInjury),
		Vacancies:      make(map[int]string),
		UsedBench:      make(map[int]bool),
		Instruction:    NeutralInstruction,
		LastScoredAt:   -1,
		LastConcededAt: -1,
	}
	for _, p := range squad {
		ts.Condition[p.ID] = p.Condition
	}
	return ts
}

func (t *TeamState) clone() TeamState {
	c := *t
	c.Condition = cloneFloatMap(t.Condition)
	c.MinutesOn = cloneIntMap(t.MinutesOn)
	c.Yellows = cloneIntMap(t.Yellows)
	c.SentOff = cloneBoolMap(t.SentOff)
	c.Removed = cloneBoolMap(t.Removed)
	c.Injuries = make(map[int]activeInjury, len(t.Injuries))
	for k, v := range t.Injuries {
		c.Injuries[k] = v
	}
	c.Vacancies = make(map[int]string, len(t.Vacancies))
	for k, v := range t.Vacancies {
		c.Vacancies[k] = v
	}
	c.UsedBench = cloneBoolMap(t.UsedBench)
	if t.Shout != nil {
		sh := *t.Shout
		c.Shout = &sh
	}
	c.Lineup.Bench = append([]int(nil), t.Lineup.Bench...)
	return c
}

// PenaltySequence is the in-play penalty award sub-machine. Score
// changes only on the EXECUTING -> RESULT transition, never on award.
type PenaltySequence struct {
	Phase   shootoutPhase `json:"phase"`
	Side    Side          `json:"side"`
	TakerID int           `json:"takerId"`
	Minute  int           `json:"minute"`
}

// MatchState is the whole-match snapshot.
type MatchState struct {
	Seed           int64
	Minute         int
	Period         Period
	Teams          [2]TeamState
	Momentum       float64 // positive favors home
	LastGoalMinute int
	Stoppage       [2]int // per-half stoppage, rolled once at each kickoff
	Penalty        *PenaltySequence
	Shootout       *ShootoutState
	Paused         bool
	PausedForEvent bool
	Events         []MatchEvent // prepended, newest first
	Scorers        []Scorer
	Cards          []Card
	Injuries       []InjuryRecord
	Subs           []Substitution
}

// NewMatchState builds the initial snapshot for a fixture.
func NewMatchState(cfg *MatchConfig) *MatchState {
	return &MatchState{
		Seed:           cfg.Seed,
		Period:         PeriodNotStarted,
		LastGoalMinute: -100,
		Teams: [2]TeamState{
			newTeamState(cfg.HomeSquad, cfg.HomeLineup),
			newTeamState(cfg.AwaySquad, cfg.AwayLineup),
		},
	}
}

// Clone deep-copies the snapshot. Step works on the clone only.
func (s *MatchState) Clone() *MatchState {
	c := *s
	c.Teams[0] = s.Teams[0].clone()
	c.Teams[1] = s.Teams[1].clone()
	if s.Penalty != nil {
		p := *s.Penalty
		c.Penalty = &p
	}
	if s.Shootout != nil {
		sh := *s.Shootout
		sh.Order[0] = append([]int(nil), s.Shootout.Order[0]...)
		sh.Order[1] = append([]int(nil), s.Shootout.Order[1]...)
		sh.Result.Kicks = append([]ShootoutKick(nil), s.Shootout.Result.Kicks...)
		c.Shootout = &sh
	}
	c.Events = append([]MatchEvent(nil), s.Events...)
	c.Scorers = append([]Scorer(nil), s.Scorers...)
	c.Cards = append([]Card(nil), s.Cards...)
	c.Injuries = append([]InjuryRecord(nil), s.Injuries...)
	c.Subs = append([]Substitution(nil), s.Subs...)
	return &c
}

// prependEvent keeps the live log newest-first, as observers expect.
func (s *MatchState) prependEvent(ev MatchEvent) {
	s.Events = append([]MatchEvent{ev}, s.Events...)
}

// Finished reports terminal state.
func (s *MatchState) Finished() bool { return s.Period == PeriodFinished }

func cloneFloatMap(m map[int]float64) map[int]float64 {
	c := make(map[int]float64, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func cloneIntMap(m map[int]int) map[int]int {
	c := make(map[int]int, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func cloneBoolMap(m map[int]bool) map[int]bool {
	c := make(map[int]bool, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
