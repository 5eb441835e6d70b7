package sim

// Side identifies a team within a match.
type Side int

const (
	Home Side = iota
	Away
)

func (s Side) Opponent() Side {
	if s == Home {
		return Away
	}
	return Home
}

func (s Side) String() string {
	if s == Home {
		return "home"
	}
	return "away"
}

// Positions use the usual shorthand. Slot 0 of a lineup is by
// convention the goalkeeper slot; an outfielder in goal is a valid,
// penalized condition rather than an error.
const (
	PosGK  = "GK"
	PosCB  = "CB"
	PosLB  = "LB"
	PosRB  = "RB"
	PosCDM = "CDM"
	PosCM  = "CM"
	PosCAM = "CAM"
	PosLW  = "LW"
	PosRW  = "RW"
	PosST  = "ST"
)

// Role groups used by substitution matching and injury weighting.
const (
	RoleKeeper   = "keeper"
	RoleDefender = "defender"
	RoleMidfield = "midfield"
	RoleForward  = "forward"
)

// RoleOf maps a position to its role group.
func RoleOf(pos string) string {
	switch pos {
	case PosGK:
		return RoleKeeper
	case PosCB, PosLB, PosRB:
		return RoleDefender
	case PosCDM, PosCM, PosCAM:
		return RoleMidfield
	case PosLW, PosRW, PosST:
		return RoleForward
	default:
		return RoleMidfield
	}
}

// Attributes are 1-100 scouting values.
type Attributes struct {
	Attacking   int `json:"attacking" yaml:"attacking"`
	Defending   int `json:"defending" yaml:"defending"`
	Passing     int `json:"passing" yaml:"passing"`
	Finishing   int `json:"finishing" yaml:"finishing"`
	Technique   int `json:"technique" yaml:"technique"`
	Vision      int `json:"vision" yaml:"vision"`
	Dribbling   int `json:"dribbling" yaml:"dribbling"`
	Heading     int `json:"heading" yaml:"heading"`
	Positioning int `json:"positioning" yaml:"positioning"`
	Goalkeeping int `json:"goalkeeping" yaml:"goalkeeping"`
	Pace        int `json:"pace" yaml:"pace"`
	Strength    int `json:"strength" yaml:"strength"`
	Stamina     int `json:"stamina" yaml:"stamina"`
}

// Player is the engine's view of a squad member. Condition is the
// in-match stamina percentage; FatigueDebt is the cross-match deficit
// that caps how high condition can regenerate.
type Player struct {
	ID          int        `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Position    string     `json:"position" yaml:"position"`
	Attr        Attributes `json:"attributes" yaml:"attributes"`
	Condition   float64    `json:"condition" yaml:"condition"`
	FatigueDebt float64    `json:"fatigueDebt" yaml:"fatigue_debt"`
}

// Overall is a position-weighted rating used for bench ordering and
// shootout taker ranking.
func (p *Player) Overall() int {
	a := p.Attr
	switch RoleOf(p.Position) {
	case RoleKeeper:
		return (a.Goalkeeping*5 + a.Positioning*2 + a.Strength + a.Pace + a.Technique) / 10
	case RoleDefender:
		return (a.Defending*4 + a.Heading*2 + a.Positioning*2 + a.Strength + a.Pace) / 10
	case RoleForward:
		return (a.Finishing*3 + a.Attacking*3 + a.Dribbling + a.Pace + a.Technique + a.Heading) / 10
	default:
		return (a.Passing*3 + a.Vision*2 + a.Technique*2 + a.Attacking + a.Defending + a.Stamina) / 10
	}
}

// Slot is one starting-XI position. A vacated slot (red card, severe
// injury without a replacement) keeps Occupied=false; the vacancy
// reason lives in TeamState.Vacancies.
type Slot struct {
	PlayerID int    `json:"playerId"`
	Role     string `json:"role"`
	Occupied bool   `json:"occupied"`
}

// Lineup is a tactic plus eleven ordered slots and a bench.
type Lineup struct {
	Tactic TacticID `json:"tactic"`
	Slots  [11]Slot `json:"slots"`
	Bench  []int    `json:"bench"`
}

// FieldedIDs returns the ids currently occupying slots.
func (l *Lineup) FieldedIDs() []int {
	ids := make([]int, 0, 11)
	for _, s := range l.Slots {
		if s.Occupied {
			ids = append(ids, s.PlayerID)
		}
	}
	return ids
}

// SlotOf returns the slot index a player occupies, or -1.
func (l *Lineup) SlotOf(playerID int) int {
	for i, s := range l.Slots {
		if s.Occupied && s.PlayerID == playerID {
			return i
		}
	}
	return -1
}

// Coach shapes substitution timing and the background goal rate.
type Coach struct {
	Name           string `json:"name" yaml:"name"`
	Experience     int    `json:"experience" yaml:"experience"`
	DecisionMaking int    `json:"decisionMaking" yaml:"decision_making"`
	Motivation     int    `json:"motivation" yaml:"motivation"`
}

// Referee scalars are 1-100 and modulate card and penalty odds.
type Referee struct {
	Name              string `json:"name" yaml:"name"`
	Strictness        int    `json:"strictness" yaml:"strictness"`
	Consistency       int    `json:"consistency" yaml:"consistency"`
	AdvantageTendency int    `json:"advantageTendency" yaml:"advantage_tendency"`
}

// Weather modulates finishing and fatigue drain.
type Weather struct {
	TemperatureC  float64 `json:"temperatureC" yaml:"temperature_c"`
	Raining       bool    `json:"raining" yaml:"raining"`
	RainIntensity float64 `json:"rainIntensity" yaml:"rain_intensity"` // 0..1
	WindKmh       float64 `json:"windKmh" yaml:"wind_kmh"`
}

// CardType is yellow or red. A second yellow is recorded as a single
// red with SecondYellow set, never as two yellow entries.
type CardType string

const (
	CardYellow CardType = "yellow"
	CardRed    CardType = "red"
)

// Severity of an injury. Light injuries stay on the pitch at risk of
// upgrade; severe injuries force removal.
type Severity string

const (
	InjuryLight  Severity = "light"
	InjurySevere Severity = "severe"
)

// Event types appearing in the match log.
const (
	EventKickoff   = "KICKOFF"
	EventGoal      = "GOAL"
	EventCard      = "CARD"
	EventFoul      = "FOUL"
	EventInjury    = "INJURY"
	EventSub       = "SUBSTITUTION"
	EventShout     = "SHOUT"
	EventPenalty   = "PENALTY"
	EventShootout  = "SHOOTOUT"
	EventHalftime  = "HALFTIME"
	EventFulltime  = "FULLTIME"
	EventExtraTime = "EXTRA_TIME"
	EventFlavor    = "COMMENTARY"
)

// MatchEvent is one append-only log entry. Ordering is generation
// order; the live engine prepends, so minutes are not ascending in the
// in-memory slice.
type MatchEvent struct {
	Minute   int      `json:"minute"`
	Type     string   `json:"type"`
	Side     Side     `json:"side"`
	PlayerID int      `json:"playerId,omitempty"`
	Card     CardType `json:"card,omitempty"`
	Text     string   `json:"text"`
}

// Scorer records one goal.
type Scorer struct {
	PlayerID int  `json:"playerId"`
	AssistID int  `json:"assistId,omitempty"`
	Minute   int  `json:"minute"`
	Penalty  bool `json:"penalty"`
	Side     Side `json:"side"`
}

// Card records one booking or sending-off.
type Card struct {
	PlayerID     int      `json:"playerId"`
	Type         CardType `json:"type"`
	Minute       int      `json:"minute"`
	Side         Side     `json:"side"`
	SecondYellow bool     `json:"secondYellow,omitempty"`
}

// InjuryRecord records one injury with its recovery estimate.
type InjuryRecord struct {
	PlayerID     int      `json:"playerId"`
	Severity     Severity `json:"severity"`
	Minute       int      `json:"minute"`
	RecoveryDays int      `json:"recoveryDays"`
	Label        string   `json:"label"`
	Side         Side     `json:"side"`
}

// Substitution records one change.
type Substitution struct {
	OutID  int  `json:"outId"`
	InID   int  `json:"inId"`
	Minute int  `json:"minute"`
	Side   Side `json:"side"`
	Forced bool `json:"forced"` // severe injury
}

// MatchResult is the single output contract both engines satisfy.
type MatchResult struct {
	Seed             int64           `json:"seed"`
	HomeScore        int             `json:"homeScore"`
	AwayScore        int             `json:"awayScore"`
	Scorers          []Scorer        `json:"scorers"`
	Cards            []Card          `json:"cards"`
	Injuries         []InjuryRecord  `json:"injuries"`
	Substitutions    []Substitution  `json:"substitutions"`
	ConditionDelta   map[int]float64 `json:"conditionDelta"`
	FatigueDebtDelta map[int]float64 `json:"fatigueDebtDelta"`
	Ratings          map[int]float64 `json:"ratings"`
	Events           []MatchEvent    `json:"events"`
	Shootout         *ShootoutResult `json:"shootout,omitempty"`
}

// Winner returns the winning side, with the shootout breaking a draw.
// The boolean is false for a draw.
func (r *MatchResult) Winner() (Side, bool) {
	switch {
	case r.HomeScore > r.AwayScore:
		return Home, true
	case r.AwayScore > r.HomeScore:
		return Away, true
	case r.Shootout != nil:
		return r.Shootout.Winner, true
	default:
		return Home, false
	}
}

// MatchConfig carries everything a fixture needs. Collaborators build
// it; the engines never mutate it.
type MatchConfig struct {
	HomeSquad  []Player
	AwaySquad  []Player
	HomeLineup Lineup
	AwayLineup Lineup
	HomeCoach  Coach
	AwayCoach  Coach
	HomeName   string
	AwayName   string
	Referee    Referee
	Weather    Weather
	Seed       int64
	// Knockout fixtures go to extra time and penalties when level.
	Knockout bool
}

func (c *MatchConfig) squadFor(side Side) []Player {
	if side == Home {
		return c.HomeSquad
	}
	return c.AwaySquad
}

func (c *MatchConfig) coachFor(side Side) Coach {
	if side == Home {
		return c.HomeCoach
	}
	return c.AwayCoach
}

func (c *MatchConfig) nameFor(side Side) string {
	if side == Home {
		if c.HomeName != "" {
			return c.HomeName
		}
		return "Home"
	}
	if c.AwayName != "" {
		return c.AwayName
	}
	return "Away"
}

// indexSquad builds an id lookup over both squads.
func (c *MatchConfig) indexSquad() map[int]*Player {
	idx := make(map[int]*Player, len(c.HomeSquad)+len(c.AwaySquad))
	for i := range c.HomeSquad {
		idx[c.HomeSquad[i].ID] = &c.HomeSquad[i]
	}
	for i := range c.AwaySquad {
		idx[c.AwaySquad[i].ID] = &c.AwaySquad[i]
	}
	return idx
}
