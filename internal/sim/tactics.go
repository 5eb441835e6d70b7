package sim

import "fmt"

// Tactics: the pairwise clash table, the coach shout rule engine and
// the substitution policy.

// TacticID indexes the clash table.
type TacticID int

const (
	Tactic442 TacticID = iota
	Tactic433
	Tactic352
	Tactic4231
	Tactic532
	TacticCounter
	tacticCount
)

var tacticNames = map[TacticID]string{
	Tactic442:     "4-4-2",
	Tactic433:     "4-3-3",
	Tactic352:     "3-5-2",
	Tactic4231:    "4-2-3-1",
	Tactic532:     "5-3-2",
	TacticCounter: "counter",
}

func (t TacticID) String() string {
	if n, ok := tacticNames[t]; ok {
		return n
	}
	return fmt.Sprintf("tactic-%d", int(t))
}

// ParseTactic maps a squad-file tactic name to its id. Unknown names
// fall back to 4-4-2.
func ParseTactic(name string) TacticID {
	for id, n := range tacticNames {
		if n == name {
			return id
		}
	}
	return Tactic442
}

// clashTable scores row tactic against column tactic on a 0-7 scale.
// 3-4 is an even matchup; the extremes are hard counters.
var clashTable = [tacticCount][tacticCount]int{
	//               442 433 352 4231 532 cnt
	Tactic442:     {3, 2, 5, 3, 4, 3},
	Tactic433:     {5, 3, 3, 4, 2, 3},
	Tactic352:     {2, 4, 3, 5, 3, 2},
	Tactic4231:    {4, 3, 2, 3, 5, 4},
	Tactic532:     {3, 5, 4, 2, 3, 5},
	TacticCounter: {4, 4, 5, 3, 2, 3},
}

const (
	clashMultMin = 0.70
	clashMultMax = 1.35
)

// ClashMultiplier maps a tactic matchup plus per-minute jitter to the
// goal-rate multiplier applied to the attacking side.
func ClashMultiplier(mine, theirs TacticID, src Source) float64 {
	if mine < 0 || mine >= tacticCount || theirs < 0 || theirs >= tacticCount {
		return 1.0
	}
	score := float64(clashTable[mine][theirs])
	score += src.Float64()*1.2 - 0.6
	mult := clashMultMin + score/7.0*(clashMultMax-clashMultMin)
	return Clamp(mult, clashMultMin, clashMultMax)
}

// Instruction is a side's standing tactical posture.
type Instruction struct {
	Mindset   string `json:"mindset"`   // defensive / neutral / attacking
	Tempo     string `json:"tempo"`     // slow / normal / fast
	Intensity string `json:"intensity"` // low / normal / high
}

// NeutralInstruction is the normalized posture absent any shout.
var NeutralInstruction = Instruction{Mindset: "neutral", Tempo: "normal", Intensity: "normal"}

// Shout is a time-boxed coach adjustment. After Expires the rules run
// again.
type Shout struct {
	Name        string      `json:"name"`
	Instruction Instruction `json:"instruction"`
	Expires     int         `json:"expires"`
}

// shoutContext is what the rules see for one side at one minute.
type shoutContext struct {
	minute        int
	scoreFor      int
	scoreAgainst  int
	momentumFor   float64 // positive = momentum with this side
	concededAt    int     // minute of last goal conceded, -1 if none
	scoredAt      int     // minute of last goal scored, -1 if none
	shoutDuration int
}

// shoutRule is one predicate->action entry. Rules are evaluated in
// order, first match wins; this ordering (events, then momentum, then
// score, then normalize) carries the behavior and must not be
// reordered.
type shoutRule struct {
	name string
	when func(c shoutContext) bool
	then func(c shoutContext) Shout
}

var shoutRules = []shoutRule{
	// Event tier.
	{
		name: "respond-to-conceding",
		when: func(c shoutContext) bool {
			return c.concededAt >= 0 && c.minute-c.concededAt <= 3
		},
		then: func(c shoutContext) Shout {
			return Shout{
				Name:        "push for response",
				Instruction: Instruction{Mindset: "attacking", Tempo: "fast", Intensity: "high"},
				Expires:     c.minute + c.shoutDuration,
			}
		},
	},
	{
		name: "settle-after-scoring",
		when: func(c shoutContext) bool {
			return c.scoredAt >= 0 && c.minute-c.scoredAt <= 3
		},
		then: func(c shoutContext) Shout {
			return Shout{
				Name:        "keep the ball",
				Instruction: Instruction{Mindset: "neutral", Tempo: "slow", Intensity: "normal"},
				Expires:     c.minute + c.shoutDuration,
			}
		},
	},
	// Momentum tier.
	{
		name: "ride-momentum",
		when: func(c shoutContext) bool { return c.momentumFor >= 55 },
		then: func(c shoutContext) Shout {
			return Shout{
				Name:        "go for the throat",
				Instruction: Instruction{Mindset: "attacking", Tempo: "fast", Intensity: "normal"},
				Expires:     c.minute + c.shoutDuration,
			}
		},
	},
	{
		name: "weather-the-storm",
		when: func(c shoutContext) bool { return c.momentumFor <= -55 },
		then: func(c shoutContext) Shout {
			return Shout{
				Name:        "stay compact",
				Instruction: Instruction{Mindset: "defensive", Tempo: "slow", Intensity: "high"},
				Expires:     c.minute + c.shoutDuration,
			}
		},
	},
	// Score tier.
	{
		name: "chase-the-game",
		when: func(c shoutContext) bool {
			return c.minute >= 65 && c.scoreAgainst-c.scoreFor >= 2
		},
		then: func(c shoutContext) Shout {
			return Shout{
				Name:        "all-out attack",
				Instruction: Instruction{Mindset: "attacking", Tempo: "fast", Intensity: "high"},
				Expires:     c.minute + c.shoutDuration,
			}
		},
	},
	{
		name: "protect-the-lead",
		when: func(c shoutContext) bool {
			return c.minute >= 70 && c.scoreFor-c.scoreAgainst >= 2
		},
		then: func(c shoutContext) Shout {
			return Shout{
				Name:        "shut up shop",
				Instruction: Instruction{Mindset: "defensive", Tempo: "slow", Intensity: "low"},
				Expires:     c.minute + c.shoutDuration,
			}
		},
	},
}

const defaultShoutDuration = 8

// EvaluateShouts runs the rule list first-match-wins. Without a
// trigger the posture normalizes to neutral/normal/normal.
func EvaluateShouts(c shoutContext) Shout {
	if c.shoutDuration <= 0 {
		c.shoutDuration = defaultShoutDuration
	}
	for _, rule := range shoutRules {
		if rule.when(c) {
			return rule.then(c)
		}
	}
	return Shout{Name: "normalize", Instruction: NeutralInstruction, Expires: c.minute + c.shoutDuration}
}

// tempoEventFactor scales the per-minute primary-event rate by posture.
func tempoEventFactor(in Instruction) float64 {
	f := 1.0
	switch in.Tempo {
	case "fast":
		f *= 1.15
	case "slow":
		f *= 0.88
	}
	switch in.Mindset {
	case "attacking":
		f *= 1.10
	case "defensive":
		f *= 0.90
	}
	return f
}

// intensityFoulFactor scales foul likelihood by intensity.
func intensityFoulFactor(in Instruction) float64 {
	switch in.Intensity {
	case "high":
		return 1.2
	case "low":
		return 0.85
	default:
		return 1.0
	}
}

// Substitution policy -------------------------------------------------

const (
	maxSubstitutions = 5
	// The fifth change is held back for emergencies until very late.
	lastSubReserveMinute = 85
	subFatigueThreshold  = 55.0
)

// subWindowChance returns the probability of considering a change at
// this minute. Severe injuries bypass the windows entirely.
func subWindowChance(minute int, coach Coach) float64 {
	var base float64
	switch {
	case minute == 46:
		base = 0.35
	case minute >= 82:
		base = 0.30
	case minute >= 75:
		base = 0.25
	case minute >= 60:
		base = 0.15
	default:
		return 0
	}
	return base * (0.8 + float64(coach.DecisionMaking)/250.0)
}

// pickSubstitutionTarget chooses the starter to withdraw: an injured
// player first, otherwise the most drained outfielder under the
// threshold. Returns the slot index or -1.
func pickSubstitutionTarget(squad map[int]*Player, lineup *Lineup, condition map[int]float64, injured map[int]activeInjury) int {
	for idx, slot := range lineup.Slots {
		if slot.Occupied {
			if _, ok := injured[slot.PlayerID]; ok {
				return idx
			}
		}
	}
	worst := -1
	worstCond := subFatigueThreshold
	for idx, slot := range lineup.Slots {
		if !slot.Occupied || idx == 0 {
			continue
		}
		c := conditionOf(condition, slot.PlayerID)
		if c < worstCond {
			worstCond = c
			worst = idx
		}
	}
	return worst
}

// pickReplacement finds the best bench player for the vacated role:
// same role group preferred, then highest overall. Returns nil when
// the bench is empty.
func pickReplacement(squad map[int]*Player, bench []int, role string, used map[int]bool) *Player {
	var best *Player
	bestScore := -1
	for _, id := range bench {
		if used[id] {
			continue
		}
		p, ok := squad[id]
		if !ok {
			continue
		}
		score := p.Overall()
		if RoleOf(p.Position) == role {
			score += 100
		}
		if score > bestScore {
			bestScore = score
			best = p
		}
	}
	return best
}
