package sim

import "sort"

// Penalty shootout: an alternating turn-based mini state machine.
// Takers are ranked finishing-first among on-field players, then
// bench players who were not sent off; five kicks each, then sudden
// death one pair at a time, never more than five extra pairs.

const (
	shootoutKickMin = 0.65
	shootoutKickMax = 0.95
	regulationKicks = 5

	// Sudden death tightens: every extra pair piles pressure on the
	// taker, and the fifth extra pair is decisive.
	suddenDeathMaxPairs = 5
	suddenDeathPressure = 0.06
	suddenDeathFloor    = 0.35
)

// ShootoutKick is one attempt.
type ShootoutKick struct {
	Side     Side `json:"side"`
	PlayerID int  `json:"playerId"`
	Scored   bool `json:"scored"`
}

// ShootoutResult is the resolved shootout.
type ShootoutResult struct {
	Kicks     []ShootoutKick `json:"kicks"`
	HomeGoals int            `json:"homeGoals"`
	AwayGoals int            `json:"awayGoals"`
	Winner    Side           `json:"winner"`
}

// shootoutPhase mirrors the three-phase penalty sub-machine: a kick is
// first awarded, then executed; score mutates only on the transition
// into the result phase.
type shootoutPhase int

const (
	phaseAwarded shootoutPhase = iota
	phaseExecuting
	phaseResult
)

// ShootoutState drives one kick at a time so the live engine can
// surface each phase across ticks. The background engine runs it to
// completion in one call.
type ShootoutState struct {
	Order  [2][]int      `json:"order"` // taker rotation per side
	Next   [2]int        `json:"next"`  // rotation cursor per side
	Turn   Side          `json:"turn"`
	Phase  shootoutPhase `json:"phase"`
	Result ShootoutResult
	Done   bool `json:"done"`
	// Steps counts Advance calls; the live engine uses it to address
	// shootout draws.
	Steps  int `json:"steps"`
	kicker *Player
}

// takerScore ranks shootout takers: finishing dominates, overall
// breaks ties.
func takerScore(p *Player) int {
	return p.Attr.Finishing*1000 + p.Overall()*10
}

// shootoutOrder ranks the eligible takers for one side: the fielded XI
// first, then bench players, excluding anyone sent off.
func shootoutOrder(squad map[int]*Player, lineup *Lineup, sentOff map[int]bool) []int {
	rank := func(ids []int) []int {
		pool := make([]*Player, 0, len(ids))
		for _, id := range ids {
			if sentOff[id] {
				continue
			}
			if p, ok := squad[id]; ok {
				pool = append(pool, p)
			}
		}
		sort.SliceStable(pool, func(i, j int) bool {
			return takerScore(pool[i]) > takerScore(pool[j])
		})
		out := make([]int, len(pool))
		for i, p := range pool {
			out[i] = p.ID
		}
		return out
	}
	order := rank(lineup.FieldedIDs())
	order = append(order, rank(lineup.Bench)...)
	return order
}

// NewShootoutState prepares the rotation. The home side kicks first.
func NewShootoutState(squad map[int]*Player, home, away *Lineup, homeSentOff, awaySentOff map[int]bool) *ShootoutState {
	return &ShootoutState{
		Order: [2][]int{
			shootoutOrder(squad, home, homeSentOff),
			shootoutOrder(squad, away, awaySentOff),
		},
		Turn:  Home,
		Phase: phaseAwarded,
	}
}

// KickChance is the bounded success probability for a taker.
func KickChance(p *Player) float64 {
	return Clamp(0.62+float64(p.Attr.Finishing)*0.0033, shootoutKickMin, shootoutKickMax)
}

// Advance moves the machine one phase. One full kick therefore spans
// three calls: award, execute, record. Score only changes entering the
// result phase.
func (s *ShootoutState) Advance(squad map[int]*Player, src Source) {
	if s.Done {
		return
	}
	switch s.Phase {
	case phaseAwarded:
		order := s.Order[s.Turn]
		if len(order) == 0 {
			// Degenerate: nobody eligible. Concede the kick.
			s.kicker = nil
		} else {
			id := order[s.Next[s.Turn]%len(order)]
			s.kicker = squad[id]
		}
		s.Next[s.Turn]++
		s.Phase = phaseExecuting

	case phaseExecuting:
		scored := false
		kickerID := 0
		if s.kicker != nil {
			kickerID = s.kicker.ID
		}
		kickNo := s.Next[s.Turn]
		switch {
		case kickNo == regulationKicks+suddenDeathMaxPairs && s.Turn == Home:
			// The decisive pair opens with one relative-strength draw
			// between the two next takers.
			ph, pa := 0.5, 0.5
			if s.kicker != nil {
				ph = KickChance(s.kicker)
			}
			if p := s.nextTaker(squad, Away); p != nil {
				pa = KickChance(p)
			}
			scored = src.Float64()*(ph+pa) < ph
		case kickNo == regulationKicks+suddenDeathMaxPairs:
			// The reply in the decisive pair goes the other way: a save
			// when the opener scored, a conversion when it was missed.
			scored = s.Result.HomeGoals == s.Result.AwayGoals && s.kicker != nil
		default:
			if s.kicker != nil {
				chance := KickChance(s.kicker)
				if pair := kickNo - regulationKicks; pair > 0 {
					chance = Clamp(chance-suddenDeathPressure*float64(pair), suddenDeathFloor, shootoutKickMax)
				}
				scored = src.Float64() < chance
			}
		}
		s.Result.Kicks = append(s.Result.Kicks, ShootoutKick{Side: s.Turn, PlayerID: kickerID, Scored: scored})
		if scored {
			if s.Turn == Home {
				s.Result.HomeGoals++
			} else {
				s.Result.AwayGoals++
			}
		}
		s.kicker = nil
		s.Phase = phaseResult

	case phaseResult:
		s.checkDecided()
		if !s.Done && s.Next[Home] >= regulationKicks+suddenDeathMaxPairs && s.Next[Away] >= regulationKicks+suddenDeathMaxPairs {
			// Only reachable when the decisive pair had nobody left to
			// kick. Call it rather than kick on all night.
			if src.Float64() < 0.5 {
				s.finish(1)
			} else {
				s.finish(-1)
			}
		}
		if !s.Done {
			s.Turn = s.Turn.Opponent()
			s.Phase = phaseAwarded
		}
	}
}

// nextTaker peeks at the rotation without moving the cursor.
func (s *ShootoutState) nextTaker(squad map[int]*Player, side Side) *Player {
	order := s.Order[side]
	if len(order) == 0 {
		return nil
	}
	return squad[order[s.Next[side]%len(order)]]
}

// checkDecided applies the termination rule: after five kicks each an
// unequal count decides it; earlier, an unreachable deficit decides
// it; in sudden death every completed pair with unequal scores ends
// the shootout.
func (s *ShootoutState) checkDecided() {
	homeTaken, awayTaken := 0, 0
	for _, k := range s.Result.Kicks {
		if k.Side == Home {
			homeTaken++
		} else {
			awayTaken++
		}
	}
	diff := s.Result.HomeGoals - s.Result.AwayGoals

	if homeTaken < regulationKicks || awayTaken < regulationKicks {
		homeLeft := regulationKicks - homeTaken
		awayLeft := regulationKicks - awayTaken
		// Decided early when the trailing side cannot catch up.
		if diff > awayLeft || -diff > homeLeft {
			s.finish(diff)
		}
		return
	}
	// Sudden death: equal kicks taken and scores differ.
	if homeTaken == awayTaken && diff != 0 {
		s.finish(diff)
	}
}

func (s *ShootoutState) finish(diff int) {
	s.Done = true
	if diff > 0 {
		s.Result.Winner = Home
	} else {
		s.Result.Winner = Away
	}
}

// RunShootout resolves a whole shootout in one pass.
func RunShootout(squad map[int]*Player, home, away *Lineup, homeSentOff, awaySentOff map[int]bool, src Source) *ShootoutResult {
	st := NewShootoutState(squad, home, away, homeSentOff, awaySentOff)
	// Ten pairs at three phases each bounds the machine; the decisive
	// pair guarantees Done before the loop runs out.
	for i := 0; i < 64 && !st.Done; i++ {
		st.Advance(squad, src)
	}
	res := st.Result
	return &res
}
