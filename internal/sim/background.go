package sim

import (
	"context"
	"sort"

	"github.com/pkg/errors"
)

// BackgroundEngine resolves a fixture in one pass, no wall clock and
// no intermediate observers. It trades the live engine's event
// choreography for a per-minute scoring-intensity model, but feeds the
// same attribute, discipline, injury and fatigue models and fills the
// same MatchResult contract. Given the same seed it always produces
// the same result.
type BackgroundEngine struct {
	cfg MatchConfig
}

// Per-minute scoring intensity and its modifiers.
const (
	baseLambda       = 0.013
	homeLambdaBoost  = 1.25
	awayLambdaFactor = 0.95
	// Each goal already scored damps the scorer's appetite.
	satietyFactor = 0.82
	// A side a man down creates less; the opponent slightly more.
	manDownOwn = 0.78
	manDownOpp = 1.15

	backgroundFoulChance   = 0.10
	backgroundPenaltyShare = 0.12
)

// NewBackgroundEngine prepares a one-pass simulation of the fixture.
func NewBackgroundEngine(cfg MatchConfig) *BackgroundEngine {
	return &BackgroundEngine{cfg: cfg}
}

// Simulate runs regulation, extra time for level knockout fixtures,
// and a shootout when still level. Implements Simulator.
func (e *BackgroundEngine) Simulate(ctx context.Context) (*MatchResult, error) {
	select {
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "background simulation canceled")
	default:
	}

	cfg := e.cfg
	squad := cfg.indexSquad()
	normalizeLineup(squad, &cfg.HomeLineup)
	normalizeLineup(squad, &cfg.AwayLineup)
	s := NewMatchState(&cfg)
	initCond := make(map[int]float64, len(squad))
	for id, p := range squad {
		initCond[id] = p.Condition
	}
	src := NewStream(cfg.Seed)

	s.Period = PeriodFirstHalf
	s.prependEvent(MatchEvent{Minute: 0, Type: EventKickoff, Text: cfg.nameFor(Home) + " kick off against " + cfg.nameFor(Away)})

	for m := 1; m <= regulationEnd; m++ {
		s.Minute = m
		e.minute(s, squad, m, src)
		if m == regulationHalfEnd {
			backgroundHalfTime(s, squad)
		}
	}

	if cfg.Knockout && s.Teams[Home].Score == s.Teams[Away].Score {
		s.Period = PeriodExtraFirst
		s.prependEvent(MatchEvent{Minute: regulationEnd, Type: EventExtraTime, Text: "level after ninety, extra time"})
		for m := regulationEnd + 1; m <= extraSecondEnd; m++ {
			s.Minute = m
			e.minute(s, squad, m, src)
			if m == extraFirstEnd {
				s.Period = PeriodExtraSecond
			}
		}
		if s.Teams[Home].Score == s.Teams[Away].Score {
			s.Period = PeriodPenalties
			sr := RunShootout(squad, &s.Teams[Home].Lineup, &s.Teams[Away].Lineup, s.Teams[Home].SentOff, s.Teams[Away].SentOff, src)
			s.Shootout = &ShootoutState{Result: *sr, Done: true}
			s.prependEvent(MatchEvent{Minute: extraSecondEnd, Type: EventShootout, Text: cfg.nameFor(sr.Winner) + " win the shootout"})
		}
	}

	s.Period = PeriodFinished
	s.prependEvent(MatchEvent{Minute: s.Minute, Type: EventFulltime, Text: "full-time"})
	return buildResult(squad, initCond, s), nil
}

// minute applies one simulated minute: a goal draw per side, then
// fouls, injuries, substitutions and fatigue.
func (e *BackgroundEngine) minute(s *MatchState, squad map[int]*Player, m int, src *Stream) {
	for side := Home; side <= Away; side++ {
		if src.Float64() < e.lambda(s, squad, side, src) {
			e.goal(s, squad, side, m, src)
		}
	}

	if src.Float64() < backgroundFoulChance {
		e.foul(s, squad, m, src)
	}

	for side := Home; side <= Away; side++ {
		e.injuryRoll(s, squad, side, m, TriggerAccident, src)
	}

	backgroundUpgradeInjuries(s, squad, m, src)

	for side := Home; side <= Away; side++ {
		ts := &s.Teams[side]
		if chance := subWindowChance(m, e.cfg.coachFor(side)); chance > 0 && src.Float64() < chance {
			backgroundSubstitute(s, squad, side, m, -1, false)
		}
		for _, slot := range ts.Lineup.Slots {
			if !slot.Occupied {
				continue
			}
			p, ok := squad[slot.PlayerID]
			if !ok {
				continue
			}
			cond := ts.Condition[p.ID] - DrainPerMinute(p, e.cfg.Weather, 1.0, src)
			if cond < conditionFloor {
				cond = conditionFloor
			}
			ts.Condition[p.ID] = cond
			ts.MinutesOn[p.ID]++
		}
	}
}

// lambda is the per-minute scoring intensity for one side.
func (e *BackgroundEngine) lambda(s *MatchState, squad map[int]*Player, side Side, src *Stream) float64 {
	ts := &s.Teams[side]
	opp := &s.Teams[side.Opponent()]

	l := baseLambda
	if side == Home {
		l *= homeLambdaBoost
	} else {
		l *= awayLambdaFactor
	}
	for g := 0; g < ts.Score; g++ {
		l *= satietyFactor
	}

	pw := ComputePowers(squad, &ts.Lineup, ts.Condition)
	oppPw := ComputePowers(squad, &opp.Lineup, opp.Condition)
	if total := pw.Attack + oppPw.Defense; total > 0 {
		l *= 2 * pw.Attack / total
	}

	l *= ClashMultiplier(ts.Lineup.Tactic, opp.Lineup.Tactic, src)

	for range ts.SentOff {
		l *= manDownOwn
	}
	for range opp.SentOff {
		l *= manDownOpp
	}

	coach := e.cfg.coachFor(side)
	l *= 0.9 + float64(coach.Motivation)/500.0
	return Clamp(l, 0.0005, 0.20)
}

func (e *BackgroundEngine) goal(s *MatchState, squad map[int]*Player, side Side, m int, src *Stream) {
	ts := &s.Teams[side]
	fielded := fieldedPlayers(squad, &ts.Lineup)
	if len(fielded) == 0 {
		return
	}
	penalty := src.Float64() < backgroundPenaltyShare
	var shooter *Player
	if penalty {
		shooter = fielded[0]
		for _, p := range fielded {
			if takerScore(p) > takerScore(shooter) {
				shooter = p
			}
		}
	} else {
		shooter = PickScorer(fielded, src)
	}
	ts.Score++
	ts.LastScoredAt = m
	s.Teams[side.Opponent()].LastConcededAt = m

	sc := Scorer{PlayerID: shooter.ID, Minute: m, Penalty: penalty, Side: side}
	text := "GOAL! " + shooter.Name + " scores for " + e.cfg.nameFor(side)
	if penalty {
		text = "GOAL! " + shooter.Name + " converts a penalty for " + e.cfg.nameFor(side)
	} else if assist := PickAssist(fielded, shooter.ID, src); assist != nil {
		sc.AssistID = assist.ID
		text += ", set up by " + assist.Name
	}
	s.Scorers = append(s.Scorers, sc)
	s.prependEvent(MatchEvent{Minute: m, Type: EventGoal, Side: side, PlayerID: shooter.ID, Text: text})
}

func (e *BackgroundEngine) foul(s *MatchState, squad map[int]*Player, m int, src *Stream) {
	side := Home
	if src.Float64() < 0.5 {
		side = Away
	}
	ts := &s.Teams[side]
	pool := fieldedPlayers(squad, &ts.Lineup)
	if len(pool) == 0 {
		return
	}
	offender := WeightedPick(pool, func(p *Player) float64 {
		return foulWeight(p, conditionOf(ts.Condition, p.ID))
	}, src)

	switch ClassifyFoul(e.cfg.Referee, offender, conditionOf(ts.Condition, offender.ID), src) {
	case FoulYellow:
		ts.Yellows[offender.ID]++
		if ts.Yellows[offender.ID] >= 2 {
			backgroundSendOff(s, squad, side, offender, m, true)
		} else {
			s.Cards = append(s.Cards, Card{PlayerID: offender.ID, Type: CardYellow, Minute: m, Side: side})
			s.prependEvent(MatchEvent{Minute: m, Type: EventCard, Side: side, PlayerID: offender.ID, Card: CardYellow, Text: "yellow card for " + offender.Name})
		}
	case FoulRed:
		backgroundSendOff(s, squad, side, offender, m, false)
	}

	// The fouled side risks the knock.
	e.injuryRoll(s, squad, side.Opponent(), m, TriggerFoul, src)
}

func backgroundSendOff(s *MatchState, squad map[int]*Player, side Side, p *Player, m int, secondYellow bool) {
	ts := &s.Teams[side]
	if ts.SentOff[p.ID] {
		return
	}
	ts.SentOff[p.ID] = true
	if idx := ts.Lineup.SlotOf(p.ID); idx >= 0 {
		ts.Lineup.Slots[idx].Occupied = false
		ts.Vacancies[idx] = "red card"
	}
	delete(ts.Injuries, p.ID)
	s.Cards = append(s.Cards, Card{PlayerID: p.ID, Type: CardRed, Minute: m, Side: side, SecondYellow: secondYellow})
	s.prependEvent(MatchEvent{Minute: m, Type: EventCard, Side: side, PlayerID: p.ID, Card: CardRed, Text: "RED CARD! " + p.Name + " is sent off"})
}

func (e *BackgroundEngine) injuryRoll(s *MatchState, squad map[int]*Player, side Side, m int, trigger InjuryTrigger, src *Stream) {
	ts := &s.Teams[side]
	fielded := fieldedPlayers(squad, &ts.Lineup)
	if len(fielded) == 0 {
		return
	}
	victim := WeightedPick(fielded, func(p *Player) float64 {
		return injuryVictimWeight(p, conditionOf(ts.Condition, p.ID), p.FatigueDebt)
	}, src)
	if ts.SentOff[victim.ID] || ts.Removed[victim.ID] {
		return
	}
	if _, already := ts.Injuries[victim.ID]; already {
		return
	}
	if src.Float64() >= InjuryChance(victim, conditionOf(ts.Condition, victim.ID), victim.FatigueDebt, trigger) {
		return
	}
	sev := RollSeverity(victim.FatigueDebt, src)
	rec := InjuryRecord{
		PlayerID:     victim.ID,
		Severity:     sev,
		Minute:       m,
		RecoveryDays: recoveryDays(sev, src),
		Label:        injuryLabel(src),
		Side:         side,
	}
	s.Injuries = append(s.Injuries, rec)
	s.prependEvent(MatchEvent{Minute: m, Type: EventInjury, Side: side, PlayerID: victim.ID, Text: victim.Name + " is down: " + rec.Label})
	if sev == InjurySevere {
		delete(ts.Injuries, victim.ID)
		if backgroundSubstitute(s, squad, side, m, ts.Lineup.SlotOf(victim.ID), true) {
			return
		}
		if idx := ts.Lineup.SlotOf(victim.ID); idx >= 0 {
			ts.Lineup.Slots[idx].Occupied = false
			ts.Vacancies[idx] = "injury"
		}
		ts.Removed[victim.ID] = true
		return
	}
	ts.Injuries[victim.ID] = activeInjury{Minute: m, Severity: InjuryLight}
}

// backgroundUpgradeInjuries gives every light injury still on the
// pitch its per-minute escalation chance, oldest first for determinism.
func backgroundUpgradeInjuries(s *MatchState, squad map[int]*Player, m int, src Source) {
	for side := Home; side <= Away; side++ {
		ts := &s.Teams[side]
		ids := make([]int, 0, len(ts.Injuries))
		for id := range ts.Injuries {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			inj := ts.Injuries[id]
			p, ok := squad[id]
			if !ok {
				continue
			}
			cond := conditionOf(ts.Condition, id)
			if src.Float64() >= UpgradeChance(cond, p.FatigueDebt, m-inj.Minute) {
				continue
			}
			rec := InjuryRecord{
				PlayerID:     id,
				Severity:     InjurySevere,
				Minute:       m,
				RecoveryDays: recoveryDays(InjurySevere, src),
				Label:        "aggravated injury",
				Side:         side,
			}
			s.Injuries = append(s.Injuries, rec)
			s.prependEvent(MatchEvent{Minute: m, Type: EventInjury, Side: side, PlayerID: id, Text: p.Name + " cannot continue, the knock has worsened"})
			delete(ts.Injuries, id)
			if backgroundSubstitute(s, squad, side, m, ts.Lineup.SlotOf(id), true) {
				continue
			}
			if idx := ts.Lineup.SlotOf(id); idx >= 0 {
				ts.Lineup.Slots[idx].Occupied = false
				ts.Vacancies[idx] = "injury"
			}
			ts.Removed[id] = true
		}
	}
}

// backgroundSubstitute mirrors the live substitution policy without the
// event choreography.
func backgroundSubstitute(s *MatchState, squad map[int]*Player, side Side, m, targetSlot int, forced bool) bool {
	ts := &s.Teams[side]
	if ts.SubsUsed >= maxSubstitutions {
		return false
	}
	if !forced && ts.SubsUsed >= maxSubstitutions-1 && m < lastSubReserveMinute {
		return false
	}
	if targetSlot < 0 {
		targetSlot = pickSubstitutionTarget(squad, &ts.Lineup, ts.Condition, ts.Injuries)
	}
	if targetSlot < 0 || !ts.Lineup.Slots[targetSlot].Occupied {
		return false
	}
	outID := ts.Lineup.Slots[targetSlot].PlayerID
	role := ts.Lineup.Slots[targetSlot].Role
	unavailable := make(map[int]bool, len(ts.UsedBench)+len(ts.SentOff))
	for id := range ts.UsedBench {
		unavailable[id] = true
	}
	for id := range ts.SentOff {
		unavailable[id] = true
	}
	repl := pickReplacement(squad, ts.Lineup.Bench, role, unavailable)
	if repl == nil {
		return false
	}
	ts.Lineup.Slots[targetSlot].PlayerID = repl.ID
	ts.Lineup.Slots[targetSlot].Occupied = true
	ts.UsedBench[repl.ID] = true
	ts.SubsUsed++
	delete(ts.Injuries, outID)
	s.Subs = append(s.Subs, Substitution{OutID: outID, InID: repl.ID, Minute: m, Side: side, Forced: forced})
	name := ""
	if out, ok := squad[outID]; ok {
		name = out.Name
	}
	s.prependEvent(MatchEvent{Minute: m, Type: EventSub, Side: side, PlayerID: repl.ID, Text: repl.Name + " replaces " + name})
	return true
}

func backgroundHalfTime(s *MatchState, squad map[int]*Player) {
	for side := Home; side <= Away; side++ {
		ts := &s.Teams[side]
		for _, slot := range ts.Lineup.Slots {
			if !slot.Occupied {
				continue
			}
			p, ok := squad[slot.PlayerID]
			if !ok {
				continue
			}
			cond := ts.Condition[p.ID]
			ts.Condition[p.ID] = cond + HalfTimeRegen(p, cond, p.FatigueDebt)
		}
	}
	s.Period = PeriodSecondHalf
	s.prependEvent(MatchEvent{Minute: regulationHalfEnd, Type: EventHalftime, Text: "half-time"})
}
