package sim

import (
	"fmt"
	"sort"
)

// LiveEngine is the minute-stepped state machine behind a watched
// fixture. One external tick advances exactly one simulated minute;
// Step is pure over snapshots, so the driver (engine.go) never needs
// more than a pointer swap under its lock.

const (
	goalCooldownMinutes = 4
	regulationHalfEnd   = 45
	regulationEnd       = 90
	extraFirstEnd       = 105
	extraSecondEnd      = 120

	// Cumulative primary-event bands, modulated per minute by tempo,
	// intensity and the tactic clash.
	baseShotChance   = 0.115
	baseFoulChance   = 0.105
	baseFlavorChance = 0.060

	conditionFloor = 1.0
)

var flavorLines = []string{
	"%s knock it around at the back",
	"%s probing down the left",
	"a spell of pressure from %s",
	"%s win a corner, cleared at the near post",
	"%s appeal for a free kick, play waved on",
	"a long ball forward from %s comes to nothing",
}

// minuteDraws holds one offset-addressed source per concern for one
// minute. Sharing a source within a concern keeps draw offsets unique
// even when a concern fires more than once in the minute.
type minuteDraws struct {
	turn    *OffsetSource
	primary *OffsetSource
	clash   *OffsetSource
	goal    *OffsetSource
	scorer  *OffsetSource
	assist  *OffsetSource
	foul    *OffsetSource
	card    *OffsetSource
	penalty *OffsetSource
	injury  *OffsetSource
	upgrade *OffsetSource
	fatigue *OffsetSource
	sub     *OffsetSource
	flavor  *OffsetSource
}

func drawsFor(seed int64, minute int) *minuteDraws {
	return &minuteDraws{
		turn:    At(seed, KindTurn, minute),
		primary: At(seed, KindPrimary, minute),
		clash:   At(seed, KindClash, minute),
		goal:    At(seed, KindGoal, minute),
		scorer:  At(seed, KindScorer, minute),
		assist:  At(seed, KindAssist, minute),
		foul:    At(seed, KindFoul, minute),
		card:    At(seed, KindCard, minute),
		penalty: At(seed, KindPenaltyAward, minute),
		injury:  At(seed, KindInjury, minute),
		upgrade: At(seed, KindUpgrade, minute),
		fatigue: At(seed, KindFatigue, minute),
		sub:     At(seed, KindSub, minute),
		flavor:  At(seed, KindFlavor, minute),
	}
}

// Step computes the next snapshot from the previous one. The input is
// never mutated. A paused state steps to itself.
func (e *LiveEngine) Step(s *MatchState) *MatchState {
	if s.Paused || s.Finished() {
		return s
	}
	next := s.Clone()

	// Engine-driven stoppages resolve before the clock moves again.
	if next.Penalty != nil {
		e.advancePenalty(next)
		return next
	}
	if next.PausedForEvent {
		// Goal celebration / severe-injury stoppage lasts one tick.
		next.PausedForEvent = false
		return next
	}

	switch next.Period {
	case PeriodNotStarted:
		e.kickoff(next)
		return next
	case PeriodHalfTime:
		e.resumeSecondHalf(next)
		return next
	case PeriodExtraBreak:
		next.Period = PeriodExtraSecond
		next.prependEvent(MatchEvent{Minute: next.Minute, Type: EventExtraTime, Text: "second period of extra time underway"})
		return next
	case PeriodPenalties:
		e.advanceShootout(next)
		return next
	}

	next.Minute++
	m := next.Minute
	d := drawsFor(next.Seed, m)

	next.Momentum = decayMomentum(next.Momentum)
	e.updateShouts(next, m)
	e.checkSubstitutions(next, m, d)

	if m-next.LastGoalMinute >= goalCooldownMinutes {
		e.primaryEvent(next, m, d)
	}

	e.accidentalInjuries(next, m, d)
	e.upgradeInjuries(next, m, d)
	e.applyFatigue(next, d)

	e.checkBoundaries(next)
	return next
}

func (e *LiveEngine) kickoff(s *MatchState) {
	s.Period = PeriodFirstHalf
	s.Stoppage[0] = 1 + int(Draw(s.Seed, Offset(KindStoppage, 0, 0))*4)
	s.prependEvent(MatchEvent{Minute: 0, Type: EventKickoff, Text: fmt.Sprintf("%s kick off against %s", e.cfg.nameFor(Home), e.cfg.nameFor(Away))})
}

func (e *LiveEngine) resumeSecondHalf(s *MatchState) {
	s.Period = PeriodSecondHalf
	s.Stoppage[1] = 2 + int(Draw(s.Seed, Offset(KindStoppage, 1, 0))*5)
	s.prependEvent(MatchEvent{Minute: s.Minute, Type: EventKickoff, Text: "second half underway"})
}

// checkBoundaries handles half-time, full-time, extra time and the
// handover to penalties. Stoppage per half was rolled once at kickoff.
func (e *LiveEngine) checkBoundaries(s *MatchState) {
	m := s.Minute
	switch s.Period {
	case PeriodFirstHalf:
		if m >= regulationHalfEnd+s.Stoppage[0] {
			s.Minute = regulationHalfEnd
			s.Period = PeriodHalfTime
			e.halfTimeRegen(s)
			s.prependEvent(MatchEvent{Minute: regulationHalfEnd, Type: EventHalftime, Text: fmt.Sprintf("half-time: %d-%d", s.Teams[Home].Score, s.Teams[Away].Score)})
		}
	case PeriodSecondHalf:
		if m >= regulationEnd+s.Stoppage[1] {
			s.Minute = regulationEnd
			if e.cfg.Knockout && s.Teams[Home].Score == s.Teams[Away].Score {
				s.Period = PeriodExtraFirst
				s.prependEvent(MatchEvent{Minute: regulationEnd, Type: EventExtraTime, Text: "level after ninety, extra time"})
				return
			}
			e.finish(s)
		}
	case PeriodExtraFirst:
		if m >= extraFirstEnd {
			s.Minute = extraFirstEnd
			s.Period = PeriodExtraBreak
		}
	case PeriodExtraSecond:
		if m >= extraSecondEnd {
			s.Minute = extraSecondEnd
			if s.Teams[Home].Score == s.Teams[Away].Score {
				s.Period = PeriodPenalties
				s.Shootout = NewShootoutState(e.squad, &s.Teams[Home].Lineup, &s.Teams[Away].Lineup, s.Teams[Home].SentOff, s.Teams[Away].SentOff)
				s.prependEvent(MatchEvent{Minute: extraSecondEnd, Type: EventShootout, Text: "still level, penalties decide it"})
				return
			}
			e.finish(s)
		}
	}
}

func (e *LiveEngine) finish(s *MatchState) {
	s.Period = PeriodFinished
	s.prependEvent(MatchEvent{Minute: s.Minute, Type: EventFulltime, Text: fmt.Sprintf("full-time: %d-%d", s.Teams[Home].Score, s.Teams[Away].Score)})
}

func (e *LiveEngine) halfTimeRegen(s *MatchState) {
	for side := Home; side <= Away; side++ {
		ts := &s.Teams[side]
		for _, slot := range ts.Lineup.Slots {
			if !slot.Occupied {
				continue
			}
			p, ok := e.squad[slot.PlayerID]
			if !ok {
				continue
			}
			cond := ts.Condition[p.ID]
			ts.Condition[p.ID] = cond + HalfTimeRegen(p, cond, p.FatigueDebt)
		}
	}
}

// updateShouts re-evaluates the coach rule engine for any side whose
// shout expired. Rule precedence lives in tactics.go.
func (e *LiveEngine) updateShouts(s *MatchState, m int) {
	for side := Home; side <= Away; side++ {
		ts := &s.Teams[side]
		if ts.Shout != nil && m < ts.Shout.Expires {
			continue
		}
		momentumFor := s.Momentum
		if side == Away {
			momentumFor = -momentumFor
		}
		sh := EvaluateShouts(shoutContext{
			minute:       m,
			scoreFor:     ts.Score,
			scoreAgainst: s.Teams[side.Opponent()].Score,
			momentumFor:  momentumFor,
			concededAt:   ts.LastConcededAt,
			scoredAt:     ts.LastScoredAt,
		})
		changed := ts.Shout == nil || ts.Shout.Name != sh.Name
		ts.Shout = &sh
		ts.Instruction = sh.Instruction
		if changed && sh.Name != "normalize" {
			s.prependEvent(MatchEvent{Minute: m, Type: EventShout, Side: side, Text: fmt.Sprintf("%s bench: %s", e.cfg.nameFor(side), sh.Name)})
		}
	}
}

// primaryEvent rolls which side attacks, then one of shot / foul /
// flavor via cumulative bands.
func (e *LiveEngine) primaryEvent(s *MatchState, m int, d *minuteDraws) {
	att := Away
	powersHome := ComputePowers(e.squad, &s.Teams[Home].Lineup, s.Teams[Home].Condition)
	powersAway := ComputePowers(e.squad, &s.Teams[Away].Lineup, s.Teams[Away].Condition)
	if d.turn.Float64() < turnProbabilityHome(s.Momentum, powersHome.Attack, powersAway.Attack) {
		att = Home
	}
	def := att.Opponent()
	attTS, defTS := &s.Teams[att], &s.Teams[def]

	clash := ClashMultiplier(attTS.Lineup.Tactic, defTS.Lineup.Tactic, d.clash)
	pShot := baseShotChance * tempoEventFactor(attTS.Instruction) * clash
	pFoul := baseFoulChance * intensityFoulFactor(defTS.Instruction)
	r := d.primary.Float64()
	switch {
	case r < pShot:
		e.resolveShot(s, m, att, d)
	case r < pShot+pFoul:
		e.resolveFoul(s, m, att, d)
	case r < pShot+pFoul+baseFlavorChance:
		line := flavorLines[int(d.flavor.Float64()*float64(len(flavorLines)))%len(flavorLines)]
		s.prependEvent(MatchEvent{Minute: m, Type: EventFlavor, Side: att, Text: fmt.Sprintf(line, e.cfg.nameFor(att))})
	}
}

func (e *LiveEngine) resolveShot(s *MatchState, m int, att Side, d *minuteDraws) {
	attTS := &s.Teams[att]
	defTS := &s.Teams[att.Opponent()]
	fielded := fieldedPlayers(e.squad, &attTS.Lineup)
	if len(fielded) == 0 {
		return
	}
	shooter := PickScorer(fielded, d.scorer)
	kind := ShotOpenPlay
	if d.goal.Float64() < 0.18 {
		kind = ShotHeader
	}
	attackP := shotAttackPower(shooter, conditionOf(attTS.Condition, shooter.ID), kind, e.cfg.Weather)
	keeper := keeperFor(e.squad, &defTS.Lineup)
	saveP := shotSavePower(keeper, bestDefenders(e.squad, &defTS.Lineup), defTS.Condition, kind)

	if d.goal.Float64() < GoalChance(attackP, saveP, kind) {
		e.recordGoal(s, m, att, shooter, false, d)
	} else {
		s.Momentum = bumpMomentum(s.Momentum, att, momentumShot)
		s.prependEvent(MatchEvent{Minute: m, Type: EventFlavor, Side: att, PlayerID: shooter.ID, Text: fmt.Sprintf("%s denies %s", keeperName(keeper), shooter.Name)})
	}

	// The shooting side risks a knock on the play.
	e.rollInjury(s, m, att, shooter, TriggerShot, d)
}

func keeperName(k *Player) string {
	if k == nil {
		return "the covering defender"
	}
	return k.Name
}

func (e *LiveEngine) recordGoal(s *MatchState, m int, att Side, shooter *Player, penalty bool, d *minuteDraws) {
	attTS := &s.Teams[att]
	defTS := &s.Teams[att.Opponent()]
	attTS.Score++
	attTS.LastScoredAt = m
	defTS.LastConcededAt = m
	s.LastGoalMinute = m
	s.Momentum = bumpMomentum(s.Momentum, att, momentumGoal)
	s.Momentum = bumpMomentum(s.Momentum, att.Opponent(), momentumConceded)

	sc := Scorer{PlayerID: shooter.ID, Minute: m, Penalty: penalty, Side: att}
	text := fmt.Sprintf("GOAL! %s scores for %s", shooter.Name, e.cfg.nameFor(att))
	if penalty {
		text = fmt.Sprintf("GOAL! %s converts the penalty for %s", shooter.Name, e.cfg.nameFor(att))
	} else {
		if assist := PickAssist(fieldedPlayers(e.squad, &attTS.Lineup), shooter.ID, d.assist); assist != nil {
			sc.AssistID = assist.ID
			text += fmt.Sprintf(", set up by %s", assist.Name)
		}
	}
	s.Scorers = append(s.Scorers, sc)
	s.prependEvent(MatchEvent{Minute: m, Type: EventGoal, Side: att, PlayerID: shooter.ID, Text: text})
	// One tick of celebration before play restarts.
	s.PausedForEvent = true
}

func (e *LiveEngine) resolveFoul(s *MatchState, m int, att Side, d *minuteDraws) {
	def := att.Opponent()
	defTS := &s.Teams[def]
	pool := fieldedPlayers(e.squad, &defTS.Lineup)
	if len(pool) == 0 {
		return
	}
	offender := WeightedPick(pool, func(p *Player) float64 {
		return foulWeight(p, conditionOf(defTS.Condition, p.ID))
	}, d.foul)
	s.Momentum = bumpMomentum(s.Momentum, def, -momentumShot/2)
	s.prependEvent(MatchEvent{Minute: m, Type: EventFoul, Side: def, PlayerID: offender.ID, Text: fmt.Sprintf("foul by %s", offender.Name)})

	switch ClassifyFoul(e.cfg.Referee, offender, conditionOf(defTS.Condition, offender.ID), d.card) {
	case FoulYellow:
		e.bookPlayer(s, m, def, offender)
	case FoulRed:
		e.sendOff(s, m, def, offender, false)
	}

	// Penalty when the foul was in the area.
	if d.penalty.Float64() < penaltyAwardChance(e.cfg.Referee) {
		e.awardPenalty(s, m, att)
	}

	// The fouled side risks the injury.
	attFielded := fieldedPlayers(e.squad, &s.Teams[att].Lineup)
	if len(attFielded) > 0 {
		victim := WeightedPick(attFielded, func(p *Player) float64 {
			return injuryVictimWeight(p, conditionOf(s.Teams[att].Condition, p.ID), p.FatigueDebt)
		}, d.injury)
		e.rollInjury(s, m, att, victim, TriggerFoul, d)
	}
}

// bookPlayer records a yellow; the second yellow for the same player
// always resolves to exactly one sending-off record.
func (e *LiveEngine) bookPlayer(s *MatchState, m int, side Side, p *Player) {
	ts := &s.Teams[side]
	ts.Yellows[p.ID]++
	if ts.Yellows[p.ID] >= 2 {
		e.sendOff(s, m, side, p, true)
		return
	}
	s.Cards = append(s.Cards, Card{PlayerID: p.ID, Type: CardYellow, Minute: m, Side: side})
	s.prependEvent(MatchEvent{Minute: m, Type: EventCard, Side: side, PlayerID: p.ID, Card: CardYellow, Text: fmt.Sprintf("yellow card for %s", p.Name)})
}

func (e *LiveEngine) sendOff(s *MatchState, m int, side Side, p *Player, secondYellow bool) {
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
	s.Momentum = bumpMomentum(s.Momentum, side.Opponent(), momentumRedCard)
	text := fmt.Sprintf("RED CARD! %s is sent off", p.Name)
	if secondYellow {
		text = fmt.Sprintf("second yellow, %s is off", p.Name)
	}
	s.prependEvent(MatchEvent{Minute: m, Type: EventCard, Side: side, PlayerID: p.ID, Card: CardRed, Text: text})
}

// awardPenalty opens the three-phase penalty sub-machine. The score
// only changes when the sequence reaches its result phase.
func (e *LiveEngine) awardPenalty(s *MatchState, m int, att Side) {
	if s.Penalty != nil {
		return
	}
	fielded := fieldedPlayers(e.squad, &s.Teams[att].Lineup)
	if len(fielded) == 0 {
		return
	}
	taker := fielded[0]
	for _, p := range fielded {
		if takerScore(p) > takerScore(taker) {
			taker = p
		}
	}
	s.Penalty = &PenaltySequence{Phase: phaseAwarded, Side: att, TakerID: taker.ID, Minute: m}
	s.PausedForEvent = true
	s.Momentum = bumpMomentum(s.Momentum, att, momentumPenalty)
	s.prependEvent(MatchEvent{Minute: m, Type: EventPenalty, Side: att, PlayerID: taker.ID, Text: fmt.Sprintf("penalty to %s, %s over the ball", e.cfg.nameFor(att), taker.Name)})
}

// advancePenalty moves the award sequence one phase per tick:
// AWARDED -> EXECUTING -> RESULT.
func (e *LiveEngine) advancePenalty(s *MatchState) {
	seq := s.Penalty
	switch seq.Phase {
	case phaseAwarded:
		seq.Phase = phaseExecuting
	case phaseExecuting:
		seq.Phase = phaseResult
		taker := e.squad[seq.TakerID]
		if taker == nil {
			// Taker vanished between phases; skip the kick.
			break
		}
		def := seq.Side.Opponent()
		keeper := keeperFor(e.squad, &s.Teams[def].Lineup)
		attackP := shotAttackPower(taker, conditionOf(s.Teams[seq.Side].Condition, taker.ID), ShotPenalty, e.cfg.Weather)
		saveP := shotSavePower(keeper, nil, s.Teams[def].Condition, ShotPenalty)
		src := At(s.Seed, KindPenaltyAward, seq.Minute)
		src.Float64() // align past the award draw consumed at the foul
		if src.Float64() < GoalChance(attackP, saveP, ShotPenalty) {
			e.recordGoal(s, seq.Minute, seq.Side, taker, true, drawsFor(s.Seed, seq.Minute))
		} else {
			s.prependEvent(MatchEvent{Minute: seq.Minute, Type: EventPenalty, Side: seq.Side, PlayerID: taker.ID, Text: fmt.Sprintf("%s's penalty is saved", taker.Name)})
			s.Momentum = bumpMomentum(s.Momentum, def, momentumPenalty)
		}
	case phaseResult:
		s.Penalty = nil
		s.PausedForEvent = false
	}
}

// rollInjury draws whether the victim picks up a knock and records it.
func (e *LiveEngine) rollInjury(s *MatchState, m int, side Side, victim *Player, trigger InjuryTrigger, d *minuteDraws) {
	ts := &s.Teams[side]
	if ts.SentOff[victim.ID] || ts.Removed[victim.ID] {
		return
	}
	if _, already := ts.Injuries[victim.ID]; already {
		return
	}
	cond := conditionOf(ts.Condition, victim.ID)
	if d.injury.Float64() >= InjuryChance(victim, cond, victim.FatigueDebt, trigger) {
		return
	}
	sev := RollSeverity(victim.FatigueDebt, d.injury)
	rec := InjuryRecord{
		PlayerID:     victim.ID,
		Severity:     sev,
		Minute:       m,
		RecoveryDays: recoveryDays(sev, d.injury),
		Label:        injuryLabel(d.injury),
		Side:         side,
	}
	s.Injuries = append(s.Injuries, rec)
	s.prependEvent(MatchEvent{Minute: m, Type: EventInjury, Side: side, PlayerID: victim.ID, Text: fmt.Sprintf("%s is down: %s (%s)", victim.Name, rec.Label, sev)})
	if sev == InjurySevere {
		e.removeInjured(s, m, side, victim, d)
		return
	}
	ts.Injuries[victim.ID] = activeInjury{Minute: m, Severity: InjuryLight}
}

// removeInjured handles a severe injury: pause the game and force a
// substitution, vacating the slot when no change is possible.
func (e *LiveEngine) removeInjured(s *MatchState, m int, side Side, victim *Player, d *minuteDraws) {
	ts := &s.Teams[side]
	delete(ts.Injuries, victim.ID)
	s.PausedForEvent = true
	if e.substitute(s, m, side, ts.Lineup.SlotOf(victim.ID), true, d) {
		return
	}
	if idx := ts.Lineup.SlotOf(victim.ID); idx >= 0 {
		ts.Lineup.Slots[idx].Occupied = false
		ts.Vacancies[idx] = "injury"
	}
	ts.Removed[victim.ID] = true
}

// accidentalInjuries runs the rare no-contact injury roll per side.
func (e *LiveEngine) accidentalInjuries(s *MatchState, m int, d *minuteDraws) {
	for side := Home; side <= Away; side++ {
		ts := &s.Teams[side]
		fielded := fieldedPlayers(e.squad, &ts.Lineup)
		if len(fielded) == 0 {
			continue
		}
		victim := WeightedPick(fielded, func(p *Player) float64 {
			return injuryVictimWeight(p, conditionOf(ts.Condition, p.ID), p.FatigueDebt)
		}, d.injury)
		e.rollInjury(s, m, side, victim, TriggerAccident, d)
	}
}

// upgradeInjuries gives every light injury still on the pitch its
// per-minute escalation chance, oldest first for determinism.
func (e *LiveEngine) upgradeInjuries(s *MatchState, m int, d *minuteDraws) {
	for side := Home; side <= Away; side++ {
		ts := &s.Teams[side]
		ids := make([]int, 0, len(ts.Injuries))
		for id := range ts.Injuries {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			inj := ts.Injuries[id]
			p, ok := e.squad[id]
			if !ok {
				continue
			}
			cond := conditionOf(ts.Condition, id)
			if d.upgrade.Float64() >= UpgradeChance(cond, p.FatigueDebt, m-inj.Minute) {
				continue
			}
			rec := InjuryRecord{
				PlayerID:     id,
				Severity:     InjurySevere,
				Minute:       m,
				RecoveryDays: recoveryDays(InjurySevere, d.upgrade),
				Label:        "aggravated injury",
				Side:         side,
			}
			s.Injuries = append(s.Injuries, rec)
			s.prependEvent(MatchEvent{Minute: m, Type: EventInjury, Side: side, PlayerID: id, Text: fmt.Sprintf("%s cannot continue, the knock has worsened", p.Name)})
			e.removeInjured(s, m, side, p, d)
		}
	}
}

// checkSubstitutions runs the fixed windows and forced changes.
func (e *LiveEngine) checkSubstitutions(s *MatchState, m int, d *minuteDraws) {
	for side := Home; side <= Away; side++ {
		chance := subWindowChance(m, e.cfg.coachFor(side))
		if chance <= 0 {
			continue
		}
		if d.sub.Float64() >= chance {
			continue
		}
		e.substitute(s, m, side, -1, false, d)
	}
}

// substitute performs one change. targetSlot -1 lets the policy pick;
// forced changes (severe injury) bypass the windows and may spend the
// reserved fifth change.
func (e *LiveEngine) substitute(s *MatchState, m int, side Side, targetSlot int, forced bool, d *minuteDraws) bool {
	ts := &s.Teams[side]
	if ts.SubsUsed >= maxSubstitutions {
		return false
	}
	if !forced && ts.SubsUsed >= maxSubstitutions-1 && m < lastSubReserveMinute {
		return false
	}
	if targetSlot < 0 {
		targetSlot = pickSubstitutionTarget(e.squad, &ts.Lineup, ts.Condition, ts.Injuries)
	}
	if targetSlot < 0 || !ts.Lineup.Slots[targetSlot].Occupied {
		return false
	}
	outID := ts.Lineup.Slots[targetSlot].PlayerID
	role := ts.Lineup.Slots[targetSlot].Role
	unavailable := make(map[int]bool, len(ts.UsedBench))
	for id := range ts.UsedBench {
		unavailable[id] = true
	}
	for id := range ts.SentOff {
		unavailable[id] = true
	}
	repl := pickReplacement(e.squad, ts.Lineup.Bench, role, unavailable)
	if repl == nil {
		return false
	}
	ts.Lineup.Slots[targetSlot].PlayerID = repl.ID
	ts.Lineup.Slots[targetSlot].Occupied = true
	ts.UsedBench[repl.ID] = true
	ts.SubsUsed++
	delete(ts.Injuries, outID)
	sub := Substitution{OutID: outID, InID: repl.ID, Minute: m, Side: side, Forced: forced}
	s.Subs = append(s.Subs, sub)
	outName := ""
	if out, ok := e.squad[outID]; ok {
		outName = out.Name
	}
	s.prependEvent(MatchEvent{Minute: m, Type: EventSub, Side: side, PlayerID: repl.ID, Text: fmt.Sprintf("%s replaces %s", repl.Name, outName)})
	return true
}

// applyFatigue drains every fielded player, the pressured side faster.
func (e *LiveEngine) applyFatigue(s *MatchState, d *minuteDraws) {
	for side := Home; side <= Away; side++ {
		ts := &s.Teams[side]
		pressure := pressureOn(s.Momentum, side)
		for _, slot := range ts.Lineup.Slots {
			if !slot.Occupied {
				continue
			}
			p, ok := e.squad[slot.PlayerID]
			if !ok {
				continue
			}
			cond := ts.Condition[p.ID] - DrainPerMinute(p, e.cfg.Weather, pressure, d.fatigue)
			if cond < conditionFloor {
				cond = conditionFloor
			}
			ts.Condition[p.ID] = cond
			ts.MinutesOn[p.ID]++
		}
	}
}

// advanceShootout moves the shootout one phase per tick and finishes
// the match when it is decided.
func (e *LiveEngine) advanceShootout(s *MatchState) {
	st := s.Shootout
	if st == nil {
		e.finish(s)
		return
	}
	before := len(st.Result.Kicks)
	st.Advance(e.squad, At(s.Seed, KindShootout, st.Steps))
	st.Steps++
	if len(st.Result.Kicks) > before {
		k := st.Result.Kicks[len(st.Result.Kicks)-1]
		verdict := "scores"
		if !k.Scored {
			verdict = "misses"
		}
		name := fmt.Sprintf("player %d", k.PlayerID)
		if p, ok := e.squad[k.PlayerID]; ok {
			name = p.Name
		}
		s.prependEvent(MatchEvent{Minute: s.Minute, Type: EventShootout, Side: k.Side, PlayerID: k.PlayerID, Text: fmt.Sprintf("%s %s (%d-%d)", name, verdict, st.Result.HomeGoals, st.Result.AwayGoals)})
	}
	if st.Done {
		s.prependEvent(MatchEvent{Minute: s.Minute, Type: EventShootout, Side: st.Result.Winner, Text: fmt.Sprintf("%s win the shootout %d-%d", e.cfg.nameFor(st.Result.Winner), st.Result.HomeGoals, st.Result.AwayGoals)})
		e.finish(s)
	}
}
