package sim

// Goal attribution: bounded success chance from the attack/save power
// gap, then weighted-random scorer and assist selection over the
// fielded players.

// ShotKind selects the clamp band for a chance.
type ShotKind int

const (
	ShotOpenPlay ShotKind = iota
	ShotHeader
	ShotPenalty
)

// Clamp bands per shot kind. These are realism guards: a computed
// chance outside the band is pulled back in before the draw.
const (
	openPlayMin = 0.05
	openPlayMax = 0.90
	headerMin   = 0.04
	headerMax   = 0.80
	penaltyMin  = 0.88
	penaltyMax  = 0.97

	chanceScale    = 160.0
	noAssistChance = 0.25
)

// GoalChance computes the bounded probability that a shot scores.
// attackPower comes from the shooter, savePower from the keeper plus
// up to two covering defenders.
func GoalChance(attackPower, savePower float64, kind ShotKind) float64 {
	base := 0.30 + (attackPower-savePower)/chanceScale
	switch kind {
	case ShotPenalty:
		p := 0.90 + (attackPower-savePower)/1000.0
		return Clamp(p, penaltyMin, penaltyMax)
	case ShotHeader:
		return Clamp(base*0.85, headerMin, headerMax)
	default:
		return Clamp(base, openPlayMin, openPlayMax)
	}
}

// shotAttackPower is the shooter's effective finishing, condition- and
// weather-scaled. Rain and strong wind blunt finishing slightly.
func shotAttackPower(shooter *Player, cond float64, kind ShotKind, wx Weather) float64 {
	a := shooter.Attr
	var raw float64
	switch kind {
	case ShotHeader:
		raw = float64(a.Heading*2+a.Finishing+a.Strength) / 4
	case ShotPenalty:
		raw = float64(a.Finishing*3+a.Technique) / 4
	default:
		raw = float64(a.Finishing*2+a.Attacking+a.Technique) / 4
	}
	raw *= cond / 100.0
	if wx.Raining {
		raw *= 1 - 0.06*wx.RainIntensity
	}
	if wx.WindKmh > 30 {
		raw *= 0.96
	}
	return raw
}

// shotSavePower combines the keeper and the best covering defenders.
// A vacant keeper slot contributes only the defenders, which is the
// documented penalty for losing the goalkeeper.
func shotSavePower(keeper *Player, defenders []*Player, condition map[int]float64, kind ShotKind) float64 {
	power := 0.0
	if keeper != nil {
		cond := conditionOf(condition, keeper.ID)
		power = float64(keeper.Attr.Goalkeeping*2+keeper.Attr.Positioning) / 3 * cond / 100.0
	}
	if kind == ShotPenalty {
		// Defenders cannot intervene in a penalty.
		return power
	}
	for _, d := range defenders {
		cond := conditionOf(condition, d.ID)
		power += float64(d.Attr.Defending) / 4 * cond / 100.0
	}
	return power
}

func conditionOf(condition map[int]float64, id int) float64 {
	if c, ok := condition[id]; ok {
		return c
	}
	return 100.0
}

// positionShotBias mirrors natural scoring tendency by position.
func positionShotBias(pos string) float64 {
	switch pos {
	case PosST:
		return 1.8
	case PosCAM, PosLW, PosRW:
		return 1.4
	case PosCM:
		return 1.0
	case PosCDM:
		return 0.7
	case PosLB, PosRB:
		return 0.5
	case PosCB:
		return 0.4
	case PosGK:
		return 0.05
	default:
		return 1.0
	}
}

// PickScorer selects the shooter by finishing x attacking, biased by
// position. Degenerate pools fall back to the first fielded player.
func PickScorer(fielded []*Player, src Source) *Player {
	return WeightedPick(fielded, func(p *Player) float64 {
		return float64(p.Attr.Finishing*p.Attr.Attacking) * positionShotBias(p.Position)
	}, src)
}

// PickAssist selects a provider by passing x vision among teammates of
// the scorer, with a fixed chance of no assist. Returns nil when the
// goal is unassisted.
func PickAssist(fielded []*Player, scorerID int, src Source) *Player {
	if src.Float64() < noAssistChance {
		return nil
	}
	pool := make([]*Player, 0, len(fielded))
	for _, p := range fielded {
		if p.ID != scorerID {
			pool = append(pool, p)
		}
	}
	if len(pool) == 0 {
		return nil
	}
	return WeightedPick(pool, func(p *Player) float64 {
		w := float64(p.Attr.Passing * p.Attr.Vision)
		if RoleOf(p.Position) == RoleKeeper {
			w *= 0.05
		}
		return w
	}, src)
}
