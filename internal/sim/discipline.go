package sim

// Discipline: foul -> {none, yellow, red} classified by referee
// strictness, the offender's fatigue and technique. The caller handles
// second-yellow promotion; this model only grades a single foul.

const (
	yellowMin = 0.05
	yellowMax = 0.60
	redMin    = 0.005
	redMax    = 0.12
)

// FoulVerdict is the outcome of classifying one foul.
type FoulVerdict int

const (
	FoulNoCard FoulVerdict = iota
	FoulYellow
	FoulRed
)

// ClassifyFoul grades a foul committed by the offender. Tired and
// technically poor players get carded more; strict referees card more;
// inconsistent referees add spread around their own baseline.
func ClassifyFoul(ref Referee, offender *Player, cond float64, src Source) FoulVerdict {
	fatigue := (100 - cond) / 100.0 // 0 fresh .. 1 exhausted
	clumsiness := float64(100-offender.Attr.Technique) / 100.0

	yellowP := 0.22 + 0.20*float64(ref.Strictness)/100.0 + 0.10*fatigue + 0.08*clumsiness
	// Low consistency widens the call: the same foul draws anything
	// from a lecture to a card.
	spread := (1 - float64(ref.Consistency)/100.0) * 0.10
	yellowP += (src.Float64()*2 - 1) * spread
	yellowP = Clamp(yellowP, yellowMin, yellowMax)

	redP := 0.02 + 0.05*float64(ref.Strictness)/100.0 + 0.03*fatigue
	redP = Clamp(redP, redMin, redMax)

	roll := src.Float64()
	switch {
	case roll < redP:
		return FoulRed
	case roll < redP+yellowP:
		return FoulYellow
	default:
		return FoulNoCard
	}
}

// foulWeight picks who commits a foul: defenders and tired players
// foul more.
func foulWeight(p *Player, cond float64) float64 {
	w := float64(100-p.Attr.Technique) + float64(p.Attr.Strength)/2
	switch RoleOf(p.Position) {
	case RoleDefender:
		w *= 1.5
	case RoleMidfield:
		w *= 1.2
	case RoleKeeper:
		w *= 0.15
	}
	w *= 1 + (100-cond)/200
	return w
}

// penaltyAwardChance is the probability a foul is in the box and given
// as a penalty. Referees with low advantage tendency whistle more.
func penaltyAwardChance(ref Referee) float64 {
	p := 0.07 + 0.04*(1-float64(ref.AdvantageTendency)/100.0)
	return Clamp(p, 0.03, 0.12)
}
