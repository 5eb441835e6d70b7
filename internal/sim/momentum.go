package sim

// Momentum is a single bounded scalar: positive favors Home, negative
// Away. Events bump it, quiet minutes decay it toward neutral, and it
// biases both the attacking-turn split and fatigue pressure.

const (
	momentumMax = 100.0

	momentumGoal     = 28.0
	momentumConceded = -18.0
	momentumRedCard  = 22.0 // credited to the opponent
	momentumShot     = 6.0
	momentumPenalty  = 14.0

	momentumDecayRate = 0.045
	momentumDecayFlat = 0.4

	homeAdvantage = 0.06
	turnBiasScale = 0.0012
)

// bumpMomentum applies an event swing in favor of the given side.
func bumpMomentum(m float64, side Side, amount float64) float64 {
	if side == Away {
		amount = -amount
	}
	return Clamp(m+amount, -momentumMax, momentumMax)
}

// decayMomentum pulls the scalar toward neutral each quiet minute.
func decayMomentum(m float64) float64 {
	m *= 1 - momentumDecayRate
	switch {
	case m > momentumDecayFlat:
		m -= momentumDecayFlat
	case m < -momentumDecayFlat:
		m += momentumDecayFlat
	default:
		m = 0
	}
	return m
}

// turnProbabilityHome is the chance the next attacking action belongs
// to the home side, from home advantage, the power gap and momentum.
func turnProbabilityHome(m float64, homeAttack, awayAttack float64) float64 {
	p := 0.5 + homeAdvantage
	p += m * turnBiasScale
	total := homeAttack + awayAttack
	if total > 0 {
		p += (homeAttack - awayAttack) / total * 0.15
	}
	return Clamp(p, 0.20, 0.80)
}

// pressureOn returns the fatigue-pressure multiplier a side suffers.
// The side on the wrong end of momentum chases the game and drains
// faster.
func pressureOn(m float64, side Side) float64 {
	against := m
	if side == Home {
		against = -m
	}
	if against <= 0 {
		return 1.0
	}
	return 1 + against*0.003
}
