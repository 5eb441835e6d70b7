package sim

// TeamPowers are condition-scaled scalar strengths over the active XI.
type TeamPowers struct {
	Attack    float64
	Defense   float64
	Passing   float64
	Technique float64
	Stamina   float64
	Keeping   float64
}

// minPower is the floor returned when a side has nobody left on the
// pitch. Non-zero so downstream ratios stay finite.
const minPower = 1.0

// ComputePowers aggregates a side's strengths. Each fielded player
// contributes scaled by condition/100, so a tired XI is measurably
// weaker. An empty XI yields the minimal floor rather than a divide by
// zero.
func ComputePowers(squad map[int]*Player, lineup *Lineup, condition map[int]float64) TeamPowers {
	var pw TeamPowers
	n := 0
	for _, slot := range lineup.Slots {
		if !slot.Occupied {
			continue
		}
		p, ok := squad[slot.PlayerID]
		if !ok {
			continue
		}
		cond := 100.0
		if c, ok := condition[p.ID]; ok {
			cond = c
		}
		scale := cond / 100.0
		pw.Attack += float64(p.Attr.Attacking+p.Attr.Finishing) / 2 * scale
		pw.Defense += float64(p.Attr.Defending+p.Attr.Positioning) / 2 * scale
		pw.Passing += float64(p.Attr.Passing+p.Attr.Vision) / 2 * scale
		pw.Technique += float64(p.Attr.Technique) * scale
		pw.Stamina += float64(p.Attr.Stamina) * scale
		n++
	}
	if n == 0 {
		return TeamPowers{Attack: minPower, Defense: minPower, Passing: minPower, Technique: minPower, Stamina: minPower, Keeping: minPower}
	}
	inv := 1.0 / float64(n)
	pw.Attack *= inv
	pw.Defense *= inv
	pw.Passing *= inv
	pw.Technique *= inv
	pw.Stamina *= inv

	// Slot 0 holds whoever is in goal. An outfielder between the posts
	// keeps their own (poor) goalkeeping value, which is the penalty.
	pw.Keeping = minPower
	if gk := lineup.Slots[0]; gk.Occupied {
		if p, ok := squad[gk.PlayerID]; ok {
			cond := 100.0
			if c, ok := condition[p.ID]; ok {
				cond = c
			}
			pw.Keeping = float64(p.Attr.Goalkeeping) * cond / 100.0
			if pw.Keeping < minPower {
				pw.Keeping = minPower
			}
		}
	}
	return pw
}

// keeperFor returns the player occupying the goalkeeper slot, or nil
// when the slot is vacant (keeper sent off with no replacement).
func keeperFor(squad map[int]*Player, lineup *Lineup) *Player {
	if s := lineup.Slots[0]; s.Occupied {
		return squad[s.PlayerID]
	}
	return nil
}

// bestDefenders returns up to two highest-defending fielded outfielders.
func bestDefenders(squad map[int]*Player, lineup *Lineup) []*Player {
	var first, second *Player
	for i, slot := range lineup.Slots {
		if i == 0 || !slot.Occupied {
			continue
		}
		p, ok := squad[slot.PlayerID]
		if !ok {
			continue
		}
		switch {
		case first == nil || p.Attr.Defending > first.Attr.Defending:
			second = first
			first = p
		case second == nil || p.Attr.Defending > second.Attr.Defending:
			second = p
		}
	}
	out := make([]*Player, 0, 2)
	if first != nil {
		out = append(out, first)
	}
	if second != nil {
		out = append(out, second)
	}
	return out
}

// fieldedPlayers resolves the active XI to player records, skipping
// vacant slots and unknown ids.
func fieldedPlayers(squad map[int]*Player, lineup *Lineup) []*Player {
	out := make([]*Player, 0, 11)
	for _, slot := range lineup.Slots {
		if !slot.Occupied {
			continue
		}
		if p, ok := squad[slot.PlayerID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// WeightedPick selects a player by non-negative weight. A degenerate
// pool (empty weights, all zero) falls back deterministically to the
// first candidate instead of failing.
func WeightedPick(pool []*Player, weight func(*Player) float64, src Source) *Player {
	if len(pool) == 0 {
		return nil
	}
	total := 0.0
	for _, p := range pool {
		w := weight(p)
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return pool[0]
	}
	target := src.Float64() * total
	acc := 0.0
	for _, p := range pool {
		w := weight(p)
		if w <= 0 {
			continue
		}
		acc += w
		if target < acc {
			return p
		}
	}
	return pool[len(pool)-1]
}
