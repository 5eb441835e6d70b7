package sim

// Shared fixtures for the sim package tests.

var testPositions = []string{
	PosGK, PosRB, PosCB, PosCB, PosLB,
	PosCDM, PosCM, PosCM,
	PosRW, PosST, PosLW,
	// bench
	PosGK, PosCB, PosCM, PosCDM, PosRW, PosST, PosLB,
}

func testPlayer(id int, pos string, quality int) Player {
	attr := Attributes{
		Attacking: quality, Defending: quality, Passing: quality,
		Finishing: quality, Technique: quality, Vision: quality,
		Dribbling: quality, Heading: quality, Positioning: quality,
		Goalkeeping: 8, Pace: quality, Strength: quality, Stamina: quality,
	}
	if pos == PosGK {
		attr.Goalkeeping = quality + 10
		attr.Finishing = 8
		attr.Attacking = 10
	}
	if pos == PosST {
		attr.Finishing = quality + 12
		attr.Attacking = quality + 10
	}
	if pos == PosCB {
		attr.Defending = quality + 10
		attr.Heading = quality + 8
	}
	return Player{
		ID:        id,
		Name:      "P" + string(rune('A'+id%26)),
		Position:  pos,
		Attr:      attr,
		Condition: 100,
	}
}

// testSquad builds an 18-player squad with ids baseID..baseID+17.
func testSquad(baseID, quality int) []Player {
	out := make([]Player, 0, len(testPositions))
	for i, pos := range testPositions {
		out = append(out, testPlayer(baseID+i, pos, quality))
	}
	return out
}

func testLineup(squad []Player, tactic TacticID) Lineup {
	l := Lineup{Tactic: tactic}
	for i := 0; i < 11; i++ {
		l.Slots[i] = Slot{PlayerID: squad[i].ID, Role: RoleOf(squad[i].Position), Occupied: true}
	}
	for _, p := range squad[11:] {
		l.Bench = append(l.Bench, p.ID)
	}
	return l
}

func testMatchConfig(seed int64) MatchConfig {
	home := testSquad(100, 66)
	away := testSquad(200, 62)
	return MatchConfig{
		HomeSquad:  home,
		AwaySquad:  away,
		HomeLineup: testLineup(home, Tactic433),
		AwayLineup: testLineup(away, Tactic442),
		HomeCoach:  Coach{Name: "HC", Experience: 70, DecisionMaking: 70, Motivation: 70},
		AwayCoach:  Coach{Name: "AC", Experience: 65, DecisionMaking: 65, Motivation: 65},
		HomeName:   "Home Town",
		AwayName:   "Away City",
		Referee:    Referee{Name: "Ref", Strictness: 50, Consistency: 70, AdvantageTendency: 60},
		Weather:    Weather{TemperatureC: 15},
		Seed:       seed,
	}
}

// fixedSource replays a fixed sequence of draw values.
type fixedSource struct {
	vals []float64
	i    int
}

func (f *fixedSource) Float64() float64 {
	v := f.vals[f.i%len(f.vals)]
	f.i++
	return v
}
