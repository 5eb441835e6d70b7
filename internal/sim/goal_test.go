package sim

import "testing"

func TestGoalChanceBands(t *testing.T) {
	tests := []struct {
		name   string
		attack float64
		save   float64
		kind   ShotKind
		lo, hi float64
	}{
		{"open play dominant attack", 500, 0, ShotOpenPlay, openPlayMin, openPlayMax},
		{"open play dominant defense", 0, 500, ShotOpenPlay, openPlayMin, openPlayMax},
		{"header", 80, 40, ShotHeader, headerMin, headerMax},
		{"penalty weak taker", 0, 500, ShotPenalty, penaltyMin, penaltyMax},
		{"penalty strong taker", 500, 0, ShotPenalty, penaltyMin, penaltyMax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := GoalChance(tt.attack, tt.save, tt.kind)
			if p < tt.lo || p > tt.hi {
				t.Fatalf("GoalChance = %v outside [%v,%v]", p, tt.lo, tt.hi)
			}
		})
	}
}

func TestGoalChancePenaltyAlwaysLikely(t *testing.T) {
	// Even the worst taker against the best keeper converts most pens.
	if p := GoalChance(1, 99, ShotPenalty); p < 0.88 {
		t.Fatalf("penalty floor violated: %v", p)
	}
}

func TestShotAttackPowerWeather(t *testing.T) {
	st := testPlayer(1, PosST, 75)
	dry := shotAttackPower(&st, 100, ShotOpenPlay, Weather{})
	wet := shotAttackPower(&st, 100, ShotOpenPlay, Weather{Raining: true, RainIntensity: 1})
	if wet >= dry {
		t.Fatalf("rain should blunt finishing: %v vs %v", wet, dry)
	}
}

func TestShotSavePowerVacantKeeper(t *testing.T) {
	cb := testPlayer(2, PosCB, 75)
	withDef := shotSavePower(nil, []*Player{&cb}, map[int]float64{2: 100}, ShotOpenPlay)
	if withDef <= 0 {
		t.Fatal("defenders alone should still contribute save power")
	}
	// Penalties bypass defenders entirely.
	if got := shotSavePower(nil, []*Player{&cb}, map[int]float64{2: 100}, ShotPenalty); got != 0 {
		t.Fatalf("vacant keeper on a penalty should save nothing, got %v", got)
	}
}

func TestPickScorerFavorsForwards(t *testing.T) {
	squad := testSquad(100, 65)
	lineup := testLineup(squad, Tactic433)
	fielded := fieldedPlayers(indexPlayers(squad), &lineup)

	striker, keeper := 0, 0
	for i := 0; i < 500; i++ {
		p := PickScorer(fielded, At(int64(i), KindScorer, 10))
		switch p.Position {
		case PosST:
			striker++
		case PosGK:
			keeper++
		}
	}
	if striker < 50 {
		t.Fatalf("striker picked only %d/500 times", striker)
	}
	if keeper > 5 {
		t.Fatalf("keeper picked %d/500 times, bias too weak", keeper)
	}
}

func TestPickAssist(t *testing.T) {
	squad := testSquad(100, 65)
	lineup := testLineup(squad, Tactic433)
	fielded := fieldedPlayers(indexPlayers(squad), &lineup)
	scorer := fielded[9]

	t.Run("no assist on low draw", func(t *testing.T) {
		if got := PickAssist(fielded, scorer.ID, &fixedSource{vals: []float64{0.1, 0.5}}); got != nil {
			t.Fatalf("want unassisted goal, got %d", got.ID)
		}
	})

	t.Run("assist never the scorer", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			got := PickAssist(fielded, scorer.ID, At(int64(i), KindAssist, 20))
			if got != nil && got.ID == scorer.ID {
				t.Fatal("scorer assisted their own goal")
			}
		}
	})

	t.Run("lone scorer has no assist", func(t *testing.T) {
		if got := PickAssist([]*Player{scorer}, scorer.ID, &fixedSource{vals: []float64{0.9}}); got != nil {
			t.Fatal("want nil with nobody else fielded")
		}
	})
}
