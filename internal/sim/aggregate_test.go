package sim

import "testing"

func indexPlayers(squad []Player) map[int]*Player {
	idx := make(map[int]*Player, len(squad))
	for i := range squad {
		idx[squad[i].ID] = &squad[i]
	}
	return idx
}

func fullCondition(squad []Player) map[int]float64 {
	c := make(map[int]float64, len(squad))
	for _, p := range squad {
		c[p.ID] = 100
	}
	return c
}

func TestComputePowersEmptyLineup(t *testing.T) {
	squad := testSquad(100, 70)
	var empty Lineup
	pw := ComputePowers(indexPlayers(squad), &empty, nil)
	if pw.Attack != minPower || pw.Keeping != minPower {
		t.Fatalf("empty XI should floor at minPower, got %+v", pw)
	}
}

func TestComputePowersConditionScaling(t *testing.T) {
	squad := testSquad(100, 70)
	lineup := testLineup(squad, Tactic442)
	idx := indexPlayers(squad)

	fresh := ComputePowers(idx, &lineup, fullCondition(squad))

	tired := fullCondition(squad)
	for id := range tired {
		tired[id] = 50
	}
	drained := ComputePowers(idx, &lineup, tired)

	if drained.Attack >= fresh.Attack {
		t.Fatalf("tired XI should attack weaker: %v vs %v", drained.Attack, fresh.Attack)
	}
	if drained.Keeping >= fresh.Keeping {
		t.Fatalf("tired keeper should save weaker: %v vs %v", drained.Keeping, fresh.Keeping)
	}
}

func TestOutfielderInGoalPenalized(t *testing.T) {
	squad := testSquad(100, 70)
	lineup := testLineup(squad, Tactic442)
	idx := indexPlayers(squad)
	cond := fullCondition(squad)

	withKeeper := ComputePowers(idx, &lineup, cond)

	// Put the striker between the posts.
	lineup.Slots[0].PlayerID = squad[9].ID
	improvised := ComputePowers(idx, &lineup, cond)

	if improvised.Keeping >= withKeeper.Keeping {
		t.Fatalf("outfielder in goal should keep worse: %v vs %v", improvised.Keeping, withKeeper.Keeping)
	}
}

func TestKeeperForVacantSlot(t *testing.T) {
	squad := testSquad(100, 70)
	lineup := testLineup(squad, Tactic442)
	lineup.Slots[0].Occupied = false
	if got := keeperFor(indexPlayers(squad), &lineup); got != nil {
		t.Fatalf("vacant keeper slot should yield nil, got %v", got.ID)
	}
}

func TestBestDefendersPicksTopTwo(t *testing.T) {
	squad := testSquad(100, 60)
	lineup := testLineup(squad, Tactic442)
	defs := bestDefenders(indexPlayers(squad), &lineup)
	if len(defs) != 2 {
		t.Fatalf("want 2 defenders, got %d", len(defs))
	}
	// Both centre backs carry the +10 defending bump in the fixture.
	for _, d := range defs {
		if d.Position != PosCB {
			t.Errorf("expected a centre back, got %s", d.Position)
		}
	}
}

func TestWeightedPick(t *testing.T) {
	squad := testSquad(100, 60)
	pool := []*Player{&squad[0], &squad[1], &squad[2]}

	t.Run("degenerate weights fall back to first", func(t *testing.T) {
		got := WeightedPick(pool, func(*Player) float64 { return 0 }, &fixedSource{vals: []float64{0.9}})
		if got != pool[0] {
			t.Fatalf("want first candidate, got id %d", got.ID)
		}
	})

	t.Run("high draw selects later candidate", func(t *testing.T) {
		got := WeightedPick(pool, func(*Player) float64 { return 1 }, &fixedSource{vals: []float64{0.99}})
		if got != pool[2] {
			t.Fatalf("want last candidate, got id %d", got.ID)
		}
	})

	t.Run("empty pool yields nil", func(t *testing.T) {
		if got := WeightedPick(nil, func(*Player) float64 { return 1 }, &fixedSource{vals: []float64{0.5}}); got != nil {
			t.Fatal("want nil for empty pool")
		}
	})
}
