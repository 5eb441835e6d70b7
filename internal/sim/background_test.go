package sim

import (
	"context"
	"encoding/json"
	"testing"
)

var _ Simulator = (*BackgroundEngine)(nil)

func TestBackgroundDeterministic(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		a, err := NewBackgroundEngine(testMatchConfig(seed)).Simulate(context.Background())
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		b, err := NewBackgroundEngine(testMatchConfig(seed)).Simulate(context.Background())
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		aj, _ := json.Marshal(a)
		bj, _ := json.Marshal(b)
		if string(aj) != string(bj) {
			t.Fatalf("seed %d: two runs diverged", seed)
		}
	}
}

func TestBackgroundCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewBackgroundEngine(testMatchConfig(1)).Simulate(ctx); err == nil {
		t.Fatal("want error for canceled context")
	}
}

func TestBackgroundContract(t *testing.T) {
	cfg := testMatchConfig(0)
	homeIDs := make(map[int]bool)
	awayIDs := make(map[int]bool)
	for _, p := range cfg.HomeSquad {
		homeIDs[p.ID] = true
	}
	for _, p := range cfg.AwaySquad {
		awayIDs[p.ID] = true
	}

	for seed := int64(0); seed < 40; seed++ {
		res, err := NewBackgroundEngine(testMatchConfig(seed)).Simulate(context.Background())
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if got := countScorers(res.Scorers, Home); got != res.HomeScore {
			t.Fatalf("seed %d: %d home scorers for score %d", seed, got, res.HomeScore)
		}
		if got := countScorers(res.Scorers, Away); got != res.AwayScore {
			t.Fatalf("seed %d: %d away scorers for score %d", seed, got, res.AwayScore)
		}
		for _, sc := range res.Scorers {
			belongs := homeIDs
			if sc.Side == Away {
				belongs = awayIDs
			}
			if !belongs[sc.PlayerID] {
				t.Fatalf("seed %d: scorer %d not in %v squad", seed, sc.PlayerID, sc.Side)
			}
			if sc.Minute < 1 || sc.Minute > extraSecondEnd {
				t.Fatalf("seed %d: goal at minute %d", seed, sc.Minute)
			}
		}
		checkCardLedger(t, seed, res.Cards)
		for id, delta := range res.ConditionDelta {
			if delta >= 0 {
				t.Fatalf("seed %d: player %d gained condition: %v", seed, id, delta)
			}
		}
	}
}

// The stronger home side should win clearly more often than it loses
// across a population of seeds.
func TestBackgroundHomeAdvantage(t *testing.T) {
	homeWins, awayWins := 0, 0
	for seed := int64(0); seed < 200; seed++ {
		res, err := NewBackgroundEngine(testMatchConfig(seed)).Simulate(context.Background())
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		switch w, ok := res.Winner(); {
		case ok && w == Home:
			homeWins++
		case ok && w == Away:
			awayWins++
		}
	}
	if homeWins <= awayWins {
		t.Fatalf("home %d wins vs away %d, want a clear home edge", homeWins, awayWins)
	}
}

func TestBackgroundGoalRatePlausible(t *testing.T) {
	total := 0
	const n = 200
	for seed := int64(0); seed < n; seed++ {
		res, err := NewBackgroundEngine(testMatchConfig(seed)).Simulate(context.Background())
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		total += res.HomeScore + res.AwayScore
	}
	mean := float64(total) / n
	// Extra time in drawn knockouts is off here, so regulation only.
	if mean < 1.2 || mean > 4.5 {
		t.Fatalf("mean goals per match %.2f implausible", mean)
	}
}

func TestBackgroundKnockoutAlwaysDecided(t *testing.T) {
	sawShootout := false
	for seed := int64(0); seed < 60; seed++ {
		cfg := testMatchConfig(seed)
		cfg.Knockout = true
		res, err := NewBackgroundEngine(cfg).Simulate(context.Background())
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		w, ok := res.Winner()
		if !ok {
			t.Fatalf("seed %d: undecided knockout %d-%d", seed, res.HomeScore, res.AwayScore)
		}
		if res.Shootout != nil {
			sawShootout = true
			if res.Shootout.Winner != w {
				t.Fatalf("seed %d: result winner %v disagrees with shootout %v", seed, w, res.Shootout.Winner)
			}
			if res.HomeScore != res.AwayScore {
				t.Fatalf("seed %d: shootout after a decided match", seed)
			}
		}
	}
	if !sawShootout {
		t.Fatal("sixty knockout seeds never went to penalties")
	}
}

func TestBackgroundLightInjuryEscalates(t *testing.T) {
	cfg := testMatchConfig(1)
	squad := cfg.indexSquad()
	victim := cfg.HomeSquad[6] // fielded midfielder

	t.Run("winning draw upgrades and forces the change", func(t *testing.T) {
		s := NewMatchState(&cfg)
		s.Teams[Home].Injuries[victim.ID] = activeInjury{Minute: 10, Severity: InjuryLight}

		// First draw beats any escalation chance, second sets the layoff.
		backgroundUpgradeInjuries(s, squad, 20, &fixedSource{vals: []float64{0.0, 0.5}})

		if len(s.Injuries) != 1 || s.Injuries[0].Severity != InjurySevere {
			t.Fatalf("light knock did not escalate: %+v", s.Injuries)
		}
		if _, still := s.Teams[Home].Injuries[victim.ID]; still {
			t.Fatal("escalated player still carries a light injury")
		}
		if s.Teams[Home].SubsUsed != 1 {
			t.Fatalf("expected a forced substitution, used=%d", s.Teams[Home].SubsUsed)
		}
	})

	t.Run("losing draw leaves the knock alone", func(t *testing.T) {
		s := NewMatchState(&cfg)
		s.Teams[Home].Injuries[victim.ID] = activeInjury{Minute: 10, Severity: InjuryLight}

		backgroundUpgradeInjuries(s, squad, 20, &fixedSource{vals: []float64{0.99}})

		if len(s.Injuries) != 0 {
			t.Fatalf("knock escalated on a losing draw: %+v", s.Injuries)
		}
		if _, still := s.Teams[Home].Injuries[victim.ID]; !still {
			t.Fatal("light injury vanished without escalating")
		}
	})
}
