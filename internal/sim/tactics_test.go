package sim

import "testing"

func TestClashMultiplierBand(t *testing.T) {
	for mine := TacticID(0); mine < tacticCount; mine++ {
		for theirs := TacticID(0); theirs < tacticCount; theirs++ {
			for i := 0; i < 20; i++ {
				m := ClashMultiplier(mine, theirs, At(int64(i), KindClash, 5))
				if m < clashMultMin || m > clashMultMax {
					t.Fatalf("ClashMultiplier(%v,%v) = %v outside band", mine, theirs, m)
				}
			}
		}
	}
}

func TestClashMultiplierUnknownTactic(t *testing.T) {
	if got := ClashMultiplier(TacticID(99), Tactic442, &fixedSource{vals: []float64{0.5}}); got != 1.0 {
		t.Fatalf("unknown tactic should be neutral, got %v", got)
	}
}

func TestParseTactic(t *testing.T) {
	if ParseTactic("4-3-3") != Tactic433 {
		t.Fatal("failed to parse 4-3-3")
	}
	if ParseTactic("gegenpress-9000") != Tactic442 {
		t.Fatal("unknown tactic should fall back to 4-4-2")
	}
}

// Rule precedence is load-bearing: a fresh event outranks momentum,
// momentum outranks the scoreline, and only a quiet context normalizes.
func TestEvaluateShoutsPrecedence(t *testing.T) {
	tests := []struct {
		name string
		ctx  shoutContext
		want string
	}{
		{
			name: "conceding beats momentum",
			ctx:  shoutContext{minute: 30, concededAt: 29, scoredAt: -1, momentumFor: 90},
			want: "push for response",
		},
		{
			name: "scoring beats bad momentum",
			ctx:  shoutContext{minute: 30, concededAt: -1, scoredAt: 28, momentumFor: -90},
			want: "keep the ball",
		},
		{
			name: "momentum beats scoreline",
			ctx:  shoutContext{minute: 70, concededAt: -1, scoredAt: -1, momentumFor: 60, scoreFor: 0, scoreAgainst: 2},
			want: "go for the throat",
		},
		{
			name: "storm survival",
			ctx:  shoutContext{minute: 50, concededAt: -1, scoredAt: -1, momentumFor: -60},
			want: "stay compact",
		},
		{
			name: "chasing late",
			ctx:  shoutContext{minute: 70, concededAt: -1, scoredAt: -1, scoreFor: 0, scoreAgainst: 2},
			want: "all-out attack",
		},
		{
			name: "protecting late",
			ctx:  shoutContext{minute: 80, concededAt: -1, scoredAt: -1, scoreFor: 3, scoreAgainst: 0},
			want: "shut up shop",
		},
		{
			name: "quiet context normalizes",
			ctx:  shoutContext{minute: 40, concededAt: -1, scoredAt: -1},
			want: "normalize",
		},
		{
			name: "stale events expire",
			ctx:  shoutContext{minute: 40, concededAt: 10, scoredAt: 12},
			want: "normalize",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateShouts(tt.ctx)
			if got.Name != tt.want {
				t.Fatalf("shout = %q, want %q", got.Name, tt.want)
			}
			if got.Expires <= tt.ctx.minute {
				t.Fatalf("shout expires at %d, not after minute %d", got.Expires, tt.ctx.minute)
			}
		})
	}
}

func TestPostureFactors(t *testing.T) {
	fast := Instruction{Mindset: "attacking", Tempo: "fast", Intensity: "high"}
	slow := Instruction{Mindset: "defensive", Tempo: "slow", Intensity: "low"}

	if tempoEventFactor(fast) <= tempoEventFactor(NeutralInstruction) {
		t.Fatal("fast posture should raise event rate")
	}
	if tempoEventFactor(slow) >= tempoEventFactor(NeutralInstruction) {
		t.Fatal("slow posture should lower event rate")
	}
	if intensityFoulFactor(fast) <= intensityFoulFactor(slow) {
		t.Fatal("high intensity should foul more")
	}
}

func TestSubWindowChance(t *testing.T) {
	coach := Coach{DecisionMaking: 75}

	if subWindowChance(30, coach) != 0 {
		t.Fatal("no substitutions considered before the windows open")
	}
	if subWindowChance(46, coach) <= 0 {
		t.Fatal("half-time window should be live")
	}
	if subWindowChance(46, coach) <= subWindowChance(60, coach) {
		t.Fatal("half-time window should be the most likely")
	}
}

func TestPickSubstitutionTarget(t *testing.T) {
	squad := testSquad(100, 65)
	lineup := testLineup(squad, Tactic442)
	idx := indexPlayers(squad)
	cond := fullCondition(squad)

	t.Run("nobody tired, nobody injured", func(t *testing.T) {
		if got := pickSubstitutionTarget(idx, &lineup, cond, nil); got != -1 {
			t.Fatalf("want -1, got %d", got)
		}
	})

	t.Run("injured starter first", func(t *testing.T) {
		injured := map[int]activeInjury{squad[7].ID: {Minute: 30}}
		if got := pickSubstitutionTarget(idx, &lineup, cond, injured); got != 7 {
			t.Fatalf("want slot 7, got %d", got)
		}
	})

	t.Run("most drained outfielder", func(t *testing.T) {
		cond[squad[6].ID] = 40
		cond[squad[8].ID] = 30
		if got := pickSubstitutionTarget(idx, &lineup, cond, nil); got != 8 {
			t.Fatalf("want slot 8, got %d", got)
		}
	})

	t.Run("keeper never picked on fatigue", func(t *testing.T) {
		c := fullCondition(squad)
		c[squad[0].ID] = 10
		if got := pickSubstitutionTarget(idx, &lineup, c, nil); got != -1 {
			t.Fatalf("keeper slot picked: %d", got)
		}
	})
}

func TestPickReplacement(t *testing.T) {
	squad := testSquad(100, 65)
	lineup := testLineup(squad, Tactic442)
	idx := indexPlayers(squad)

	t.Run("prefers matching role", func(t *testing.T) {
		got := pickReplacement(idx, lineup.Bench, RoleForward, nil)
		if got == nil || RoleOf(got.Position) != RoleForward {
			t.Fatalf("want a forward, got %+v", got)
		}
	})

	t.Run("skips used players", func(t *testing.T) {
		used := make(map[int]bool)
		for _, id := range lineup.Bench {
			used[id] = true
		}
		if got := pickReplacement(idx, lineup.Bench, RoleForward, used); got != nil {
			t.Fatalf("exhausted bench should yield nil, got %d", got.ID)
		}
	})
}
