package sim

import "testing"

func TestInjuryChanceBandsAndOrdering(t *testing.T) {
	p := testPlayer(1, PosCM, 70)

	foul := InjuryChance(&p, 100, 0, TriggerFoul)
	shot := InjuryChance(&p, 100, 0, TriggerShot)
	accident := InjuryChance(&p, 100, 0, TriggerAccident)

	if !(foul > shot && shot > accident) {
		t.Fatalf("trigger ordering broken: foul=%v shot=%v accident=%v", foul, shot, accident)
	}
	for _, v := range []float64{foul, shot, accident} {
		if v < injuryChanceMin || v > injuryChanceMax {
			t.Fatalf("chance %v outside band", v)
		}
	}
}

func TestInjuryChanceRisesWithWear(t *testing.T) {
	p := testPlayer(1, PosCM, 70)
	fresh := InjuryChance(&p, 100, 0, TriggerFoul)
	worn := InjuryChance(&p, 40, 60, TriggerFoul)
	if worn <= fresh {
		t.Fatalf("drained player should be at higher risk: %v vs %v", worn, fresh)
	}
}

func TestRollSeverityBand(t *testing.T) {
	severe := 0
	const n = 5000
	for i := 0; i < n; i++ {
		if RollSeverity(0, At(int64(i), KindInjury, 1)) == InjurySevere {
			severe++
		}
	}
	frac := float64(severe) / n
	// severeBase is 0.18; allow sampling slack.
	if frac < 0.14 || frac > 0.23 {
		t.Fatalf("severe fraction %v far from base", frac)
	}
}

func TestRecoveryDaysRanges(t *testing.T) {
	for i := 0; i < 200; i++ {
		src := At(int64(i), KindInjury, 2)
		if d := recoveryDays(InjuryLight, src); d < 2 || d > 7 {
			t.Fatalf("light recovery %d outside 2-7", d)
		}
		if d := recoveryDays(InjurySevere, src); d < 15 || d > 60 {
			t.Fatalf("severe recovery %d outside 15-60", d)
		}
	}
}

func TestUpgradeChance(t *testing.T) {
	t.Run("band", func(t *testing.T) {
		for _, minutes := range []int{0, 10, 90} {
			p := UpgradeChance(100, 0, minutes)
			if p < upgradeMin || p > upgradeMax {
				t.Fatalf("UpgradeChance outside band: %v", p)
			}
		}
	})

	t.Run("worn player escalates at least twice as fast", func(t *testing.T) {
		// Same knock age on both sides, across the whole span a light
		// injury can survive on the pitch.
		for _, minutes := range []int{1, 5, 30, 60, 90, 120} {
			fresh := UpgradeChance(95, 0, minutes)
			worn := UpgradeChance(15, 45, minutes)
			if worn < 2*fresh {
				t.Fatalf("t=%d: worn=%v fresh=%v, want >= 2x", minutes, worn, fresh)
			}
		}
	})

	t.Run("monotone in time since knock", func(t *testing.T) {
		if UpgradeChance(60, 20, 20) < UpgradeChance(60, 20, 1) {
			t.Fatal("older knocks should be at least as risky")
		}
	})
}
