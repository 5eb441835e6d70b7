package sim

import "testing"

func TestBumpMomentumBounded(t *testing.T) {
	m := 0.0
	for i := 0; i < 20; i++ {
		m = bumpMomentum(m, Home, momentumGoal)
	}
	if m > momentumMax {
		t.Fatalf("momentum exceeded bound: %v", m)
	}
	for i := 0; i < 50; i++ {
		m = bumpMomentum(m, Away, momentumGoal)
	}
	if m < -momentumMax {
		t.Fatalf("momentum exceeded negative bound: %v", m)
	}
}

func TestDecayMomentumConverges(t *testing.T) {
	m := 80.0
	for i := 0; i < 500; i++ {
		m = decayMomentum(m)
	}
	if m != 0 {
		t.Fatalf("momentum should settle at zero, got %v", m)
	}
	// Symmetric from below.
	m = -80.0
	for i := 0; i < 500; i++ {
		m = decayMomentum(m)
	}
	if m != 0 {
		t.Fatalf("negative momentum should settle at zero, got %v", m)
	}
}

func TestTurnProbabilityHome(t *testing.T) {
	t.Run("home advantage at parity", func(t *testing.T) {
		if p := turnProbabilityHome(0, 60, 60); p <= 0.5 {
			t.Fatalf("want home edge, got %v", p)
		}
	})

	t.Run("momentum shifts the split", func(t *testing.T) {
		up := turnProbabilityHome(80, 60, 60)
		down := turnProbabilityHome(-80, 60, 60)
		if up <= down {
			t.Fatalf("momentum had no effect: %v vs %v", up, down)
		}
	})

	t.Run("clamped", func(t *testing.T) {
		if p := turnProbabilityHome(100, 500, 1); p > 0.80 {
			t.Fatalf("upper clamp violated: %v", p)
		}
		if p := turnProbabilityHome(-100, 1, 500); p < 0.20 {
			t.Fatalf("lower clamp violated: %v", p)
		}
	})
}

func TestPressureOn(t *testing.T) {
	// Momentum with Home means Away is under pressure.
	if pressureOn(60, Away) <= 1.0 {
		t.Fatal("side against momentum should feel pressure")
	}
	if pressureOn(60, Home) != 1.0 {
		t.Fatal("side riding momentum should feel none")
	}
}
