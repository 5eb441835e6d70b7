package sim

// Fatigue keeps two independent quantities per player: condition
// (0-100, drains during the match, regenerates at half-time and between
// matches) and fatigue debt (0-100, accrues across matches and caps how
// high condition can regenerate).

const (
	baseDrainPerMinute = 0.60
	keeperDrainFactor  = 0.25
	drainJitter        = 0.10 // +/-10% per-player per-minute

	halfTimeRegenBase = 9.0
)

// DrainPerMinute computes one minute of condition loss for a fielded
// player. pressure > 1 models chasing the game on the wrong end of
// momentum; weather and low stamina both raise the cost.
func DrainPerMinute(p *Player, wx Weather, pressure float64, src Source) float64 {
	drain := baseDrainPerMinute
	if RoleOf(p.Position) == RoleKeeper {
		drain *= keeperDrainFactor
	}
	// High-stamina players shed less per minute.
	drain *= 1.35 - float64(p.Attr.Stamina)/160.0
	// Quick, aggressive profiles burn more.
	drain *= 1 + float64(p.Attr.Pace)/500.0

	if wx.TemperatureC > 26 {
		drain *= 1 + (wx.TemperatureC-26)/60.0
	}
	if wx.TemperatureC < 2 {
		drain *= 1.05
	}
	if wx.Raining {
		drain *= 1 + 0.08*wx.RainIntensity
	}

	drain *= pressure
	drain *= 1 + (src.Float64()*2-1)*drainJitter
	if drain < 0.02 {
		drain = 0.02
	}
	return drain
}

// HalfTimeRegen returns the condition a player recovers during the
// break, weighted by stamina and strength and capped so condition can
// never exceed 100 - fatigueDebt.
func HalfTimeRegen(p *Player, cond, debt float64) float64 {
	regen := halfTimeRegenBase + float64(p.Attr.Stamina+p.Attr.Strength)/25.0
	ceiling := 100 - debt
	if cond+regen > ceiling {
		regen = ceiling - cond
	}
	if regen < 0 {
		regen = 0
	}
	return regen
}

// AccrueDebt computes the cross-match fatigue-debt delta for a player
// who spent the given minutes on the pitch. High stamina flattens the
// accrual; the result is clamped so total debt stays within 0-100.
func AccrueDebt(p *Player, minutesPlayed int, currentDebt float64) float64 {
	if minutesPlayed <= 0 {
		return 0
	}
	perMatch := 9.0 - float64(p.Attr.Stamina)*0.06
	if perMatch < 1.0 {
		perMatch = 1.0
	}
	delta := perMatch * float64(minutesPlayed) / 90.0
	if currentDebt+delta > 100 {
		delta = 100 - currentDebt
	}
	if delta < 0 {
		delta = 0
	}
	return delta
}
