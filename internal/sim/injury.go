package sim

// Injury generation and the light-to-severe upgrade model. Injuries
// trigger off fouls (against the fouled side), off shots (shooting
// side), or as rare per-minute accidents. Fatigue debt and a drained
// condition raise the odds, stamina mitigates them.

const (
	injuryFromFoulBase = 0.070
	injuryFromShotBase = 0.018
	accidentBase       = 0.0025

	injuryChanceMin = 0.001
	injuryChanceMax = 0.25

	severeBase = 0.18
	severeMin  = 0.15
	severeMax  = 0.22

	upgradeMin = 0.001
	upgradeMax = 0.040
)

// InjuryTrigger names what caused an injury roll.
type InjuryTrigger int

const (
	TriggerFoul InjuryTrigger = iota
	TriggerShot
	TriggerAccident
)

var injuryLabels = []string{
	"hamstring strain",
	"ankle knock",
	"groin strain",
	"bruised ribs",
	"calf tightness",
	"knee ligament damage",
	"dead leg",
	"twisted ankle",
}

// InjuryChance returns the bounded per-event probability that a player
// picks up a knock.
func InjuryChance(p *Player, cond, debt float64, trigger InjuryTrigger) float64 {
	var base float64
	switch trigger {
	case TriggerFoul:
		base = injuryFromFoulBase
	case TriggerShot:
		base = injuryFromShotBase
	default:
		base = accidentBase
	}
	risk := base
	risk *= 1 + (100-cond)/120 // drained players break
	risk *= 1 + debt/150       // carried fatigue debt
	risk *= 1 - float64(p.Attr.Stamina)/400
	return Clamp(risk, injuryChanceMin, injuryChanceMax)
}

// injuryVictimWeight biases victim selection: outfield runners over
// the keeper, the fragile over the robust.
func injuryVictimWeight(p *Player, cond, debt float64) float64 {
	w := 1.0
	switch RoleOf(p.Position) {
	case RoleKeeper:
		w = 0.2
	case RoleForward, RoleMidfield:
		w = 1.2
	}
	w *= 1 + (100-cond)/150
	w *= 1 + debt/200
	return w
}

// RollSeverity draws light vs severe. The severe fraction converges to
// severeBase over many rolls; fatigue debt nudges it inside the band.
func RollSeverity(debt float64, src Source) Severity {
	p := Clamp(severeBase+debt/1500, severeMin, severeMax)
	if src.Float64() < p {
		return InjurySevere
	}
	return InjuryLight
}

// recoveryDays estimates the layoff. Light knocks heal in days, severe
// ones in weeks.
func recoveryDays(sev Severity, src Source) int {
	if sev == InjurySevere {
		return 15 + int(src.Float64()*45)
	}
	return 2 + int(src.Float64()*5)
}

func injuryLabel(src Source) string {
	return injuryLabels[int(src.Float64()*float64(len(injuryLabels)))%len(injuryLabels)]
}

// UpgradeChance is the per-minute probability that a light injury
// still on the pitch escalates to severe. Rises with a drained
// condition, carried debt and time since the knock; clamped to a
// narrow band so escalation never runs away. Wear terms dominate the
// time term, so a worn player stays at a clear multiple of a fresh one
// however old the knock gets.
func UpgradeChance(cond, debt float64, minutesSince int) float64 {
	p := 0.002
	p += (100 - cond) * 0.00018
	p += debt * 0.00020
	p += float64(minutesSince) * 0.0001
	return Clamp(p, upgradeMin, upgradeMax)
}
