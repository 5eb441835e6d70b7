// Package squad loads team sheets and fixtures from YAML and turns
// them into engine-ready match configurations.
package squad

import (
	"github.com/pkg/errors"

	"matchsim/internal/sim"
)

// TeamSheet is one team's YAML file.
type TeamSheet struct {
	Name     string       `yaml:"name"`
	Coach    sim.Coach    `yaml:"coach"`
	Tactic   string       `yaml:"tactic"`
	Players  []sim.Player `yaml:"players"`
	Starters []int        `yaml:"starters"` // eleven player ids, keeper first
	Bench    []int        `yaml:"bench"`
}

// Fixture pairs two sheets with match conditions.
type Fixture struct {
	Home     string      `yaml:"home"`
	Away     string      `yaml:"away"`
	Seed     int64       `yaml:"seed"`
	Knockout bool        `yaml:"knockout"`
	Referee  sim.Referee `yaml:"referee"`
	Weather  sim.Weather `yaml:"weather"`
}

// FixtureFile is the top-level fixtures YAML.
type FixtureFile struct {
	Fixtures []Fixture `yaml:"fixtures"`
}

const attrMax = 100

// Validate checks a sheet is playable: eleven distinct known starters,
// bench ids known and disjoint from the XI. Attribute values are
// clamped rather than rejected; a stale scouting file should degrade,
// not crash a match day.
func (ts *TeamSheet) Validate() error {
	if ts.Name == "" {
		return errors.New("team sheet has no name")
	}
	if len(ts.Players) == 0 {
		return errors.Errorf("team %q has no players", ts.Name)
	}
	if len(ts.Starters) != 11 {
		return errors.Errorf("team %q names %d starters, want 11", ts.Name, len(ts.Starters))
	}

	known := make(map[int]bool, len(ts.Players))
	for i := range ts.Players {
		p := &ts.Players[i]
		if p.ID == 0 {
			return errors.Errorf("team %q: player %q has no id", ts.Name, p.Name)
		}
		if known[p.ID] {
			return errors.Errorf("team %q: duplicate player id %d", ts.Name, p.ID)
		}
		known[p.ID] = true
		clampAttributes(&p.Attr)
		if p.Condition <= 0 || p.Condition > 100 {
			p.Condition = 100
		}
		if p.FatigueDebt < 0 {
			p.FatigueDebt = 0
		} else if p.FatigueDebt > 100 {
			p.FatigueDebt = 100
		}
	}

	fielded := make(map[int]bool, 11)
	for _, id := range ts.Starters {
		if !known[id] {
			return errors.Errorf("team %q: starter %d not in squad", ts.Name, id)
		}
		if fielded[id] {
			return errors.Errorf("team %q: starter %d listed twice", ts.Name, id)
		}
		fielded[id] = true
	}
	for _, id := range ts.Bench {
		if !known[id] {
			return errors.Errorf("team %q: bench player %d not in squad", ts.Name, id)
		}
		if fielded[id] {
			return errors.Errorf("team %q: player %d both starting and on the bench", ts.Name, id)
		}
	}
	return nil
}

func clampAttr(v int) int {
	if v < 1 {
		return 1
	}
	if v > attrMax {
		return attrMax
	}
	return v
}

func clampAttributes(a *sim.Attributes) {
	a.Attacking = clampAttr(a.Attacking)
	a.Defending = clampAttr(a.Defending)
	a.Passing = clampAttr(a.Passing)
	a.Finishing = clampAttr(a.Finishing)
	a.Technique = clampAttr(a.Technique)
	a.Vision = clampAttr(a.Vision)
	a.Dribbling = clampAttr(a.Dribbling)
	a.Heading = clampAttr(a.Heading)
	a.Positioning = clampAttr(a.Positioning)
	a.Goalkeeping = clampAttr(a.Goalkeeping)
	a.Pace = clampAttr(a.Pace)
	a.Strength = clampAttr(a.Strength)
	a.Stamina = clampAttr(a.Stamina)
}

// Lineup converts the sheet's starters and bench into an engine lineup.
func (ts *TeamSheet) Lineup() sim.Lineup {
	l := sim.Lineup{
		Tactic: sim.ParseTactic(ts.Tactic),
		Bench:  append([]int(nil), ts.Bench...),
	}
	for i, id := range ts.Starters {
		if i >= len(l.Slots) {
			break
		}
		l.Slots[i] = sim.Slot{PlayerID: id, Occupied: true}
	}
	return l
}
