package squad

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"matchsim/internal/sim"
)

// LoadSheet reads and validates one team sheet.
func LoadSheet(path string) (*TeamSheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading team sheet %s", path)
	}
	var ts TeamSheet
	if err := yaml.Unmarshal(data, &ts); err != nil {
		return nil, errors.Wrapf(err, "parsing team sheet %s", path)
	}
	if err := ts.Validate(); err != nil {
		return nil, errors.Wrapf(err, "validating team sheet %s", path)
	}
	return &ts, nil
}

// LoadDir reads every .yaml/.yml sheet in a directory, keyed by team
// name. File order does not matter; the map is built the same way for
// any listing order.
func LoadDir(dir string) (map[string]*TeamSheet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading squad dir %s", dir)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	sheets := make(map[string]*TeamSheet, len(names))
	for _, name := range names {
		ts, err := LoadSheet(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if _, dup := sheets[ts.Name]; dup {
			return nil, errors.Errorf("duplicate team name %q (file %s)", ts.Name, name)
		}
		sheets[ts.Name] = ts
	}
	if len(sheets) == 0 {
		return nil, errors.Errorf("no team sheets found in %s", dir)
	}
	return sheets, nil
}

// LoadFixtures reads the fixtures file.
func LoadFixtures(path string) ([]Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading fixtures %s", path)
	}
	var ff FixtureFile
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, errors.Wrapf(err, "parsing fixtures %s", path)
	}
	if len(ff.Fixtures) == 0 {
		return nil, errors.Errorf("fixtures file %s is empty", path)
	}
	return ff.Fixtures, nil
}

// BuildMatch assembles an engine-ready MatchConfig for a fixture.
// Player ids must not collide across the two sheets.
func BuildMatch(sheets map[string]*TeamSheet, fx Fixture) (sim.MatchConfig, error) {
	home, ok := sheets[fx.Home]
	if !ok {
		return sim.MatchConfig{}, errors.Errorf("unknown home team %q", fx.Home)
	}
	away, ok := sheets[fx.Away]
	if !ok {
		return sim.MatchConfig{}, errors.Errorf("unknown away team %q", fx.Away)
	}
	if home == away {
		return sim.MatchConfig{}, errors.Errorf("fixture pairs %q with itself", fx.Home)
	}
	seen := make(map[int]bool, len(home.Players))
	for _, p := range home.Players {
		seen[p.ID] = true
	}
	for _, p := range away.Players {
		if seen[p.ID] {
			return sim.MatchConfig{}, errors.Errorf("player id %d appears in both %q and %q", p.ID, fx.Home, fx.Away)
		}
	}

	cfg := sim.MatchConfig{
		HomeSquad:  append([]sim.Player(nil), home.Players...),
		AwaySquad:  append([]sim.Player(nil), away.Players...),
		HomeLineup: home.Lineup(),
		AwayLineup: away.Lineup(),
		HomeCoach:  home.Coach,
		AwayCoach:  away.Coach,
		HomeName:   home.Name,
		AwayName:   away.Name,
		Referee:    fx.Referee,
		Weather:    fx.Weather,
		Seed:       fx.Seed,
		Knockout:   fx.Knockout,
	}
	return cfg, nil
}
