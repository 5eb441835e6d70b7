package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"matchsim/internal/config"
	"matchsim/internal/sim"
	"matchsim/internal/squad"

	"github.com/joho/godotenv"
)

// simulate resolves fixtures in the background engine: no wall clock,
// no server, just results. Useful for resolving a match day or
// sanity-checking squads.

func main() {
	if err := godotenv.Load(".env"); err == nil {
		log.Println("✅ Loaded environment from .env")
	}

	var (
		home     = flag.String("home", "", "home team name (defaults to the first fixture)")
		away     = flag.String("away", "", "away team name")
		seed     = flag.Int64("seed", 0, "match seed (0 derives per run)")
		runs     = flag.Int("n", 1, "number of simulations; seeds increment from -seed")
		knockout = flag.Bool("knockout", false, "resolve level matches with extra time and penalties")
		verbose  = flag.Bool("v", false, "print scorers, cards and injuries per match")
	)
	flag.Parse()

	appConfig := config.Load()
	sheets, err := squad.LoadDir(appConfig.Data.SquadDir)
	if err != nil {
		log.Fatalf("❌ Loading squads: %v", err)
	}

	fx := squad.Fixture{Home: *home, Away: *away, Seed: *seed, Knockout: *knockout}
	if fx.Home == "" || fx.Away == "" {
		fixtures, err := squad.LoadFixtures(appConfig.Data.FixtureFile)
		if err != nil {
			log.Fatalf("❌ No teams given and no fixtures file: %v", err)
		}
		base := fixtures[0]
		if fx.Home == "" {
			fx.Home = base.Home
		}
		if fx.Away == "" {
			fx.Away = base.Away
		}
		fx.Referee = base.Referee
		fx.Weather = base.Weather
	}
	if fx.Seed == 0 {
		fx.Seed = time.Now().UnixNano()
	}

	var homeWins, draws, awayWins, homeGoals, awayGoals int
	ctx := context.Background()

	for i := 0; i < *runs; i++ {
		runFx := fx
		runFx.Seed = fx.Seed + int64(i)
		matchCfg, err := squad.BuildMatch(sheets, runFx)
		if err != nil {
			log.Fatalf("❌ Building fixture: %v", err)
		}

		res, err := sim.NewBackgroundEngine(matchCfg).Simulate(ctx)
		if err != nil {
			log.Fatalf("❌ Simulation failed (seed %d): %v", runFx.Seed, err)
		}

		homeGoals += res.HomeScore
		awayGoals += res.AwayScore
		switch {
		case res.HomeScore > res.AwayScore:
			homeWins++
		case res.AwayScore > res.HomeScore:
			awayWins++
		default:
			draws++
			if res.Shootout != nil {
				if res.Shootout.Winner == sim.Home {
					homeWins++
				} else {
					awayWins++
				}
				draws--
			}
		}

		line := fmt.Sprintf("%s %d-%d %s (seed %d)", matchCfg.HomeName, res.HomeScore, res.AwayScore, matchCfg.AwayName, runFx.Seed)
		if res.Shootout != nil {
			line += fmt.Sprintf(" [pens %d-%d]", res.Shootout.HomeGoals, res.Shootout.AwayGoals)
		}
		fmt.Println(line)

		if *verbose {
			printDetails(matchCfg, res)
		}
	}

	if *runs > 1 {
		fmt.Println("---")
		fmt.Printf("%d matches: %d home wins, %d draws, %d away wins\n", *runs, homeWins, draws, awayWins)
		fmt.Printf("goals: %.2f home, %.2f away per match\n", float64(homeGoals)/float64(*runs), float64(awayGoals)/float64(*runs))
	}
	os.Exit(0)
}

func printDetails(cfg sim.MatchConfig, res *sim.MatchResult) {
	names := make(map[int]string, len(cfg.HomeSquad)+len(cfg.AwaySquad))
	for _, p := range cfg.HomeSquad {
		names[p.ID] = p.Name
	}
	for _, p := range cfg.AwaySquad {
		names[p.ID] = p.Name
	}

	for _, sc := range res.Scorers {
		mark := ""
		if sc.Penalty {
			mark = " (pen)"
		}
		fmt.Printf("  ⚽ %d' %s%s\n", sc.Minute, names[sc.PlayerID], mark)
	}
	for _, c := range res.Cards {
		icon := "🟨"
		if c.Type == sim.CardRed {
			icon = "🟥"
		}
		fmt.Printf("  %s %d' %s\n", icon, c.Minute, names[c.PlayerID])
	}
	for _, inj := range res.Injuries {
		fmt.Printf("  🚑 %d' %s: %s (%s, out ~%d days)\n", inj.Minute, names[inj.PlayerID], inj.Label, inj.Severity, inj.RecoveryDays)
	}
	for _, sub := range res.Substitutions {
		fmt.Printf("  🔁 %d' %s ➜ %s\n", sub.Minute, names[sub.OutID], names[sub.InID])
	}
}
