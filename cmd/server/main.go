package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"matchsim/internal/api"
	"matchsim/internal/config"
	"matchsim/internal/sim"
	"matchsim/internal/squad"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		// Try current directory as fallback
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 No .env file found, using environment variables only")
		}
	} else {
		log.Println("✅ Loaded environment from ../.env")
	}

	log.Println("⚽ ================================")
	log.Println("⚽  MATCHSIM - LIVE MATCH SERVER")
	log.Println("⚽ ================================")

	// Load centralized configuration (SSOT - Single Source of Truth)
	appConfig := config.Load()
	simCfg := appConfig.Sim
	dataCfg := appConfig.Data
	serverCfg := appConfig.Server

	// Squad sheets and the fixture to play
	sheets, err := squad.LoadDir(dataCfg.SquadDir)
	if err != nil {
		log.Fatalf("❌ Loading squads: %v", err)
	}
	log.Printf("📋 Loaded %d team sheets from %s", len(sheets), dataCfg.SquadDir)

	fixtures, err := squad.LoadFixtures(dataCfg.FixtureFile)
	if err != nil {
		log.Fatalf("❌ Loading fixtures: %v", err)
	}
	fx := fixtures[0]
	if h := os.Getenv("HOME_TEAM"); h != "" {
		fx.Home = h
	}
	if a := os.Getenv("AWAY_TEAM"); a != "" {
		fx.Away = a
	}
	if fx.Seed == 0 {
		fx.Seed = simCfg.Seed
	}
	if fx.Seed == 0 {
		fx.Seed = time.Now().UnixNano()
	}
	if simCfg.Knockout {
		fx.Knockout = true
	}

	matchCfg, err := squad.BuildMatch(sheets, fx)
	if err != nil {
		log.Fatalf("❌ Building fixture: %v", err)
	}
	log.Printf("🏟️ Fixture: %s vs %s (seed %d, knockout=%v)", matchCfg.HomeName, matchCfg.AwayName, matchCfg.Seed, matchCfg.Knockout)

	// Engine and its persistent event log
	engine := sim.NewLiveEngine(matchCfg)
	engine.SetSpeed(simCfg.TickInterval)
	engine.OnTick(api.RecordTick)

	eventLog := sim.NewEventLog()
	if dataCfg.EventLog != "" {
		if err := eventLog.Start(dataCfg.EventLog); err != nil {
			log.Printf("⚠️ Event log disabled: %v", err)
		} else {
			log.Printf("📝 Event log: %s", dataCfg.EventLog)
		}
	}

	// Debug server (pprof + prometheus), localhost only
	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(api.DefaultObservabilityConfig()); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	// API server with the watcher hub
	server := api.NewServer(engine, matchCfg.HomeName, matchCfg.AwayName, eventLog)

	matchID := strconv.FormatInt(matchCfg.Seed, 10)
	engine.OnEvent(func(ev sim.MatchEvent) {
		eventLog.Emit(matchID, ev)
		server.Hub().BroadcastEvent(ev)
		switch ev.Type {
		case sim.EventGoal:
			api.RecordGoal(ev.Side.String())
		case sim.EventCard:
			api.RecordCard(string(ev.Card))
		}
	})

	engine.Start()
	log.Println("✅ Match engine started")

	go func() {
		addr := ":" + strconv.Itoa(serverCfg.Port)
		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	engine.Stop()
	eventLog.Stop()
	server.Stop()
	log.Println("👋 Goodbye!")
}
