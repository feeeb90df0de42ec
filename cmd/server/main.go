// Command server runs the tribelands game server: a persistent hex-map
// strategy world resolved one simultaneous turn at a time.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"log/slog"

	"github.com/talgya/tribelands/internal/ai"
	"github.com/talgya/tribelands/internal/api"
	"github.com/talgya/tribelands/internal/catalog"
	"github.com/talgya/tribelands/internal/config"
	"github.com/talgya/tribelands/internal/engine"
	"github.com/talgya/tribelands/internal/entropy"
	"github.com/talgya/tribelands/internal/game"
	"github.com/talgya/tribelands/internal/mapgen"
	"github.com/talgya/tribelands/internal/persistence"
	"github.com/talgya/tribelands/internal/world"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("bad configuration", "error", err)
		os.Exit(1)
	}
	if cfg.AdminKey == "" {
		slog.Warn("TRIBELANDS_ADMIN_KEY not set — admin endpoints will be disabled")
	}

	catalogs := catalog.Default()
	if cfg.CatalogDir != "" {
		catalogs, err = catalog.Load(cfg.CatalogDir)
		if err != nil {
			slog.Error("failed to load catalogs", "dir", cfg.CatalogDir, "error", err)
			os.Exit(1)
		}
	}

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(cfg.DBPath), 0755)
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Load or Bootstrap ─────────────────────────────────────────────
	var state *game.GameState
	hasState, err := db.HasState()
	if err != nil {
		slog.Error("failed to query saved state", "error", err)
		os.Exit(1)
	}
	if hasState {
		state, err = db.LoadLatest()
		if err != nil {
			slog.Error("failed to load saved state", "error", err)
			os.Exit(1)
		}
		slog.Info("game restored", "turn", state.Turn, "tribes", len(state.Tribes))
	} else {
		state = bootstrap(cfg)
		if err := db.SaveState(state); err != nil {
			slog.Error("initial save failed", "error", err)
		}
		slog.Info("new game started",
			"seed", state.Seed,
			"radius", state.Map.Radius,
			"tribes", len(state.Tribes),
			"open_spawn", len(state.StartingLocations),
		)
	}

	session := engine.NewSession(state, &engine.Env{Catalogs: catalogs})

	// ── HTTP API ──────────────────────────────────────────────────────
	apiServer := &api.Server{
		Session:        session,
		DB:             db,
		Catalogs:       catalogs,
		Port:           cfg.Port,
		AdminKey:       cfg.AdminKey,
		ResolveTimeout: cfg.ResolveTimeout,
	}
	apiServer.Start()

	fmt.Printf("Tribelands is live on turn %d: http://localhost:%d/api/v1/status\n",
		session.Turn(), cfg.Port)
	fmt.Printf("Turns resolve every %s. (Ctrl+C to stop)\n", cfg.TurnInterval)

	// ── Turn Loop ─────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.TurnInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			resolveOneTurn(session, db, cfg.ResolveTimeout)
		case sig := <-sigCh:
			slog.Info("received signal, shutting down", "signal", sig)
			if err := db.SaveState(session.State()); err != nil {
				slog.Error("final save failed", "error", err)
			}
			fmt.Println("Server stopped. Game state saved.")
			return
		}
	}
}

// resolveOneTurn fills in orders for idle AI tribes, resolves, and persists.
func resolveOneTurn(session *engine.Session, db *persistence.DB, timeout time.Duration) {
	st := session.State()
	for i, tribe := range st.Tribes {
		if !tribe.IsAI || session.HasSubmitted(tribe.ID) {
			continue
		}
		rng := entropy.NewSeeded(entropy.TurnSeed(st.Seed, st.Turn) + int64(i))
		orders := ai.Plan(st, tribe, rng)
		if err := session.SubmitActions(tribe.ID, orders); err != nil {
			slog.Error("AI submission failed", "tribe", tribe.ID, "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	next, err := session.ResolveTurn(ctx)
	if err != nil {
		slog.Error("turn resolution failed", "turn", st.Turn, "error", err)
		return
	}
	if err := db.SaveState(next); err != nil {
		slog.Error("post-turn save failed", "turn", next.Turn, "error", err)
	}
	slog.Info("turn resolved", "turn", next.Turn, "journeys", len(next.Journeys))
}

var tribeNames = []string{
	"Rust Clan", "Ash Walkers", "Glass Reach", "Ember Pact",
	"Salt Caravan", "Iron Tide", "Dust Choir", "Vault Kin",
}

// bootstrap generates a fresh world and seeds it with AI tribes; remaining
// spawn hexes stay open for players to claim.
func bootstrap(cfg config.Config) *game.GameState {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	gen := mapgen.DefaultGenConfig()
	gen.Seed = seed
	gen.Radius = cfg.MapRadius
	m, starts := mapgen.Generate(gen)

	st := &game.GameState{
		Seed:              seed,
		Turn:              1,
		Map:               m,
		StartingLocations: starts,
	}

	archetypes := []string{ai.TypeWanderer, ai.TypeWarlike, ai.TypeDefensive, ai.TypeTrader}
	for i := 0; i < cfg.AITribes && len(st.StartingLocations) > 0; i++ {
		key := st.StartingLocations[0]
		st.StartingLocations = st.StartingLocations[1:]
		home, err := world.ParseCoords(key)
		if err != nil {
			continue
		}
		name := tribeNames[i%len(tribeNames)]
		tribe := &game.Tribe{
			ID:       fmt.Sprintf("ai-%d", i+1),
			Name:     name,
			IsAI:     true,
			AIType:   archetypes[i%len(archetypes)],
			HomeBase: home,
			Global:   game.Resources{Food: 100, Scrap: 50, Morale: 50},
			Garrisons: map[string]*game.Garrison{
				key: {Troops: 10, Weapons: 2},
			},
			Diplomacy:     map[string]game.DiplomaticRelation{},
			ExploredHexes: map[string]bool{},
		}
		tribe.Explore(world.KeysInRange(home, 1)...)
		st.Tribes = append(st.Tribes, tribe)
	}
	return st
}
