// Command simulate runs a headless all-AI match for balance testing: N
// turns, no HTTP, no database, summary to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"log/slog"

	"github.com/talgya/tribelands/internal/ai"
	"github.com/talgya/tribelands/internal/catalog"
	"github.com/talgya/tribelands/internal/engine"
	"github.com/talgya/tribelands/internal/entropy"
	"github.com/talgya/tribelands/internal/game"
	"github.com/talgya/tribelands/internal/mapgen"
	"github.com/talgya/tribelands/internal/world"
)

func main() {
	turns := flag.Int("turns", 50, "number of turns to resolve")
	seed := flag.Int64("seed", 42, "world seed")
	radius := flag.Int("radius", 12, "map radius")
	tribes := flag.Int("tribes", 4, "number of AI tribes")
	verbose := flag.Bool("v", false, "log every turn's summaries")
	flag.Parse()

	logLevel := slog.LevelWarn
	if *verbose {
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	st := buildMatch(*seed, *radius, *tribes)
	session := engine.NewSession(st, &engine.Env{Catalogs: catalog.Default()})

	fmt.Printf("Simulating %d turns, seed %d, radius %d, %d tribes\n",
		*turns, *seed, *radius, len(st.Tribes))

	for i := 0; i < *turns; i++ {
		cur := session.State()
		for j, tribe := range cur.Tribes {
			rng := entropy.NewSeeded(entropy.TurnSeed(cur.Seed, cur.Turn) + int64(j))
			if err := session.SubmitActions(tribe.ID, ai.Plan(cur, tribe, rng)); err != nil {
				fmt.Fprintf(os.Stderr, "submit for %s: %v\n", tribe.ID, err)
			}
		}

		next, err := session.ResolveTurn(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "turn %d failed: %v\n", cur.Turn, err)
			os.Exit(1)
		}
		if *verbose {
			printTurn(next)
		}
	}

	printStandings(session.State())
}

func printTurn(st *game.GameState) {
	if len(st.History) == 0 {
		return
	}
	rec := st.History[len(st.History)-1]
	fmt.Printf("--- turn %d ---\n", rec.Turn)
	for _, tribe := range st.Tribes {
		for _, line := range rec.Summaries[tribe.ID] {
			fmt.Printf("  [%s] %s\n", tribe.Name, line)
		}
	}
}

func printStandings(st *game.GameState) {
	fmt.Printf("\nFinal standings after turn %d:\n", st.Turn-1)
	for _, t := range st.Tribes {
		techs := len(t.CompletedTechs)
		fmt.Printf("  %-14s (%-9s) troops=%-3d garrisons=%-2d food=%-4d scrap=%-4d morale=%-3d techs=%d explored=%d\n",
			t.Name, t.AIType, t.TotalTroops(), len(t.Garrisons),
			t.Global.Food, t.Global.Scrap, t.Global.Morale, techs, len(t.ExploredHexes))
	}
	fmt.Printf("  journeys in flight: %d, active agreements: %d\n",
		len(st.Journeys), len(st.TradeAgreements))
}

func buildMatch(seed int64, radius, count int) *game.GameState {
	gen := mapgen.DefaultGenConfig()
	gen.Seed = seed
	gen.Radius = radius
	m, starts := mapgen.Generate(gen)

	st := &game.GameState{
		Seed:              seed,
		Turn:              1,
		Map:               m,
		StartingLocations: starts,
	}

	archetypes := []string{ai.TypeWanderer, ai.TypeWarlike, ai.TypeDefensive, ai.TypeTrader}
	for i := 0; i < count && len(st.StartingLocations) > 0; i++ {
		key := st.StartingLocations[0]
		st.StartingLocations = st.StartingLocations[1:]
		home, err := world.ParseCoords(key)
		if err != nil {
			continue
		}
		tribe := &game.Tribe{
			ID:       fmt.Sprintf("sim-%d", i+1),
			Name:     fmt.Sprintf("Tribe %d", i+1),
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
