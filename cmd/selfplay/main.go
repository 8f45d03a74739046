package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/titan-ai/internal/arena"
	"github.com/freeeve/titan-ai/internal/config"
	"github.com/freeeve/titan-ai/internal/logger"
	"github.com/freeeve/titan-ai/internal/lookup"
)

func main() {
	logger.Init()
	cfg := config.Load()

	var (
		personalities string
		numGames      int
		workers       int
		maxTurns      int
		lookupURL     string
		seed          int64
		jsonOut       bool
	)

	flag.StringVar(&personalities, "p", "*="+cfg.Personality, "Personality per player (e.g. red=coward,*=simple or blue=mine.yaml)")
	flag.IntVar(&numGames, "n", 1, "Number of games to run")
	flag.IntVar(&workers, "workers", 1, "Concurrency (parallel games, unseeded only)")
	flag.IntVar(&maxTurns, "max-turns", 30, "Max turns before draw")
	flag.StringVar(&lookupURL, "lookup", cfg.LookupURL, "Opening book URL (memory://, redis://, postgres://, sqlite://)")
	flag.Int64Var(&seed, "seed", cfg.Seed, "Base seed (0 = random)")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")
	flag.Parse()

	pers, err := arena.ParsePersonalities(personalities)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid personalities")
	}
	if cfg.PersonalityFile != "" && personalities == "*="+cfg.Personality {
		if pers, err = arena.ParsePersonalities("*=" + cfg.PersonalityFile); err != nil {
			log.Fatal().Err(err).Msg("Invalid personality file")
		}
	}
	// The seeded AI random source is shared by every game.
	if seed != 0 && workers > 1 {
		log.Warn().Int("workers", workers).Msg("Seeded runs are sequential")
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	book, err := lookup.Open(lookupURL)
	if err != nil {
		log.Fatal().Err(err).Str("url", lookupURL).Msg("Opening book unavailable")
	}
	defer book.Close()

	results := make([]*arena.ArenaResult, numGames)
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	errCount := 0

	for i := 0; i < numGames; i++ {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			gameSeed := seed
			if seed != 0 {
				gameSeed = seed + int64(idx)
			}
			result, err := arena.RunGame(ctx, arena.ArenaConfig{
				Personalities: pers,
				MaxTurns:      maxTurns,
				Seed:          gameSeed,
				TimeLimit:     cfg.TimeLimit,
				Book:          book,
				Log:           log.Logger.With().Int("game", idx+1).Logger(),
			})
			if err != nil {
				log.Error().Err(err).Int("game", idx+1).Msg("Game failed")
				mu.Lock()
				errCount++
				mu.Unlock()
				return
			}

			mu.Lock()
			results[idx] = result
			mu.Unlock()

			log.Info().Int("game", idx+1).Str("winner", result.Winner).Int("turns", result.Turns).Int("battles", result.Battles).Msg("Game completed")
		}(i)
	}

	wg.Wait()

	if jsonOut {
		printJSON(results, numGames, errCount)
	} else {
		printSummary(results, maxTurns, errCount)
	}
}

func printSummary(results []*arena.ArenaResult, maxTurns, errCount int) {
	type stats struct {
		wins   int
		draws  int
		points int
		games  int
	}
	byPlayer := make(map[string]*stats)
	players := []string{"Red", "Blue"}
	for _, p := range players {
		byPlayer[p] = &stats{}
	}

	completed := 0
	for _, r := range results {
		if r == nil {
			continue
		}
		completed++
		for _, p := range players {
			s := byPlayer[p]
			s.games++
			s.points += r.Scores[p]
			switch r.Winner {
			case p:
				s.wins++
			case "":
				s.draws++
			}
		}
	}

	fmt.Printf("\nResults (%d games, max turns %d):\n", completed, maxTurns)
	if errCount > 0 {
		fmt.Printf("  (%d games failed)\n", errCount)
	}
	for _, p := range players {
		s := byPlayer[p]
		avg := 0.0
		if s.games > 0 {
			avg = float64(s.points) / float64(s.games)
		}
		fmt.Printf("  %-6s %d wins, %d draws  -- avg points: %.1f\n", p, s.wins, s.draws, avg)
	}
}

func printJSON(results []*arena.ArenaResult, total, errCount int) {
	out := struct {
		Total   int                  `json:"total"`
		Errors  int                  `json:"errors"`
		Results []*arena.ArenaResult `json:"results"`
	}{
		Total:   total,
		Errors:  errCount,
		Results: results,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Error().Err(err).Msg("Write results")
	}
}
