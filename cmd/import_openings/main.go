// Command import_openings reads opening moves from a JSONL file and stores
// them in an opening book so early masterboard decisions can skip the
// search.
//
// Usage:
//
//	go run ./cmd/import_openings/ --input openings.jsonl --lookup postgres://...
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/titan-ai/internal/config"
	"github.com/freeeve/titan-ai/internal/logger"
	"github.com/freeeve/titan-ai/internal/lookup"
)

// jsonOpening is one line of the input: a masterboard situation and the
// destination hexes to try, best first.
type jsonOpening struct {
	Turn   int      `json:"turn"`
	Hex    string   `json:"hex"`
	Roll   int      `json:"roll"`
	Height int      `json:"height"`
	Hexes  []string `json:"hexes"`
}

func main() {
	logger.Init()
	cfg := config.Load()

	inputFile := flag.String("input", "", "Path to JSONL file")
	lookupURL := flag.String("lookup", cfg.LookupURL, "Opening book URL (redis://, postgres://, sqlite://)")
	flag.Parse()

	if *inputFile == "" {
		log.Fatal().Msg("--input is required")
	}
	book, err := lookup.Open(*lookupURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Open opening book")
	}
	defer book.Close()

	f, err := os.Open(*inputFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Open input")
	}
	defer f.Close()

	imported, skipped, err := importOpenings(context.Background(), book, f)
	if err != nil {
		log.Fatal().Err(err).Msg("Read input")
	}
	log.Info().Int("imported", imported).Int("skipped", skipped).Msg("Done")
}

// importOpenings stores every valid line of r. Bad lines are logged and
// skipped; a store failure stops the import.
func importOpenings(ctx context.Context, book lookup.Service, r io.Reader) (imported, skipped int, err error) {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		key, hexes, perr := parseRecord(text)
		if perr != nil {
			log.Warn().Err(perr).Int("line", line).Msg("Skip line")
			skipped++
			continue
		}
		if err := book.Store(ctx, key, hexes); err != nil {
			return imported, skipped, fmt.Errorf("store %s: %w", key, err)
		}
		imported++
	}
	return imported, skipped, scanner.Err()
}

func parseRecord(line string) (lookup.Key, []string, error) {
	var rec jsonOpening
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return lookup.Key{}, nil, fmt.Errorf("bad JSON: %w", err)
	}
	switch {
	case rec.Turn < 1:
		return lookup.Key{}, nil, errors.New("turn must be positive")
	case rec.Hex == "":
		return lookup.Key{}, nil, errors.New("hex is required")
	case rec.Roll < 1 || rec.Roll > 6:
		return lookup.Key{}, nil, fmt.Errorf("roll %d out of range", rec.Roll)
	case rec.Height < 1:
		return lookup.Key{}, nil, errors.New("height must be positive")
	case len(rec.Hexes) == 0:
		return lookup.Key{}, nil, errors.New("no destination hexes")
	}
	return lookup.Key{Turn: rec.Turn, Hex: rec.Hex, Roll: rec.Roll, Height: rec.Height}, rec.Hexes, nil
}
