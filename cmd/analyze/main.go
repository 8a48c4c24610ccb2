// Command analyze prints a difficulty table for symbol pool files. For each
// grid a pool can fill it plays a batch of games with the perfect-memory
// autoplayer and reports the ideal move count, the mean moves and score, and
// how often the autoplayer was perfect.
//
// Usage:
//
//	analyze [-games N] [-max-grid N] [pool.json...]
//
// Without arguments every file in ../../pools is analyzed.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/wricardo/mcp-training/tilematch/game/autoplay"
	"github.com/wricardo/mcp-training/tilematch/game/engine"
	"github.com/wricardo/mcp-training/tilematch/game/pool"
)

const defaultPoolsDir = "../../pools"

// maxGroupSize bounds the group sizes shown in the table.
const maxGroupSize = 4

func main() {
	games := flag.Int("games", 50, "games per grid")
	maxGrid := flag.Int("max-grid", 8, "largest grid side to analyze")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		var err error
		files, err = filepath.Glob(filepath.Join(defaultPoolsDir, "*.json"))
		if err != nil {
			fmt.Printf("Error finding pool files: %v\n", err)
			os.Exit(1)
		}
	}

	failed := false
	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		if err := analyzePool(context.Background(), os.Stdout, file, *games, *maxGrid); err != nil {
			fmt.Printf("Error: %v\n", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// analyzePool writes the difficulty table for one pool file.
func analyzePool(ctx context.Context, w io.Writer, path string, games, maxGrid int) error {
	p, err := pool.LoadFile(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Name: %s\n", p.Name)
	fmt.Fprintf(w, "Symbols: %d\n", p.Len())

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GRID\tGROUP\tUNUSED\tIDEAL\tMEAN MOVES\tMEAN SCORE\tPERFECT")
	rows := 0
	for group := engine.MinGroupSize; group <= maxGroupSize; group++ {
		for grid := engine.MinGridSize; grid <= min(maxGrid, p.MaxGrid(group)); grid++ {
			cfg := engine.Configuration{GridSize: grid, GroupSize: group}
			summary, err := autoplay.Run(ctx, autoplay.Simulation{
				Symbols: p.Symbols,
				Config:  cfg,
				Games:   games,
				Builder: engine.NewSeededDeckBuilder(uint64(grid*10 + group)),

				PenaltyPerExtraMove: engine.DefaultPenaltyPerExtraMove,
			})
			if err != nil {
				return fmt.Errorf("%dx%d groups of %d: %w", grid, grid, group, err)
			}
			fmt.Fprintf(tw, "%dx%d\t%d\t%d\t%d\t%.1f\t%.1f\t%d/%d\n",
				grid, grid, group, cfg.UnusedCells(), summary.IdealMoves,
				summary.MeanMoves, summary.MeanScore, summary.Perfect, summary.Games)
			rows++
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if rows == 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %s has too few symbols for any grid\n", p.Name)
	}
	return nil
}
