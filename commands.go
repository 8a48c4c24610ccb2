package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/tilematch/game/autoplay"
	"github.com/wricardo/mcp-training/tilematch/game/engine"
	"github.com/wricardo/mcp-training/tilematch/game/pool"
)

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "play games with a perfect-memory autoplayer and print the score distribution",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "pool", Usage: "symbol pool (default: catalog default)"},
			&cli.IntFlag{Name: "grid-size", Value: engine.DefaultGridSize, Usage: "grid side length"},
			&cli.IntFlag{Name: "group-size", Value: engine.DefaultGroupSize, Usage: "identical symbols per group"},
			&cli.IntFlag{Name: "games", Value: 100, Usage: "number of games to play"},
			&cli.Uint64Flag{Name: "seed", Usage: "deck seed for reproducible runs (0 for random)"},
			&cli.BoolFlag{Name: "json", Usage: "print the summary as JSON"},
		},
		Action: simulateAction,
	}
}

func simulateAction(ctx context.Context, cmd *cli.Command) error {
	catalog, err := pool.NewCatalog(cmd.String("pools-dir"))
	if err != nil {
		return err
	}
	name := cmd.String("pool")
	if name == "" {
		name = catalog.DefaultName()
	}
	p, err := catalog.LoadPool(name)
	if err != nil {
		return err
	}

	sim := autoplay.Simulation{
		Symbols:             p.Symbols,
		Config:              engine.Configuration{GridSize: cmd.Int("grid-size"), GroupSize: cmd.Int("group-size")},
		Games:               cmd.Int("games"),
		PenaltyPerExtraMove: cmd.Int("penalty"),
	}
	if seed := cmd.Uint64("seed"); seed != 0 {
		sim.Builder = engine.NewSeededDeckBuilder(seed)
	}

	summary, err := autoplay.Run(ctx, sim)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	if cmd.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	writeSummary(out, p.Name, sim.Config, summary)
	return nil
}

// writeSummary prints a simulation summary with a score histogram.
func writeSummary(w io.Writer, poolName string, cfg engine.Configuration, s *autoplay.Summary) {
	fmt.Fprintf(w, "Pool: %s | Grid: %dx%d | Groups of %d | Games: %d\n",
		poolName, cfg.GridSize, cfg.GridSize, cfg.GroupSize, s.Games)
	fmt.Fprintf(w, "Moves: ideal %d, min %d, mean %.1f, max %d\n", s.IdealMoves, s.MinMoves, s.MeanMoves, s.MaxMoves)
	fmt.Fprintf(w, "Score: min %d, mean %.1f, max %d (perfect games: %d)\n", s.MinScore, s.MeanScore, s.MaxScore, s.Perfect)

	scores := make([]int, 0, len(s.Scores))
	for score := range s.Scores {
		scores = append(scores, score)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(scores)))

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tGAMES\tSHARE")
	for _, score := range scores {
		n := s.Scores[score]
		fmt.Fprintf(tw, "%d\t%d\t%.1f%%\n", score, n, 100*float64(n)/float64(s.Games))
	}
	tw.Flush()
}

func poolsCommand() *cli.Command {
	return &cli.Command{
		Name:  "pools",
		Usage: "inspect symbol pools",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "list built-in and file pools with their capacity",
				Action: poolsListAction,
			},
			{
				Name:      "validate",
				Usage:     "validate pool files (default: every file in --pools-dir)",
				ArgsUsage: "[file.json...]",
				Action:    poolsValidateAction,
			},
		},
	}
}

func poolsListAction(ctx context.Context, cmd *cli.Command) error {
	catalog, err := pool.NewCatalog(cmd.String("pools-dir"))
	if err != nil {
		return err
	}
	pools, err := catalog.ListPools()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.Root().Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSYMBOLS\tPAIRS\tSOURCE")
	for _, info := range pools {
		source := info.Filename
		if info.Builtin {
			source = "built-in"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%dx%d\t%s\n", info.PoolID, info.Name, info.Size, info.MaxGrid, info.MaxGrid, source)
	}
	return tw.Flush()
}

func poolsValidateAction(ctx context.Context, cmd *cli.Command) error {
	var results []pool.ValidationResult
	if cmd.Args().Len() > 0 {
		for _, file := range cmd.Args().Slice() {
			results = append(results, pool.ValidateFile(file))
		}
	} else {
		var err error
		results, err = pool.ValidateDir(cmd.String("pools-dir"))
		if err != nil {
			return err
		}
	}

	if !pool.WriteReport(cmd.Root().Writer, results) {
		return cli.Exit("", 1)
	}
	return nil
}
