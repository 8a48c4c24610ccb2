// Command tilematch serves the Tile Match memory game.
//
// It supports these commands:
//  1. "serve" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "simulate" – plays games with the perfect-memory autoplayer and prints the score distribution
//  4. "pools list" / "pools validate" – inspects symbol pool files
//
// Flags control host/port, pool directory, game timing, logging, and optional
// ngrok tunneling for easy external access during development. Every flag can
// also be set through the environment or a .env file.
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/tilematch/game/engine"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Tile Match Server"
)

func main() {
	loadEnv(".env")

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

// loadEnv loads environment variables from path if it exists.
func loadEnv(path string) {
	if err := godotenv.Load(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("file", path).Msg("error loading env file")
		}
		return
	}
	log.Debug().Str("file", path).Msg("loaded environment variables")
}

// setupLogging configures the global zerolog logger.
func setupLogging(level string, pretty bool) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return nil
}

// globalFlags are shared by every command.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "pools-dir",
			Value:   "pools",
			Usage:   "directory containing symbol pool files (empty for built-in pools only)",
			Sources: cli.EnvVars("POOLS_DIR"),
		},
		&cli.DurationFlag{
			Name:    "resolve-delay",
			Value:   engine.DefaultResolveDelay,
			Usage:   "pause before a completed group is resolved",
			Sources: cli.EnvVars("RESOLVE_DELAY"),
		},
		&cli.DurationFlag{
			Name:    "tick-interval",
			Value:   engine.DefaultTickInterval,
			Usage:   "interval of elapsed-time updates pushed to websocket clients (0 disables)",
			Sources: cli.EnvVars("TICK_INTERVAL"),
		},
		&cli.IntFlag{
			Name:    "penalty",
			Value:   engine.DefaultPenaltyPerExtraMove,
			Usage:   "score deducted per move above the ideal",
			Sources: cli.EnvVars("SCORE_PENALTY"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "log level (trace, debug, info, warn, error)",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
		&cli.BoolFlag{
			Name:    "pretty",
			Usage:   "human friendly console logs",
			Sources: cli.EnvVars("LOG_PRETTY"),
		},
	}
}

// serverFlags configure the HTTP listener.
func serverFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "HTTP server host",
			Sources: cli.EnvVars("HOST"),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "HTTP server port",
			Sources: cli.EnvVars("PORT"),
		},
		&cli.DurationFlag{
			Name:    "session-ttl",
			Value:   24 * time.Hour,
			Usage:   "remove sessions not accessed for this long",
			Sources: cli.EnvVars("SESSION_TTL"),
		},
		&cli.BoolFlag{
			Name:    "ngrok",
			Usage:   "enable ngrok tunnel",
			Sources: cli.EnvVars("NGROK_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "ngrok-auth",
			Usage:   "ngrok auth token",
			Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "ngrok-domain",
			Usage:   "custom ngrok domain (optional)",
			Sources: cli.EnvVars("NGROK_DOMAIN"),
		},
	}
}

// newApp builds the command tree.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "tilematch",
		Usage:   AppName,
		Version: Version,
		Flags:   append(globalFlags(), serverFlags()...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if err := setupLogging(cmd.String("log-level"), cmd.Bool("pretty")); err != nil {
				return ctx, cli.Exit(err.Error(), 2)
			}
			return ctx, nil
		},
		Action: serveAction,
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"server", "http"},
				Usage:   "run HTTP server with API, WebSocket, and MCP endpoint (default)",
				Action:  serveAction,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "run MCP stdio server, using an existing HTTP server or an internal one",
				Action:  stdioMCPAction,
			},
			simulateCommand(),
			poolsCommand(),
		},
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg := configFromCommand(cmd)
	log.Info().Str("version", Version).Msgf("Starting %s", AppName)
	return runHTTPServer(ctx, cfg)
}

func stdioMCPAction(ctx context.Context, cmd *cli.Command) error {
	cfg := configFromCommand(cmd)
	return runStdioMCP(ctx, cfg)
}
