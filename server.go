package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mcp-training/tilematch/api"
	"github.com/wricardo/mcp-training/tilematch/game/engine"
	"github.com/wricardo/mcp-training/tilematch/game/pool"
	"github.com/wricardo/mcp-training/tilematch/game/service"
	"github.com/wricardo/mcp-training/tilematch/game/session"
	"github.com/wricardo/mcp-training/tilematch/transport/mcp"
	"github.com/wricardo/mcp-training/tilematch/transport/websocket"
)

// serverConfig is the resolved set of server settings.
type serverConfig struct {
	Host         string
	Port         int
	PoolsDir     string
	ResolveDelay time.Duration
	TickInterval time.Duration
	Penalty      int
	SessionTTL   time.Duration

	Ngrok       bool
	NgrokAuth   string
	NgrokDomain string
}

func configFromCommand(cmd *cli.Command) serverConfig {
	return serverConfig{
		Host:         cmd.String("host"),
		Port:         cmd.Int("port"),
		PoolsDir:     cmd.String("pools-dir"),
		ResolveDelay: cmd.Duration("resolve-delay"),
		TickInterval: cmd.Duration("tick-interval"),
		Penalty:      cmd.Int("penalty"),
		SessionTTL:   cmd.Duration("session-ttl"),
		Ngrok:        cmd.Bool("ngrok"),
		NgrokAuth:    cmd.String("ngrok-auth"),
		NgrokDomain:  cmd.String("ngrok-domain"),
	}
}

func (c serverConfig) Addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
}

func (c serverConfig) engineOptions() engine.Options {
	opts := engine.DefaultOptions()
	opts.ResolveDelay = c.ResolveDelay
	opts.TickInterval = c.TickInterval
	if c.Penalty >= 0 {
		opts.PenaltyPerExtraMove = c.Penalty
	}
	return opts
}

// services bundles everything a server mode needs.
type services struct {
	Game     service.GameService
	Sessions *session.Manager
	Pools    *pool.Catalog
	Hub      *websocket.Hub
}

// initializeServices wires the pool catalog, session manager, websocket hub
// and game service. The hub is not started.
func initializeServices(cfg serverConfig) (*services, error) {
	catalog, err := pool.NewCatalog(cfg.PoolsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool catalog: %w", err)
	}

	hub := websocket.NewHub()
	sessions := session.NewManager()
	gameService := service.NewGameService(sessions, catalog, service.Options{
		Engine:      cfg.engineOptions(),
		Notifier:    hub,
		MaxGridSize: engine.MaxGridSize,
	})

	return &services{
		Game:     gameService,
		Sessions: sessions,
		Pools:    catalog,
		Hub:      hub,
	}, nil
}

// newRouter combines the REST API with the /mcp endpoint.
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient.GetMCPServer()))
	return mainRouter
}

// mcpHandler answers one JSON-RPC message per POST.
func mcpHandler(mcpServer *server.MCPServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpServer.HandleMessage(r.Context(), body)

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	}
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, cfg serverConfig) error {
	svcs, err := initializeServices(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go svcs.Hub.Run(ctx)
	go sessionCleanupRoutine(ctx, svcs.Sessions, cfg.SessionTTL)

	addr := cfg.Addr()
	apiServer := api.NewServer(svcs.Game, svcs.Hub)
	mcpClient := mcp.NewClient("http://" + addr)
	mainRouter := newRouter(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().Str("addr", addr).Msg("HTTP server listening")
		log.Info().Msgf("REST API: http://%s/api", addr)
		log.Info().Msgf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Info().Msgf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	if cfg.Ngrok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := serveNgrok(ctx, cfg, mainRouter); err != nil {
				log.Error().Err(err).Msg("ngrok tunnel failed")
			}
		}()
	}

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down...")
	case err := <-serveErr:
		stop()
		wg.Wait()
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	closed := svcs.Sessions.CloseAll()
	log.Info().Int("sessions", closed).Msg("Server stopped")
	return nil
}

// serveNgrok serves handler through an ngrok tunnel until ctx is done.
func serveNgrok(ctx context.Context, cfg serverConfig, handler http.Handler) error {
	if cfg.NgrokAuth == "" {
		log.Warn().Msg("Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN)")
		return nil
	}

	log.Info().Msg("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if cfg.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.NgrokDomain))
		log.Info().Str("domain", cfg.NgrokDomain).Msg("Using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.NgrokAuth))
	if err != nil {
		return fmt.Errorf("failed to start ngrok tunnel: %w", err)
	}

	ngrokURL := tun.URL()
	log.Info().Str("url", ngrokURL).Msg("Ngrok tunnel established")
	log.Info().Msgf("  REST API (ngrok): %s/api", ngrokURL)
	log.Info().Msgf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Info().Msgf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close ngrok tunnel")
		}
	}()

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		return err
	}
	log.Info().Msg("Ngrok tunnel closed")
	return nil
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within ttl.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	interval := min(ttl, time.Hour)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
				log.Info().Int("removed", removed).Msg("Cleaned up expired sessions")
			}
		}
	}
}

// externalAPIAvailable reports whether a server already answers at baseURL.
func externalAPIAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalServer serves the REST API on a random loopback port and
// returns its base URL.
func startInternalServer(ctx context.Context, svcs *services) (string, *http.Server, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}

	go svcs.Hub.Run(ctx)
	httpServer := &http.Server{Handler: api.NewServer(svcs.Game, svcs.Hub)}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Internal HTTP server error")
		}
	}()

	return "http://" + listener.Addr().String(), httpServer, nil
}

// runStdioMCP runs an MCP stdio server. It reuses an API already listening
// on the configured address; otherwise it starts an internal one.
func runStdioMCP(ctx context.Context, cfg serverConfig) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	baseURL := "http://" + cfg.Addr()
	if externalAPIAvailable(ctx, baseURL) {
		log.Info().Str("url", baseURL).Msg("External API server found, using it for MCP")
	} else {
		svcs, err := initializeServices(cfg)
		if err != nil {
			return err
		}
		go sessionCleanupRoutine(ctx, svcs.Sessions, cfg.SessionTTL)

		var httpServer *http.Server
		baseURL, httpServer, err = startInternalServer(ctx, svcs)
		if err != nil {
			return err
		}
		defer httpServer.Close()
		log.Info().Str("url", baseURL).Msg("Started internal HTTP server for MCP stdio")
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info().Msg("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
