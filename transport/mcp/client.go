package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/tilematch/game/engine"
	"github.com/wricardo/mcp-training/tilematch/game/service"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Tile Match",
		Version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Tile Match - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Every cell hides a symbol. Reveal cells one at a time; when a full group is
face up it is checked. Identical symbols stay matched, otherwise they flip back.
Match every group in as few moves as possible.

AVAILABLE TOOLS:
- create_session: Start a game (optional pool, grid_size, group_size)
- list_sessions: List active sessions
- game_state: Show the board of a session
- reveal: Reveal one cell by index
- restart: Deal a new deck with the same settings
- set_configuration: Change grid and group size (starts a new game)
- delete_session: End a session
- list_pools: List symbol pools and how large a grid each can fill
- game_instructions: Rules and strategy`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session. Omitted settings use the server defaults (4x4 pairs).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"pool": map[string]interface{}{
					"type":        "string",
					"description": "Symbol pool ID, see list_pools (optional)",
				},
				"grid_size": map[string]interface{}{
					"type":        "integer",
					"description": "Grid side length, 2 to 20 (optional)",
				},
				"group_size": map[string]interface{}{
					"type":        "integer",
					"description": "Identical symbols per group, 2 to 4 is typical (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a session and stop its game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleDeleteSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board. Hidden cells show their index.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reveal",
		Description: "Reveal the cell at index (row * grid_size + column)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Cell index, starting at 0",
				},
			},
			Required: []string{"session_id", "index"},
		},
	}, c.handleReveal)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart",
		Description: "Deal a new deck with the same pool and configuration",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleRestart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_configuration",
		Description: "Change grid and group size. Starts a new game; an invalid configuration leaves the current game untouched.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"grid_size": map[string]interface{}{
					"type":        "integer",
					"description": "Grid side length",
				},
				"group_size": map[string]interface{}{
					"type":        "integer",
					"description": "Identical symbols per group",
				},
			},
			Required: []string{"session_id", "grid_size", "group_size"},
		},
	}, c.handleSetConfiguration)

	// Pools and help
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_pools",
		Description: "List available symbol pools",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPools)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of the game and tips for playing it",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for stdio or HTTP serving.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID string, parts ...string) string {
	return "/api/sessions/" + strings.Join(append([]string{url.PathEscape(sessionID)}, parts...), "/")
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := service.SessionOptions{
		Pool:      request.GetString("pool", ""),
		GridSize:  request.GetInt("grid_size", 0),
		GroupSize: request.GetInt("group_size", 0),
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		state := "unknown"
		if s.Snapshot != nil {
			state = string(s.Snapshot.State)
		}
		fmt.Fprintf(&result, "- %s (Pool: %s, %dx%d groups of %d, %s, Created: %s)\n",
			s.ID, s.Pool, s.Configuration.GridSize, s.Configuration.GridSize,
			s.Configuration.GroupSize, state, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := c.apiCall(ctx, "DELETE", sessionPath(sessionID), nil, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Session %s deleted", sessionID)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var snap engine.Snapshot
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "state"), nil, &snap); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSnapshot(&snap)), nil
}

func (c *Client) handleReveal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	index, err := request.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.RevealResult
	body := map[string]int{"index": index}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "reveal"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRevealResult(index, &result)), nil
}

func (c *Client) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var snap engine.Snapshot
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "restart"), nil, &snap); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("New game dealt.\n\n" + formatSnapshot(&snap)), nil
}

func (c *Client) handleSetConfiguration(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	gridSize, err := request.RequireInt("grid_size")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	groupSize, err := request.RequireInt("group_size")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	body := engine.Configuration{GridSize: gridSize, GroupSize: groupSize}
	if err := c.apiCall(ctx, "PUT", sessionPath(sessionID, "config"), body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleListPools(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var pools []service.PoolInfo
	if err := c.apiCall(ctx, "GET", "/api/pools", nil, &pools); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Symbol Pools (%d):\n\n", len(pools))
	for _, p := range pools {
		fmt.Fprintf(&result, "- %s: %s, %d symbols, pairs up to %dx%d", p.PoolID, p.Name, p.Size, p.MaxGrid, p.MaxGrid)
		if p.Description != "" {
			fmt.Fprintf(&result, " (%s)", p.Description)
		}
		result.WriteString("\n")
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Tile Match - Complete Instructions

GAME OBJECTIVE:
Find every group of identical symbols hidden on the board.

BOARD:
• The board is grid_size x grid_size cells, numbered row by row from 0
• Cell index = row * grid_size + column
• A number means the cell is hidden; reveal it by that index
• [X] is a revealed symbol waiting for the rest of its group
• (X) is a matched symbol and stays face up
• -- marks a cell that holds no symbol (the grid does not divide evenly into groups)

TURNS:
1. Reveal group_size cells, one at a time
2. Once the last cell of the group is revealed the move counts and the board locks
3. After a short pause identical symbols become matched, anything else flips back
4. Reveals sent while the board is locked are ignored, check game_state and try again

SCORING:
• Ideal moves = number of groups on the board
• Score starts at 100 and loses points for every move above the ideal
• The score never drops below 0

STRATEGY:
• Remember every symbol you have seen, together with its index
• Reveal unknown cells first; finish a group only when you know where all of its symbols are

Good luck!`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nPool: %s\nCreated: %s\n\n%s",
		session.ID, session.Pool,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatSnapshot(session.Snapshot))
}

// cellLabel renders one cell the way game_instructions describes it.
func cellLabel(snap *engine.Snapshot, index int) string {
	if index >= len(snap.Cells) {
		return "--"
	}
	cell := snap.Cells[index]
	switch cell.Visibility {
	case engine.Revealed:
		return "[" + cell.Token + "]"
	case engine.Matched:
		return "(" + cell.Token + ")"
	default:
		return fmt.Sprintf("%d", index)
	}
}

func formatSnapshot(snap *engine.Snapshot) string {
	if snap == nil || snap.GridSize == 0 {
		return "No game in progress"
	}

	var result strings.Builder
	fmt.Fprintf(&result, "State: %s | Moves: %d (ideal %d) | Matched: %d/%d | Elapsed: %.1fs\n",
		snap.State, snap.Moves, snap.IdealMoves, snap.Matched, snap.DeckLength,
		float64(snap.ElapsedMs)/1000)
	fmt.Fprintf(&result, "Grid: %dx%d, groups of %d", snap.GridSize, snap.GridSize, snap.GroupSize)
	if snap.UnusedCells > 0 {
		fmt.Fprintf(&result, ", %d unused cells", snap.UnusedCells)
	}
	result.WriteString("\n\n")

	labels := make([]string, snap.GridSize*snap.GridSize)
	width := 0
	for i := range labels {
		labels[i] = cellLabel(snap, i)
		if n := len([]rune(labels[i])); n > width {
			width = n
		}
	}
	for row := 0; row < snap.GridSize; row++ {
		cols := make([]string, snap.GridSize)
		for col := range cols {
			label := labels[row*snap.GridSize+col]
			cols[col] = strings.Repeat(" ", width-len([]rune(label))) + label
		}
		result.WriteString(strings.Join(cols, " "))
		result.WriteString("\n")
	}

	if len(snap.Revealed) > 0 {
		fmt.Fprintf(&result, "\nRevealed: %v", snap.Revealed)
	}
	if snap.Locked {
		result.WriteString("\nBoard locked while the group resolves")
	}
	if snap.Complete() {
		result.WriteString("\n\n🎉 COMPLETE!")
		if snap.Score != nil {
			fmt.Fprintf(&result, " Score: %d", *snap.Score)
		}
	}

	return result.String()
}

func formatRevealResult(index int, result *service.RevealResult) string {
	var header string
	switch {
	case !result.Accepted:
		header = fmt.Sprintf("Reveal %d ignored: %s", index, result.Reason)
	case result.ResolutionPending:
		header = fmt.Sprintf("Revealed %d. Group complete, resolving...", index)
	case result.Outcome == engine.RevealGroupComplete:
		header = fmt.Sprintf("Revealed %d. Group complete.", index)
	default:
		header = fmt.Sprintf("Revealed %d.", index)
	}
	return header + "\n\n" + formatSnapshot(result.Snapshot)
}
