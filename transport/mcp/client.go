package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mahjong-connect/game/engine"
	"github.com/wricardo/mahjong-connect/game/service"
)

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
		"Mahjong Connect",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Mahjong Connect - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Clear the board by removing pairs of identical tiles. Two tiles can be removed when a
path of horizontal and vertical segments with at most 2 turns joins them through empty cells.

AVAILABLE TOOLS:
- create_session: Create a new board
- list_sessions: List all active sessions
- get_session: Get session details
- board_state: Show the board with coordinates and a legend
- select_tile: Pick a tile by row and col (two picks evaluate a pair)
- clear_selection: Drop the pending pick
- hint: Show one removable pair
- match_history: View evaluated pairs
- list_configs: List board presets
- game_instructions: Full rules`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
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
		Description: "Create a new game session with optional preset selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset to use, see list_configs (optional)",
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
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "board_state",
		Description: "Get the current board with row/col coordinates and a tile legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleBoardState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_tile",
		Description: "Select the tile at (row, col). The first pick is remembered, the second evaluates the pair.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row, 0-based from the top",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column, 0-based from the left",
				},
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handleSelectTile)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "clear_selection",
		Description: "Drop the pending first pick",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleClearSelection)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "hint",
		Description: "Show one pair that can be removed right now",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleHint)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "match_history",
		Description: "Get the evaluated pairs for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMatchHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of Mahjong Connect",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
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

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if configID := request.GetString("config_id", ""); configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created session: %s\n\n%s", session.ID, formatSessionInfo(&session))), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		remaining := 0
		if s.BoardState != nil {
			remaining = s.BoardState.Remaining
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Tiles left: %d, Created: %s)\n",
			s.ID, s.ConfigName, remaining, s.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleBoardState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.BoardState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatBoardState(&state)), nil
}

func (c *Client) handleSelectTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	row, err := request.RequireInt("row")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	col, err := request.RequireInt("col")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]int{"row": row, "col": col}
	var result service.SelectResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/select"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSelectResult(&result)), nil
}

func (c *Client) handleClearSelection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.BoardState
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/clear"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Selection cleared\n\n" + formatBoardState(&state)), nil
}

func (c *Client) handleHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var hint service.HintResult
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/hint"), nil, &hint); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHint(&hint)), nil
}

func (c *Client) handleMatchHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := url.Values{}
	if page := request.GetInt("page", 0); page > 0 {
		params.Set("page", fmt.Sprint(page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}
	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Presets:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Board: %dx%d, %d pairs, %d tile kinds\n\n",
			config.Name, config.ConfigID, config.Description, config.Rows, config.Cols, config.Pairs, config.Identities)
	}
	return mcp.NewToolResultText(b.String()), nil
}

const gameInstructions = `Mahjong Connect - Complete Instructions

GAME OBJECTIVE:
Remove every tile from the board. Tiles leave the board in identical pairs.

HOW A PAIR IS REMOVED:
1. select_tile on the first tile. It becomes the pending pick.
2. select_tile on a second tile with the same identity.
3. If a connecting path exists, both tiles disappear.

CONNECTING PATH RULES:
• The path runs through empty cells only, horizontally and vertically
• It may bend at most 2 times (3 straight segments)
• Adjacent identical tiles always connect
• The path never leaves the board

SELECTION OUTCOMES:
• first_picked - the tile is now the pending pick
• rejected_duplicate - you picked the pending tile again, nothing changes
• matched_and_removed - the pair connected and was removed
• matched_but_blocked - same identity but no path with at most 2 turns
• not_a_pair - different identities; the pick is cleared either way

BOARD LEGEND:
board_state prints one character per cell. '.' is an empty cell, every other character
stands for a tile identity listed under the board. Rows and columns are numbered from 0.

STRATEGY:
• Clear tiles near the edges first; they open corridors for the interior
• Use hint when unsure; it never changes the board
• A board with tiles left and no removable pair is stuck. Start a new session.`

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatBoardState(session.BoardState))
}

// formatBoardState renders the board with a column ruler, row numbers and a legend
func formatBoardState(state *engine.BoardState) string {
	if state == nil {
		return "No board state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Board %dx%d | Tiles left: %d | Pairs removed: %d | Moves available: %d\n",
		state.Rows, state.Cols, state.Remaining, state.RemovedPairs, state.AvailableMoves)
	if state.Selected != nil {
		fmt.Fprintf(&b, "Pending pick: (%d,%d)\n", state.Selected.Row, state.Selected.Col)
	}
	b.WriteString("\n")

	board, err := engine.BoardFromGrid(state.Grid)
	if err != nil {
		fmt.Fprintf(&b, "Board unavailable: %v\n", err)
		return b.String()
	}
	legend := board.Legend()

	b.WriteString("    ")
	for c := 0; c < state.Cols; c++ {
		fmt.Fprintf(&b, "%d", c%10)
	}
	b.WriteString("\n")
	for r, line := range board.Render(legend) {
		fmt.Fprintf(&b, "%3d %s\n", r, line)
	}

	if len(legend) > 0 {
		ids := make([]string, 0, len(legend))
		for id := range legend {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		b.WriteString("\nLegend: ")
		for i, id := range ids {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%c=%s", legend[id], id)
		}
		b.WriteString("\n")
	}

	switch {
	case state.Solved:
		b.WriteString("\n🎉 SOLVED!")
	case state.Stuck:
		b.WriteString("\n⚠️ STUCK: no removable pair is left")
	}

	return b.String()
}

func formatSelectResult(result *service.SelectResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Result: %s\n", result.Result)
	if result.Message != "" {
		fmt.Fprintf(&b, "%s\n", result.Message)
	}
	if len(result.Path) > 0 {
		b.WriteString("Path: ")
		b.WriteString(formatPositions(result.Path))
		b.WriteString("\n")
	}
	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}
	b.WriteString("\n")
	b.WriteString(formatBoardState(result.BoardState))
	return b.String()
}

func formatHint(hint *service.HintResult) string {
	switch {
	case hint.Solved:
		return "The board is solved."
	case !hint.Available || hint.First == nil || hint.Second == nil:
		return "No removable pair left. The board is stuck."
	}
	return fmt.Sprintf("Try %s: (%d,%d) and (%d,%d)\nMoves available: %d",
		hint.Identity, hint.First.Row, hint.First.Col, hint.Second.Row, hint.Second.Col, hint.AvailableMoves)
}

func formatPositions(path []engine.Position) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = fmt.Sprintf("(%d,%d)", p.Row, p.Col)
	}
	return strings.Join(parts, " → ")
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Match History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalMatches)

	for _, match := range history.Matches {
		status := "✗"
		if match.Result == engine.MatchedAndRemoved {
			status = "✓"
		}
		fmt.Fprintf(&b, "%d. %s (%d,%d)+(%d,%d) %s %s\n",
			match.MatchNumber, match.Identity,
			match.First.Row, match.First.Col, match.Second.Row, match.Second.Col,
			match.Result, status)
	}
	return b.String()
}
