package assistant

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	ServerName = "handbook-assistant"
	Version    = "1.0.0"
)

// NewMCPServer exposes the assistant over MCP with a chat tool and a
// raw handbook search tool.
func NewMCPServer(client *Client) *server.MCPServer {
	s := server.NewMCPServer(ServerName, Version,
		server.WithInstructions("Answers questions about the company employee handbook, keeping per-session conversation history."),
	)
	s.AddTool(mcp.NewToolWithRawSchema(
		"chat",
		"Ask the handbook assistant a question. Pass the same session_id to continue a conversation.",
		json.RawMessage(chatSchema),
	), chatHandler(client))
	s.AddTool(mcp.NewToolWithRawSchema(
		"search-handbook",
		"Score handbook excerpts against a query without generating an answer.",
		json.RawMessage(searchSchema),
	), searchHandler(client))
	return s
}

const chatSchema = `{
  "type": "object",
  "properties": {
    "message": {"type": "string", "description": "The user question"},
    "session_id": {"type": "string", "description": "Conversation identifier; omit to start a new session"},
    "use_retrieval": {"type": "boolean", "description": "Set false to answer without handbook excerpts", "default": true}
  },
  "required": ["message"]
}`

const searchSchema = `{
  "type": "object",
  "properties": {
    "query": {"type": "string", "description": "Text to score against the handbook"}
  },
  "required": ["query"]
}`

func chatHandler(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := req.RequireString("message")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sessionID := req.GetString("session_id", "")
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		useRetrieval := req.GetBool("use_retrieval", true)

		result, err := client.Respond(ctx, sessionID, message, useRetrieval)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		payload, err := json.Marshal(struct {
			Reply     string   `json:"reply"`
			Sources   []string `json:"sources"`
			SessionID string   `json:"session_id"`
		}{result.Reply, result.Sources, sessionID})
		if err != nil {
			return nil, fmt.Errorf("marshal chat result: %w", err)
		}
		return mcp.NewToolResultText(string(payload)), nil
	}
}

func searchHandler(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		scored, err := client.SearchHandbook(ctx, query)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		payload, err := json.Marshal(scored)
		if err != nil {
			return nil, fmt.Errorf("marshal search result: %w", err)
		}
		return mcp.NewToolResultText(string(payload)), nil
	}
}
