// Package mcpserver exposes the lessons as Model Context Protocol tools so
// an agent can list topics, preview them and run queries.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/sqlclass/internal/catalog"
	"github.com/leapstack-labs/sqlclass/internal/lesson"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names.
const (
	ToolTopics   = "sqlclass_topics"
	ToolDescribe = "sqlclass_describe"
	ToolQuery    = "sqlclass_query"
)

var errTopicRequired = errors.New("topic is required")

// SessionFactory returns a new idle lesson session. Every tool call gets its
// own session and therefore its own store.
type SessionFactory func() *lesson.Session

// NewServer returns an MCP server with all tools registered.
func NewServer(version string, sessions SessionFactory, logger *slog.Logger) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: "sqlclass", Version: version}, nil)
	Register(srv, sessions, logger)
	return srv
}

// Register adds the sqlclass tools to srv.
func Register(srv *mcp.Server, sessions SessionFactory, logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &handlers{sessions: sessions, logger: logger}

	addTool(srv, &mcp.Tool{
		Name:        ToolTopics,
		Description: "List the SQL topics in display order. Quiz topics carry a challenge; multi_table topics include the Orders table.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}, h.topics)

	addTool(srv, &mcp.Tool{
		Name: ToolDescribe,
		Description: "Generate fresh sample data for a topic and return its description, " +
			"the Customers (and Orders) tables and the result of the example query.",
		InputSchema: inputSchema(map[string]any{
			"topic": map[string]any{"type": "string", "description": "Topic identifier, e.g. WHERE or inner_join"},
		}, []string{"topic"}),
	}, h.describe)

	addTool(srv, &mcp.Tool{
		Name: ToolQuery,
		Description: "Run a SQL query against freshly generated sample data for a topic. " +
			"For quiz topics the result says whether it matches the expected answer.",
		InputSchema: inputSchema(map[string]any{
			"topic": map[string]any{"type": "string", "description": "Topic identifier"},
			"sql":   map[string]any{"type": "string", "description": "SQL to execute"},
		}, []string{"topic", "sql"}),
	}, h.query)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// addTool registers a handler that decodes its arguments into In and
// answers with the JSON encoding of its result.
func addTool[In any](srv *mcp.Server, tool *mcp.Tool, fn func(context.Context, In) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var in In
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &in); err != nil {
				return errorResult(fmt.Errorf("invalid arguments: %w", err)), nil
			}
		}

		resp, err := fn(ctx, in)
		if err != nil {
			return errorResult(err), nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			return errorResult(fmt.Errorf("marshal: %w", err)), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

func errorResult(err error) *mcp.CallToolResult {
	var res mcp.CallToolResult
	res.SetError(err)
	return &res
}

type handlers struct {
	sessions SessionFactory
	logger   *slog.Logger
}

type topicArgs struct {
	Topic string `json:"topic"`
}

type queryArgs struct {
	Topic string `json:"topic"`
	SQL   string `json:"sql"`
}

func (h *handlers) topics(_ context.Context, _ struct{}) (any, error) {
	return map[string]any{
		"topics": catalog.Topics(),
	}, nil
}

func (h *handlers) describe(ctx context.Context, args topicArgs) (any, error) {
	if strings.TrimSpace(args.Topic) == "" {
		return nil, errTopicRequired
	}
	sess := h.sessions()
	defer func() { _ = sess.Close() }()

	preview, err := sess.Select(ctx, args.Topic)
	if err != nil {
		h.logger.Error("describe failed", "topic", args.Topic, "error", err)
		return nil, err
	}
	return preview, nil
}

func (h *handlers) query(ctx context.Context, args queryArgs) (any, error) {
	if strings.TrimSpace(args.Topic) == "" {
		return nil, errTopicRequired
	}
	sess := h.sessions()
	defer func() { _ = sess.Close() }()

	res, err := sess.RunTopic(ctx, args.Topic, args.SQL)
	if err != nil {
		h.logger.Error("query setup failed", "topic", args.Topic, "error", err)
		return nil, err
	}
	if !res.OK() {
		return nil, fmt.Errorf("query failed: %s", res.Error)
	}
	h.logger.Debug("query executed", "topic", args.Topic, "rows", res.Table.RowCount())
	return res, nil
}

// Serve runs srv over stdin/stdout until ctx is done or the client
// disconnects.
func Serve(ctx context.Context, srv *mcp.Server) error {
	return srv.Run(ctx, &mcp.StdioTransport{})
}
