// Package mcp exposes the order bot as a Model Context Protocol server,
// so agents can hold a conversation with it through tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/posterman/orderbot/internal/logging"
	"github.com/posterman/orderbot/pkg/domain"
	"github.com/posterman/orderbot/pkg/ports"
	"github.com/posterman/orderbot/pkg/runner"
)

// CatalogURI is the resource listing product cards.
const CatalogURI = "orderbot://catalog"

// TurnResponse is the structured output of send_message.
type TurnResponse struct {
	Text    string   `json:"text" jsonschema_description:"Bot reply text (markdown)"`
	Options []string `json:"options" jsonschema_description:"Quick replies; empty means free text is expected"`
	Source  string   `json:"source" jsonschema_description:"remote or local"`
}

// Engine is what the MCP server needs from the bot.
type Engine interface {
	Respond(ctx context.Context, sessionID, utterance string) (domain.Turn, error)
	Reset(ctx context.Context, sessionID string) error
}

// Server wraps the engine as an MCP server.
type Server struct {
	engine    Engine
	catalog   ports.Catalog
	sanitizer runner.Sanitizer
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithCatalog exposes the catalog resource.
func WithCatalog(c ports.Catalog) Option {
	return func(s *Server) {
		s.catalog = c
	}
}

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, version string, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		sanitizer: runner.NewSanitizer(),
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("orderbot-mcp", version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	sendTool := mcp.NewTool("send_message",
		mcp.WithDescription("Send one customer message to the order bot and get its reply."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation identifier")),
		mcp.WithString("message", mcp.Required(), mcp.Description("Customer message, or one of the offered options")),
		mcp.WithOutputSchema[TurnResponse](),
	)
	s.mcpServer.AddTool(sendTool, mcp.NewStructuredToolHandler(s.handleSendMessage))

	resetTool := mcp.NewTool("reset_session",
		mcp.WithDescription("Return a conversation to the main menu. The order draft is kept."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation identifier")),
	)
	s.mcpServer.AddTool(resetTool, s.handleReset)
}

func (s *Server) handleSendMessage(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (TurnResponse, error) {
	sessionID, _ := args["session_id"].(string)
	message, _ := args["message"].(string)
	if sessionID == "" {
		return TurnResponse{}, errors.New("session_id is required")
	}

	clean, err := s.sanitizer.Clean(message)
	if err != nil {
		s.logger.Warn("MCP send_message: Input rejected", "err", err, "size", len(message))
		return TurnResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	turn, err := s.engine.Respond(ctx, sessionID, clean)
	if err != nil {
		return TurnResponse{}, fmt.Errorf("send failed: %w", err)
	}
	options := turn.Reply.Options
	if options == nil {
		options = []string{}
	}
	return TurnResponse{Text: turn.Reply.Text, Options: options, Source: string(turn.Source)}, nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.engine.Reset(ctx, sessionID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reset failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("session %s is back at the main menu", sessionID)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "Product Catalog",
		mcp.WithResourceDescription("Products the bot offers when placing a website order"),
		mcp.WithMIMEType("application/json"),
	), s.readCatalog)
}

func (s *Server) readCatalog(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	products := []domain.ProductCard{}
	if s.catalog != nil {
		list, err := s.catalog.Products(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list catalog: %w", err)
		}
		products = append(products, list...)
	}
	jsonBytes, err := json.Marshal(products)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      CatalogURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
