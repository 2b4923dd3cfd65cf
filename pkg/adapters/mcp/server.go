package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/loader"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MachineResponse is the structured result of every tool that moves or
// inspects a machine.
type MachineResponse struct {
	ID          string      `json:"id" jsonschema_description:"Session ID of the machine"`
	View        domain.View `json:"view" jsonschema_description:"Snapshot of tape, head, state and phase"`
	Transitions int         `json:"transitions" jsonschema_description:"Micro-steps taken by this call"`
	Error       string      `json:"error,omitempty" jsonschema_description:"Step error that stopped the machine, if any"`
}

// PreviewResponse is the structured result of the preview tool.
type PreviewResponse struct {
	Valid  bool     `json:"valid" jsonschema_description:"Whether the configuration passed strict validation"`
	Graph  string   `json:"graph" jsonschema_description:"Graph description (dot or mermaid)"`
	Errors []string `json:"errors,omitempty" jsonschema_description:"Strict validation errors"`
}

// Server wraps a MachineService and exposes it as an MCP Server.
type Server struct {
	service   ports.MachineService
	library   ports.MachineLibrary
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLibrary lets create_machine start machines by name.
func WithLibrary(lib ports.MachineLibrary) Option {
	return func(s *Server) {
		s.library = lib
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(svc ports.MachineService, opts ...Option) *Server {
	s := &Server{
		service:   svc,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("turing-mcp", strings.TrimSpace(turing.Version)),
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

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
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

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("create_machine",
		mcp.WithDescription("Compile a Turing machine and start a session. Pass either a YAML/JSON configuration or the name of a library machine."),
		mcp.WithString("id", mcp.Description("Session ID (generated when omitted)")),
		mcp.WithString("config", mcp.Description("Machine configuration as YAML or JSON text")),
		mcp.WithString("name", mcp.Description("Name of a machine in the library")),
		mcp.WithBoolean("permissive", mcp.Description("Skip strict validation; duplicate rules resolve last-wins")),
		mcp.WithOutputSchema[MachineResponse](),
	), mcp.NewStructuredToolHandler(s.handleCreate))

	s.mcpServer.AddTool(mcp.NewTool("advance",
		mcp.WithDescription("Perform micro-steps. Eight micro-steps make one transition; stops early once halted."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithNumber("steps", mcp.Description("Number of micro-steps (default 1)")),
		mcp.WithOutputSchema[MachineResponse](),
	), mcp.NewStructuredToolHandler(s.handleAdvance))

	s.mcpServer.AddTool(mcp.NewTool("reset",
		mcp.WithDescription("Restore the initial tape, head and state."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[MachineResponse](),
	), mcp.NewStructuredToolHandler(s.handleReset))

	s.mcpServer.AddTool(mcp.NewTool("view",
		mcp.WithDescription("Return the current snapshot of a machine."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[MachineResponse](),
	), mcp.NewStructuredToolHandler(s.handleView))

	s.mcpServer.AddTool(mcp.NewTool("graph",
		mcp.WithDescription("Render the state graph of a machine with its current state highlighted."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("format", mcp.Description("dot (default) or mermaid")),
	), s.handleGraph)

	s.mcpServer.AddTool(mcp.NewTool("preview",
		mcp.WithDescription("Validate a configuration and render its graph without starting a session."),
		mcp.WithString("config", mcp.Required(), mcp.Description("Machine configuration as YAML or JSON text")),
		mcp.WithString("format", mcp.Description("dot (default) or mermaid")),
		mcp.WithOutputSchema[PreviewResponse](),
	), mcp.NewStructuredToolHandler(s.handlePreview))
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("turing://sessions", "Active machine sessions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.service.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}
		return jsonResource("turing://sessions", ids)
	})

	if s.library == nil {
		return
	}
	s.mcpServer.AddResource(mcp.NewResource("turing://library", "Machines available by name",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.library.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list library: %w", err)
		}
		return jsonResource("turing://library", names)
	})
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleCreate(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (MachineResponse, error) {
	cfg, err := s.configFrom(ctx, args)
	if err != nil {
		return MachineResponse{}, err
	}

	id := stringArg(args, "id")
	if id == "" {
		id = uuid.New().String()
	}
	permissive, _ := args["permissive"].(bool)

	view, err := s.service.Create(ctx, id, cfg, !permissive)
	if err != nil {
		return MachineResponse{}, fmt.Errorf("create failed: %w", err)
	}
	s.logger.Info("MCP machine created", "session_id", id)
	return MachineResponse{ID: id, View: view}, nil
}

func (s *Server) configFrom(ctx context.Context, args map[string]any) (domain.Config, error) {
	text, name := stringArg(args, "config"), stringArg(args, "name")
	switch {
	case text != "":
		// YAML is a superset of JSON, so one parser covers both.
		return loader.Parse([]byte(text), loader.FormatYAML)
	case name != "" && s.library != nil:
		m, err := s.library.Get(ctx, name)
		if err != nil {
			return domain.Config{}, err
		}
		return m.Config, nil
	case name != "":
		return domain.Config{}, errors.New("no machine library configured")
	default:
		return domain.Config{}, errors.New("either config or name is required")
	}
}

// handleAdvance reports step errors in the result rather than failing the
// call, so the client still sees where the machine stopped.
func (s *Server) handleAdvance(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (MachineResponse, error) {
	id := stringArg(args, "id")
	steps := 1
	if n, ok := args["steps"].(float64); ok && n >= 1 {
		steps = int(n)
	}

	view, taken, err := s.service.Advance(ctx, id, steps)
	var stepErr *domain.StepError
	switch {
	case errors.As(err, &stepErr):
		return MachineResponse{ID: id, View: view, Transitions: taken, Error: err.Error()}, nil
	case err != nil:
		return MachineResponse{}, fmt.Errorf("advance failed: %w", err)
	}
	return MachineResponse{ID: id, View: view, Transitions: taken}, nil
}

func (s *Server) handleReset(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (MachineResponse, error) {
	id := stringArg(args, "id")
	view, err := s.service.Reset(ctx, id)
	if err != nil {
		return MachineResponse{}, fmt.Errorf("reset failed: %w", err)
	}
	return MachineResponse{ID: id, View: view}, nil
}

func (s *Server) handleView(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (MachineResponse, error) {
	id := stringArg(args, "id")
	view, err := s.service.View(ctx, id)
	if err != nil {
		return MachineResponse{}, fmt.Errorf("view failed: %w", err)
	}
	return MachineResponse{ID: id, View: view}, nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	out, err := s.service.Graph(ctx, stringArg(args, "id"), stringArg(args, "format"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("graph failed: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handlePreview(_ context.Context, _ mcp.CallToolRequest, args map[string]any) (PreviewResponse, error) {
	cfg, err := loader.Parse([]byte(stringArg(args, "config")), loader.FormatYAML)
	if err != nil {
		return PreviewResponse{}, err
	}
	p, err := graph.PreviewConfig(cfg, stringArg(args, "format"))
	if err != nil {
		return PreviewResponse{}, err
	}

	resp := PreviewResponse{Valid: p.Valid(), Graph: p.Graph}
	for _, e := range p.Errors {
		resp.Errors = append(resp.Errors, e.Error())
	}
	return resp, nil
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}
