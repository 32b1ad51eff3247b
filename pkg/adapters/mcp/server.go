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

	"github.com/aretw0/sinew"
	"github.com/aretw0/sinew/internal/logging"
	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/keyframes"
	"github.com/aretw0/sinew/pkg/nodes/aim"
	"github.com/aretw0/sinew/pkg/scene"
	"github.com/aretw0/sinew/pkg/schema"
	"github.com/aretw0/sinew/pkg/vecmath"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const typesURI = "sinew://types"

// EvaluateArgs are the arguments of evaluate_scene.
type EvaluateArgs struct {
	Scene  string   `json:"scene"`
	Format string   `json:"format,omitempty"`
	Plugs  []string `json:"plugs,omitempty"`
}

// EvaluateResult aligns with the HTTP /evaluate response.
type EvaluateResult struct {
	Results map[string]any    `json:"results" jsonschema_description:"Value of each evaluated plug"`
	Errors  map[string]string `json:"errors,omitempty" jsonschema_description:"Plugs that could not be read"`
}

// AimArgs are the arguments of solve_aim.
type AimArgs struct {
	Constraint []float64 `json:"constraint"`
	Aim        []float64 `json:"aim"`
	Up         []float64 `json:"up"`
	Strict     bool      `json:"strict,omitempty"`
}

// AimResult is an aim solution with plain arrays.
type AimResult struct {
	Rotate   []float64 `json:"rotate" jsonschema_description:"XYZ Euler angles in degrees"`
	Aim      []float64 `json:"aim"`
	Up       []float64 `json:"up"`
	Side     []float64 `json:"side"`
	Fallback string    `json:"fallback" jsonschema_description:"Degenerate-geometry rules used"`
}

// ReduceArgs are the arguments of reduce_keyframes.
type ReduceArgs struct {
	Keys    []domain.Keyframe `json:"keys"`
	Epsilon float64           `json:"epsilon"`
}

// Server exposes an engine as an MCP server.
type Server struct {
	engine    *sinew.Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine *sinew.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		engine: engine,
		logger: logger,
		mcpServer: server.NewMCPServer("sinew-mcp", strings.TrimSpace(sinew.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

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

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_node_types",
		mcp.WithDescription("List the registered node types with their attribute schemas."),
	), s.handleListTypes)

	evaluateTool := mcp.NewTool("evaluate_scene",
		mcp.WithDescription("Build a node graph from a scene description and read plugs from it."),
		mcp.WithString("scene", mcp.Required(), mcp.Description("Scene source: nodes, connections and values")),
		mcp.WithString("format", mcp.Enum("yaml", "json", "hcl"), mcp.DefaultString("yaml"),
			mcp.Description("Scene source format")),
		mcp.WithArray("plugs", mcp.WithStringItems(),
			mcp.Description("Plugs to read as node.attribute; defaults to the scene's evaluate list")),
		mcp.WithOutputSchema[EvaluateResult](),
	)
	s.mcpServer.AddTool(evaluateTool, mcp.NewStructuredToolHandler(s.handleEvaluate))

	aimTool := mcp.NewTool("solve_aim",
		mcp.WithDescription("Orient an object at constraint toward aim, with up fixing the roll."),
		mcp.WithArray("constraint", mcp.Required(), mcp.WithNumberItems(), mcp.MinItems(3), mcp.MaxItems(3)),
		mcp.WithArray("aim", mcp.Required(), mcp.WithNumberItems(), mcp.MinItems(3), mcp.MaxItems(3)),
		mcp.WithArray("up", mcp.Required(), mcp.WithNumberItems(), mcp.MinItems(3), mcp.MaxItems(3)),
		mcp.WithBoolean("strict", mcp.Description("Fail on degenerate geometry instead of falling back")),
		mcp.WithOutputSchema[AimResult](),
	)
	s.mcpServer.AddTool(aimTool, mcp.NewStructuredToolHandler(s.handleAim))

	reduceTool := mcp.NewTool("reduce_keyframes",
		mcp.WithDescription("Remove keys that linear interpolation between their neighbours reproduces within epsilon."),
		mcp.WithArray("keys", mcp.Required(), mcp.Items(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"time":  map[string]any{"type": "number"},
				"value": map[string]any{"type": "number"},
			},
			"required": []string{"time", "value"},
		})),
		mcp.WithNumber("epsilon", mcp.Required(), mcp.Min(0)),
		mcp.WithOutputSchema[keyframes.Result](),
	)
	s.mcpServer.AddTool(reduceTool, mcp.NewStructuredToolHandler(s.handleReduce))
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(typesURI, "Registered node types",
		mcp.WithMIMEType("application/json"),
	), s.readTypes)
}

func (s *Server) typesJSON() ([]byte, error) {
	defs := s.engine.Registry().Types()
	out := make([]*schema.Schema, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Schema)
	}
	return json.Marshal(out)
}

func (s *Server) handleListTypes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := s.typesJSON()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) readTypes(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := s.typesJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to describe types: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      typesURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest, args EvaluateArgs) (EvaluateResult, error) {
	format := scene.Format(strings.ToLower(args.Format))
	if format == "" {
		format = scene.FormatYAML
	}
	sc, err := scene.Parse([]byte(args.Scene), format, "scene")
	if err != nil {
		return EvaluateResult{}, err
	}
	ev, err := s.engine.Evaluate(ctx, sc, args.Plugs...)
	if err != nil {
		s.logger.WarnContext(ctx, "evaluate_scene failed", "err", err)
		return EvaluateResult{}, err
	}
	return EvaluateResult{Results: ev.Results, Errors: ev.Errors}, nil
}

func (s *Server) handleAim(ctx context.Context, request mcp.CallToolRequest, args AimArgs) (AimResult, error) {
	pc, err := vector("constraint", args.Constraint)
	if err != nil {
		return AimResult{}, err
	}
	pa, err := vector("aim", args.Aim)
	if err != nil {
		return AimResult{}, err
	}
	pu, err := vector("up", args.Up)
	if err != nil {
		return AimResult{}, err
	}

	var opts []aim.Option
	if args.Strict {
		opts = append(opts, aim.WithStrict())
	}
	sol, err := aim.SolvePositions(pc, pa, pu, opts...)
	if err != nil {
		var degenerate *domain.DegenerateVectorError
		if !errors.As(err, &degenerate) {
			s.logger.ErrorContext(ctx, "solve_aim failed", "err", err)
		}
		return AimResult{}, err
	}
	return AimResult{
		Rotate:   slice(sol.Rotation),
		Aim:      slice(sol.Aim),
		Up:       slice(sol.Up),
		Side:     slice(sol.Side),
		Fallback: sol.Fallbacks.String(),
	}, nil
}

func (s *Server) handleReduce(ctx context.Context, request mcp.CallToolRequest, args ReduceArgs) (keyframes.Result, error) {
	res, err := keyframes.Reduce(args.Keys, args.Epsilon)
	if err != nil {
		return keyframes.Result{}, err
	}
	if res.Removed == nil {
		res.Removed = []domain.Keyframe{}
	}
	return res, nil
}

func vector(name string, v []float64) (vecmath.Vector3, error) {
	if len(v) != 3 {
		return vecmath.Vector3{}, fmt.Errorf("%s: want 3 components, got %d", name, len(v))
	}
	return vecmath.Vec3(v[0], v[1], v[2]), nil
}

func slice(v vecmath.Vector3) []float64 {
	a := v.Array()
	return a[:]
}
