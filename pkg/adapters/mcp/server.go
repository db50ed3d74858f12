// Package mcp exposes the track library to agents over the Model Context Protocol.
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

	"github.com/aretw0/cartridge"
	"github.com/aretw0/cartridge/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// TracksURI is the resource that lists available tracks.
const TracksURI = "cartridge://tracks"

// Loader defines what the MCP server needs from the track loader.
type Loader interface {
	ListTracks(ctx context.Context) []string
	Inspect(ctx context.Context, name string) (*domain.SourceReport, error)
	LoadTrack(ctx context.Context, name string) (*domain.Track, error)
}

// LoadResponse is returned by the load_track tool.
type LoadResponse struct {
	Name   string `json:"name"`
	Colour string `json:"colour,omitempty"`
	Handle any    `json:"handle,omitempty"`
}

// Server wraps the Loader and exposes it as an MCP Server.
type Server struct {
	loader    Loader
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(loader Loader) *Server {
	s := &Server{
		loader:    loader,
		mcpServer: server.NewMCPServer("cartridge-mcp", strings.TrimSpace(cartridge.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx ends.
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
		slog.Info("MCP Server listening (SSE)", "address", addr)
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
	s.mcpServer.AddTool(mcp.NewTool("list_tracks",
		mcp.WithDescription("List the track source files currently available."),
	), s.handleListTracks)

	s.mcpServer.AddTool(mcp.NewTool("inspect_track",
		mcp.WithDescription("Show a track's raw source, its cleaned form and its colour, without running it."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Track name, with or without the .ts extension")),
	), s.handleInspectTrack)

	s.mcpServer.AddTool(mcp.NewTool("load_track",
		mcp.WithDescription("Load a track in the sandbox, play it once and report the handle it returned."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Track name, with or without the .ts extension")),
	), s.handleLoadTrack)
}

func (s *Server) handleListTracks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.loader.ListTracks(ctx))
}

func (s *Server) handleInspectTrack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := s.loader.Inspect(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("track %q not found", name)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
	}
	return jsonResult(report)
}

func (s *Server) handleLoadTrack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	track, err := s.loader.LoadTrack(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if track == nil {
		return mcp.NewToolResultError(fmt.Sprintf("track %q not found", name)), nil
	}
	defer track.Entry.Stop()

	handle, err := track.Entry.Play(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("play failed: %v", err)), nil
	}
	return jsonResult(LoadResponse{Name: track.Name, Colour: track.Colour, Handle: handle})
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(TracksURI, "Available Tracks",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.loader.ListTracks(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to encode tracks: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      TracksURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
