package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/cartridge"
	"github.com/aretw0/cartridge/pkg/adapters/memory"
	"github.com/aretw0/cartridge/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pulseTrack = `import * as Tone from 'tone';
export const colour = "#00ffaa";
export async function playTrack(): Promise<Tone.Analyser> {
  return new Tone.Analyser("waveform", 64);
}
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	loader, err := cartridge.New(cartridge.WithFetcher(memory.NewFetcher(map[string]string{
		"pulse":  pulseTrack,
		"silent": `export const colour = "grey";`,
	})))
	require.NoError(t, err)
	return NewServer(loader)
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestHandleListTracks(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleListTracks(context.Background(), callRequest("list_tracks", nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var files []string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &files))
	assert.Equal(t, []string{"pulse.ts", "silent.ts"}, files)
}

func TestHandleInspectTrack(t *testing.T) {
	s := newTestServer(t)

	t.Run("Existing track", func(t *testing.T) {
		res, err := s.handleInspectTrack(context.Background(), callRequest("inspect_track", map[string]any{"name": "pulse"}))
		require.NoError(t, err)
		assert.False(t, res.IsError)

		var report domain.SourceReport
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &report))
		assert.Equal(t, "pulse.ts", report.Name)
		assert.Equal(t, "#00ffaa", report.Colour)
		assert.NotContains(t, report.Cleaned, "export")
	})

	t.Run("Missing track", func(t *testing.T) {
		res, err := s.handleInspectTrack(context.Background(), callRequest("inspect_track", map[string]any{"name": "ghost"}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "not found")
	})

	t.Run("Missing argument", func(t *testing.T) {
		res, err := s.handleInspectTrack(context.Background(), callRequest("inspect_track", map[string]any{}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})
}

func TestHandleLoadTrack(t *testing.T) {
	s := newTestServer(t)

	t.Run("Plays the entry point", func(t *testing.T) {
		res, err := s.handleLoadTrack(context.Background(), callRequest("load_track", map[string]any{"name": "pulse"}))
		require.NoError(t, err)
		require.False(t, res.IsError, resultText(t, res))

		var resp LoadResponse
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &resp))
		assert.Equal(t, "pulse", resp.Name)
		assert.Equal(t, "#00ffaa", resp.Colour)
		handle, ok := resp.Handle.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Analyser", handle["kind"])
	})

	t.Run("Entry point missing", func(t *testing.T) {
		res, err := s.handleLoadTrack(context.Background(), callRequest("load_track", map[string]any{"name": "silent"}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "silent.ts")
	})

	t.Run("Not found", func(t *testing.T) {
		res, err := s.handleLoadTrack(context.Background(), callRequest("load_track", map[string]any{"name": "ghost"}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})
}
