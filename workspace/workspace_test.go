package workspace

import (
	"context"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/deepagent/core"
	"github.com/hupe1980/deepagent/tool"
)

func TestWorkspace_RoundTripAndOverwrite(t *testing.T) {
	ws := New()

	ws.Write("notes.md", "c1")
	got, err := ws.Read("notes.md")
	require.NoError(t, err)
	assert.Equal(t, "c1", got)

	ws.Write("notes.md", "c2")
	got, err = ws.Read("notes.md")
	require.NoError(t, err)
	assert.Equal(t, "c2", got)
	assert.Equal(t, 1, ws.Len())
}

func TestWorkspace_ReadMissing(t *testing.T) {
	_, err := New().Read("absent.md")
	assert.ErrorIs(t, err, core.ErrWorkspaceNotFound)
}

func TestWorkspace_ListSortedAndDelete(t *testing.T) {
	ws := NewFromSeed(map[string]string{"b.md": "", "a.md": "", "c.md": ""})
	assert.Equal(t, []string{"a.md", "b.md", "c.md"}, ws.List())

	require.NoError(t, ws.Delete("b.md"))
	assert.Equal(t, []string{"a.md", "c.md"}, ws.List())
	assert.False(t, ws.Exists("b.md"))
	assert.ErrorIs(t, ws.Delete("b.md"), core.ErrWorkspaceNotFound)
}

func TestWorkspace_SeedAndSnapshotAreCopies(t *testing.T) {
	seed := map[string]string{"a.md": "x"}
	ws := NewFromSeed(seed)
	seed["a.md"] = "mutated"

	snap := ws.Snapshot()
	snap["a.md"] = "changed"

	got, err := ws.Read("a.md")
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}

func TestWorkspace_Edit(t *testing.T) {
	ws := New()
	ws.Write("f.md", "alpha beta alpha")

	_, err := ws.Edit("f.md", "alpha", "gamma", false)
	assert.ErrorIs(t, err, ErrEditAmbiguous)

	_, err = ws.Edit("f.md", "delta", "gamma", false)
	assert.ErrorIs(t, err, ErrEditNoMatch)

	_, err = ws.Edit("missing.md", "a", "b", false)
	assert.ErrorIs(t, err, core.ErrWorkspaceNotFound)

	n, err := ws.Edit("f.md", "beta", "BETA", false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = ws.Edit("f.md", "alpha", "gamma", true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, _ := ws.Read("f.md")
	assert.Equal(t, "gamma BETA gamma", got)
}

func newToolRegistry(t *testing.T, ws *Workspace) *tool.Registry {
	t.Helper()
	r, err := tool.NewRegistry(Tools(ws)...)
	require.NoError(t, err)
	return r
}

func toolCtx() *core.ToolContext {
	return core.NewToolContext(context.Background(), "run", "call", "parent", 0, nil)
}

func TestTools_WriteReadList(t *testing.T) {
	ws := New()
	r := newToolRegistry(t, ws)

	res, err := r.Invoke(toolCtx(), ToolWrite, map[string]any{"file_path": "report.md", "content": "line one\nline two\n"})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "Updated file report.md", res.Content)

	res, err = r.Invoke(toolCtx(), ToolList, nil)
	require.NoError(t, err)
	assert.Equal(t, `["report.md"]`, res.Content)

	res, err = r.Invoke(toolCtx(), ToolRead, map[string]any{"file_path": "report.md"})
	require.NoError(t, err)
	assert.Equal(t, "     1\tline one\n     2\tline two", res.Content)

	res, err = r.Invoke(toolCtx(), ToolRead, map[string]any{"file_path": "report.md", "offset": 1.0, "limit": 1.0})
	require.NoError(t, err)
	assert.Equal(t, "     2\tline two", res.Content)
}

func TestTools_ReadErrors(t *testing.T) {
	ws := NewFromSeed(map[string]string{"one.md": "single", "empty.md": ""})
	r := newToolRegistry(t, ws)

	res, err := r.Invoke(toolCtx(), ToolRead, map[string]any{"file_path": "nope.md"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "not found")

	res, err = r.Invoke(toolCtx(), ToolRead, map[string]any{"file_path": "one.md", "offset": 5.0})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "exceeds file length")

	res, err = r.Invoke(toolCtx(), ToolRead, map[string]any{"file_path": "empty.md"})
	require.NoError(t, err)
	assert.Equal(t, "(empty file)", res.Content)

	_, err = r.Invoke(toolCtx(), ToolRead, map[string]any{})
	assert.ErrorIs(t, err, core.ErrInvalidArguments)
}

func TestTools_ReadLargeLimit(t *testing.T) {
	ws := NewFromSeed(map[string]string{"notes.md": "a\nb\nc"})
	r := newToolRegistry(t, ws)

	res, err := r.Invoke(toolCtx(), ToolRead, map[string]any{"file_path": "notes.md", "offset": 1, "limit": math.MaxInt})
	require.NoError(t, err)
	require.False(t, res.IsError, res.Content)
	assert.Equal(t, "     2\tb\n     3\tc", res.Content)
}

func TestTools_ReadTruncatesOnRuneBoundary(t *testing.T) {
	ws := NewFromSeed(map[string]string{"prices.md": strings.Repeat("€", 1000)})
	r := newToolRegistry(t, ws)

	res, err := r.Invoke(toolCtx(), ToolRead, map[string]any{"file_path": "prices.md"})
	require.NoError(t, err)
	require.False(t, res.IsError, res.Content)

	assert.True(t, utf8.ValidString(res.Content))

	_, line, ok := strings.Cut(res.Content, "\t")
	require.True(t, ok)
	assert.Len(t, line, 1998)
	assert.Equal(t, strings.Repeat("€", 666), line)
}

func TestTools_Edit(t *testing.T) {
	ws := NewFromSeed(map[string]string{"draft.md": "TBD and TBD"})
	r := newToolRegistry(t, ws)

	res, err := r.Invoke(toolCtx(), ToolEdit, map[string]any{"file_path": "draft.md", "old_string": "TBD", "new_string": "done"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "not unique")

	res, err = r.Invoke(toolCtx(), ToolEdit, map[string]any{
		"file_path": "draft.md", "old_string": "TBD", "new_string": "done", "replace_all": true,
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "Replaced 2 occurrence(s) in draft.md", res.Content)

	got, _ := ws.Read("draft.md")
	assert.Equal(t, "done and done", got)
}
