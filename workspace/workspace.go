// Package workspace provides the run-scoped virtual file store shared by the
// parent loop and every delegated sub-agent loop.
//
// Files are plain named text artifacts. Writes overwrite (last writer wins),
// there is no versioning and nothing is persisted outside the process: the
// workspace lives and dies with a single run. Reasoning models reach it through
// the file tools returned by Tools.
package workspace

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/hupe1980/deepagent/core"
)

var (
	// ErrEditNoMatch is returned by Edit when the old string does not occur.
	ErrEditNoMatch = errors.New("old string not found")

	// ErrEditAmbiguous is returned by Edit when the old string occurs more than
	// once and replaceAll is false.
	ErrEditAmbiguous = errors.New("old string is not unique")
)

// Workspace is an in-memory name -> content store guarded by an RWMutex.
type Workspace struct {
	mu    sync.RWMutex
	files map[string]string
}

// New returns an empty workspace.
func New() *Workspace {
	return &Workspace{files: make(map[string]string)}
}

// NewFromSeed returns a workspace pre-populated with a copy of seed.
func NewFromSeed(seed map[string]string) *Workspace {
	ws := New()
	maps.Copy(ws.files, seed)
	return ws
}

// Write stores content under name, replacing any previous content.
func (w *Workspace) Write(name, content string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.files[name] = content
}

// Read returns the content stored under name or core.ErrWorkspaceNotFound.
func (w *Workspace) Read(name string) (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	content, ok := w.files[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", core.ErrWorkspaceNotFound, name)
	}

	return content, nil
}

// Exists reports whether a file named name is present.
func (w *Workspace) Exists(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	_, ok := w.files[name]
	return ok
}

// List returns all file names in lexicographic order.
func (w *Workspace) List() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return slices.Sorted(maps.Keys(w.files))
}

// Delete removes name or returns core.ErrWorkspaceNotFound.
func (w *Workspace) Delete(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[name]; !ok {
		return fmt.Errorf("%w: %s", core.ErrWorkspaceNotFound, name)
	}

	delete(w.files, name)

	return nil
}

// Edit replaces oldStr with newStr in the named file and returns the number of
// replacements. Without replaceAll the old string must occur exactly once.
func (w *Workspace) Edit(name, oldStr, newStr string, replaceAll bool) (int, error) {
	if oldStr == "" {
		return 0, errors.New("old string must not be empty")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	content, ok := w.files[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", core.ErrWorkspaceNotFound, name)
	}

	n := strings.Count(content, oldStr)
	switch {
	case n == 0:
		return 0, fmt.Errorf("%w in %s", ErrEditNoMatch, name)
	case n > 1 && !replaceAll:
		return 0, fmt.Errorf("%w in %s: %d occurrences", ErrEditAmbiguous, name, n)
	}

	w.files[name] = strings.ReplaceAll(content, oldStr, newStr)

	return n, nil
}

// Len returns the number of stored files.
func (w *Workspace) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return len(w.files)
}

// Snapshot returns a copy of all files, safe for caller mutation.
func (w *Workspace) Snapshot() map[string]string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return maps.Clone(w.files)
}
