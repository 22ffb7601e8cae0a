// Package planning implements the advisory todo list a reasoning model keeps
// to track multi-phase progress.
//
// The engine never interprets the ledger: it does not validate status
// transitions or block on pending items. The model reads and rewrites the
// whole list through the write_todos and read_todos tools.
package planning

import (
	"fmt"
	"strings"
	"sync"
)

// Status is the progress marker of a TodoItem.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// TodoItem is one planned step.
type TodoItem struct {
	Content string `json:"content" description:"Short description of the step"`
	Status  Status `json:"status" enum:"pending,in_progress,completed" description:"Current status of the step"`
}

// Ledger holds the ordered todo list of one run.
type Ledger struct {
	mu    sync.RWMutex
	items []TodoItem
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{items: make([]TodoItem, 0)}
}

// Replace swaps the whole list. Items are copied.
func (l *Ledger) Replace(items []TodoItem) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = append(make([]TodoItem, 0, len(items)), items...)
}

// Items returns a copy of the current list.
func (l *Ledger) Items() []TodoItem {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return append(make([]TodoItem, 0, len(l.items)), l.items...)
}

// Counts returns the number of items per status.
func (l *Ledger) Counts() map[Status]int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	counts := make(map[Status]int, 3)
	for _, it := range l.items {
		counts[it.Status]++
	}
	return counts
}

// String renders the list as a markdown checklist.
func (l *Ledger) String() string {
	items := l.Items()
	if len(items) == 0 {
		return "No todos."
	}

	var sb strings.Builder
	for i, it := range items {
		mark := " "
		switch it.Status {
		case StatusCompleted:
			mark = "x"
		case StatusInProgress:
			mark = "~"
		}
		fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, mark, it.Content)
	}

	return strings.TrimSuffix(sb.String(), "\n")
}
