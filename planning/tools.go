package planning

import (
	"errors"
	"fmt"

	"github.com/hupe1980/deepagent/core"
	"github.com/hupe1980/deepagent/tool"
)

const (
	ToolWriteTodos = "write_todos"
	ToolReadTodos  = "read_todos"
)

type writeTodosRequest struct {
	Todos []TodoItem `json:"todos" description:"The complete, updated todo list"`
}

func (r writeTodosRequest) Validate() error {
	for i, it := range r.Todos {
		if it.Content == "" {
			return fmt.Errorf("todo %d: content is required", i)
		}
		if !it.Status.Valid() {
			return fmt.Errorf("todo %d: invalid status %q", i, it.Status)
		}
	}
	return nil
}

type readTodosRequest struct{}

// Tools returns write_todos and read_todos bound to l.
func Tools(l *Ledger) []tool.Tool {
	return []tool.Tool{NewWriteTodosTool(l), NewReadTodosTool(l)}
}

// NewWriteTodosTool replaces the todo list with the one supplied by the model.
func NewWriteTodosTool(l *Ledger) tool.Tool {
	return tool.NewTypedTool(ToolWriteTodos,
		"Create or update the plan for the current task. Always send the full list; it replaces the previous one.",
		func(toolCtx *core.ToolContext, req writeTodosRequest) (string, error) {
			if l == nil {
				return "", errors.New("todo ledger not configured")
			}

			l.Replace(req.Todos)
			toolCtx.LogDebug("planning.todos.updated", "count", len(req.Todos))

			return fmt.Sprintf("Updated todo list (%d items)\n%s", len(req.Todos), l.String()), nil
		})
}

// NewReadTodosTool returns the current todo list.
func NewReadTodosTool(l *Ledger) tool.Tool {
	return tool.NewTypedTool(ToolReadTodos, "Read the current todo list.",
		func(_ *core.ToolContext, _ readTodosRequest) ([]TodoItem, error) {
			if l == nil {
				return nil, errors.New("todo ledger not configured")
			}
			return l.Items(), nil
		})
}
