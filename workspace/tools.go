package workspace

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hupe1980/deepagent/core"
	"github.com/hupe1980/deepagent/tool"
)

// Tool names exposed to reasoning models.
const (
	ToolList  = "ls"
	ToolRead  = "read_file"
	ToolWrite = "write_file"
	ToolEdit  = "edit_file"
)

// DefaultReadLimit caps the number of lines read_file returns when no limit is
// given.
const DefaultReadLimit = 2000

// maxLineLength truncates very long lines in read_file output.
const maxLineLength = 2000

type listRequest struct{}

type readRequest struct {
	FilePath string `json:"file_path" description:"Name of the workspace file to read"`
	Offset   int    `json:"offset,omitempty" description:"Line number to start reading from (0-based)"`
	Limit    int    `json:"limit,omitempty" description:"Maximum number of lines to read (default 2000)"`
}

func (r readRequest) Validate() error {
	if r.FilePath == "" {
		return errors.New("file_path is required")
	}
	if r.Offset < 0 {
		return errors.New("offset must not be negative")
	}
	if r.Limit < 0 {
		return errors.New("limit must not be negative")
	}
	return nil
}

type writeRequest struct {
	FilePath string `json:"file_path" description:"Name of the workspace file to write"`
	Content  string `json:"content" description:"Full content of the file"`
}

func (r writeRequest) Validate() error {
	if r.FilePath == "" {
		return errors.New("file_path is required")
	}
	return nil
}

type editRequest struct {
	FilePath   string `json:"file_path" description:"Name of the workspace file to edit"`
	OldString  string `json:"old_string" description:"Exact text to replace"`
	NewString  string `json:"new_string" description:"Replacement text"`
	ReplaceAll bool   `json:"replace_all,omitempty" description:"Replace every occurrence instead of requiring a unique match"`
}

func (r editRequest) Validate() error {
	if r.FilePath == "" {
		return errors.New("file_path is required")
	}
	if r.OldString == "" {
		return errors.New("old_string is required")
	}
	return nil
}

// Tools returns the file tools bound to ws: ls, read_file, write_file and
// edit_file.
func Tools(ws *Workspace) []tool.Tool {
	return []tool.Tool{
		NewListTool(ws),
		NewReadTool(ws),
		NewWriteTool(ws),
		NewEditTool(ws),
	}
}

// NewListTool lists workspace file names.
func NewListTool(ws *Workspace) tool.Tool {
	return tool.NewTypedTool(ToolList, "List all files in the shared workspace.",
		func(_ *core.ToolContext, _ listRequest) ([]string, error) {
			return ws.List(), nil
		})
}

// NewReadTool reads a window of lines from a workspace file. Output lines are
// numbered starting at 1 in the style of cat -n.
func NewReadTool(ws *Workspace) tool.Tool {
	return tool.NewTypedTool(ToolRead,
		"Read a file from the shared workspace. Use offset and limit to page through long files.",
		func(_ *core.ToolContext, req readRequest) (string, error) {
			content, err := ws.Read(req.FilePath)
			if err != nil {
				return "", tool.NewToolError(ToolRead, err.Error(), tool.CodeNotFound)
			}

			limit := req.Limit
			if limit == 0 {
				limit = DefaultReadLimit
			}

			return numberLines(content, req.Offset, limit)
		})
}

// NewWriteTool creates or overwrites a workspace file.
func NewWriteTool(ws *Workspace) tool.Tool {
	return tool.NewTypedTool(ToolWrite,
		"Write a file to the shared workspace, replacing any existing content.",
		func(toolCtx *core.ToolContext, req writeRequest) (string, error) {
			ws.Write(req.FilePath, req.Content)
			toolCtx.LogDebug("workspace.file.written", "file", req.FilePath, "bytes", len(req.Content))
			return fmt.Sprintf("Updated file %s", req.FilePath), nil
		})
}

// NewEditTool performs exact string replacement in a workspace file.
func NewEditTool(ws *Workspace) tool.Tool {
	return tool.NewTypedTool(ToolEdit,
		"Replace an exact string in a workspace file. The old string must be unique unless replace_all is set.",
		func(_ *core.ToolContext, req editRequest) (string, error) {
			n, err := ws.Edit(req.FilePath, req.OldString, req.NewString, req.ReplaceAll)
			if err != nil {
				code := tool.CodeExecution
				if errors.Is(err, core.ErrWorkspaceNotFound) {
					code = tool.CodeNotFound
				}
				return "", tool.NewToolError(ToolEdit, err.Error(), code)
			}
			return fmt.Sprintf("Replaced %d occurrence(s) in %s", n, req.FilePath), nil
		})
}

func numberLines(content string, offset, limit int) (string, error) {
	if content == "" {
		return "(empty file)", nil
	}

	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	if offset >= len(lines) {
		return "", tool.NewToolError(ToolRead,
			fmt.Sprintf("offset %d exceeds file length (%d lines)", offset, len(lines)), tool.CodeValidation)
	}

	end := offset + min(limit, len(lines)-offset)

	var sb strings.Builder
	for i := offset; i < end; i++ {
		line := lines[i]
		fmt.Fprintf(&sb, "%6d\t%s\n", i+1, truncateLine(line))
	}

	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// truncateLine cuts line to at most maxLineLength bytes without splitting a
// UTF-8 sequence.
func truncateLine(line string) string {
	if len(line) <= maxLineLength {
		return line
	}

	cut := maxLineLength
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}

	return line[:cut]
}
