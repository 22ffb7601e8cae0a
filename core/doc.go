// Package core provides the foundational domain types and execution contexts
// shared by every layer of deepagent. It defines:
//
//   - Messages, tool calls and tool results (the append-only loop history)
//   - The error taxonomy (unknown tool, invalid arguments, unknown sub-agent, ...)
//   - StepCounter, the run-wide budget shared by parent and sub-agent loops
//   - ToolContext, the scoped surface handed to tool implementations
//
// The package intentionally keeps implementation concerns (model providers,
// storage, orchestration) out of scope so every other package can depend on it
// without import cycles.
package core
