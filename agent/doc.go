// Package agent contains the agent loop state machine and the sub-agent
// delegation machinery built on top of it.
//
// The package focuses on three concerns:
//
//  1. Loop: drives one instruction to an answer by alternating model steps
//     and sequential tool execution (RUNNING, AWAITING_TOOLS, DONE,
//     STEP_LIMIT, FATAL)
//  2. Directory: named sub-agent specs, declared in code or loaded from YAML
//  3. Delegator: the "task" meta-tool that runs a sub-agent in a fresh,
//     isolated Loop and returns only its final text
//
// Execution model:
//   - All loops of a run share one core.StepCounter; every model call costs
//     one step regardless of nesting depth
//   - Loop histories are private; a delegation contributes exactly one tool
//     message to the caller
//   - Tool failures become error-flagged results the model can react to; only
//     a reasoning-model failure ends a run early
//
// Persistence, provider specifics and the tool registry live in their own
// packages (workspace, planning, model, tool).
package agent
