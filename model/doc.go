// Package model defines the provider-agnostic boundary between agent loops
// and reasoning models.
//
// Core goals:
//   - One synchronous Generate call per loop iteration returning one assistant message
//   - Normalize tool definitions and tool calls across vendors (core.ToolCall)
//   - Distinguish transient from fatal provider failures (Error, IsTransient)
//   - Facilitate deterministic tests (ScriptedModel, Func)
//
// Providers (Anthropic, OpenAI, Gemini) live in sub-packages and implement
// Model so agent loops stay decoupled from vendor SDKs. Host-side retry of
// transient failures is available through the retry sub-package.
package model
