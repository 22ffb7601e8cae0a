// Package engine implements the orchestration layer of deepagent.
//
// An Engine binds a reasoning model, a top-level instruction, caller-supplied
// tools and a directory of sub-agents. Each call to Run starts a fresh parent
// agent loop with:
//
//   - a new workspace (optionally seeded) and its file tools
//   - a new planning ledger and its todo tools
//   - the delegation tool, when sub-agents are configured
//   - a step counter shared with every nested sub-agent loop
//
// Run always returns a RunResult holding the workspace snapshot, the todo
// list, the last assistant text and one of three termination reasons:
// completed, step_limit_reached or fatal_error.
//
// Example:
//
//	eng, err := engine.New(llm, func(o *engine.Options) {
//	    o.Instruction = "You are an expert researcher..."
//	    o.Tools = []tool.Tool{search.NewInternetSearchTool(client)}
//	    o.SubAgents = []agent.SubAgentSpec{researchAgent}
//	})
//	if err != nil {
//	    return err
//	}
//
//	res := eng.Run(ctx, "Analyze ACME", nil)
//	report, err := res.File("investment_research_report.md")
package engine
