package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/deepgate/deepgate/internal/protocol"
)

// PlanRequest describes a task to break into steps.
type PlanRequest struct {
	Task        string         `json:"task"`
	Context     map[string]any `json:"context,omitempty"`
	Constraints []string       `json:"constraints,omitempty"`
}

func (r *PlanRequest) Validate() error {
	if r.Task == "" {
		return protocol.E(protocol.KindValidation, "task is required")
	}
	return nil
}

// PlanStep is one step of a task plan.
type PlanStep struct {
	StepNumber      int      `json:"step_number"`
	Objective       string   `json:"objective"`
	Action          string   `json:"action"`
	ToolsNeeded     []string `json:"tools_needed"`
	ExpectedOutcome string   `json:"expected_outcome"`
}

// stepRule maps task keywords to a plan step.
type stepRule struct {
	keywords []string
	step     PlanStep
}

var stepRules = []stepRule{
	{
		keywords: []string{"list", "show", "directory"},
		step: PlanStep{
			Objective:       "List directory contents",
			Action:          "Use list_directory",
			ToolsNeeded:     []string{protocol.ActionListDirectory},
			ExpectedOutcome: "Directory listing displayed",
		},
	},
	{
		keywords: []string{"create", "write", "file"},
		step: PlanStep{
			Objective:       "Create or modify file",
			Action:          "Use write_file",
			ToolsNeeded:     []string{protocol.ActionWriteFile},
			ExpectedOutcome: "File created or modified",
		},
	},
	{
		keywords: []string{"search", "find"},
		step: PlanStep{
			Objective:       "Search for text in files",
			Action:          "Use search_text",
			ToolsNeeded:     []string{protocol.ActionSearchText},
			ExpectedOutcome: "Search results found",
		},
	},
	{
		keywords: []string{"run", "execute", "command"},
		step: PlanStep{
			Objective:       "Execute terminal command",
			Action:          "Use execute_command",
			ToolsNeeded:     []string{protocol.ActionExecuteCommand},
			ExpectedOutcome: "Command executed",
		},
	},
}

// BuildPlan derives a step list from keywords in the task description.
func BuildPlan(task string) []PlanStep {
	lower := strings.ToLower(task)

	var steps []PlanStep
	for _, rule := range stepRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				step := rule.step
				step.StepNumber = len(steps) + 1
				steps = append(steps, step)
				break
			}
		}
	}

	if len(steps) == 0 {
		steps = append(steps, PlanStep{
			StepNumber:      1,
			Objective:       fmt.Sprintf("Execute task: %s", task),
			Action:          "Use available tools as needed",
			ToolsNeeded:     []string{protocol.ActionListDirectory, protocol.ActionReadFile, protocol.ActionWriteFile},
			ExpectedOutcome: "Task completed",
		})
	}
	return steps
}

// PlanTask builds a plan for the task and reports simulated step results.
// Steps are summarized, not executed: clients drive the actual tool calls
// through their own follow-up requests.
func (a *Agent) PlanTask(ctx context.Context, req PlanRequest) (*protocol.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	steps := BuildPlan(req.Task)

	results := make([]map[string]any, 0, len(steps))
	messages := []map[string]any{
		{"role": "assistant", "content": fmt.Sprintf("Created plan with %d steps", len(steps))},
	}
	for _, step := range steps {
		results = append(results, map[string]any{
			"step":       step.StepNumber,
			"objective":  step.Objective,
			"tools_used": step.ToolsNeeded,
			"status":     "planned",
		})
		messages = append(messages, map[string]any{
			"role":    "assistant",
			"content": fmt.Sprintf("Step %d planned: %s", step.StepNumber, step.Objective),
		})
	}

	return &protocol.Result{
		Message: "Task plan created",
		Data: map[string]any{
			"status":   "completed",
			"plan":     map[string]any{"steps": steps},
			"results":  results,
			"messages": messages,
		},
	}, nil
}
