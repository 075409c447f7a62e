// Package actions adapts the domain engines (workspace, textscan, command,
// agent) into envelope handlers and wires them into the action registry.
// Each adapter owns the decoding and validation of its data payload.
package actions

import (
	"encoding/json"

	"github.com/deepgate/deepgate/internal/agent"
	"github.com/deepgate/deepgate/internal/command"
	"github.com/deepgate/deepgate/internal/protocol"
	"github.com/deepgate/deepgate/internal/registry"
	"github.com/deepgate/deepgate/internal/textscan"
	"github.com/deepgate/deepgate/internal/workspace"
)

// Deps carries the engines the handlers delegate to.
type Deps struct {
	Workspace *workspace.Workspace
	Scanner   *textscan.Engine
	Runner    *command.Runner
	Agent     *agent.Agent
}

// BuildRegistry binds every action to its handler and freezes the set.
func BuildRegistry(deps Deps) (*registry.Registry, error) {
	r := registry.New()

	bindings := map[string]registry.Handler{
		protocol.ActionReadFile:       deps.readFile,
		protocol.ActionWriteFile:      deps.writeFile,
		protocol.ActionListDirectory:  deps.listDirectory,
		protocol.ActionSearchText:     deps.searchText,
		protocol.ActionReplaceText:    deps.replaceText,
		protocol.ActionExecuteCommand: deps.executeCommand,
		protocol.ActionAnalyzeCode:    deps.analyzeCode,
		protocol.ActionGenerateCode:   deps.generateCode,
		protocol.ActionGenerateTests:  deps.generateTests,
		protocol.ActionRefactorCode:   deps.refactorCode,
		protocol.ActionPlanTask:       deps.planTask,
		protocol.ActionCreateMock:     deps.createMock,
	}
	for name, h := range bindings {
		if err := r.Register(name, h); err != nil {
			return nil, err
		}
	}

	r.Freeze()
	return r, nil
}

// decodeInto parses a data payload, treating malformed or absent JSON as a
// validation failure rather than an internal one.
func decodeInto(data json.RawMessage, v any) error {
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return protocol.Wrap(protocol.KindValidation, err, "invalid data payload: %v", err)
	}
	return nil
}
