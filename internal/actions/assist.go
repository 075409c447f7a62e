package actions

import (
	"context"
	"encoding/json"

	"github.com/deepgate/deepgate/internal/agent"
	"github.com/deepgate/deepgate/internal/protocol"
)

func (d Deps) analyzeCode(ctx context.Context, data json.RawMessage) (*protocol.Result, error) {
	var req agent.AnalyzeRequest
	if err := decodeInto(data, &req); err != nil {
		return nil, err
	}
	return d.Agent.AnalyzeCode(ctx, req)
}

func (d Deps) generateCode(ctx context.Context, data json.RawMessage) (*protocol.Result, error) {
	var req agent.GenerateRequest
	if err := decodeInto(data, &req); err != nil {
		return nil, err
	}
	return d.Agent.GenerateCode(ctx, req)
}

func (d Deps) generateTests(ctx context.Context, data json.RawMessage) (*protocol.Result, error) {
	var req agent.TestsRequest
	if err := decodeInto(data, &req); err != nil {
		return nil, err
	}
	return d.Agent.GenerateTests(ctx, req)
}

func (d Deps) refactorCode(ctx context.Context, data json.RawMessage) (*protocol.Result, error) {
	var req agent.RefactorRequest
	if err := decodeInto(data, &req); err != nil {
		return nil, err
	}
	return d.Agent.RefactorCode(ctx, req)
}

func (d Deps) planTask(ctx context.Context, data json.RawMessage) (*protocol.Result, error) {
	var req agent.PlanRequest
	if err := decodeInto(data, &req); err != nil {
		return nil, err
	}
	return d.Agent.PlanTask(ctx, req)
}

func (d Deps) createMock(ctx context.Context, data json.RawMessage) (*protocol.Result, error) {
	var req agent.MockRequest
	if err := decodeInto(data, &req); err != nil {
		return nil, err
	}
	return d.Agent.CreateMock(ctx, req)
}
