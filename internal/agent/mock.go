package agent

import (
	"context"
	"sort"

	"github.com/deepgate/deepgate/internal/protocol"
)

// MockRequest asks for a canned payload of a given shape, for clients that
// need deterministic fixtures without a configured collaborator.
type MockRequest struct {
	MockType string         `json:"mock_type"`
	MockData map[string]any `json:"mock_data"`
}

func (r *MockRequest) Validate() error {
	if r.MockType == "" {
		return protocol.E(protocol.KindValidation, "mock_type is required")
	}
	if r.MockData == nil {
		return protocol.E(protocol.KindValidation, "mock_data is required")
	}
	return nil
}

// mockTemplates are the base payloads per mock type. Fields from the
// request's mock_data override template fields of the same name.
var mockTemplates = map[string]map[string]any{
	"analysis": {
		"analysis": map[string]any{
			"quality":        "good",
			"bugs":           []any{},
			"performance":    []any{"No performance concerns detected"},
			"best_practices": []any{"Add documentation", "Consider adding tests"},
			"security":       []any{},
		},
	},
	"code": {
		"generated_code": "# mock generated code\n",
	},
	"tests": {
		"test_code":      "# mock test code\n",
		"test_framework": "pytest",
	},
	"plan": {
		"plan":   map[string]any{"steps": []any{}},
		"status": "completed",
	},
}

// CreateMock returns the template for mock_type with mock_data merged over
// it. Unknown types are a validation error naming the supported set.
func (a *Agent) CreateMock(ctx context.Context, req MockRequest) (*protocol.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	template, ok := mockTemplates[req.MockType]
	if !ok {
		return nil, protocol.E(protocol.KindValidation,
			"unknown mock_type: %q (supported: %v)", req.MockType, mockTypes())
	}

	payload := make(map[string]any, len(template)+len(req.MockData))
	for k, v := range template {
		payload[k] = v
	}
	for k, v := range req.MockData {
		payload[k] = v
	}

	return &protocol.Result{
		Message: "Mock payload created",
		Data: map[string]any{
			"mock_type": req.MockType,
			"payload":   payload,
		},
	}, nil
}

func mockTypes() []string {
	types := make([]string, 0, len(mockTemplates))
	for t := range mockTemplates {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
