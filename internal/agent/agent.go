// Package agent implements the AI-backed operations: code analysis,
// generation, test generation, refactoring, task planning, and mock
// payloads. The first four delegate to the external collaborator; the
// gateway only builds prompts and relays text or failure.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/deepgate/deepgate/internal/collab"
	"github.com/deepgate/deepgate/internal/protocol"
)

// DefaultInvokeTimeout bounds one collaborator round-trip.
const DefaultInvokeTimeout = 120 * time.Second

// Agent holds the collaborator and the per-invocation timeout.
type Agent struct {
	collab  collab.Collaborator
	timeout time.Duration
	log     *slog.Logger
}

// New creates an agent. A zero timeout selects DefaultInvokeTimeout.
func New(c collab.Collaborator, timeout time.Duration, log *slog.Logger) *Agent {
	if timeout <= 0 {
		timeout = DefaultInvokeTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Agent{collab: c, timeout: timeout, log: log}
}

// AnalyzeRequest asks for an assessment of a piece of code.
type AnalyzeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Context  string `json:"context,omitempty"`
}

func (r *AnalyzeRequest) Validate() error {
	if r.Code == "" {
		return protocol.E(protocol.KindValidation, "code is required")
	}
	if r.Language == "" {
		return protocol.E(protocol.KindValidation, "language is required")
	}
	return nil
}

// AnalyzeCode asks the collaborator for a quality/bug/performance/security
// assessment of the code.
func (a *Agent) AnalyzeCode(ctx context.Context, req AnalyzeRequest) (*protocol.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	reqContext := req.Context
	if reqContext == "" {
		reqContext = "No additional context provided"
	}
	system := fmt.Sprintf(`You are an expert code analyzer. Analyze the following %[1]s code and provide:
1. Code quality assessment
2. Potential bugs or issues
3. Performance improvements
4. Best practices recommendations
5. Security concerns

Code to analyze:
`+"```%[1]s\n%[2]s\n```"+`

Context: %[3]s

Provide a detailed analysis in JSON format with sections for quality, bugs, performance, best_practices, and security.`,
		req.Language, req.Code, reqContext)

	analysis, err := a.invoke(ctx, collab.CapabilityAnalyze, system, "Please analyze this code thoroughly.")
	if err != nil {
		return nil, err
	}
	return &protocol.Result{
		Message: "Code analysis completed",
		Data:    map[string]any{"analysis": analysis},
	}, nil
}

// GenerateRequest asks for new code from a description.
type GenerateRequest struct {
	Description  string `json:"description"`
	Language     string `json:"language"`
	Context      string `json:"context,omitempty"`
	ExistingCode string `json:"existing_code,omitempty"`
}

func (r *GenerateRequest) Validate() error {
	if r.Description == "" {
		return protocol.E(protocol.KindValidation, "description is required")
	}
	if r.Language == "" {
		return protocol.E(protocol.KindValidation, "language is required")
	}
	return nil
}

// GenerateCode asks the collaborator to produce code for the description.
func (a *Agent) GenerateCode(ctx context.Context, req GenerateRequest) (*protocol.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	reqContext := req.Context
	if reqContext == "" {
		reqContext = "No additional context"
	}
	var existing string
	if req.ExistingCode != "" {
		existing = fmt.Sprintf("Existing code to extend/modify:\n```%s\n%s\n```\n\n", req.Language, req.ExistingCode)
	}
	system := fmt.Sprintf(`You are an expert %s developer. Generate clean, efficient, and well-documented code based on the description.

Requirements:
- Language: %s
- Description: %s
- Context: %s

%sProvide only the code without explanations, wrapped in code blocks.`,
		req.Language, req.Language, req.Description, reqContext, existing)

	code, err := a.invoke(ctx, collab.CapabilityGenerate, system, "Generate the requested code.")
	if err != nil {
		return nil, err
	}
	return &protocol.Result{
		Message: "Code generated successfully",
		Data:    map[string]any{"generated_code": code},
	}, nil
}

// TestsRequest asks for unit tests covering a piece of code.
type TestsRequest struct {
	Code          string `json:"code"`
	Language      string `json:"language"`
	TestFramework string `json:"test_framework,omitempty"`
}

func (r *TestsRequest) Validate() error {
	if r.Code == "" {
		return protocol.E(protocol.KindValidation, "code is required")
	}
	if r.Language == "" {
		return protocol.E(protocol.KindValidation, "language is required")
	}
	return nil
}

// defaultTestFrameworks maps languages to their conventional test tooling.
var defaultTestFrameworks = map[string]string{
	"python":     "pytest",
	"javascript": "jest",
	"typescript": "jest",
	"java":       "junit",
	"csharp":     "nunit",
	"go":         "testing",
}

// DefaultTestFramework returns the conventional framework for a language,
// falling back to pytest.
func DefaultTestFramework(language string) string {
	if fw, ok := defaultTestFrameworks[strings.ToLower(language)]; ok {
		return fw
	}
	return "pytest"
}

// GenerateTests asks the collaborator for unit tests for the code.
func (a *Agent) GenerateTests(ctx context.Context, req TestsRequest) (*protocol.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	framework := req.TestFramework
	if framework == "" {
		framework = DefaultTestFramework(req.Language)
	}
	system := fmt.Sprintf(`You are an expert in writing unit tests. Generate comprehensive unit tests for the following %[1]s code.

Code to test:
`+"```%[1]s\n%[2]s\n```"+`

Test framework: %[3]s

Requirements:
- Cover all functions/methods
- Test edge cases
- Test error conditions
- Use descriptive test names
- Include setup and teardown if needed

Provide only the test code without explanations.`,
		req.Language, req.Code, framework)

	tests, err := a.invoke(ctx, collab.CapabilityTests, system, "Generate comprehensive unit tests.")
	if err != nil {
		return nil, err
	}
	return &protocol.Result{
		Message: "Tests generated successfully",
		Data:    map[string]any{"test_code": tests, "test_framework": framework},
	}, nil
}

// RefactorRequest asks for a rewrite of code toward a goal.
type RefactorRequest struct {
	Code            string `json:"code"`
	Language        string `json:"language"`
	RefactoringType string `json:"refactoring_type"`
}

func (r *RefactorRequest) Validate() error {
	if r.Code == "" {
		return protocol.E(protocol.KindValidation, "code is required")
	}
	if r.Language == "" {
		return protocol.E(protocol.KindValidation, "language is required")
	}
	if r.RefactoringType == "" {
		return protocol.E(protocol.KindValidation, "refactoring_type is required")
	}
	return nil
}

// RefactorCode asks the collaborator to refactor the code for the given
// goal (e.g. "optimize", "clean", "restructure").
func (a *Agent) RefactorCode(ctx context.Context, req RefactorRequest) (*protocol.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	system := fmt.Sprintf(`You are an expert code refactoring specialist. Refactor the following %[1]s code for: %[3]s

Original code:
`+"```%[1]s\n%[2]s\n```"+`

Refactoring type: %[3]s

Requirements:
- Maintain functionality
- Improve code quality
- Follow best practices
- Add proper documentation
- Optimize performance if applicable

Provide the refactored code with a brief explanation of changes made.`,
		req.Language, req.Code, req.RefactoringType)

	refactored, err := a.invoke(ctx, collab.CapabilityRefactor, system, "Refactor this code according to the specified type.")
	if err != nil {
		return nil, err
	}
	return &protocol.Result{
		Message: "Code refactored successfully",
		Data:    map[string]any{"refactored_code": refactored, "refactoring_type": req.RefactoringType},
	}, nil
}

// invoke runs one collaborator call under the agent's timeout and maps its
// failure modes onto the wire taxonomy.
func (a *Agent) invoke(ctx context.Context, capability, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	text, err := a.collab.Invoke(ctx, capability, system, user)
	if err != nil {
		a.log.Warn("collaborator invocation failed",
			"provider", a.collab.Name(), "capability", capability, "error", err)
		if errors.Is(err, context.DeadlineExceeded) {
			return "", protocol.Wrap(protocol.KindTimeout, err, "collaborator call timed out after %s", a.timeout)
		}
		return "", protocol.Wrap(protocol.KindExternalService, err, "collaborator call failed: %v", err)
	}

	a.log.Debug("collaborator invocation completed",
		"provider", a.collab.Name(), "capability", capability, "duration", time.Since(start))
	return text, nil
}
