package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deepgate/deepgate/internal/protocol"
)

type executeCommandRequest struct {
	Command          string  `json:"command"`
	WorkingDirectory string  `json:"working_directory"`
	Timeout          float64 `json:"timeout"`
}

func (d Deps) executeCommand(ctx context.Context, data json.RawMessage) (*protocol.Result, error) {
	var req executeCommandRequest
	if err := decodeInto(data, &req); err != nil {
		return nil, err
	}
	if req.Command == "" {
		return nil, protocol.E(protocol.KindValidation, "command is required")
	}
	if req.Timeout < 0 {
		return nil, protocol.E(protocol.KindValidation, "timeout must be positive")
	}
	timeout := time.Duration(req.Timeout * float64(time.Second))

	res, err := d.Runner.Execute(ctx, req.Command, req.WorkingDirectory, timeout)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Command exited with code %d", res.ExitCode)
	if res.TimedOut {
		message = "Command timed out"
	}
	return &protocol.Result{
		Message: message,
		Data: map[string]any{
			"stdout":      res.Stdout,
			"stderr":      res.Stderr,
			"exit_code":   res.ExitCode,
			"timed_out":   res.TimedOut,
			"duration_ms": res.Duration.Milliseconds(),
		},
	}, nil
}
