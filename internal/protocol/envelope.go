// Package protocol defines the JSON envelope protocol spoken between the
// gateway and its clients, along with the error taxonomy every handler
// failure is normalized into.
package protocol

import (
	"encoding/json"
)

// Request is the inbound frame: an action name, a handler-specific payload,
// and an opaque correlation identifier chosen by the client.
type Request struct {
	Action    string          `json:"action"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"request_id"`
}

// Response is the outbound frame. Exactly one of Data (success) or Error
// (failure) carries the operative payload. RequestID echoes the request's
// identifier verbatim so pipelined callers can correlate out-of-order
// completions.
type Response struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data"`
	Error     *string        `json:"error"`
	RequestID string         `json:"request_id"`
}

// Result is what a handler produces on success: a human-readable message
// and the action-specific data payload.
type Result struct {
	Message string
	Data    map[string]any
}

// OK builds a success response around a handler result.
func OK(requestID string, res *Result) *Response {
	data := res.Data
	if data == nil {
		data = map[string]any{}
	}
	return &Response{
		Success:   true,
		Message:   res.Message,
		Data:      data,
		RequestID: requestID,
	}
}

// Fail builds a failure response from an error. The message summarizes what
// was attempted; the error field carries the specific cause.
func Fail(requestID, message string, err error) *Response {
	detail := err.Error()
	return &Response{
		Success:   false,
		Message:   message,
		Data:      nil,
		Error:     &detail,
		RequestID: requestID,
	}
}
