package tui

import (
	"encoding/json"
	"io"

	"github.com/mrz1836/shipyard/internal/errors"
)

// JSONOutput emits every message as one JSON object per line, for scripts
// and CI logs.
type JSONOutput struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewJSONOutput creates a new JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{
		w:       w,
		encoder: json.NewEncoder(w),
	}
}

type jsonMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type jsonError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Success outputs {"type":"success","message":...}.
func (o *JSONOutput) Success(msg string) {
	//nolint:errchkjson // no error return in the interface
	_ = o.encoder.Encode(jsonMessage{Type: "success", Message: msg})
}

// Error outputs the error with its user-facing message and suggested action.
func (o *JSONOutput) Error(err error) {
	message, action := errors.Actionable(err)
	if message == "" {
		message = err.Error()
	}
	//nolint:errchkjson // no error return in the interface
	_ = o.encoder.Encode(jsonError{Type: "error", Message: message, Suggestion: action})
}

// Warning outputs {"type":"warning","message":...}.
func (o *JSONOutput) Warning(msg string) {
	//nolint:errchkjson // no error return in the interface
	_ = o.encoder.Encode(jsonMessage{Type: "warning", Message: msg})
}

// Info outputs {"type":"info","message":...}.
func (o *JSONOutput) Info(msg string) {
	//nolint:errchkjson // no error return in the interface
	_ = o.encoder.Encode(jsonMessage{Type: "info", Message: msg})
}

// JSON outputs a value as formatted JSON.
func (o *JSONOutput) JSON(v any) error {
	return encodeJSON(o.w, v)
}
