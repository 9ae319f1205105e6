// Package tools holds the external capabilities the conversational agent may call.
//
// Every tool takes a text input and returns a JSON text result. Failures never
// escape Invoke: they become an {"error": "..."} payload the agent reads as an
// observation, and "nothing found" becomes a {"message": "..."} payload.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Tool is the contract between the agent and an external capability.
type Tool interface {
	Name() string
	Description() string
	Invoke(ctx context.Context, input string) string
}

// Message is a non-error "no result" outcome, rendered as {"message": "..."}.
type Message string

// InvocationError describes a tool failure. Its text is shown to the model.
type InvocationError struct {
	Msg string
	Err error
}

func (e *InvocationError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *InvocationError) Unwrap() error { return e.Err }

func invocationErrorf(format string, args ...any) error {
	return &InvocationError{Msg: fmt.Sprintf(format, args...)}
}

// Func is the plain-function form of a tool body.
type Func func(ctx context.Context, input string) (any, error)

type funcTool struct {
	name        string
	description string
	fn          Func
}

// New adapts fn to the Tool contract.
func New(name, description string, fn Func) Tool {
	return &funcTool{name: name, description: description, fn: fn}
}

func (t *funcTool) Name() string        { return t.name }
func (t *funcTool) Description() string { return t.description }

func (t *funcTool) Invoke(ctx context.Context, input string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = errorPayload(fmt.Sprintf("tool %s panicked: %v", t.name, r))
		}
	}()

	v, err := t.fn(ctx, input)
	if err != nil {
		return errorPayload(err.Error())
	}
	switch r := v.(type) {
	case Message:
		return payload(map[string]string{"message": string(r)})
	case string:
		return r
	default:
		return payload(v)
	}
}

// Failed reports whether a tool result is an error payload.
func Failed(result string) bool {
	var p struct {
		Error *string `json:"error"`
	}
	return json.Unmarshal([]byte(result), &p) == nil && p.Error != nil
}

func errorPayload(msg string) string {
	return payload(map[string]string{"error": msg})
}

func payload(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, "could not encode tool result: "+err.Error())
	}
	return string(b)
}

// decodeInput parses a JSON object tool input. Models often quote keys with
// single quotes, so a second attempt swaps them for double quotes.
func decodeInput(input string, v any) error {
	input = strings.TrimSpace(input)
	err := json.Unmarshal([]byte(input), v)
	if err == nil {
		return nil
	}
	if strings.Contains(input, "'") {
		if json.Unmarshal([]byte(strings.ReplaceAll(input, "'", `"`)), v) == nil {
			return nil
		}
	}
	return invocationErrorf("invalid JSON input %q: expected an object like %s", input, exampleInput(v))
}

func exampleInput(v any) string {
	switch v.(type) {
	case *forecastInput:
		return `{"location": "Paris", "date": "2025-06-01"}`
	case *hotelInput:
		return `{"city": "Paris"}`
	default:
		return "{}"
	}
}

// HTTPOptions configures the upstream HTTP access of a tool.
type HTTPOptions struct {
	// Client defaults to a client with a 15 second timeout.
	Client *http.Client
	// BaseURL overrides the upstream endpoint, for tests.
	BaseURL string
}

func (o HTTPOptions) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return &http.Client{Timeout: 15 * time.Second}
}

func (o HTTPOptions) base(fallback string) string {
	if o.BaseURL != "" {
		return strings.TrimRight(o.BaseURL, "/")
	}
	return fallback
}

// Clock returns the current time. Tools take one so tests can pin "today".
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
