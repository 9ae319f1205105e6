// Package agent runs the tool-augmented conversational turn.
//
// The agent follows the ReAct grammar (Thought / Action / Action Input /
// Observation / Final Answer) over a plain text completer. Each turn is bounded
// by a maximum number of reasoning steps and a maximum number of unparseable
// outputs, and always ends with text for the user unless the completer itself fails.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/llm"
	"github.com/pkordes/trip-planner/internal/metrics"
	"github.com/pkordes/trip-planner/internal/tools"
)

// Defaults for Options.
const (
	DefaultMaxIterations    = 5
	DefaultMaxFormatRetries = 2
)

// fallbackText is returned when the bounds run out and nothing readable was produced.
const fallbackText = "Sorry, I got a bit lost there. Could you tell me that once more?"

// Input is everything one turn depends on.
type Input struct {
	UserInput string
	History   []domain.Turn
	// Context is the current travel information document as JSON.
	Context string
}

// ToolCall records one tool invocation made during a turn.
type ToolCall struct {
	Tool   string
	Input  string
	Output string
}

// Reply is the result of a turn.
type Reply struct {
	Text      string
	ToolTrace []ToolCall
}

// Options tunes an Agent. Zero values take the package defaults.
type Options struct {
	MaxIterations int
	// MaxFormatRetries is how many unparseable outputs are fed back before the
	// turn ends with best-effort text. Negative disables feeding back.
	MaxFormatRetries int
	Metrics          *metrics.Metrics
	Logger           *slog.Logger
}

// Agent answers user messages, calling tools when the model asks for them.
type Agent struct {
	llm              llm.Completer
	tools            []tools.Tool
	byName           map[string]tools.Tool
	maxIterations    int
	maxFormatRetries int
	metrics          *metrics.Metrics
	logger           *slog.Logger
}

// New builds an Agent over completer with the given tool set.
func New(completer llm.Completer, ts []tools.Tool, opts Options) *Agent {
	a := &Agent{
		llm:              completer,
		tools:            ts,
		byName:           lo.KeyBy(ts, func(t tools.Tool) string { return t.Name() }),
		maxIterations:    opts.MaxIterations,
		maxFormatRetries: opts.MaxFormatRetries,
		metrics:          opts.Metrics,
		logger:           opts.Logger,
	}
	if a.maxIterations <= 0 {
		a.maxIterations = DefaultMaxIterations
	}
	switch {
	case opts.MaxFormatRetries < 0:
		a.maxFormatRetries = 0
	case opts.MaxFormatRetries == 0:
		a.maxFormatRetries = DefaultMaxFormatRetries
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Run executes one conversational turn.
// Only completer errors are returned; format problems and tool failures are
// absorbed into the turn.
func (a *Agent) Run(ctx context.Context, in Input) (Reply, error) {
	log := a.logger.With("run_id", uuid.NewString())

	var (
		reply      Reply
		scratchpad strings.Builder
		lastOutput string
		formatErrs int
	)

	for steps := 0; steps < a.maxIterations; {
		prompt := renderPrompt(a.tools, in, scratchpad.String())
		out, err := a.llm.Complete(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
		if err != nil {
			return Reply{}, fmt.Errorf("agent.Agent.Run: %w", err)
		}
		out = truncateObservation(out)
		lastOutput = out

		st, err := parseStep(out)
		if err != nil {
			var fe *FormatError
			if !errors.As(err, &fe) {
				return Reply{}, fmt.Errorf("agent.Agent.Run: %w", err)
			}
			formatErrs++
			log.Debug("agent output not parseable", "reason", fe.Reason, "attempt", formatErrs)
			if formatErrs > a.maxFormatRetries {
				reply.Text = orFallback(bestEffortText(out))
				return reply, nil
			}
			scratchpad.WriteString(out)
			scratchpad.WriteString("\n" + observationMarker + " " + fe.Error() + "\nThought:")
			continue
		}

		if st.Final {
			reply.Text = orFallback(st.Answer)
			return reply, nil
		}

		steps++
		observation := a.invoke(ctx, log, st)
		reply.ToolTrace = append(reply.ToolTrace, ToolCall{Tool: st.Tool, Input: st.Input, Output: observation})

		scratchpad.WriteString(out)
		scratchpad.WriteString("\n" + observationMarker + " " + observation + "\nThought:")
	}

	log.Info("agent stopped at iteration limit", "iterations", a.maxIterations)
	reply.Text = orFallback(bestEffortText(lastOutput))
	return reply, nil
}

func (a *Agent) invoke(ctx context.Context, log *slog.Logger, st step) string {
	tool, ok := a.byName[st.Tool]
	if !ok {
		names := lo.Map(a.tools, func(t tools.Tool, _ int) string { return t.Name() })
		log.Debug("agent asked for unknown tool", "tool", st.Tool)
		return fmt.Sprintf("%s is not a valid tool, try one of [%s].", st.Tool, strings.Join(names, ", "))
	}

	out := tool.Invoke(ctx, st.Input)
	failed := tools.Failed(out)
	a.metrics.ToolCall(tool.Name(), failed)
	log.Info("tool invoked", "tool", tool.Name(), "failed", failed)
	return out
}

func orFallback(s string) string {
	if strings.TrimSpace(s) == "" {
		return fallbackText
	}
	return s
}
