// Package chain holds the single-shot model calls that produce documents:
// the information extractor run after every chat turn and the itinerary
// generator run on demand. Both parse model output through jsonrepair.
package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/jsonrepair"
	"github.com/pkordes/trip-planner/internal/llm"
	"github.com/pkordes/trip-planner/internal/metrics"
)

// historyWindow is how many prior turns the extractor sees.
const historyWindow = 3

const extractionPrompt = `You are a travel plan updater.

Your task is to update the existing travel plan JSON **only based on the last user answer**.
Use the conversation history **only for context** if needed, but do not use assistant messages as source of truth.

- Make only minimal and necessary edits.
- If information is missing, leave it empty.
- Output must be a valid, complete JSON.

Last user answer:
%s

Conversation history (last 3 messages for context):
%s

Current plan JSON:
%s

Updated plan JSON:
`

// Options are shared by Extractor and Generator.
type Options struct {
	Policy  jsonrepair.Policy
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Policy.Retries == 0 && o.Policy.Backoff == 0 {
		sleep, onRetry := o.Policy.Sleep, o.Policy.OnRetry
		o.Policy = jsonrepair.DefaultPolicy()
		o.Policy.Sleep, o.Policy.OnRetry = sleep, onRetry
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Extractor folds the facts of the latest user message into the travel information.
type Extractor struct {
	llm  llm.Completer
	opts Options
}

// NewExtractor returns an Extractor calling completer.
func NewExtractor(completer llm.Completer, opts Options) *Extractor {
	return &Extractor{llm: completer, opts: opts.withDefaults()}
}

// Extract asks the model for an updated information document and merges it
// onto current. Fields the model leaves empty keep their current values.
func (e *Extractor) Extract(ctx context.Context, lastUserMessage string, history []domain.Turn, current domain.TravelInformation) (domain.TravelInformation, error) {
	prompt, err := extractionPromptFor(lastUserMessage, history, current)
	if err != nil {
		return domain.TravelInformation{}, fmt.Errorf("chain.Extractor.Extract: %w", err)
	}

	policy := e.opts.Policy
	policy.OnRetry = retryHook(e.opts, "extraction", policy.OnRetry)

	parsed, err := jsonrepair.Do(ctx, policy, func(ctx context.Context) (string, error) {
		return e.llm.Complete(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
	}, jsonrepair.Decode[domain.TravelInformation])
	if err != nil {
		return domain.TravelInformation{}, fmt.Errorf("chain.Extractor.Extract: %w", err)
	}

	merged, err := domain.MergeInformation(current, parsed)
	if err != nil {
		return domain.TravelInformation{}, fmt.Errorf("chain.Extractor.Extract: %w", err)
	}
	return merged, nil
}

type historyLine struct {
	Text   string `json:"text"`
	IsUser bool   `json:"isUser"`
}

func extractionPromptFor(last string, history []domain.Turn, current domain.TravelInformation) (string, error) {
	recent := history
	if len(recent) > historyWindow {
		recent = lo.Subset(history, -historyWindow, historyWindow)
	}
	lines := lo.Map(recent, func(t domain.Turn, _ int) historyLine {
		return historyLine{Text: t.Text, IsUser: t.IsUser}
	})

	hist, err := json.Marshal(lines)
	if err != nil {
		return "", err
	}
	cur, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(extractionPrompt, strings.TrimSpace(last), hist, cur), nil
}

// retryHook counts regenerations and chains any caller hook.
func retryHook(o Options, chainName string, next func(int, error)) func(int, error) {
	return func(attempt int, err error) {
		o.Metrics.RepairRetry(chainName)
		o.Logger.Warn("model output not parseable, regenerating", "chain", chainName, "attempt", attempt, "error", err)
		if next != nil {
			next(attempt, err)
		}
	}
}
