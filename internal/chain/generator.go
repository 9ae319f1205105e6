package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/jsonrepair"
	"github.com/pkordes/trip-planner/internal/llm"
)

const generationPrompt = `You are an expert travel planner. Using the travel information below, build a complete day-by-day itinerary.

Fill in this JSON structure. Repeat the daily_plan entry once per day and the activities entry once per activity:
%s

Travel information:
%s

Rules:
- Return ONLY the JSON object, with no explanation before or after it.
- Do not use trailing commas.
- Escape line breaks inside strings as \n.
- Use the traveler's dates when known; number days starting at 1.
- Give every activity a concrete location_name that can be found on a map.
- Use null for anything you cannot decide.
`

// Generator produces an itinerary from gathered travel information.
type Generator struct {
	llm  llm.Completer
	opts Options
}

// NewGenerator returns a Generator calling completer.
func NewGenerator(completer llm.Completer, opts Options) *Generator {
	return &Generator{llm: completer, opts: opts.withDefaults()}
}

// Generate asks the model for an itinerary. profile is the traveler's free-text
// description and may be empty. The result is normalized.
// A *domain.GenerationFormatError is returned when no attempt parses.
func (g *Generator) Generate(ctx context.Context, info domain.TravelInformation, profile string) (domain.Itinerary, error) {
	prompt, err := generationPromptFor(info, profile)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("chain.Generator.Generate: %w", err)
	}

	policy := g.opts.Policy
	policy.OnRetry = retryHook(g.opts, "generation", policy.OnRetry)

	it, err := jsonrepair.Do(ctx, policy, func(ctx context.Context) (string, error) {
		return g.llm.Complete(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
	}, jsonrepair.Decode[domain.Itinerary])
	g.opts.Metrics.Generation(err)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("chain.Generator.Generate: %w", err)
	}

	it.Normalize()
	return it, nil
}

func generationPromptFor(info domain.TravelInformation, profile string) (string, error) {
	skeleton, err := json.MarshalIndent(domain.NewItinerary(), "", "  ")
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(generationPrompt, skeleton, data)
	if p := strings.TrimSpace(profile); p != "" {
		prompt += "\nAdditional traveler profile:\n" + p + "\n"
	}
	return prompt, nil
}
