package agent_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/agent"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/llm"
	"github.com/pkordes/trip-planner/internal/tools"
)

// scriptedCompleter replays canned outputs in order and records every prompt.
type scriptedCompleter struct {
	outputs []string
	prompts []string
	err     error
}

func (s *scriptedCompleter) Complete(_ context.Context, msgs []llm.Message) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.prompts = append(s.prompts, msgs[len(msgs)-1].Content)
	if len(s.prompts) > len(s.outputs) {
		return s.outputs[len(s.outputs)-1], nil
	}
	return s.outputs[len(s.prompts)-1], nil
}

var _ llm.Completer = (*scriptedCompleter)(nil)

// echoTool returns a fixed payload and records its inputs.
func echoTool(name, result string, inputs *[]string) tools.Tool {
	return tools.New(name, "test tool "+name, func(_ context.Context, input string) (any, error) {
		*inputs = append(*inputs, input)
		return result, nil
	})
}

func TestAgent_FinalAnswerWithoutTools(t *testing.T) {
	c := &scriptedCompleter{outputs: []string{
		"Thought: Do I need to use a tool? No\nFinal Answer: Where would you like to go?",
	}}
	a := agent.New(c, nil, agent.Options{})

	got, err := a.Run(context.Background(), agent.Input{UserInput: "Hi!"})

	require.NoError(t, err)
	assert.Equal(t, "Where would you like to go?", got.Text)
	assert.Empty(t, got.ToolTrace)
	assert.Len(t, c.prompts, 1)
	assert.Contains(t, c.prompts[0], "New input: Hi!")
}

func TestAgent_ToolThenAnswer(t *testing.T) {
	var inputs []string
	weather := echoTool("current_weather_checker", `{"location":"Lisbon","temperature":"24°C"}`, &inputs)
	c := &scriptedCompleter{outputs: []string{
		"Thought: Do I need to use a tool? Yes\nAction: current_weather_checker\nAction Input: \"Lisbon\"",
		"Thought: Do I need to use a tool? No\nFinal Answer: It is 24°C in Lisbon. When do you travel?",
	}}
	a := agent.New(c, []tools.Tool{weather}, agent.Options{})

	got, err := a.Run(context.Background(), agent.Input{UserInput: "Weather in Lisbon?"})

	require.NoError(t, err)
	assert.Equal(t, "It is 24°C in Lisbon. When do you travel?", got.Text)
	assert.Equal(t, []string{"Lisbon"}, inputs)
	require.Len(t, got.ToolTrace, 1)
	assert.Equal(t, agent.ToolCall{
		Tool:   "current_weather_checker",
		Input:  "Lisbon",
		Output: `{"location":"Lisbon","temperature":"24°C"}`,
	}, got.ToolTrace[0])
	require.Len(t, c.prompts, 2)
	assert.Contains(t, c.prompts[1], `Observation: {"location":"Lisbon","temperature":"24°C"}`)
}

func TestAgent_HallucinatedObservationDiscarded(t *testing.T) {
	var inputs []string
	today := echoTool("get_today_date", "Monday, 02 June 2025", &inputs)
	c := &scriptedCompleter{outputs: []string{
		"Thought: Do I need to use a tool? Yes\nAction: get_today_date\nAction Input: none\nObservation: Sunday, 01 January 2000\nThought: Do I need to use a tool? No\nFinal Answer: It is 2000.",
		"Thought: Do I need to use a tool? No\nFinal Answer: Today is Monday.",
	}}
	a := agent.New(c, []tools.Tool{today}, agent.Options{})

	got, err := a.Run(context.Background(), agent.Input{UserInput: "What day is it?"})

	require.NoError(t, err)
	assert.Equal(t, "Today is Monday.", got.Text)
	require.Len(t, got.ToolTrace, 1)
	assert.Equal(t, "Monday, 02 June 2025", got.ToolTrace[0].Output)
	assert.NotContains(t, c.prompts[1], "Sunday, 01 January 2000")
}

func TestAgent_UnknownToolBecomesObservation(t *testing.T) {
	var inputs []string
	today := echoTool("get_today_date", "Monday", &inputs)
	c := &scriptedCompleter{outputs: []string{
		"Thought: Do I need to use a tool? Yes\nAction: calendar\nAction Input: today",
		"Thought: Do I need to use a tool? No\nFinal Answer: ok",
	}}
	a := agent.New(c, []tools.Tool{today}, agent.Options{})

	got, err := a.Run(context.Background(), agent.Input{UserInput: "date?"})

	require.NoError(t, err)
	assert.Equal(t, "ok", got.Text)
	assert.Contains(t, c.prompts[1], "calendar is not a valid tool, try one of [get_today_date].")
	assert.Empty(t, inputs)
}

func TestAgent_FormatErrorRetriedThenAnswer(t *testing.T) {
	c := &scriptedCompleter{outputs: []string{
		"I think you should visit Porto.",
		"Thought: Do I need to use a tool? No\nFinal Answer: How about Porto?",
	}}
	a := agent.New(c, nil, agent.Options{})

	got, err := a.Run(context.Background(), agent.Input{UserInput: "Suggest a city"})

	require.NoError(t, err)
	assert.Equal(t, "How about Porto?", got.Text)
	require.Len(t, c.prompts, 2)
	assert.Contains(t, c.prompts[1], "Observation: Invalid Format: Missing 'Action:' after 'Thought:'")
}

func TestAgent_FormatRetriesExhaustedGivesBestEffortText(t *testing.T) {
	c := &scriptedCompleter{outputs: []string{"Thought: Lisbon is lovely in June."}}
	a := agent.New(c, nil, agent.Options{MaxFormatRetries: 2})

	got, err := a.Run(context.Background(), agent.Input{UserInput: "June?"})

	require.NoError(t, err)
	assert.Equal(t, "Lisbon is lovely in June.", got.Text)
	assert.Len(t, c.prompts, 3, "first attempt plus two retries")
}

func TestAgent_IterationLimit(t *testing.T) {
	var inputs []string
	today := echoTool("get_today_date", "Monday", &inputs)
	c := &scriptedCompleter{outputs: []string{
		"Thought: Do I need to use a tool? Yes\nAction: get_today_date\nAction Input: x",
	}}
	a := agent.New(c, []tools.Tool{today}, agent.Options{MaxIterations: 3})

	got, err := a.Run(context.Background(), agent.Input{UserInput: "loop"})

	require.NoError(t, err)
	assert.Len(t, inputs, 3)
	assert.Len(t, got.ToolTrace, 3)
	assert.NotEmpty(t, got.Text)
	assert.False(t, strings.Contains(got.Text, "Action:"))
}

func TestAgent_CompleterErrorFailsTurn(t *testing.T) {
	boom := errors.New("503 from upstream")
	a := agent.New(&scriptedCompleter{err: boom}, nil, agent.Options{})

	_, err := a.Run(context.Background(), agent.Input{UserInput: "hi"})

	assert.ErrorIs(t, err, boom)
}

func TestAgent_PromptCarriesHistoryAndContext(t *testing.T) {
	c := &scriptedCompleter{outputs: []string{"Final Answer: noted"}}
	a := agent.New(c, nil, agent.Options{})

	_, err := a.Run(context.Background(), agent.Input{
		UserInput: "3 days",
		Context:   `{"destination_cities":["Lisbon"]}`,
		History: []domain.Turn{
			{Text: "I want to go to Lisbon", IsUser: true, Timestamp: time.Now()},
			{Text: "How many days?", IsUser: false, Timestamp: time.Now()},
		},
	})

	require.NoError(t, err)
	assert.Contains(t, c.prompts[0], "Human: I want to go to Lisbon\nAI: How many days?")
	assert.Contains(t, c.prompts[0], `{"destination_cities":["Lisbon"]}`)
}
