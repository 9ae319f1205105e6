package agent

import (
	"strings"

	"github.com/samber/lo"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/tools"
)

const promptTemplate = `You are a friendly travel assistant. Your task is to help the user plan a trip by asking one question at a time. Ask specific, small questions to gradually gather details. Do NOT propose or generate a full trip plan. Only ask questions like: 'Where do you want to go?', 'What dates are you planning?', 'What kind of places do you like?', 'What's your budget?', etc.

When you need to find specific, real-time information like weather, flights or hotels, use the available tools.

TOOLS:
------
You have access to the following tools:

{tools}

To use a tool, please use the following format:

Thought: Do I need to use a tool? Yes
Action: the action to take, should be one of [{tool_names}]
Action Input: the input to the action
Observation: the result of the action

When you have a response to say to the Human, or if you do not need to use a tool, you MUST use the format:

Thought: Do I need to use a tool? No
Final Answer: [your response here]

Begin!

Travel information gathered so far:
{context}

Previous conversation history:
{chat_history}

New input: {input}
{agent_scratchpad}`

func renderPrompt(ts []tools.Tool, in Input, scratchpad string) string {
	descriptions := lo.Map(ts, func(t tools.Tool, _ int) string {
		return t.Name() + ": " + t.Description()
	})
	names := lo.Map(ts, func(t tools.Tool, _ int) string { return t.Name() })

	ctx := strings.TrimSpace(in.Context)
	if ctx == "" {
		ctx = "(nothing yet)"
	}

	return strings.NewReplacer(
		"{tools}", strings.Join(descriptions, "\n"),
		"{tool_names}", strings.Join(names, ", "),
		"{context}", ctx,
		"{chat_history}", renderHistory(in.History),
		"{input}", in.UserInput,
		"{agent_scratchpad}", scratchpad,
	).Replace(promptTemplate)
}

func renderHistory(turns []domain.Turn) string {
	if len(turns) == 0 {
		return "(no previous messages)"
	}
	lines := lo.Map(turns, func(t domain.Turn, _ int) string {
		if t.IsUser {
			return "Human: " + t.Text
		}
		return "AI: " + t.Text
	})
	return strings.Join(lines, "\n")
}
