package agent

import (
	"regexp"
	"strings"
)

const (
	finalAnswerMarker = "Final Answer:"
	observationMarker = "Observation:"
)

// FormatError reports model output that follows neither the action grammar
// nor the final answer grammar. It is handled inside the loop by feeding the
// reason back to the model; it never reaches the caller.
type FormatError struct {
	Reason string
	Output string
}

func (e *FormatError) Error() string { return "Invalid Format: " + e.Reason }

// step is one parsed model output: either a final answer or a tool action.
type step struct {
	Final  bool
	Answer string
	Tool   string
	Input  string
}

var (
	actionRe     = regexp.MustCompile(`(?s)Action\s*\d*\s*:[\s]*(.*?)[\s]*Action\s*\d*\s*Input\s*\d*\s*:[\s]*(.*)`)
	actionOnlyRe = regexp.MustCompile(`(?s)Action\s*\d*\s*:[\s]*(.*?)`)
	inputOnlyRe  = regexp.MustCompile(`(?s)[\s]*Action\s*\d*\s*Input\s*\d*\s*:[\s]*(.*)`)
)

// truncateObservation drops everything from the first "Observation:" on.
// A model that writes its own observation is inventing tool output.
func truncateObservation(out string) string {
	if i := strings.Index(out, observationMarker); i >= 0 {
		return strings.TrimRight(out[:i], " \t\r\n")
	}
	return out
}

// parseStep reads one model output in the ReAct grammar.
func parseStep(out string) (step, error) {
	action := actionRe.FindStringSubmatch(out)
	finalAt := strings.Index(out, finalAnswerMarker)

	if action != nil {
		if finalAt >= 0 && finalAt > strings.Index(out, "Action") {
			return step{}, &FormatError{Reason: "Parsing output produced both a final answer and a parse-able action", Output: out}
		}
		if finalAt < 0 {
			return step{
				Tool:  cleanToolName(action[1]),
				Input: cleanToolInput(action[2]),
			}, nil
		}
	}

	if finalAt >= 0 {
		return step{Final: true, Answer: strings.TrimSpace(out[finalAt+len(finalAnswerMarker):])}, nil
	}

	if !actionOnlyRe.MatchString(out) {
		return step{}, &FormatError{Reason: "Missing 'Action:' after 'Thought:'", Output: out}
	}
	if !inputOnlyRe.MatchString(out) {
		return step{}, &FormatError{Reason: "Missing 'Action Input:' after 'Action:'", Output: out}
	}
	return step{}, &FormatError{Reason: "could not parse action", Output: out}
}

func cleanToolName(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.Trim(s, " `*\"'[]")
}

func cleanToolInput(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.Trim(s, "`")
	s = strings.TrimSpace(s)
	return strings.Trim(s, `"`)
}

// bestEffortText turns a raw model output into something a user can read by
// dropping the grammar labels. It returns "" when nothing readable is left.
func bestEffortText(out string) string {
	if i := strings.Index(out, finalAnswerMarker); i >= 0 {
		return strings.TrimSpace(out[i+len(finalAnswerMarker):])
	}
	var kept []string
	for _, line := range strings.Split(out, "\n") {
		t := strings.TrimSpace(line)
		switch {
		case t == "":
			continue
		case strings.HasPrefix(t, "Action:"), strings.HasPrefix(t, "Action Input:"):
			continue
		case strings.HasPrefix(t, "Thought:"):
			t = strings.TrimSpace(strings.TrimPrefix(t, "Thought:"))
			if t == "" || strings.HasPrefix(t, "Do I need to use a tool?") {
				continue
			}
		}
		kept = append(kept, t)
	}
	return strings.Join(kept, "\n")
}
