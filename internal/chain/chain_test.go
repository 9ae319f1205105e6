package chain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/chain"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/jsonrepair"
	"github.com/pkordes/trip-planner/internal/llm"
)

func ptr[T any](v T) *T { return &v }

// scripted returns a completer replaying outputs and a pointer to the prompts seen.
func scripted(outputs ...string) (llm.Completer, *[]string) {
	var prompts []string
	return llm.CompleterFunc(func(_ context.Context, msgs []llm.Message) (string, error) {
		prompts = append(prompts, msgs[0].Content)
		i := len(prompts) - 1
		if i >= len(outputs) {
			i = len(outputs) - 1
		}
		return outputs[i], nil
	}), &prompts
}

func fastOptions() chain.Options {
	return chain.Options{Policy: jsonrepair.Policy{
		Retries: 2,
		Sleep:   func(context.Context, time.Duration) error { return nil },
	}}
}

func TestExtractor_MergePreservesOmittedFields(t *testing.T) {
	current := domain.NewTravelInformation()
	current.DestinationCities = []string{"Paris"}

	c, prompts := scripted("```json\n" + `{"destination_cities": [], "duration_days": 4}` + "\n```")
	e := chain.NewExtractor(c, fastOptions())

	got, err := e.Extract(context.Background(), "4 days", nil, current)

	require.NoError(t, err)
	assert.Equal(t, []string{"Paris"}, got.DestinationCities)
	require.NotNil(t, got.DurationDays)
	assert.Equal(t, 4, *got.DurationDays)
	assert.Contains(t, (*prompts)[0], `"Paris"`)
	assert.Contains(t, (*prompts)[0], "Last user answer:\n4 days")
}

func TestExtractor_HistoryLimitedToLastThree(t *testing.T) {
	history := []domain.Turn{
		{Text: "first", IsUser: true},
		{Text: "second", IsUser: false},
		{Text: "third", IsUser: true},
		{Text: "fourth", IsUser: false},
	}
	c, prompts := scripted(`{}`)
	e := chain.NewExtractor(c, fastOptions())

	_, err := e.Extract(context.Background(), "ok", history, domain.NewTravelInformation())

	require.NoError(t, err)
	assert.NotContains(t, (*prompts)[0], `"first"`)
	assert.Contains(t, (*prompts)[0], `"second"`)
	assert.Contains(t, (*prompts)[0], `"fourth"`)
}

func TestExtractor_RetriesThenFormatError(t *testing.T) {
	c, prompts := scripted("not json at all")
	var retries []int
	opts := fastOptions()
	opts.Policy.OnRetry = func(attempt int, _ error) { retries = append(retries, attempt) }
	e := chain.NewExtractor(c, opts)

	_, err := e.Extract(context.Background(), "Lisbon", nil, domain.NewTravelInformation())

	var gfe *domain.GenerationFormatError
	require.ErrorAs(t, err, &gfe)
	assert.Equal(t, 3, gfe.Attempts)
	assert.Len(t, *prompts, 3)
	assert.Equal(t, []int{1, 2}, retries)
}

func TestExtractor_CompleterErrorNotRetried(t *testing.T) {
	calls := 0
	boom := errors.New("connection reset")
	c := llm.CompleterFunc(func(context.Context, []llm.Message) (string, error) {
		calls++
		return "", boom
	})
	e := chain.NewExtractor(c, fastOptions())

	_, err := e.Extract(context.Background(), "x", nil, domain.NewTravelInformation())

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestGenerator_ParsesAndNormalizes(t *testing.T) {
	out := `Here is your plan:
{"trip_name": "Lisbon weekend", "duration_days": 2, "daily_plan": [
  {"day": 1, "city": "Lisbon", "activities": [{"title": "Tram 28", "location_name": "Tram 28"}]},
  {"day": 2, "city": "Sintra"}
]}
Enjoy!`
	c, prompts := scripted(out)
	g := chain.NewGenerator(c, fastOptions())

	info := domain.NewTravelInformation()
	info.DestinationCities = []string{"Lisbon"}
	got, err := g.Generate(context.Background(), info, "Loves seafood")

	require.NoError(t, err)
	assert.Equal(t, "Lisbon weekend", *got.TripName)
	require.Len(t, got.DailyPlan, 2)
	assert.Equal(t, []string{}, got.DailyPlan[0].Activities[0].Tags)
	assert.Equal(t, []domain.Activity{}, got.DailyPlan[1].Activities)
	assert.Equal(t, []string{}, got.GeneralNotes)
	assert.Contains(t, (*prompts)[0], "Additional traveler profile:\nLoves seafood")
	assert.Contains(t, (*prompts)[0], `"daily_plan"`)
	assert.Contains(t, (*prompts)[0], `"Lisbon"`)
}

func TestGenerator_NoProfileSection(t *testing.T) {
	c, prompts := scripted(`{"trip_name": "x"}`)
	g := chain.NewGenerator(c, fastOptions())

	_, err := g.Generate(context.Background(), domain.NewTravelInformation(), "  ")

	require.NoError(t, err)
	assert.NotContains(t, (*prompts)[0], "Additional traveler profile")
}

func TestGenerator_SucceedsOnThirdAttempt(t *testing.T) {
	c, prompts := scripted(`{"trip_name": "x",}`, "no object", `{"trip_name": "ok"}`)
	g := chain.NewGenerator(c, fastOptions())

	got, err := g.Generate(context.Background(), domain.NewTravelInformation(), "")

	require.NoError(t, err)
	assert.Equal(t, ptr("ok"), got.TripName)
	assert.Len(t, *prompts, 3)
}

func TestGenerator_ToleratesWrongTypedLeaves(t *testing.T) {
	out := `{"trip_name": "Lisbon", "duration_days": "2",
  "daily_plan": [{"day": "1", "city": "Lisbon", "activities": [{"title": "Jeronimos", "tags": "history"}]}],
  "general_notes": "carry cash",
  "emergency_contacts": {"name": "Police", "phone": 112}}`
	c, prompts := scripted(out)
	g := chain.NewGenerator(c, fastOptions())

	got, err := g.Generate(context.Background(), domain.NewTravelInformation(), "")

	require.NoError(t, err)
	assert.Len(t, *prompts, 1)
	assert.Equal(t, ptr(2), got.DurationDays)
	require.Len(t, got.DailyPlan, 1)
	assert.Equal(t, ptr(1), got.DailyPlan[0].Day)
	assert.Equal(t, []string{"history"}, got.DailyPlan[0].Activities[0].Tags)
	assert.Equal(t, []string{"carry cash"}, got.GeneralNotes)
	require.Len(t, got.EmergencyContacts, 1)
	assert.Equal(t, ptr("112"), got.EmergencyContacts[0].Phone)
}

func TestExtractor_ToleratesWrongTypedLeaves(t *testing.T) {
	c, prompts := scripted(`{"destination_cities": ["Lisbon"], "duration_days": "7", "budget": "cheap", "travelers_details": {"name": "Ana", "age": "31"}}`)
	e := chain.NewExtractor(c, fastOptions())

	got, err := e.Extract(context.Background(), "A week in Lisbon", nil, domain.NewTravelInformation())

	require.NoError(t, err)
	assert.Len(t, *prompts, 1)
	assert.Equal(t, []string{"Lisbon"}, got.DestinationCities)
	assert.Equal(t, ptr(7), got.DurationDays)
	assert.Nil(t, got.Budget.EstimatedTotal)
	require.Len(t, got.TravelersDetails, 1)
	assert.Equal(t, ptr(31), got.TravelersDetails[0].Age)
}
