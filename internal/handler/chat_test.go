package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/handler"
	"github.com/pkordes/trip-planner/internal/service"
)

func TestGenerateMessage_returnsBotResponse(t *testing.T) {
	tripID := domain.NewID()
	h := newHTTPHandler(handler.Services{Chat: &mockChatServicer{
		respond: func(_ context.Context, req service.ChatRequest) (service.ChatResponse, error) {
			assert.Equal(t, tripID, req.TripID)
			assert.Equal(t, "Find me a hotel in Lisbon", req.UserMessage)
			require.Len(t, req.LastMessages, 1)
			assert.True(t, req.LastMessages[0].IsUser)
			return service.ChatResponse{TripID: tripID, Text: "Try Hotel Avenida.", Link: ptr("https://booking.example/avenida")}, nil
		},
	}})

	rec := do(h, http.MethodPost, "/generate-message-and-update-information", jsonBody(t, map[string]any{
		"trip_id":       tripID.Hex(),
		"user_message":  "Find me a hotel in Lisbon",
		"last_messages": []map[string]any{{"text": "Hi", "isUser": true, "timestamp": "2025-03-01T09:00:00Z"}},
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	var got handler.ChatResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, tripID.Hex(), got.TripID)
	assert.Equal(t, "Try Hotel Avenida.", got.BotResponse.Text)
	require.NotNil(t, got.BotResponse.Link)
	assert.Equal(t, "https://booking.example/avenida", *got.BotResponse.Link)
}

func TestGenerateMessage_linkIsNullWithoutBooking(t *testing.T) {
	tripID := domain.NewID()
	h := newHTTPHandler(handler.Services{Chat: &mockChatServicer{
		respond: func(context.Context, service.ChatRequest) (service.ChatResponse, error) {
			return service.ChatResponse{TripID: tripID, Text: "Lisbon is lovely in May."}, nil
		},
	}})

	rec := do(h, http.MethodPost, "/generate-message-and-update-information",
		jsonBody(t, map[string]any{"trip_id": tripID.Hex(), "user_message": "When should I go?"}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"trip_id":"`+tripID.Hex()+`","bot_response":{"text":"Lisbon is lovely in May.","link":null}}`,
		rec.Body.String())
}

func TestGenerateMessage_returns404WhenTripHasNoInformation(t *testing.T) {
	h := newHTTPHandler(handler.Services{Chat: &mockChatServicer{
		respond: func(context.Context, service.ChatRequest) (service.ChatResponse, error) {
			return service.ChatResponse{}, domain.ErrNotFound
		},
	}})

	rec := do(h, http.MethodPost, "/generate-message-and-update-information",
		jsonBody(t, map[string]any{"trip_id": domain.NewID().Hex(), "user_message": "Hi"}))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "information not found", decodeError(t, rec).Message)
}

func TestGenerateMessage_returns422ForBadTripID(t *testing.T) {
	h := newHTTPHandler(handler.Services{Chat: &mockChatServicer{}})

	rec := do(h, http.MethodPost, "/generate-message-and-update-information",
		jsonBody(t, map[string]any{"trip_id": "", "user_message": "Hi"}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
