package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/pkordes/trip-planner/internal/agent"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// TurnRunner runs one conversational turn. Satisfied by *agent.Agent.
type TurnRunner interface {
	Run(ctx context.Context, in agent.Input) (agent.Reply, error)
}

// Extractor turns the latest user message into an updated information
// document. Satisfied by *chain.Extractor.
type Extractor interface {
	Extract(ctx context.Context, lastUserMessage string, history []domain.Turn, current domain.TravelInformation) (domain.TravelInformation, error)
}

var (
	_ TurnRunner      = (*agent.Agent)(nil)
	_ SessionResetter = (*agent.Sessions)(nil)
)

// ChatRequest is one user message plus the client's view of the conversation.
type ChatRequest struct {
	TripID       domain.ID
	UserMessage  string
	LastMessages []domain.Turn
}

// ChatResponse is the agent's answer. Link is the first booking link any tool
// returned during the turn, or nil.
type ChatResponse struct {
	TripID domain.ID
	Text   string
	Link   *string
}

// ChatService answers chat messages and keeps the information document of the
// trip in sync with what the user said.
type ChatService struct {
	info      repo.InformationRepo
	agent     TurnRunner
	sessions  *agent.Sessions
	extractor Extractor
	runner    *Runner
	logger    *slog.Logger
}

// NewChatService constructs a ChatService.
func NewChatService(info repo.InformationRepo, turns TurnRunner, sessions *agent.Sessions, extractor Extractor, runner *Runner, logger *slog.Logger) *ChatService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatService{
		info:      info,
		agent:     turns,
		sessions:  sessions,
		extractor: extractor,
		runner:    runner,
		logger:    logger,
	}
}

// Respond runs an agent turn for the message and schedules the background
// sync of the information document. The reply does not wait for the sync.
func (s *ChatService) Respond(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	msg := strings.TrimSpace(req.UserMessage)
	if msg == "" {
		return ChatResponse{}, fmt.Errorf("service.ChatService.Respond: %w: user_message is required", domain.ErrValidation)
	}

	doc, err := s.info.GetByTrip(ctx, req.TripID)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("service.ChatService.Respond: %w", err)
	}
	infoJSON, err := json.Marshal(doc.Data)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("service.ChatService.Respond: encode information: %w", err)
	}

	// Clients usually send last_messages ending with the message being answered.
	seed := req.LastMessages
	if n := len(seed); n > 0 && seed[n-1].IsUser && strings.TrimSpace(seed[n-1].Text) == msg {
		seed = seed[:n-1]
	}
	history := s.sessions.Seed(req.TripID, seed)

	reply, err := s.agent.Run(ctx, agent.Input{
		UserInput: msg,
		History:   history,
		Context:   string(infoJSON),
	})
	if err != nil {
		return ChatResponse{}, fmt.Errorf("service.ChatService.Respond: %w", err)
	}

	now := time.Now().UTC()
	s.sessions.Append(req.TripID,
		domain.Turn{Text: msg, IsUser: true, Timestamp: now},
		domain.Turn{Text: reply.Text, IsUser: false, Timestamp: now},
	)

	if _, err := s.runner.Go(ctx, req.TripID, "sync_information", s.syncJob(req.TripID, msg, history)); err != nil {
		s.logger.WarnContext(ctx, "information sync not scheduled", "trip_id", req.TripID.Hex(), "error", err)
	}

	return ChatResponse{TripID: req.TripID, Text: reply.Text, Link: bookingLink(reply.ToolTrace)}, nil
}

// syncJob re-reads the document at run time so a job queued behind another
// sync for the same trip sees its result.
func (s *ChatService) syncJob(tripID domain.ID, msg string, history []domain.Turn) Job {
	return func(ctx context.Context) error {
		doc, err := s.info.GetByTrip(ctx, tripID)
		if err != nil {
			return fmt.Errorf("service.ChatService.sync: %w", err)
		}
		next, err := s.extractor.Extract(ctx, msg, history, doc.Data)
		if err != nil {
			return fmt.Errorf("service.ChatService.sync: %w", err)
		}
		changed, err := domain.ChangedFields(doc.Data, next)
		if err != nil {
			return fmt.Errorf("service.ChatService.sync: %w", err)
		}
		if len(changed) == 0 {
			return nil
		}
		if err := s.info.UpdateFields(ctx, tripID, changed); err != nil {
			return fmt.Errorf("service.ChatService.sync: %w", err)
		}
		s.logger.InfoContext(ctx, "information updated", "trip_id", tripID.Hex(), "fields", lo.Keys(changed))
		return nil
	}
}

// bookingLink returns the first "booking_link" value found in any tool output.
func bookingLink(trace []agent.ToolCall) *string {
	links := lo.FilterMap(trace, func(c agent.ToolCall, _ int) (string, bool) {
		var v any
		if json.Unmarshal([]byte(c.Output), &v) != nil {
			return "", false
		}
		return findBookingLink(v)
	})
	if len(links) == 0 {
		return nil
	}
	return &links[0]
}

func findBookingLink(v any) (string, bool) {
	switch t := v.(type) {
	case map[string]any:
		if s, ok := t["booking_link"].(string); ok && s != "" {
			return s, true
		}
		keys := lo.Keys(t)
		sort.Strings(keys)
		for _, k := range keys {
			if s, ok := findBookingLink(t[k]); ok {
				return s, true
			}
		}
	case []any:
		for _, e := range t {
			if s, ok := findBookingLink(e); ok {
				return s, true
			}
		}
	}
	return "", false
}
