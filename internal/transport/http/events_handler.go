package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/queries/list_events"
	"github.com/light-bringer/pricing-engine/internal/pkg/logger"
)

// EventsHandler serves GET /api/v1/events from the outbox.
type EventsHandler struct {
	query *list_events.Query
	logg  *logger.Logger
}

// NewEventsHandler creates a new HTTP events handler.
func NewEventsHandler(query *list_events.Query, logg *logger.Logger) *EventsHandler {
	if logg == nil {
		logg = logger.Nop()
	}
	return &EventsHandler{query: query, logg: logg}
}

// Event represents an outbox event in the HTTP response.
type Event struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	AggregateID  string          `json:"aggregate_id"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	Status       string          `json:"status"`
	CreatedAt    string          `json:"created_at"`
	ProcessedAt  *string         `json:"processed_at,omitempty"`
	RetryCount   int64           `json:"retry_count"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// ListEventsResponse represents the HTTP response for listing events.
type ListEventsResponse struct {
	Events     []Event `json:"events"`
	TotalCount int     `json:"total_count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	params := r.URL.Query()
	req := &list_events.Request{
		EventType:   params.Get("event_type"),
		AggregateID: params.Get("aggregate_id"),
		Status:      params.Get("status"),
	}
	if raw := params.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		req.Limit = limit
	}

	stored, err := h.query.Execute(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		h.logg.Error(r.Context(), "events.list_failed", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to fetch events"})
		return
	}

	events := make([]Event, 0, len(stored))
	for _, e := range stored {
		events = append(events, toEvent(e))
	}
	writeJSON(w, http.StatusOK, ListEventsResponse{Events: events, TotalCount: len(events)})
}

func toEvent(e *contracts.StoredEvent) Event {
	event := Event{
		EventID:      e.EventID,
		EventType:    e.EventType,
		AggregateID:  e.AggregateID,
		Status:       e.Status,
		CreatedAt:    e.CreatedAt.UTC().Format(time.RFC3339),
		RetryCount:   e.RetryCount,
		ErrorMessage: e.ErrorMessage,
	}
	if e.Payload != "" && json.Valid([]byte(e.Payload)) {
		event.Payload = json.RawMessage(e.Payload)
	}
	if e.ProcessedAt != nil {
		at := e.ProcessedAt.UTC().Format(time.RFC3339)
		event.ProcessedAt = &at
	}
	return event
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
