package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/blockboard/eventlog/internal/engine"
	"github.com/blockboard/eventlog/internal/event"
	"github.com/blockboard/eventlog/internal/group"
	"github.com/blockboard/eventlog/internal/store"
	ws "github.com/blockboard/eventlog/internal/websocket"
	"github.com/go-chi/chi/v5"
)

// maxEventDocBytes bounds the size of an appended event document. XML
// payloads for large block subtrees fit comfortably under this.
const maxEventDocBytes = 1 << 20

type EventHandler struct {
	store       *store.PostgresStore
	groups      *group.Tracker
	limiter     *engine.RateLimiter
	hub         *ws.Hub
	ingestLimit int
}

func NewEventHandler(s *store.PostgresStore, g *group.Tracker, rl *engine.RateLimiter, hub *ws.Hub, ingestLimit int) *EventHandler {
	return &EventHandler{
		store:       s,
		groups:      g,
		limiter:     rl,
		hub:         hub,
		ingestLimit: ingestLimit,
	}
}

type appendEventResponse struct {
	Seq         int64  `json:"seq"`
	EventType   string `json:"type"`
	WorkspaceID string `json:"workspace_id"`
}

// Append accepts a raw event wire document, journals it, and pushes it to
// the workspace's live feed.
func (h *EventHandler) Append(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventDocBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if !json.Valid(body) {
		respondError(w, http.StatusBadRequest, "body must be valid JSON")
		return
	}

	ev, err := event.Decode(body)
	if err != nil {
		var perr *event.ParseError
		if errors.As(err, &perr) {
			respondError(w, http.StatusUnprocessableEntity, perr.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to decode event")
		return
	}

	if h.ingestLimit > 0 && !h.limiter.Allow(r.Context(), ev.WorkspaceID(), h.ingestLimit) {
		respondError(w, http.StatusTooManyRequests, "workspace event rate exceeded")
		return
	}

	entry, err := h.store.AppendEvent(r.Context(), ev)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to append event")
		return
	}

	if ev.GroupID() != "" {
		h.groups.RecordEvent(r.Context(), ev.GroupID())
	}

	h.hub.Broadcast(ev.WorkspaceID(), entry.Doc)

	respondJSON(w, http.StatusCreated, appendEventResponse{
		Seq:         entry.Seq,
		EventType:   ev.Type(),
		WorkspaceID: ev.WorkspaceID(),
	})
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.URL.Query().Get("workspace_id")
	if workspaceID == "" {
		respondError(w, http.StatusBadRequest, "workspace_id is required")
		return
	}

	eventType := r.URL.Query().Get("event_type")
	limitStr := r.URL.Query().Get("limit")

	limit := 50
	if limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.store.ListEvents(r.Context(), workspaceID, eventType, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	seq, err := strconv.ParseInt(chi.URLParam(r, "seq"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "seq must be an integer")
		return
	}

	entry, err := h.store.GetEvent(r.Context(), seq)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get event")
		return
	}
	if entry == nil {
		respondError(w, http.StatusNotFound, "event not found")
		return
	}

	respondJSON(w, http.StatusOK, entry)
}
