package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/blockboard/eventlog/internal/group"
	"github.com/blockboard/eventlog/internal/store"
	"github.com/go-chi/chi/v5"
)

type GroupHandler struct {
	store   *store.PostgresStore
	tracker *group.Tracker
}

func NewGroupHandler(s *store.PostgresStore, t *group.Tracker) *GroupHandler {
	return &GroupHandler{store: s, tracker: t}
}

type openGroupRequest struct {
	WorkspaceID string `json:"workspace_id"`
}

type openGroupResponse struct {
	GroupID string `json:"group_id"`
}

// Open mints a group ID for a workspace. Clients stamp it onto the events
// of one logical action via the groupId wire key.
func (h *GroupHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.WorkspaceID == "" {
		respondError(w, http.StatusBadRequest, "workspace_id is required")
		return
	}

	id, err := h.tracker.Open(r.Context(), req.WorkspaceID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to open group")
		return
	}

	respondJSON(w, http.StatusCreated, openGroupResponse{GroupID: id})
}

// Get returns a group's state plus every journaled event correlated to it.
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	state, err := h.tracker.Get(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get group")
		return
	}
	if state == nil {
		respondError(w, http.StatusNotFound, "group not found")
		return
	}

	entries, err := h.store.ListGroupEvents(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list group events")
		return
	}

	type groupDetail struct {
		group.State
		Entries []store.JournalEntry `json:"entries"`
	}

	respondJSON(w, http.StatusOK, groupDetail{
		State:   *state,
		Entries: entries,
	})
}

// Close ends a group. Journaled events keep their group ID; only the live
// tracking state is discarded.
func (h *GroupHandler) Close(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.tracker.Close(r.Context(), id); err != nil {
		if errors.Is(err, group.ErrNotFound) {
			respondError(w, http.StatusNotFound, "group not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to close group")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}
