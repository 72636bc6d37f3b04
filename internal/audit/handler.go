package audit

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	dErrors "practiceadmin/pkg/domain-errors"
	"practiceadmin/pkg/platform/httputil"
)

const defaultActivityLimit = 50

// Handler serves the recent-activity listing from a MemorySink.
type Handler struct {
	sink *MemorySink
}

func NewHandler(sink *MemorySink) *Handler {
	return &Handler{sink: sink}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/audit/events", h.handleList)
}

type eventsResponse struct {
	Events []Event `json:"events"`
	Total  int     `json:"total"`
}

// handleList returns events newest first, optionally filtered by ?action=.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := defaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be a positive integer"))
			return
		}
		limit = n
	}

	var events []Event
	if action := r.URL.Query().Get("action"); action != "" {
		events = h.sink.ByAction(Action(action))
	} else {
		events = h.sink.Events()
	}
	total := len(events)
	slices.Reverse(events)
	if len(events) > limit {
		events = events[:limit]
	}
	if events == nil {
		events = []Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, eventsResponse{Events: events, Total: total})
}
