package api

import (
	"net/http"

	service "github.com/okian/vibecheck/internal/app"
	"github.com/okian/vibecheck/internal/domain/dateideas"
)

// DateIdeaHandler handles date idea generation.
type DateIdeaHandler struct {
	deps DateIdeaDependencies
}

// NewDateIdeaHandler creates a new date idea handler.
func NewDateIdeaHandler(deps DateIdeaDependencies) *DateIdeaHandler {
	return &DateIdeaHandler{deps: deps}
}

type dateIdeasResponse struct {
	Message   string               `json:"message"`
	DateIdeas []dateideas.DateIdea `json:"dateIdeas"`
	Source    string               `json:"source"`
}

// HandleGenerate handles POST /api/date-ideas. An empty body is allowed.
func (h *DateIdeaHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	const op = "api.date_ideas"
	var req dateideas.Request
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	out, err := h.deps.GenerateDateIdeas(r.Context(), req)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	msg := "Date ideas generated successfully"
	if out.Source == service.SourceFallback {
		msg += " (fallback)"
	}
	writeJSON(w, http.StatusOK, dateIdeasResponse{Message: msg, DateIdeas: out.Ideas, Source: out.Source})
}
