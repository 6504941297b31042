package api

import (
	"errors"
	"net/http"
	"strings"
)

// MatchHandler handles match evaluation.
type MatchHandler struct {
	deps MatchDependencies
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps MatchDependencies) *MatchHandler {
	return &MatchHandler{deps: deps}
}

type processMatchRequest struct {
	TargetID string `json:"targetId"`
}

// HandleProcessMatch handles POST /api/profiles/process-match. The caller is
// always profile A.
func (h *MatchHandler) HandleProcessMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.process_match"
	var req processMatchRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.TargetID) == "" {
		writeError(w, WrapKind(op, ErrBadRequest, errors.New("missing targetId")))
		return
	}
	res, err := h.deps.EvaluateMatch(r.Context(), caller(r), req.TargetID)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
