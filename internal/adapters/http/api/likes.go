package api

import "net/http"

// LikeHandler handles likes.
type LikeHandler struct {
	deps LikeDependencies
}

// NewLikeHandler creates a new like handler.
func NewLikeHandler(deps LikeDependencies) *LikeHandler {
	return &LikeHandler{deps: deps}
}

type likeResponse struct {
	Liked  string `json:"liked"`
	Mutual bool   `json:"mutual"`
}

// HandleLike handles POST /api/likes/{id}.
func (h *LikeHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	const op = "api.like"
	target := r.PathValue("id")
	mutual, err := h.deps.Like(r.Context(), caller(r), target)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, likeResponse{Liked: target, Mutual: mutual})
}
