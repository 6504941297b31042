package api

import (
	"net/http"
	"strconv"

	service "github.com/okian/vibecheck/internal/app"
	"github.com/okian/vibecheck/internal/domain/profile"
)

// ProfileHandler handles /api/profiles.
type ProfileHandler struct {
	deps ProfileDependencies
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps ProfileDependencies) *ProfileHandler {
	return &ProfileHandler{deps: deps}
}

type profileResponse struct {
	Message string          `json:"message,omitempty"`
	Profile profile.Profile `json:"profile"`
}

type profilesResponse struct {
	Profiles []profile.Profile `json:"profiles"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// HandleCreate handles POST /api/profiles.
func (h *ProfileHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_profile"
	var in service.ProfileInput
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	p, err := h.deps.CreateProfile(r.Context(), caller(r), in)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, profileResponse{Message: "Profile created successfully", Profile: p})
}

// HandleGetMe handles GET /api/profiles/me.
func (h *ProfileHandler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, caller(r))
}

// HandleGet handles GET /api/profiles/{id}.
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, r.PathValue("id"))
}

func (h *ProfileHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.get_profile"
	p, err := h.deps.GetProfile(r.Context(), id)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Profile: p})
}

// HandleUpdate handles PUT /api/profiles/me.
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_profile"
	var patch service.ProfileInput
	if err := decodeJSON(w, r, &patch, false); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	p, err := h.deps.UpdateProfile(r.Context(), caller(r), patch)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Message: "Profile updated successfully", Profile: p})
}

// HandleDelete handles DELETE /api/profiles/me.
func (h *ProfileHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_profile"
	if err := h.deps.DeleteProfile(r.Context(), caller(r)); err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Profile deleted successfully"})
}

// HandleList handles GET /api/profiles?limit&offset&minAge&maxAge.
func (h *ProfileHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_profiles"
	var q service.ListQuery
	params := r.URL.Query()
	for name, dst := range map[string]*int{
		"limit":  &q.Limit,
		"offset": &q.Offset,
		"minAge": &q.MinAge,
		"maxAge": &q.MaxAge,
	} {
		raw := params.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		*dst = n
	}
	profiles, err := h.deps.ListProfiles(r.Context(), caller(r), q)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, profilesResponse{Profiles: profiles})
}
