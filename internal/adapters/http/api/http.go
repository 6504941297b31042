// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/vibecheck/internal/adapters/auth"
	service "github.com/okian/vibecheck/internal/app"
	"github.com/okian/vibecheck/internal/domain/dateideas"
	"github.com/okian/vibecheck/internal/domain/match"
	"github.com/okian/vibecheck/internal/domain/profile"
)

var errNoToken = errors.New("no bearer token provided")

// Dependencies required by HTTP handlers. *service.Service satisfies it.
type Dependencies interface {
	ProfileDependencies
	MatchDependencies
	LikeDependencies
	DateIdeaDependencies
}

// ProfileDependencies covers profile management.
type ProfileDependencies interface {
	CreateProfile(ctx context.Context, callerID string, in service.ProfileInput) (profile.Profile, error)
	GetProfile(ctx context.Context, id string) (profile.Profile, error)
	UpdateProfile(ctx context.Context, callerID string, patch service.ProfileInput) (profile.Profile, error)
	DeleteProfile(ctx context.Context, callerID string) error
	ListProfiles(ctx context.Context, callerID string, q service.ListQuery) ([]profile.Profile, error)
}

// MatchDependencies covers match evaluation.
type MatchDependencies interface {
	EvaluateMatch(ctx context.Context, idA, idB string) (match.Result, error)
}

// LikeDependencies covers likes.
type LikeDependencies interface {
	Like(ctx context.Context, callerID, targetID string) (bool, error)
}

// DateIdeaDependencies covers date idea generation.
type DateIdeaDependencies interface {
	GenerateDateIdeas(ctx context.Context, req dateideas.Request) (service.DateIdeas, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	verifier        auth.Verifier
	healthHandler   *HealthHandler
	profileHandler  *ProfileHandler
	matchHandler    *MatchHandler
	likeHandler     *LikeHandler
	dateIdeaHandler *DateIdeaHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, verifier auth.Verifier) *Server {
	return &Server{
		verifier:        verifier,
		healthHandler:   NewHealthHandler(),
		profileHandler:  NewProfileHandler(deps),
		matchHandler:    NewMatchHandler(deps),
		likeHandler:     NewLikeHandler(deps),
		dateIdeaHandler: NewDateIdeaHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	authed := func(h http.HandlerFunc, endpoint string) http.HandlerFunc {
		return MetricsMiddleware(RequireAuth(s.verifier, h), endpoint)
	}

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))

	mux.HandleFunc("POST /api/profiles", authed(s.profileHandler.HandleCreate, "profiles_create"))
	mux.HandleFunc("GET /api/profiles", authed(s.profileHandler.HandleList, "profiles_list"))
	mux.HandleFunc("GET /api/profiles/me", authed(s.profileHandler.HandleGetMe, "profiles_get_me"))
	mux.HandleFunc("PUT /api/profiles/me", authed(s.profileHandler.HandleUpdate, "profiles_update"))
	mux.HandleFunc("DELETE /api/profiles/me", authed(s.profileHandler.HandleDelete, "profiles_delete"))
	mux.HandleFunc("GET /api/profiles/{id}", authed(s.profileHandler.HandleGet, "profiles_get"))
	mux.HandleFunc("POST /api/profiles/process-match", authed(s.matchHandler.HandleProcessMatch, "process_match"))
	mux.HandleFunc("POST /api/likes/{id}", authed(s.likeHandler.HandleLike, "likes"))
	mux.HandleFunc("POST /api/date-ideas", authed(s.dateIdeaHandler.HandleGenerate, "date_ideas"))
}

// caller returns the authenticated caller id. RequireAuth guarantees it.
func caller(r *http.Request) string {
	id, _ := auth.FromContext(r.Context())
	return id.ID
}
