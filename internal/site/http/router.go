package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hearthside/homesite/internal/site/service"
	"github.com/hearthside/homesite/internal/site/store"
	"github.com/hearthside/homesite/pkg/httpx"
	"github.com/hearthside/homesite/pkg/jwtx"
	"github.com/hearthside/homesite/pkg/slogx"
)

// SessionCookieName is the HTTP-only cookie carrying the signed session token.
const SessionCookieName = "homesite_session"

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	secureCookie bool

	store           store.Store
	AuthService     *service.AuthService
	ResetService    *service.ResetService
	UserService     *service.UserService
	ProfileService  *service.ProfileService
	APIKeyService   *service.APIKeyService
	BirthdayService *service.BirthdayService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	secureCookie bool,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		secureCookie: secureCookie,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerReset()
	r.registerUsers()
	r.registerProfile()
	r.registerBirthdays()
	r.registerSystem()
}

// session is the identity-loading middleware shared by every route that can
// see a logged-in user. Verification failure is treated like no cookie.
func (r *Router) session() httpx.Middleware {
	return httpx.SessionMiddleware(r.verifier, SessionCookieName)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService:  r.AuthService,
		SecureCookie: r.secureCookie,
	}

	// Credential endpoints get the strict profile to slow brute force.
	r.Mux.Handle("POST /register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			r.session(),
			httpx.RequireSession(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerReset() {
	h := &ResetHandler{
		ResetService: r.ResetService,
		SecureCookie: r.secureCookie,
	}

	r.Mux.Handle("POST /reset-password",
		httpx.Chain(http.HandlerFunc(h.HandleRequest),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /reset/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleComplete),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	admin := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			r.session(),
			httpx.RequireSession(),
			requireAdmin(r.store),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /users", admin(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("POST /users", admin(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("PUT /users/{id}", admin(http.HandlerFunc(h.HandleUpdate)))
	r.Mux.Handle("DELETE /users/{id}", admin(http.HandlerFunc(h.HandleDelete)))
	r.Mux.Handle("POST /users/{id}/capabilities", admin(http.HandlerFunc(h.HandleCapabilities)))

	apiKeyHandler := &APIKeyHandler{APIKeyService: r.APIKeyService}
	r.Mux.Handle("POST /users/generate-api-key",
		httpx.Chain(apiKeyHandler,
			r.session(),
			httpx.RequireSession(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{ProfileService: r.ProfileService}

	r.Mux.Handle("POST /update-profile",
		httpx.Chain(h,
			r.session(),
			httpx.RequireSession(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerBirthdays() {
	h := &BirthdaysHandler{BirthdayService: r.BirthdayService}

	r.Mux.Handle("GET /get_birthdays",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
