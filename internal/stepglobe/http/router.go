package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/domain"
	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/service"
	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/store"
	"github.com/aussiebroadwan/stepglobe/pkg/httpx"
	"github.com/aussiebroadwan/stepglobe/pkg/jwtx"
	"github.com/aussiebroadwan/stepglobe/pkg/slogx"

	_ "github.com/aussiebroadwan/stepglobe/api/stepglobe" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store           store.Store
	IdentityService *service.IdentityService
	TokenService    *service.TokenService
	AccountService  *service.AccountService
	IntakeService   *service.IntakeService
	AdminService    *service.AdminService

	// Cache is checked by /readyz when set.
	Cache Pinger
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerAccounts()
	r.registerSteps()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			StepGlobe API
//	@version		0.1.0
//	@description	Backend for the StepGlobe walking challenge: Telegram sign-in, participant roster and step intake.
//	@description
//	@description				Access tokens are EdDSA-signed JWTs and can be verified with the JWKS endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/stepglobe
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authed wraps h with token verification and a per-account rate limit.
func (r *Router) authed(h http.Handler, limit httpx.RateLimitConfig, extra ...httpx.Middleware) http.Handler {
	mws := append([]httpx.Middleware{httpx.AuthnMiddleware(r.verifier)}, extra...)
	mws = append(mws, httpx.RateLimitByAccount(limit))
	return httpx.Chain(h, mws...)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		IdentityService: r.IdentityService,
		TokenService:    r.TokenService,
		AccountService:  r.AccountService,
	}

	// sign-in attempts - strict rate limit by IP
	r.Mux.Handle("POST /v1/auth/telegram",
		httpx.Chain(http.HandlerFunc(h.HandleTelegram), httpx.RateLimitByIP(httpx.StrictLimit)),
	)
	r.Mux.Handle("POST /v1/auth/telegram/webapp",
		httpx.Chain(http.HandlerFunc(h.HandleWebApp), httpx.RateLimitByIP(httpx.StrictLimit)),
	)

	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh), httpx.RateLimitByIP(httpx.ModerateLimit)),
	)
	r.Mux.Handle("POST /v1/auth/signout",
		httpx.Chain(http.HandlerFunc(h.HandleSignOut), httpx.RateLimitByIP(httpx.ModerateLimit)),
	)

	r.Mux.Handle("GET /v1/auth/session", r.authed(http.HandlerFunc(h.HandleSession), httpx.LenientLimit))

	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys), httpx.RateLimitByIP(httpx.PublicLimit)),
	)
}

func (r *Router) registerAccounts() {
	h := &AccountsHandler{AccountService: r.AccountService}

	// the globe polls the roster - public, high limit
	r.Mux.Handle("GET /v1/accounts",
		httpx.Chain(http.HandlerFunc(h.HandleRoster), httpx.RateLimitByIP(httpx.PublicLimit)),
	)

	r.Mux.Handle("GET /v1/accounts/me", r.authed(http.HandlerFunc(h.HandleMe), httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/accounts/me", r.authed(http.HandlerFunc(h.HandleSave), httpx.ModerateLimit))
	r.Mux.Handle("PATCH /v1/accounts/me/profile", r.authed(http.HandlerFunc(h.HandleUpdateProfile), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/avatars", r.authed(http.HandlerFunc(h.HandleAvatars), httpx.LenientLimit))
}

func (r *Router) registerSteps() {
	h := &AccountsHandler{AccountService: r.AccountService}
	r.Mux.Handle("PUT /v1/accounts/me/steps", r.authed(http.HandlerFunc(h.HandleSetSteps), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/accounts/me/steps/increment", r.authed(http.HandlerFunc(h.HandleIncrement), httpx.ModerateLimit))

	// each upload costs a vision call - strict
	screenshots := &ScreenshotHandler{IntakeService: r.IntakeService}
	r.Mux.Handle("POST /v1/accounts/me/screenshots", r.authed(screenshots, httpx.StrictLimit))
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{AdminService: r.AdminService}
	r.Mux.Handle("POST /v1/admin/actions",
		r.authed(h, httpx.ModerateLimit, httpx.RequireRole(string(domain.RoleAdmin))),
	)
}

func (r *Router) registerSystem() {
	// monitoring systems may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys, r.Cache),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
