package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/ratelimit"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
)

// AccountService is the part of services.AccountService the API needs.
type AccountService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.RegisterResult, error)
	Verify(ctx context.Context, token, email string) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	GetUser(ctx context.Context, id string) (*models.UserSummary, error)
	GetUserByEmail(ctx context.Context, email string) (*models.UserSummary, error)
	Authenticate(token string) (*auth.Claims, error)
	VerifiedLandingURL() string
}

// Options tune the router.
type Options struct {
	AllowedOrigins []string
	// SecureCookie sets the Secure flag on the session cookie.
	SecureCookie bool
	// Limiter throttles unauthenticated POSTs per client address.
	Limiter ratelimit.Limiter
	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Only enable it behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

// NewRouter creates and configures the chi router.
func NewRouter(svc AccountService, o Options, l logging.Logger) *chi.Mux {
	logger := l.With("module", "http_api")
	if o.Limiter == nil {
		o.Limiter = ratelimit.Noop{}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if o.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   o.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	h := &handler{svc: svc, logger: logger, secureCookie: o.SecureCookie}

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Get("/verify", h.Verify)

			r.Group(func(r chi.Router) {
				r.Use(limitByIP(o.Limiter, logger))
				r.Post("/register", h.Register)
				r.Post("/verify/resend", h.ResendVerification)
				r.Post("/login", h.Login)
				r.Post("/password/forgot", h.ForgotPassword)
				r.Post("/password/reset", h.ResetPassword)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate(svc))
			r.Get("/me", h.Me)

			r.With(requireRole(models.RoleAdmin)).Get("/admin/users/{email}", h.AdminGetUser)
		})
	})

	return r
}

func requestLogger(l logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			r = r.WithContext(logging.WithRequestID(r.Context(), middleware.GetReqID(r.Context())))
			start := time.Now()
			next.ServeHTTP(ww, r)
			l.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}
