package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	appauth "simon-pi/internal/app/auth"
	appleaderboard "simon-pi/internal/app/leaderboard"
	apppayments "simon-pi/internal/app/payments"
	"simon-pi/internal/config"
	"simon-pi/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func NewRouter(st store.Store, cfg config.ServerConfig) *chi.Mux {
	var verifier appauth.TokenVerifier
	if cfg.PiAPIKey == "" {
		verifier = appauth.SandboxVerifier{}
	} else {
		verifier = appauth.NewPlatformVerifier(cfg.PiAPIKey)
	}

	authHandlers := NewAuthHandlers(appauth.NewService(st, verifier))
	paymentHandlers := NewPaymentHandlers(apppayments.NewService(st, cfg.PaymentAmount))
	leaderboardHandlers := NewLeaderboardHandlers(appleaderboard.NewService(st, cfg.LeaderboardN))
	adminHandlers := NewAdminHandlers(st)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(APILogMiddleware())

	r.Get("/healthz", adminHandlers.Health())
	r.Get("/debug/vars", expvar.Handler().ServeHTTP)

	r.Post("/auth/verify", authHandlers.Verify())
	r.Get("/leaderboard", leaderboardHandlers.Top())
	r.Get("/leaderboard/user/{user_id}", leaderboardHandlers.ForUser())
	r.Get("/payments/{payment_id}", paymentHandlers.Get())

	r.Group(func(r chi.Router) {
		r.Use(RequireBearerToken())
		r.Post("/payments/complete", paymentHandlers.Complete())
	})

	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 16)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
