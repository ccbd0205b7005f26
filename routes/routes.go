package routes

import (
	"net/http"
	"time"

	"github.com/Dosada05/debate-tournament/handlers"
	"github.com/Dosada05/debate-tournament/middleware"
	"github.com/Dosada05/debate-tournament/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/debate-tournament/docs" // регистрация swagger-спецификации
)

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	RateLimiter    *middleware.IPRateLimiter
	Registry       *prometheus.Registry
}

func SetupRoutes(
	router *chi.Mux,
	opts Options,
	bracketHandler *handlers.BracketHandler,
	scoreHandler *handlers.ScoreHandler,
	exportHandler *handlers.ExportHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if opts.Registry != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	}
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Websocket живёт вне таймаута: соединение долгое.
	router.Get("/ws/events/{eventID}", webSocketHandler.ServeWs)

	writers := []string{string(models.RoleOrganizer), string(models.RoleAdmin)}
	// Изменения только для организаторов и админов
	guard := []func(http.Handler) http.Handler{}
	if opts.RateLimiter != nil {
		guard = append(guard, middleware.RateLimit(opts.RateLimiter))
	}
	guard = append(guard,
		middleware.Authenticate(opts.JWTSecret),
		middleware.Authorize(writers...),
	)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Get("/match/score", scoreHandler.MatchScore)
		r.With(guard...).Post("/match/result", bracketHandler.RecordResult)
		r.With(guard...).Post("/match/reschedule", bracketHandler.Reschedule)

		r.With(guard...).Post("/bracket/build", bracketHandler.BuildBracket)
		r.With(guard...).Post("/bracket/advance", bracketHandler.AdvanceRound)

		r.Route("/bracket/{eventID}", func(r chi.Router) {
			r.Get("/", bracketHandler.GetBracket)
			r.Get("/rounds", bracketHandler.NumRounds)
			r.Get("/dates", bracketHandler.MatchDates)
			r.Get("/panels", bracketHandler.PanelGroups)
			r.Get("/results", scoreHandler.RoundResults)
			r.Get("/export", exportHandler.ExportBracket)
			r.Get("/progress", bracketHandler.GetProgress)
			r.With(guard...).Patch("/progress", bracketHandler.UpdateProgress)
		})
	})
}
