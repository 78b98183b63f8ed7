package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/scottkoskoski/gardening-app/internal/observability/metrics"
	"github.com/scottkoskoski/gardening-app/internal/security/audit"
	"github.com/scottkoskoski/gardening-app/internal/security/middleware"
	"github.com/scottkoskoski/gardening-app/internal/security/ratelimit"
)

const maxBodyBytes = 1 << 20

// RouterDeps collects everything the HTTP surface needs.
type RouterDeps struct {
	Users        *UserHandler
	Hardiness    *HardinessHandler
	Weather      *WeatherHandler
	Plants       *PlantHandler
	GardenTypes  *GardenTypeHandler
	Gardens      *GardenHandler
	GardenPlants *GardenPlantHandler
	Health       *HealthHandler

	Tokens      middleware.TokenVerifier
	Admins      middleware.AdminChecker
	Audit       *audit.Logger
	Limiter     *ratelimit.Limiter // all routes; nil disables
	AuthLimiter *ratelimit.Limiter // login and register; nil disables

	CORSOrigins []string
	Logger      *slog.Logger
}

// NewRouter builds the chi route tree and wraps it for tracing.
func NewRouter(d RouterDeps) http.Handler {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(metrics.HTTPMetricsMiddleware)
	r.Use(chimw.Timeout(30 * time.Second))
	if d.Limiter != nil {
		r.Use(middleware.RateLimit(d.Limiter, log))
	}
	r.Use(middleware.LimitBody(maxBodyBytes))
	r.Use(middleware.ValidateJSONContentType(log))

	r.Get("/healthz", d.Health.Health)
	r.Get("/readyz", d.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	authn := middleware.Authenticate(d.Tokens, log)

	r.Route("/users", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if d.AuthLimiter != nil {
				r.Use(middleware.RateLimit(d.AuthLimiter, log))
			}
			r.Post("/register", d.Users.Register)
			r.Post("/login", d.Users.Login)
		})
		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Use(middleware.Audit(d.Audit))
			r.Get("/get_user", d.Users.GetUser)
			r.Get("/profile", d.Users.GetProfile)
			r.Post("/profile", d.Users.UpdateProfile)
			r.With(middleware.RequireAdmin(d.Admins, d.Audit)).Get("/inactive_users", d.Users.InactiveUsers)
		})
	})

	r.Get("/hardiness/get_hardiness_zone", d.Hardiness.GetZone)
	r.Get("/weather/get_weather", d.Weather.GetWeather)

	r.Route("/plants", func(r chi.Router) {
		r.Get("/get_plants", d.Plants.List)
		r.Get("/{id}", d.Plants.Get)
		r.With(middleware.Audit(d.Audit)).Post("/", d.Plants.Create)
	})

	r.Route("/garden_types", func(r chi.Router) {
		r.Get("/", d.GardenTypes.List)
		r.Get("/{id}", d.GardenTypes.Get)
	})

	r.Route("/user_gardens", func(r chi.Router) {
		r.Use(authn)
		r.Use(middleware.Audit(d.Audit))
		r.Post("/", d.Gardens.Create)
		r.Get("/", d.Gardens.List)
		r.Get("/{id}", d.Gardens.Get)
		r.Put("/{id}", d.Gardens.Update)
		r.Delete("/{id}", d.Gardens.Delete)
	})

	r.Route("/user_garden_plants", func(r chi.Router) {
		r.Use(authn)
		r.Use(middleware.Audit(d.Audit))
		r.Post("/", d.GardenPlants.Add)
		r.Get("/{gardenId}", d.GardenPlants.ListForGarden)
		r.Patch("/{id}", d.GardenPlants.Update)
		r.Delete("/{id}", d.GardenPlants.Remove)
	})

	return otelhttp.NewHandler(r, "gardening-api")
}
