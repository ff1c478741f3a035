package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/medisync/medisync-go/internal/http/middleware"
	"github.com/medisync/medisync-go/pkg/logging"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	Handler            *Handler
	Logger             *logging.Logger
	CORSAllowedOrigins []string
	MetricsHandler     http.Handler

	// Login rate limit (per IP). Zero disables limiting.
	LoginRatePerSecond float64
	LoginBurst         int
}

// NewRouter creates a chi router with all gateway routes configured.
func NewRouter(cfg *RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	h := cfg.Handler

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		// Credential endpoints get their own rate limit.
		api.Group(func(auth chi.Router) {
			if cfg.LoginRatePerSecond > 0 {
				auth.Use(httpmiddleware.RateLimit(cfg.LoginRatePerSecond, cfg.LoginBurst))
			}
			auth.Post("/login", h.Login)
			auth.Post("/register", h.Register)
		})

		api.Post("/logout", h.Logout)
		api.Get("/session", h.SessionInfo)

		api.Get("/profile", h.Profile)
		api.Put("/profile", h.UpdateProfile)
		api.Post("/balance", h.AddFunds)

		api.Route("/appointments", func(r chi.Router) {
			r.Get("/", h.Appointments)
			r.Post("/", h.BookAppointment)
			r.Post("/{id}/cancel", h.CancelAppointment)
			r.Post("/{id}/complete", h.CompleteAppointment)
			r.Post("/{id}/review", h.ReviewAppointment)
			r.Get("/{id}/processes", h.AppointmentProcesses)
		})

		api.Route("/doctors", func(r chi.Router) {
			r.Get("/", h.Doctors)
			r.Get("/{id}/dates", h.AvailableDates)
			r.Get("/{id}/slots", h.Slots)
		})

		api.Route("/processes", func(r chi.Router) {
			r.Get("/", h.Processes)
			r.Post("/{id}/pay", h.PayProcess)
		})

		api.Route("/resources", func(r chi.Router) {
			r.Get("/", h.Resources)
			r.Get("/{id}", h.ResourceByID)
			r.Post("/{id}/request", h.RequestResource)
			r.Put("/{id}/availability", h.UpdateResourceAvailability)
		})

		api.Route("/admin", func(r chi.Router) {
			r.Get("/patients", h.AdminPatients)
			r.Get("/doctors", h.AdminDoctors)
			r.Get("/stats/appointments", h.AppointmentStats)
			r.Get("/stats/revenue", h.RevenueStats)
		})
	})

	return r
}
