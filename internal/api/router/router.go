package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dentalworks/dental-clinic-platform/internal/appointments"
	"github.com/dentalworks/dental-clinic-platform/internal/assets"
	"github.com/dentalworks/dental-clinic-platform/internal/chart"
	"github.com/dentalworks/dental-clinic-platform/internal/chartlive"
	httpmiddleware "github.com/dentalworks/dental-clinic-platform/internal/http/middleware"
	"github.com/dentalworks/dental-clinic-platform/internal/patients"
	"github.com/dentalworks/dental-clinic-platform/internal/records"
	"github.com/dentalworks/dental-clinic-platform/internal/treatments"
	"github.com/dentalworks/dental-clinic-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	PatientsHandler     *patients.Handler
	AppointmentsHandler *appointments.Handler
	TreatmentsHandler   *treatments.Handler
	ChartHandler        *chart.Handler
	RecordsHandler      *records.Handler
	AssetsHandler       *assets.Handler
	LiveHub             *chartlive.Hub
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
	ClinicianJWTSecret  string
	RateLimitPerSecond  float64
	RateLimitBurst      int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
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
	if cfg.RateLimitPerSecond > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Staff endpoints behind clinician auth
	r.Route("/api", func(api chi.Router) {
		api.Use(httpmiddleware.ClinicianJWT(cfg.ClinicianJWTSecret))

		if cfg.PatientsHandler != nil {
			api.Post("/patients", cfg.PatientsHandler.CreatePatient)
			api.Get("/patients", cfg.PatientsHandler.ListPatients)
			api.Get("/patients/{patientID}", cfg.PatientsHandler.GetPatient)
			api.Patch("/patients/{patientID}", cfg.PatientsHandler.UpdatePatient)
		}

		if cfg.ChartHandler != nil {
			api.Route("/patients/{patientID}/chart", func(c chi.Router) {
				c.Get("/", cfg.ChartHandler.GetChart)
				c.Put("/teeth/{tooth}", cfg.ChartHandler.SaveRecord)
				c.Get("/teeth/{tooth}/annotations", cfg.ChartHandler.ListAnnotations)
				c.Post("/teeth/{tooth}/annotations", cfg.ChartHandler.PlaceAnnotation)
				c.Patch("/annotations/{id}", cfg.ChartHandler.UpdateAnnotation)
				c.Delete("/annotations/{id}", cfg.ChartHandler.DeleteAnnotation)
			})
		}

		if cfg.RecordsHandler != nil {
			api.Get("/patients/{patientID}/records", cfg.RecordsHandler.List)
			api.Get("/patients/{patientID}/records/{tooth}", cfg.RecordsHandler.Get)
		}

		if cfg.AppointmentsHandler != nil {
			api.Post("/appointments", cfg.AppointmentsHandler.CreateAppointment)
			api.Get("/appointments", cfg.AppointmentsHandler.ListSchedule)
			api.Get("/appointments/{appointmentID}", cfg.AppointmentsHandler.GetAppointment)
			api.Patch("/appointments/{appointmentID}/status", cfg.AppointmentsHandler.UpdateAppointmentStatus)
			api.Get("/patients/{patientID}/appointments", cfg.AppointmentsHandler.ListPatientAppointments)
		}

		if cfg.TreatmentsHandler != nil {
			api.Post("/patients/{patientID}/treatments", cfg.TreatmentsHandler.CreateTreatment)
			api.Get("/patients/{patientID}/treatments", cfg.TreatmentsHandler.ListTreatments)
			api.Patch("/treatments/{treatmentID}/status", cfg.TreatmentsHandler.UpdateTreatmentStatus)
			api.Post("/patients/{patientID}/invoices", cfg.TreatmentsHandler.CreateInvoice)
			api.Get("/patients/{patientID}/invoices", cfg.TreatmentsHandler.ListInvoices)
			api.Patch("/invoices/{invoiceID}/status", cfg.TreatmentsHandler.UpdateInvoiceStatus)
			api.Get("/patients/{patientID}/balance", cfg.TreatmentsHandler.GetBalance)
		}

		if cfg.AssetsHandler != nil {
			api.Get("/models", cfg.AssetsHandler.ListModels)
			api.Get("/models/teeth/{toothNumber}", cfg.AssetsHandler.GetToothModel)
			// Mesh uploads are an admin task.
			api.With(httpmiddleware.RequireRole("admin")).
				Post("/models/{toothType}", cfg.AssetsHandler.UploadModel)
		}
	})

	// Live chart updates over WebSocket.
	if cfg.LiveHub != nil {
		r.Get("/ws/chart", cfg.LiveHub.HandleWebSocket)
	}

	return r
}
