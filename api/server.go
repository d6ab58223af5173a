/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend tooling

ROUTE GROUPS:
  /api/employees/*     Employee records, attendance views, single payslips
  /api/attendance/*    Raw log import
  /api/periods         Pay-period catalog
  /api/deductions/*    Statutory withholding preview
  /api/payroll/*       Batch runs

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Get("/{id}/attendance", h.GetAttendance)
			r.Get("/{id}/attendance/weekly", h.GetWeeklyAttendance)
			r.Post("/{id}/payroll", h.ComputePayroll)
		})

		// Attendance import
		r.Route("/attendance", func(r chi.Router) {
			r.Post("/import", h.ImportAttendance)
		})

		// Pay-period catalog
		r.Get("/periods", h.ListPeriods)

		// Deduction preview
		r.Route("/deductions", func(r chi.Router) {
			r.Post("/preview", h.PreviewDeductions)
		})

		// Batch payroll runs
		r.Route("/payroll", func(r chi.Router) {
			r.Route("/runs", func(r chi.Router) {
				r.Get("/", h.ListRuns)
				r.Post("/", h.CreateRun)
				r.Get("/{id}", h.GetRun)
			})
		})
	})

	return r
}
