package rest

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"

	"github.com/payrollhq/payroll-management/internal/auth"
	"github.com/payrollhq/payroll-management/internal/payroll"
	"github.com/payrollhq/payroll-management/internal/personnel"
	"github.com/payrollhq/payroll-management/internal/transport/middleware"
)

// RegisterAllRoutes wires the full HTTP surface. Signup and login are the
// only routes reachable without a bearer token.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	allowedOrigins string,
	authHandler *auth.Handler,
	personnelHandler *personnel.Handler,
	payrollHandler *payroll.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)

		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)
			pr.Get("/profile", authHandler.Profile)
		})
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(authHandler.AuthMiddleware)

		r.Route("/personnel", func(pr chi.Router) {
			pr.Get("/", personnelHandler.ListPersonnel)
			pr.Post("/", personnelHandler.CreatePersonnel)
			pr.Get("/{id}", personnelHandler.GetPersonnel)
			pr.Put("/{id}", personnelHandler.UpdatePersonnel)
			pr.Patch("/{id}", personnelHandler.UpdatePersonnel)
			pr.Delete("/{id}", personnelHandler.DeletePersonnel)
		})

		r.Route("/payroll", func(pr chi.Router) {
			pr.Get("/preview", payrollHandler.Preview)
			pr.Post("/approve", payrollHandler.Approve)
			pr.Get("/history", payrollHandler.History)
		})
	})
}
