package rest

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/danrusdi/card-reconciliation/internal/alias"
	"github.com/danrusdi/card-reconciliation/internal/employee"
	"github.com/danrusdi/card-reconciliation/internal/statement"
	"github.com/danrusdi/card-reconciliation/internal/transport/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, aliasHandler *alias.Handler, employeeHandler *employee.Handler, statementHandler *statement.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Mount API under /api/v1
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Alias curation routes
		if aliasHandler != nil {
			r.Route("/aliases", func(ar chi.Router) {
				ar.Post("/", aliasHandler.CreateAlias)       // POST /aliases
				ar.Get("/", aliasHandler.ListAliases)        // GET /aliases
				ar.Delete("/{id}", aliasHandler.DeleteAlias) // DELETE /aliases/:id
			})
		}

		// Employee directory for the alias curation picker
		if employeeHandler != nil {
			r.Get("/employees", employeeHandler.ListEmployees)
		}

		// Statement upload session routes
		if statementHandler != nil {
			r.Route("/statements", func(sr chi.Router) {
				sr.Post("/", statementHandler.UploadStatement) // POST /statements
				sr.Get("/{id}", statementHandler.GetStatement) // GET /statements/:id
			})
		}
	})
}
