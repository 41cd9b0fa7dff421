package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/laala-app/creator-dashboard/internal/audit"
	"github.com/laala-app/creator-dashboard/internal/auth"
	"github.com/laala-app/creator-dashboard/internal/authz"
	"github.com/laala-app/creator-dashboard/internal/comanager"
	"github.com/laala-app/creator-dashboard/internal/content"
	"github.com/laala-app/creator-dashboard/internal/transport/middleware"
	"github.com/laala-app/creator-dashboard/internal/transport/swagger"
)

// RegisterAllRoutes wires the full route tree. Everything under the
// authenticated group carries a principal in context; resource routes are
// additionally gated by the authorization guard, and owner-exclusive
// routes never admit co-managers at all.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, authorization *authz.Authorization, comanagerHandler *comanager.Handler, contentHandler *content.Handler, auditHandler *audit.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// The OpenAPI document and swagger UI live outside the API prefix.
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
			sr.Post("/refresh", authHandler.RefreshToken)
			sr.Post("/logout", authHandler.Logout)
			sr.Post("/password/first-change", authHandler.FirstPasswordChange)
		})

		// Everything below requires a live principal.
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			// Content routes, gated per action by the guard
			pr.Route("/contents", func(cr chi.Router) {
				cr.With(authorization.Require(authz.ResourceContent, authz.ActionCreate)).
					Post("/", contentHandler.Create)
				cr.With(authorization.Require(authz.ResourceContent, authz.ActionRead)).
					Get("/", contentHandler.List)
				cr.With(authorization.Require(authz.ResourceContent, authz.ActionRead)).
					Get("/{id}", contentHandler.Get)
				cr.With(authorization.Require(authz.ResourceContent, authz.ActionUpdate)).
					Put("/{id}", contentHandler.Update)
				cr.With(authorization.Require(authz.ResourceContent, authz.ActionDelete)).
					Delete("/{id}", contentHandler.Delete)
			})

			// Co-manager administration and its audit trail are
			// owner-exclusive
			pr.Group(func(or chi.Router) {
				or.Use(authorization.RequireOwner(authz.ResourceCoManager))

				or.Route("/comanagers", func(mr chi.Router) {
					mr.Post("/", comanagerHandler.Provision)
					mr.Get("/", comanagerHandler.List)
					mr.Get("/{id}", comanagerHandler.Get)
					mr.Put("/{id}/permissions", comanagerHandler.UpdatePermissions)
					mr.Put("/{id}/status", comanagerHandler.UpdateStatus)
					mr.Delete("/{id}", comanagerHandler.Delete)
				})

				or.Get("/audit", auditHandler.List)
			})
		})
	})
}
