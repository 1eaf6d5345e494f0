// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/guesthouse/internal/authz"
	"github.com/tomtom215/guesthouse/internal/middleware"
)

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler         *Handler
	edge            *edgeMiddleware
	authzMiddleware *authz.Middleware
}

// NewRouter creates a Router. Rate limits and CORS come from the handler's
// security configuration.
func NewRouter(handler *Handler, enforcer *authz.Enforcer) *Router {
	authzMW := authz.NewMiddleware(enforcer)
	authzMW.SetAuditLogger(handler.audit)
	return &Router{
		handler:         handler,
		edge:            newEdgeMiddleware(handler.cfg.Security),
		authzMiddleware: authzMW,
	}
}

// SetupChi builds the HTTP handler for every route.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// Global middleware, applied in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.edge.cors) // must be global to answer OPTIONS preflight
	r.Use(securityHeaders)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.edge.limit(limitHealth))
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.With(router.edge.limit(limitLogin)).Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.With(h.authMW.Authenticate).Get("/me", h.Me)
	})

	r.Route("/api/v1/public", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)

		r.Group(func(r chi.Router) {
			r.Use(router.edge.limit(limitGeneral))
			r.Use(chimiddleware.Compress(5, "application/json"))
			r.Get("/houses", h.PublicHouses)
			r.Get("/houses/{id}", h.PublicHouse)
			r.Get("/houses/{id}/availability", h.HouseAvailability)
			r.Get("/gallery", h.PublicGallery)
			r.Get("/recommendations", h.PublicRecommendations)
		})

		r.With(router.edge.limit(limitPublicWrite)).Post("/bookings", h.CreateBooking)
		r.With(router.edge.limit(limitMedia)).Get("/media/*", h.Media)
	})

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(router.edge.limit(limitGeneral))
		r.Use(noStore)
		r.Use(middleware.PrometheusMetrics)
		r.Use(h.authMW.Authenticate)
		r.Use(router.authzMiddleware.AuthorizeRequest)

		r.Route("/houses", func(r chi.Router) {
			r.Get("/", h.ListHouses)
			r.Post("/", h.CreateHouse)
			r.Get("/{id}", h.GetHouse)
			r.Put("/{id}", h.UpdateHouse)
			r.Delete("/{id}", h.DeleteHouse)
			r.Post("/{id}/photos", h.UploadHousePhoto)
			r.Delete("/{id}/photos", h.DeleteHousePhoto)
			r.Get("/{id}/guests", h.ListHouseGuests)
			r.Patch("/{id}/guests/{bookingID}", h.UpdateGuest)
		})

		r.Get("/guests", h.ListGuests)

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", h.ListBookings)
			r.Get("/{id}", h.GetBooking)
			r.Put("/{id}", h.UpdateBooking)
			r.Delete("/{id}", h.DeleteBooking)
			r.Post("/{id}/assign", h.AssignBooking)
			r.Get("/{id}/attachment", h.BookingAttachment)
		})

		r.Route("/gallery", func(r chi.Router) {
			r.Get("/", h.PublicGallery)
			r.Post("/", h.CreateGalleryItem)
			r.Put("/{id}", h.UpdateGalleryItem)
			r.Delete("/{id}", h.DeleteGalleryItem)
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/", h.PublicRecommendations)
			r.Post("/", h.CreateRecommendation)
			r.Put("/{id}", h.UpdateRecommendation)
			r.Delete("/{id}", h.DeleteRecommendation)
		})

		r.Get("/stats/occupancy", h.OccupancyStats)
		r.Get("/stats/summary", h.SummaryStats)

		r.Get("/backups", h.ListBackups)
		r.Post("/backups", h.CreateBackup)

		r.Get("/audit", h.ListActivity)

		r.Get("/ws", h.WebSocket)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
