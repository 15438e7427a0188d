// Package handler implements the HTTP handlers for the Planora trip API.
// Handlers decode and validate the wire shapes, pull the resolved identity
// and provenance off the request, and delegate everything else to the
// service layer. Methods are split into resource-specific files but all
// share the same Server struct.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/planora/backend/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend
// on. Defining the interface here (in the consumer package) follows the
// Go convention: "accept interfaces, return concrete types". It lets
// handler tests inject a mock without touching the database or service
// layer.
type TripServicer interface {
	List(ctx context.Context, requester domain.Identity, params domain.ListParams) ([]domain.TripRecord, domain.Page, error)
	GetByID(ctx context.Context, requester domain.Identity, id uuid.UUID) (domain.TripRecord, error)
	Create(ctx context.Context, requester domain.Identity, input domain.CreateTripInput, prov domain.Provenance) (domain.TripRecord, error)
	Delete(ctx context.Context, requester domain.Identity, id uuid.UUID, prov domain.Provenance) (domain.DeleteConfirmation, error)
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	trips TripServicer
	log   *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// log may be nil to use slog.Default.
func NewServer(trips TripServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{trips: trips, log: log}
}

// Routes mounts every endpoint on a fresh chi router. Middleware is
// applied by the caller (main.go) so tests can mount routes bare.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.getHealth)
	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.listTrips)
		r.Post("/", s.createTrip)
		r.Get("/{id}", s.getTrip)
		r.Delete("/{id}", s.deleteTrip)
	})
	return r
}
