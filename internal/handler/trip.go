package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/planora/backend/internal/domain"
	"github.com/planora/backend/internal/identity"
)

// listTrips handles GET /trips.
// Supports ?limit=&offset=&sortBy=&sortOrder=&search= (defaults: limit=20,
// offset=0, sortBy=lastUpdated, sortOrder=desc). Out-of-range or unknown
// values are rejected with 400, never silently corrected.
func (s *Server) listTrips(w http.ResponseWriter, r *http.Request) {
	limit, err := intQueryParam(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "limit must be an integer")
		return
	}
	offset, err := intQueryParam(r, "offset")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "offset must be an integer")
		return
	}

	params, err := domain.NewListParams(limit, offset,
		strQueryParam(r, "sortBy"),
		strQueryParam(r, "sortOrder"),
		strQueryParam(r, "search"),
	)
	if err != nil {
		respondError(w, err)
		return
	}

	requester := identity.FromContext(r.Context())
	records, page, err := s.trips.List(r.Context(), requester, params)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listTripsResponse{
		Records:    records,
		Pagination: paginationFromPage(page),
	})
}

// getTrip handles GET /trips/{id}.
func (s *Server) getTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid trip id")
		return
	}

	requester := identity.FromContext(r.Context())
	rec, err := s.trips.GetByID(r.Context(), requester, id)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// createTrip handles POST /trips. It is invoked by the planning workflow:
// the body carries the search criteria and, optionally, an already
// generated itinerary.
func (s *Server) createTrip(w http.ResponseWriter, r *http.Request) {
	var body createTripRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "malformed request body")
		return
	}

	requester := identity.FromContext(r.Context())
	prov := provenanceFromRequest(r)

	created, err := s.trips.Create(r.Context(), requester, domain.CreateTripInput{
		Title:     body.Title,
		Location:  body.Location,
		Query:     body.Query,
		Criteria:  body.Criteria,
		Itinerary: body.Itinerary,
	}, prov)
	if err != nil {
		respondError(w, err)
		return
	}

	s.log.InfoContext(r.Context(), "trip created",
		"trip_id", created.ID.String(),
		"owner", created.Owner.String(),
		"source_ip", prov.SourceIP,
		"agent", agentSummary(prov.SourceAgent),
	)

	writeJSON(w, http.StatusCreated, created)
}

// deleteTrip handles DELETE /trips/{id}.
func (s *Server) deleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid trip id")
		return
	}

	requester := identity.FromContext(r.Context())
	prov := provenanceFromRequest(r)

	confirmation, err := s.trips.Delete(r.Context(), requester, id, prov)
	if err != nil {
		respondError(w, err)
		return
	}

	s.log.InfoContext(r.Context(), "trip deleted",
		"trip_id", id.String(),
		"actor", requester.String(),
		"audit_recorded", confirmation.Audit.Recorded,
		"source_ip", prov.SourceIP,
		"agent", agentSummary(prov.SourceAgent),
	)

	writeJSON(w, http.StatusOK, deleteTripResponse{
		Record:         deletedRecordSummary(confirmation.Record),
		Audit:          confirmation.Audit,
		RecoveryNotice: confirmation.RecoveryNotice,
	})
}

// --- wire shapes ------------------------------------------------------------

type createTripRequest struct {
	Title    string `json:"title"`
	Location string `json:"location"`
	Query    string `json:"query"`
	// Criteria and Itinerary are passed through opaquely.
	Criteria  json.RawMessage `json:"criteria,omitempty"`
	Itinerary json.RawMessage `json:"itinerary,omitempty"`
}

type listTripsResponse struct {
	Records    []domain.TripRecord `json:"records"`
	Pagination paginationResponse  `json:"pagination"`
}

type paginationResponse struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
	// NextOffset is null on the last page.
	NextOffset *int `json:"nextOffset"`
}

func paginationFromPage(p domain.Page) paginationResponse {
	resp := paginationResponse{
		Total:   p.Total,
		Limit:   p.Limit,
		Offset:  p.Offset,
		HasMore: p.HasMore(),
	}
	if next, ok := p.NextOffset(); ok {
		resp.NextOffset = &next
	}
	return resp
}

type deleteTripResponse struct {
	Record         deletedRecord       `json:"record"`
	Audit          domain.AuditSummary `json:"audit"`
	RecoveryNotice string              `json:"recovery_notice"`
}

// deletedRecord is the slim confirmation shape: enough for the caller to
// show what was deleted and when, without echoing the full plan payload.
type deletedRecord struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Location  string     `json:"location"`
	DeletedAt *time.Time `json:"deleted_at"`
}

func deletedRecordSummary(rec domain.TripRecord) deletedRecord {
	return deletedRecord{
		ID:        rec.ID,
		Title:     rec.Title,
		Location:  rec.Location,
		DeletedAt: rec.DeletedAt,
	}
}

// --- query param helpers ----------------------------------------------------

// intQueryParam returns nil when the parameter is absent, a parse error
// when it is present but not an integer.
func intQueryParam(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func strQueryParam(r *http.Request, name string) *string {
	if !r.URL.Query().Has(name) {
		return nil
	}
	v := r.URL.Query().Get(name)
	return &v
}
