// Package domain contains the core data types for the Planora trip API.
// This package has zero transport or storage dependencies and is imported
// by every other internal package (repo, service, handler, policy).
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TripRecord is a persisted trip plan. The record is the top-level
// aggregate of this service; its plan payload is opaque to every layer
// below the planner and display code.
type TripRecord struct {
	ID    uuid.UUID `json:"id"`
	Owner Identity  `json:"owner"`

	Title    string `json:"title"`
	Location string `json:"location"`

	// Plan holds the search criteria and any generated itinerary, stored
	// and returned verbatim.
	Plan PlanDocument `json:"plan"`

	// ImageURL is populated at display time by the image enricher.
	// It is never persisted and never consulted for authorization.
	ImageURL string `json:"image_url,omitempty"`

	LastUpdated time.Time  `json:"last_updated"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// Live reports whether the record has not been soft-deleted.
func (t TripRecord) Live() bool {
	return t.DeletedAt == nil
}

// PlanDocumentVersion is the current envelope version written at creation.
const PlanDocumentVersion = 1

// PlanDocument is the versioned envelope around the opaque plan payload.
// The store persists it verbatim; only the embedded query string is ever
// consulted (by list search), so planner output format changes cannot
// ripple into the storage layer.
type PlanDocument struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// PlanData is the shape this service writes into a PlanDocument at
// creation time. Readers other than the planner and display code must
// treat the document as opaque.
type PlanData struct {
	// Query is the free-text search string the trip was planned from.
	// List search matches against it.
	Query string `json:"query,omitempty"`

	// Criteria is the structured search input, passed through verbatim.
	Criteria json.RawMessage `json:"criteria,omitempty"`

	// Itinerary is the generated plan, passed through verbatim.
	Itinerary json.RawMessage `json:"itinerary,omitempty"`
}

// NewPlanDocument wraps plan data in a current-version envelope.
func NewPlanDocument(data PlanData) (PlanDocument, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return PlanDocument{}, err
	}
	return PlanDocument{Version: PlanDocumentVersion, Data: raw}, nil
}

// CreateTripInput carries a plan-creation request into the trip service.
// Itinerary may be nil; the service then asks its plan generator for one.
type CreateTripInput struct {
	Title     string
	Location  string
	Query     string
	Criteria  json.RawMessage
	Itinerary json.RawMessage
}

// RecoveryNotice is the human-readable recovery-window statement returned
// with every delete confirmation. It is policy text only: no purge job or
// restore operation exists in this service.
const RecoveryNotice = "This trip has been deleted. It can be recovered within 30 days by contacting support."

// DeleteConfirmation is the result of a successful soft delete.
type DeleteConfirmation struct {
	Record         TripRecord
	RecoveryNotice string
	Audit          AuditSummary
}
