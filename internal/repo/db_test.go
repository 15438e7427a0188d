package repo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/planora/backend/internal/domain"
)

// stubDB fails every call with a fixed error, standing in for an
// unreachable or misbehaving database.
type stubDB struct {
	err error
}

func (s stubDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, s.err
}

func (s stubDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, s.err
}

func (s stubDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{err: s.err}
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error { return r.err }

func listParamsForStub() domain.ListParams {
	return domain.ListParams{
		Requester: domain.Anonymous(),
		SortBy:    domain.SortByLastUpdated,
		SortDir:   domain.SortDesc,
		Limit:     20,
	}
}

// Connectivity failures surfacing from the driver must reach callers as
// domain.ErrStoreUnavailable, never as raw driver errors that the
// service layer would map to a 500.
func TestTripRepo_List_OutagesMapToStoreUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"deadline expiry", fmt.Errorf("timeout: %w", context.DeadlineExceeded)},
		{"connect error", &pgconn.ConnectError{}},
		{"net error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}},
		{"connection exception class 08", &pgconn.PgError{Code: "08006"}},
		{"protocol violation class 08", &pgconn.PgError{Code: "08P01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewTripRepo(stubDB{err: tt.err})

			_, _, err := r.List(context.Background(), listParamsForStub())

			assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
			assert.ErrorIs(t, err, tt.err, "the cause stays inspectable in the chain")
		})
	}
}

// Non-connectivity errors pass through unclassified: a constraint
// violation or a plain query error is not an outage.
func TestTripRepo_List_OtherErrorsAreNotOutages(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}},
		{"syntax error class 42", &pgconn.PgError{Code: "42601"}},
		{"no rows", pgx.ErrNoRows},
		{"plain error", errors.New("boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewTripRepo(stubDB{err: tt.err})

			_, _, err := r.List(context.Background(), listParamsForStub())

			assert.Error(t, err)
			assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)
		})
	}
}

func TestAuditRepo_Append_OutageMapsToStoreUnavailable(t *testing.T) {
	r := NewAuditRepo(stubDB{err: &pgconn.ConnectError{}})

	_, err := r.Append(context.Background(), domain.AuditEntry{
		EntityType: domain.EntityTypeTrip,
		Action:     domain.AuditActionCreate,
		Actor:      domain.Anonymous(),
	})

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
