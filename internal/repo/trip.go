package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/planora/backend/internal/domain"
)

// TripRepo defines the persistence operations for trip records.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
//
// The repo is identity-agnostic: List is parameterized by the requester's
// owner scope, but GetByID deliberately does not filter by owner so the
// repo stays reusable for admin and audit tooling. Ownership enforcement
// belongs to the service.
type TripRepo interface {
	// Create inserts a new record and returns the persisted row with
	// DB-assigned id and timestamps. A zero input ID lets the database
	// generate one; a caller-supplied ID that collides with an existing
	// row is an integrity error, not a validation error.
	Create(ctx context.Context, rec domain.TripRecord) (domain.TripRecord, error)

	// GetByID retrieves a single live record by primary key.
	// Soft-deleted records are indistinguishable from absent ones:
	// both return domain.ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (domain.TripRecord, error)

	// List returns one page of live records matching params, plus the
	// total count over the same filter before pagination.
	List(ctx context.Context, params domain.ListParams) ([]domain.TripRecord, int, error)

	// SoftDelete atomically transitions a live record to soft-deleted and
	// returns the deleted row. The check-and-set lives in the UPDATE's
	// WHERE clause, so of two concurrent deletes exactly one succeeds;
	// the other gets domain.ErrNotFound.
	SoftDelete(ctx context.Context, id uuid.UUID) (domain.TripRecord, error)

	// HardDelete physically removes a record regardless of soft-delete
	// state and reports whether a row was removed. Administrative use
	// only; it is not reachable from the public request surface.
	HardDelete(ctx context.Context, id uuid.UUID) (bool, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback
// isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, owner_id, title, location, plan_payload, last_updated, deleted_at, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, rec domain.TripRecord) (domain.TripRecord, error) {
	const q = `
		INSERT INTO trips (id, owner_id, title, location, plan_payload)
		VALUES (COALESCE(@id, gen_random_uuid()), @owner_id, @title, @location, @plan_payload)
		RETURNING ` + tripColumns

	plan, err := json.Marshal(rec.Plan)
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("repo.TripRepo.Create: marshal plan: %w", err)
	}

	args := pgx.NamedArgs{
		"id":           nullableUUID(rec.ID, rec.ID != uuid.Nil),
		"owner_id":     ownerArg(rec.Owner),
		"title":        rec.Title,
		"location":     rec.Location,
		"plan_payload": plan,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.TripRecord{}, fmt.Errorf("repo.TripRepo.Create: id collision for %s: %w", rec.ID, err)
		}
		return domain.TripRecord{}, storeErr("repo.TripRepo.Create", err)
	}
	return result, nil
}

// GetByID retrieves a live trip record by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TripRecord, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE id = @id AND deleted_at IS NULL`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.TripRecord{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
		}
		return domain.TripRecord{}, storeErr("repo.TripRepo.GetByID", err)
	}
	return result, nil
}

// sortColumns whitelists the ORDER BY targets. Anything else must have
// been rejected by domain.NewListParams long before reaching SQL.
var sortColumns = map[domain.SortField]string{
	domain.SortByLastUpdated: "last_updated",
	domain.SortByTitle:       "title",
	domain.SortByCreatedAt:   "created_at",
}

// List returns one page of live records scoped to the requester, plus the
// total count over the same filter. The count runs first, over identical
// WHERE conditions, so Total stays invariant across pages of unchanged
// data.
func (r *pgTripRepo) List(ctx context.Context, params domain.ListParams) ([]domain.TripRecord, int, error) {
	sortCol, ok := sortColumns[params.SortBy]
	if !ok {
		return nil, 0, fmt.Errorf("repo.TripRepo.List: %w: unknown sort field %q", domain.ErrValidation, params.SortBy)
	}
	dir := "ASC"
	if params.SortDir == domain.SortDesc {
		dir = "DESC"
	}

	where := `
		WHERE deleted_at IS NULL
		  AND ((owner_id IS NULL AND @owner_id::uuid IS NULL) OR owner_id = @owner_id::uuid)`
	args := pgx.NamedArgs{"owner_id": ownerArg(params.Requester)}

	if params.Search != "" {
		where += `
		  AND (title ILIKE @pattern OR location ILIKE @pattern OR plan_payload #>> '{data,query}' ILIKE @pattern)`
		args["pattern"] = "%" + escapeLike(params.Search) + "%"
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM trips`+where, args).Scan(&total); err != nil {
		return nil, 0, storeErr("repo.TripRepo.List: count", err)
	}

	// created_at (then id) breaks ties in insertion order, keeping page
	// boundaries stable under equal sort keys.
	q := `SELECT ` + tripColumns + ` FROM trips` + where + `
		ORDER BY ` + sortCol + ` ` + dir + `, created_at ASC, id ASC
		LIMIT @limit OFFSET @offset`
	args["limit"] = params.Limit
	args["offset"] = params.Offset

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, storeErr("repo.TripRepo.List", err)
	}
	defer rows.Close()

	var records []domain.TripRecord
	for rows.Next() {
		rec, err := scanTrip(rows)
		if err != nil {
			return nil, 0, storeErr("repo.TripRepo.List: scan", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeErr("repo.TripRepo.List: rows", err)
	}

	return records, total, nil
}

// SoftDelete transitions a live record to soft-deleted. The WHERE clause
// is the atomic check-and-set: a record that is already soft-deleted (or
// absent) matches no row and yields domain.ErrNotFound.
func (r *pgTripRepo) SoftDelete(ctx context.Context, id uuid.UUID) (domain.TripRecord, error) {
	const q = `
		UPDATE trips
		SET deleted_at   = now(),
		    updated_at   = now(),
		    last_updated = now()
		WHERE id = @id AND deleted_at IS NULL
		RETURNING ` + tripColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.TripRecord{}, fmt.Errorf("repo.TripRepo.SoftDelete: %w", err)
		}
		return domain.TripRecord{}, storeErr("repo.TripRepo.SoftDelete", err)
	}
	return result, nil
}

// HardDelete removes a trip row by primary key, soft-deleted or not.
func (r *pgTripRepo) HardDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return false, storeErr("repo.TripRepo.HardDelete", err)
	}
	return tag.RowsAffected() > 0, nil
}

// scanTrip maps a single database row into a domain.TripRecord.
// It handles the nullable owner, the JSONB plan envelope, and the
// nullable deleted_at conversion.
func scanTrip(s scanner) (domain.TripRecord, error) {
	var (
		t         domain.TripRecord
		id        pgtype.UUID
		owner     pgtype.UUID
		plan      []byte
		deletedAt pgtype.Timestamptz
	)

	err := s.Scan(&id, &owner, &t.Title, &t.Location, &plan, &t.LastUpdated, &deletedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripRecord{}, domain.ErrNotFound
		}
		return domain.TripRecord{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	if owner.Valid {
		t.Owner = domain.AuthenticatedUser(uuid.UUID(owner.Bytes))
	} else {
		t.Owner = domain.Anonymous()
	}
	if err := json.Unmarshal(plan, &t.Plan); err != nil {
		return domain.TripRecord{}, fmt.Errorf("unmarshal plan: %w", err)
	}
	if deletedAt.Valid {
		d := deletedAt.Time
		t.DeletedAt = &d
	}

	return t, nil
}

// ownerArg converts an Identity into a nullable uuid argument:
// anonymous maps to SQL NULL.
func ownerArg(owner domain.Identity) any {
	id, ok := owner.UserID()
	return nullableUUID(id, ok)
}

func nullableUUID(id uuid.UUID, valid bool) any {
	if !valid {
		return nil
	}
	return id
}

// escapeLike escapes the ILIKE metacharacters in a user-supplied search
// string so it matches as a literal substring.
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
