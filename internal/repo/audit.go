package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/planora/backend/internal/domain"
)

// AuditRepo defines persistence for the append-only audit log.
// It lives in its own failure domain: the trip service treats Append
// errors as telemetry, never as a reason to fail the mutation that was
// already committed.
type AuditRepo interface {
	// Append inserts one audit entry and returns it with the DB-assigned
	// id and timestamp.
	Append(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error)

	// Query returns entries matching the filter, newest first,
	// paginated by limit/offset.
	Query(ctx context.Context, filter domain.AuditFilter, limit, offset int) ([]domain.AuditEntry, error)
}

// pgAuditRepo is the Postgres implementation of AuditRepo.
type pgAuditRepo struct {
	db db
}

// NewAuditRepo constructs an AuditRepo backed by the provided db connection.
func NewAuditRepo(db db) AuditRepo {
	return &pgAuditRepo{db: db}
}

const auditColumns = `id, entity_type, entity_id, action, actor_id, before, after, source_ip, source_agent, "timestamp"`

// Append inserts one audit row. Entries are never updated or removed.
func (r *pgAuditRepo) Append(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error) {
	const q = `
		INSERT INTO audit_logs (entity_type, entity_id, action, actor_id, before, after, source_ip, source_agent)
		VALUES (@entity_type, @entity_id, @action, @actor_id, @before, @after, @source_ip, @source_agent)
		RETURNING ` + auditColumns

	args := pgx.NamedArgs{
		"entity_type":  entry.EntityType,
		"entity_id":    entry.EntityID,
		"action":       string(entry.Action),
		"actor_id":     ownerArg(entry.Actor),
		"before":       rawOrNil(entry.Before),
		"after":        rawOrNil(entry.After),
		"source_ip":    entry.SourceIP,
		"source_agent": entry.SourceAgent,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanAuditEntry(row)
	if err != nil {
		return domain.AuditEntry{}, storeErr("repo.AuditRepo.Append", err)
	}
	return result, nil
}

// Query returns audit entries matching the filter, sorted by timestamp
// descending with id as a stable tie-break.
func (r *pgAuditRepo) Query(ctx context.Context, filter domain.AuditFilter, limit, offset int) ([]domain.AuditEntry, error) {
	q := `SELECT ` + auditColumns + ` FROM audit_logs WHERE 1=1`
	args := pgx.NamedArgs{}

	if filter.EntityID != nil {
		q += ` AND entity_id = @entity_id`
		args["entity_id"] = *filter.EntityID
	}
	if filter.Action != nil {
		q += ` AND action = @action`
		args["action"] = string(*filter.Action)
	}
	if filter.From != nil {
		q += ` AND "timestamp" >= @from`
		args["from"] = *filter.From
	}
	if filter.To != nil {
		q += ` AND "timestamp" <= @to`
		args["to"] = *filter.To
	}

	q += `
		ORDER BY "timestamp" DESC, id DESC
		LIMIT @limit OFFSET @offset`
	args["limit"] = limit
	args["offset"] = offset

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, storeErr("repo.AuditRepo.Query", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		e, err := scanAuditEntry(rows)
		if err != nil {
			return nil, storeErr("repo.AuditRepo.Query: scan", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("repo.AuditRepo.Query: rows", err)
	}

	return entries, nil
}

// scanAuditEntry maps a single audit_logs row into a domain.AuditEntry.
func scanAuditEntry(s scanner) (domain.AuditEntry, error) {
	var (
		e      domain.AuditEntry
		id     pgtype.UUID
		entity pgtype.UUID
		actor  pgtype.UUID
		action string
		before []byte
		after  []byte
	)

	err := s.Scan(&id, &e.EntityType, &entity, &action, &actor, &before, &after, &e.SourceIP, &e.SourceAgent, &e.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AuditEntry{}, domain.ErrNotFound
		}
		return domain.AuditEntry{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.EntityID = uuid.UUID(entity.Bytes)
	e.Action = domain.AuditAction(action)
	if !e.Action.Valid() {
		return domain.AuditEntry{}, fmt.Errorf("unknown audit action %q", action)
	}
	if actor.Valid {
		e.Actor = domain.AuthenticatedUser(uuid.UUID(actor.Bytes))
	} else {
		e.Actor = domain.Anonymous()
	}
	e.Before = before
	e.After = after

	return e, nil
}

// rawOrNil converts an optional JSON snapshot to a nullable JSONB arg.
func rawOrNil(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
