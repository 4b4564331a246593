package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

// ActionAuditRepository defines the interface for the staged-action trail
type ActionAuditRepository interface {
	RecordStaged(ctx context.Context, action *entity.PendingAction) error
	RecordTransition(ctx context.Context, actionID, status, recordID, detail string) error
	GetTrail(ctx context.Context, actionID string) ([]*entity.ActionAudit, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*entity.ActionAudit, error)
}

var _ ActionAuditRepository = &ActionAuditPostgres{}

// ActionAuditPostgres implements ActionAuditRepository using PostgreSQL.
// Every lifecycle event is a separate row, so the trail is append-only.
type ActionAuditPostgres struct {
	db *pgxpool.Pool
}

func NewActionAuditPostgres(db *pgxpool.Pool) *ActionAuditPostgres {
	return &ActionAuditPostgres{db: db}
}

func (r *ActionAuditPostgres) RecordStaged(ctx context.Context, action *entity.PendingAction) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO action_audit (action_id, session_id, user_id, action_type, status, preview)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		action.ActionID,
		action.OwnerSessionID,
		action.OwnerUserID,
		string(action.Type),
		entity.AuditStaged,
		action.Preview,
	)
	if err != nil {
		return fmt.Errorf("record staged action: %w", err)
	}
	return nil
}

func (r *ActionAuditPostgres) RecordTransition(ctx context.Context, actionID, status, recordID, detail string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO action_audit (action_id, session_id, user_id, action_type, status, preview, record_id, detail)
		 SELECT action_id, session_id, user_id, action_type, $2, preview, NULLIF($3, ''), NULLIF($4, '')
		 FROM action_audit
		 WHERE action_id = $1 AND status = $5
		 LIMIT 1`,
		actionID, status, recordID, detail, entity.AuditStaged,
	)
	if err != nil {
		return fmt.Errorf("record action transition: %w", err)
	}
	return nil
}

func (r *ActionAuditPostgres) GetTrail(ctx context.Context, actionID string) ([]*entity.ActionAudit, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, action_id, session_id, user_id, action_type, status,
		        preview, COALESCE(record_id, ''), COALESCE(detail, ''), created_at
		 FROM action_audit
		 WHERE action_id = $1
		 ORDER BY created_at ASC, id ASC`,
		actionID,
	)
	if err != nil {
		return nil, fmt.Errorf("get action trail: %w", err)
	}
	defer rows.Close()

	return scanAuditRows(rows)
}

func (r *ActionAuditPostgres) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.ActionAudit, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, action_id, session_id, user_id, action_type, status,
		        preview, COALESCE(record_id, ''), COALESCE(detail, ''), created_at
		 FROM action_audit
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list action audit by user: %w", err)
	}
	defer rows.Close()

	return scanAuditRows(rows)
}

func scanAuditRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*entity.ActionAudit, error) {
	var out []*entity.ActionAudit
	for rows.Next() {
		var a entity.ActionAudit
		var actionType string
		var createdAt pgtype.Timestamptz
		if err := rows.Scan(&a.ID, &a.ActionID, &a.SessionID, &a.UserID, &actionType,
			&a.Status, &a.Preview, &a.RecordID, &a.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan action audit: %w", err)
		}
		a.Type = entity.ActionType(actionType)
		a.CreatedAt = createdAt.Time
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate action audit: %w", err)
	}
	return out, nil
}
