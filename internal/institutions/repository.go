package institutions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightpath-lms/brightpath/internal/shared"
)

const uniqueViolation = "23505"

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateInstitution inserts a new institution.
func (r *Repository) CreateInstitution(ctx context.Context, inst Institution) (Institution, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO institutions (id, name, code, created_at)
VALUES ($1, $2, $3, NOW()) RETURNING id, name, code, created_at`,
		inst.ID, inst.Name, inst.Code)
	var out Institution
	if err := row.Scan(&out.ID, &out.Name, &out.Code, &out.CreatedAt); err != nil {
		return Institution{}, mapPgError("create institution", err)
	}
	return out, nil
}

// GetInstitution fetches an institution by id.
func (r *Repository) GetInstitution(ctx context.Context, id uuid.UUID) (Institution, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, code, created_at FROM institutions WHERE id = $1`, id)
	var out Institution
	if err := row.Scan(&out.ID, &out.Name, &out.Code, &out.CreatedAt); err != nil {
		return Institution{}, mapPgError("get institution", err)
	}
	return out, nil
}

// CreateMembership inserts a pending membership. The unique index on
// (user_id, institution_id) maps to shared.ErrDuplicate.
func (r *Repository) CreateMembership(ctx context.Context, m Membership) (Membership, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO institution_memberships
(id, user_id, institution_id, role, status, approval_status, permissions, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
RETURNING id, created_at, updated_at`,
		m.ID, m.UserID, m.InstitutionID, m.Role, m.Status, m.ApprovalStatus, m.Permissions)
	if err := row.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return Membership{}, mapPgError("create membership", err)
	}
	return m, nil
}

// GetMembership fetches a membership by id.
func (r *Repository) GetMembership(ctx context.Context, id uuid.UUID) (Membership, error) {
	return r.scanMembership(r.pool.QueryRow(ctx, membershipSelect+` WHERE id = $1`, id))
}

// GetMembershipByUser fetches the user's membership. One membership per user
// is assumed by the guards; the newest wins if historical rows exist.
func (r *Repository) GetMembershipByUser(ctx context.Context, userID uuid.UUID) (Membership, error) {
	return r.scanMembership(r.pool.QueryRow(ctx, membershipSelect+` WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`, userID))
}

// Activate transitions a membership to active/approved, recording the actor
// and timestamp.
func (r *Repository) Activate(ctx context.Context, id, actorID uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE institution_memberships
SET status = $2, approval_status = $3, approved_by = $4, approved_at = $5, updated_at = NOW()
WHERE id = $1`,
		id, StatusActive, ApprovalApproved, actorID, at)
	if err != nil {
		return mapPgError("activate membership", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Reject transitions a membership to rejected/rejected, recording the actor,
// timestamp and reason.
func (r *Repository) Reject(ctx context.Context, id, actorID uuid.UUID, reason string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE institution_memberships
SET status = $2, approval_status = $3, rejected_by = $4, rejected_at = $5, reject_note = $6, updated_at = NOW()
WHERE id = $1`,
		id, StatusRejected, ApprovalRejected, actorID, at, reason)
	if err != nil {
		return mapPgError("reject membership", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListMemberships returns memberships for an institution, newest first.
func (r *Repository) ListMemberships(ctx context.Context, institutionID uuid.UUID) ([]Membership, error) {
	rows, err := r.pool.Query(ctx, membershipSelect+` WHERE institution_id = $1 ORDER BY created_at DESC`, institutionID)
	if err != nil {
		return nil, mapPgError("list memberships", err)
	}
	defer rows.Close()

	var out []Membership
	for rows.Next() {
		m, err := r.scanMembership(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

const membershipSelect = `SELECT id, user_id, institution_id, role, status, approval_status, permissions,
approved_by, approved_at, rejected_by, rejected_at, COALESCE(reject_note, ''), created_at, updated_at
FROM institution_memberships`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanMembership(row rowScanner) (Membership, error) {
	var m Membership
	err := row.Scan(&m.ID, &m.UserID, &m.InstitutionID, &m.Role, &m.Status, &m.ApprovalStatus, &m.Permissions,
		&m.ApprovedBy, &m.ApprovedAt, &m.RejectedBy, &m.RejectedAt, &m.RejectNote, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return Membership{}, mapPgError("scan membership", err)
	}
	return m, nil
}

func mapPgError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return shared.ErrDuplicate
	}
	return fmt.Errorf("institutions: %s: %w", op, err)
}
