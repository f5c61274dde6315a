package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/GregMSThompson/household-finance/internal/errs"
	"github.com/GregMSThompson/household-finance/internal/models"
)

type MemberStore struct {
	db *sql.DB
}

func (d *DB) Members() *MemberStore {
	return &MemberStore{db: d.db}
}

func (s *MemberStore) Create(ctx context.Context, uid string, m *models.FamilyMember) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO members (uid, id, name, name_key, created_at) VALUES (?, ?, ?, ?, ?)`,
		uid, m.ID, m.Name, m.NameKey, m.CreatedAt)
	if isUniqueViolation(err) {
		return errs.NewAlreadyExistsError("member already exists")
	}
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create member", err)
	}
	return nil
}

func (s *MemberStore) List(ctx context.Context, uid string) ([]*models.FamilyMember, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, name_key, created_at FROM members WHERE uid = ? ORDER BY name_key`, uid)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list members", err)
	}
	defer rows.Close()

	members := []*models.FamilyMember{}
	for rows.Next() {
		var m models.FamilyMember
		if err := rows.Scan(&m.ID, &m.Name, &m.NameKey, &m.CreatedAt); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to scan member", err)
		}
		members = append(members, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to iterate members", err)
	}
	return members, nil
}

func (s *MemberStore) Get(ctx context.Context, uid, id string) (*models.FamilyMember, error) {
	return s.getOne(ctx, `SELECT id, name, name_key, created_at FROM members WHERE uid = ? AND id = ?`, uid, id)
}

func (s *MemberStore) GetByNameKey(ctx context.Context, uid, nameKey string) (*models.FamilyMember, error) {
	return s.getOne(ctx, `SELECT id, name, name_key, created_at FROM members WHERE uid = ? AND name_key = ?`, uid, nameKey)
}

func (s *MemberStore) Delete(ctx context.Context, uid, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE uid = ? AND id = ?`, uid, id)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete member", err)
	}
	return requireAffected(res, "member")
}

func (s *MemberStore) getOne(ctx context.Context, query string, args ...any) (*models.FamilyMember, error) {
	var m models.FamilyMember
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&m.ID, &m.Name, &m.NameKey, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewNotFoundError("member not found")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to read member", err)
	}
	return &m, nil
}
