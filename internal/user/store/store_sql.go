package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"practiceadmin/internal/platform/database"
	"practiceadmin/internal/user/models"
	"practiceadmin/pkg/platform/sentinel"
)

// SQLStore persists users in PostgreSQL or SQLite.
type SQLStore struct {
	db *database.DB
}

func NewSQL(db *database.DB) *SQLStore {
	return &SQLStore{db: db}
}

const selectUser = "SELECT id, name, email, role, location FROM users"

func (s *SQLStore) ListAll(ctx context.Context) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx, selectUser+" ORDER BY "+s.db.InsertOrder())
	if err != nil {
		return nil, fmt.Errorf("list users: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w: %w", sentinel.ErrUnavailable, err)
	}
	return out, nil
}

func (s *SQLStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, s.db.Rebind(selectUser+" WHERE id = ?"), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return u, nil
}

func (s *SQLStore) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (id, name, email, role, location)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`
	res, err := s.db.ExecContext(ctx, s.db.Rebind(query),
		user.ID, user.Name, user.Email, string(user.Role), user.Location)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return expectOne(res, sentinel.ErrConflict)
}

func (s *SQLStore) Update(ctx context.Context, user *models.User) error {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE users SET name = ?, email = ?, role = ?, location = ? WHERE id = ?"),
		user.Name, user.Email, string(user.Role), user.Location, user.ID)
	if err != nil {
		return fmt.Errorf("update user %s: %w", user.ID, err)
	}
	return expectOne(res, sentinel.ErrNotFound)
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM users WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return expectOne(res, sentinel.ErrNotFound)
}

func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	var (
		u    models.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &u.Location); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}

// expectOne returns none when the statement touched no row.
func expectOne(res sql.Result, none error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return none
	}
	return nil
}
