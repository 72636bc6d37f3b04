package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"practiceadmin/internal/location/models"
	"practiceadmin/internal/platform/database"
	"practiceadmin/pkg/platform/sentinel"
)

// SQLStore persists locations in PostgreSQL or SQLite. Listing follows the
// database's insertion order column.
type SQLStore struct {
	db *database.DB
}

// NewSQL constructs a SQL-backed location store on an opened, migrated database.
func NewSQL(db *database.DB) *SQLStore {
	return &SQLStore{db: db}
}

var columns = []string{
	"city", "state", "office_name", "market", "lead", "source",
	"revenue", "ebitda", "ebitda_percentage", "revenue_per_provider", "ev",
	"revenue_multiple", "ebitda_multiple", "equity_roll_percentage",
	"cash_at_close", "debt_draw_amount", "close_date", "integration_burden",
	"other_key_deal_terms", "notes_status", "date_passed_dead", "type", "reason",
	"logo", "manager_name", "manager_phone", "manager_email", "documents",
}

var selectColumns = strings.Join(columns, ", ")

func (s *SQLStore) ListAll(ctx context.Context) ([]*models.Location, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+selectColumns+" FROM locations ORDER BY "+s.db.InsertOrder())
	if err != nil {
		return nil, fmt.Errorf("list locations: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer rows.Close()

	var out []*models.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list locations: %w: %w", sentinel.ErrUnavailable, err)
	}
	return out, nil
}

func (s *SQLStore) FindByKey(ctx context.Context, key models.Key) (*models.Location, error) {
	row := s.db.QueryRowContext(ctx,
		s.db.Rebind("SELECT "+selectColumns+" FROM locations WHERE city = ? AND state = ?"),
		key.City, key.State)
	l, err := scanLocation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find location %s: %w", key, err)
	}
	return l, nil
}

func (s *SQLStore) Create(ctx context.Context, location *models.Location) error {
	args, err := locationArgs(location)
	if err != nil {
		return err
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	query := "INSERT INTO locations (" + selectColumns + ") VALUES (" + placeholders +
		") ON CONFLICT (city, state) DO NOTHING"

	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("create location %s: %w", location.Key(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create location %s: %w", location.Key(), err)
	}
	if n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *SQLStore) Update(ctx context.Context, location *models.Location) error {
	args, err := locationArgs(location)
	if err != nil {
		return err
	}
	// city and state are the identity; only the remaining columns are set.
	sets := make([]string, 0, len(columns)-2)
	for _, c := range columns[2:] {
		sets = append(sets, c+" = ?")
	}
	query := "UPDATE locations SET " + strings.Join(sets, ", ") + " WHERE city = ? AND state = ?"
	args = append(args[2:], location.City, location.State)

	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("update location %s: %w", location.Key(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update location %s: %w", location.Key(), err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// ToggleDocument reads and rewrites the documents column in one transaction.
// PostgreSQL locks the row; SQLite serializes writers on its single connection.
func (s *SQLStore) ToggleDocument(ctx context.Context, key models.Key, document string) (*models.Location, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("toggle document on %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	query := "SELECT " + selectColumns + " FROM locations WHERE city = ? AND state = ?"
	if s.db.Dialect == database.Postgres {
		query += " FOR UPDATE"
	}
	l, err := scanLocation(tx.QueryRowContext(ctx, s.db.Rebind(query), key.City, key.State))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("toggle document on %s: %w", key, err)
	}
	if err := l.Documents.Toggle(document); err != nil {
		return nil, err
	}
	documents, err := json.Marshal(l.Documents)
	if err != nil {
		return nil, fmt.Errorf("encode documents for %s: %w", key, err)
	}
	_, err = tx.ExecContext(ctx,
		s.db.Rebind("UPDATE locations SET documents = ? WHERE city = ? AND state = ?"),
		string(documents), key.City, key.State)
	if err != nil {
		return nil, fmt.Errorf("toggle document on %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("toggle document on %s: %w", key, err)
	}
	return l, nil
}

func (s *SQLStore) Delete(ctx context.Context, key models.Key) error {
	_, err := s.db.ExecContext(ctx,
		s.db.Rebind("DELETE FROM locations WHERE city = ? AND state = ?"),
		key.City, key.State)
	if err != nil {
		return fmt.Errorf("delete location %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM locations").Scan(&n); err != nil {
		return 0, fmt.Errorf("count locations: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLocation(row scanner) (*models.Location, error) {
	var (
		l         models.Location
		documents string
	)
	err := row.Scan(
		&l.City, &l.State, &l.OfficeName, &l.Market, &l.Lead, &l.Source,
		&l.Revenue, &l.EBITDA, &l.EBITDAPercentage, &l.RevenuePerProvider, &l.EV,
		&l.RevenueMultiple, &l.EBITDAMultiple, &l.EquityRollPercentage,
		&l.CashAtClose, &l.DebtDrawAmount, &l.CloseDate, &l.IntegrationBurden,
		&l.OtherKeyDealTerms, &l.NotesStatus, &l.DatePassedDead, &l.Type, &l.Reason,
		&l.Logo, &l.ManagerName, &l.ManagerPhone, &l.ManagerEmail, &documents,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(documents), &l.Documents); err != nil {
		return nil, fmt.Errorf("decode documents for %s: %w", l.Key(), err)
	}
	l.Documents = models.DefaultDocuments().Merge(l.Documents)
	return &l, nil
}

func locationArgs(l *models.Location) ([]any, error) {
	documents, err := json.Marshal(l.Documents)
	if err != nil {
		return nil, fmt.Errorf("encode documents for %s: %w", l.Key(), err)
	}
	return []any{
		l.City, l.State, l.OfficeName, l.Market, l.Lead, l.Source,
		l.Revenue, l.EBITDA, l.EBITDAPercentage, l.RevenuePerProvider, l.EV,
		l.RevenueMultiple, l.EBITDAMultiple, l.EquityRollPercentage,
		l.CashAtClose, l.DebtDrawAmount, l.CloseDate, l.IntegrationBurden,
		l.OtherKeyDealTerms, l.NotesStatus, l.DatePassedDead, l.Type, l.Reason,
		l.Logo, l.ManagerName, l.ManagerPhone, l.ManagerEmail, string(documents),
	}, nil
}
