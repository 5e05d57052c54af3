package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/beismanmaps/server/internal/domain/record"
)

// ListMaps returns one page of maps and the total row count for the search.
// The search term matches Number, Drawer, or PropertyDetails.
func (s *Store) ListMaps(ctx context.Context, params record.ListParams) ([]record.Map, int, error) {
	params.Normalize()
	s.logger.Debug("sql", "op", "select", "table", "maps", "page", params.Page, "search", params.Search)

	where := ""
	args := []any{}
	if params.Search != "" {
		where = " WHERE Number LIKE ? OR Drawer LIKE ? OR PropertyDetails LIKE ?"
		term := "%" + params.Search + "%"
		args = append(args, term, term, term)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM maps"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count maps: %w", err)
	}

	query := "SELECT Number, Drawer, PropertyDetails, CreatedDate, ModifiedDate FROM maps" +
		where + " ORDER BY Number LIMIT ? OFFSET ?"
	rows, err := s.db.QueryContext(ctx, query, append(args, params.PageSize, params.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list maps: %w", err)
	}
	defer rows.Close()

	var maps []record.Map
	for rows.Next() {
		m, err := scanMap(rows)
		if err != nil {
			return nil, 0, err
		}
		maps = append(maps, *m)
	}
	return maps, total, rows.Err()
}

// GetMap retrieves a map by Number.
func (s *Store) GetMap(ctx context.Context, number string) (*record.Map, error) {
	s.logger.Debug("sql", "op", "select", "table", "maps", "number", number)

	row := s.db.QueryRowContext(ctx,
		"SELECT Number, Drawer, PropertyDetails, CreatedDate, ModifiedDate FROM maps WHERE Number = ?", number)
	m, err := scanMap(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, record.ErrNotFound
	}
	return m, err
}

// InsertMap stores a new map.
func (s *Store) InsertMap(ctx context.Context, m *record.Map) error {
	s.logger.Debug("sql", "op", "insert", "table", "maps", "number", m.Number)

	now := time.Now().UTC()
	if m.CreatedDate == nil {
		m.CreatedDate = &now
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO maps (Number, Drawer, PropertyDetails, CreatedDate) VALUES (?, ?, ?, ?)",
		m.Number, m.Drawer, m.PropertyDetails, formatTime(*m.CreatedDate))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return record.ErrDuplicate
		}
		return fmt.Errorf("insert map: %w", err)
	}
	return nil
}

// UpdateMap applies a partial update and bumps ModifiedDate.
func (s *Store) UpdateMap(ctx context.Context, number string, upd record.MapUpdate) error {
	s.logger.Debug("sql", "op", "update", "table", "maps", "number", number)

	sets := []string{"ModifiedDate = ?"}
	args := []any{formatTime(time.Now().UTC())}
	if upd.Drawer != nil {
		sets = append(sets, "Drawer = ?")
		args = append(args, *upd.Drawer)
	}
	if upd.PropertyDetails != nil {
		sets = append(sets, "PropertyDetails = ?")
		args = append(args, *upd.PropertyDetails)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE maps SET "+strings.Join(sets, ", ")+" WHERE Number = ?",
		append(args, number)...)
	if err != nil {
		return fmt.Errorf("update map: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return record.ErrNotFound
	}
	return nil
}

// DeleteMap removes a map and every entity referencing it, in one transaction.
func (s *Store) DeleteMap(ctx context.Context, number string) error {
	s.logger.Debug("sql", "op", "delete", "table", "maps", "number", number)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete map: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM entities WHERE BeismanNumber = ?", number); err != nil {
		return fmt.Errorf("delete map entities: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM maps WHERE Number = ?", number)
	if err != nil {
		return fmt.Errorf("delete map: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return record.ErrNotFound
	}
	return tx.Commit()
}

// AllMaps returns every map matching the optional search term, for export.
// Capped at 10000 rows.
func (s *Store) AllMaps(ctx context.Context, search string) ([]record.Map, error) {
	s.logger.Debug("sql", "op", "select", "table", "maps", "export", true, "search", search)

	where := ""
	args := []any{}
	if search != "" {
		where = " WHERE Number LIKE ? OR Drawer LIKE ? OR PropertyDetails LIKE ?"
		term := "%" + search + "%"
		args = append(args, term, term, term)
	}

	query := "SELECT Number, Drawer, PropertyDetails, CreatedDate, ModifiedDate FROM maps" +
		where + " ORDER BY Number LIMIT 10000"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("export maps: %w", err)
	}
	defer rows.Close()

	var maps []record.Map
	for rows.Next() {
		m, err := scanMap(rows)
		if err != nil {
			return nil, err
		}
		maps = append(maps, *m)
	}
	return maps, rows.Err()
}

// CountMaps returns the total number of maps.
func (s *Store) CountMaps(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM maps").Scan(&n)
	return n, err
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan code.
type scanner interface {
	Scan(dest ...any) error
}

func scanMap(row scanner) (*record.Map, error) {
	var m record.Map
	var created string
	var modified sql.NullString
	if err := row.Scan(&m.Number, &m.Drawer, &m.PropertyDetails, &created, &modified); err != nil {
		return nil, err
	}
	m.CreatedDate = parseTime(created)
	if modified.Valid {
		m.ModifiedDate = parseTime(modified.String)
	}
	return &m, nil
}

// Compile-time interface verification.
var _ record.MapStore = (*Store)(nil)
