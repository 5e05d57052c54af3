package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/beismanmaps/server/internal/domain/record"
)

// ListEntities returns one page of entities and the total row count for the
// search. The search term matches EntityName or BeismanNumber.
func (s *Store) ListEntities(ctx context.Context, params record.ListParams) ([]record.Entity, int, error) {
	params.Normalize()
	s.logger.Debug("sql", "op", "select", "table", "entities", "page", params.Page, "search", params.Search)

	where := ""
	args := []any{}
	if params.Search != "" {
		where = " WHERE EntityName LIKE ? OR BeismanNumber LIKE ?"
		term := "%" + params.Search + "%"
		args = append(args, term, term)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entities"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count entities: %w", err)
	}

	query := "SELECT EntityID, EntityName, BeismanNumber, CreatedDate FROM entities" +
		where + " ORDER BY EntityName LIMIT ? OFFSET ?"
	rows, err := s.db.QueryContext(ctx, query, append(args, params.PageSize, params.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list entities: %w", err)
	}
	defer rows.Close()

	var entities []record.Entity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, 0, err
		}
		entities = append(entities, *e)
	}
	return entities, total, rows.Err()
}

// GetEntity retrieves an entity by ID.
func (s *Store) GetEntity(ctx context.Context, id int64) (*record.Entity, error) {
	s.logger.Debug("sql", "op", "select", "table", "entities", "id", id)

	row := s.db.QueryRowContext(ctx,
		"SELECT EntityID, EntityName, BeismanNumber, CreatedDate FROM entities WHERE EntityID = ?", id)
	e, err := scanEntity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, record.ErrNotFound
	}
	return e, err
}

// InsertEntity stores a new entity and fills in its assigned EntityID.
func (s *Store) InsertEntity(ctx context.Context, e *record.Entity) error {
	s.logger.Debug("sql", "op", "insert", "table", "entities", "name", e.EntityName)

	now := time.Now().UTC()
	if e.CreatedDate == nil {
		e.CreatedDate = &now
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO entities (EntityName, BeismanNumber, CreatedDate) VALUES (?, ?, ?)",
		e.EntityName, e.BeismanNumber, formatTime(*e.CreatedDate))
	if err != nil {
		return fmt.Errorf("insert entity: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert entity id: %w", err)
	}
	e.EntityID = id
	return nil
}

// DeleteEntity removes an entity by ID.
func (s *Store) DeleteEntity(ctx context.Context, id int64) error {
	s.logger.Debug("sql", "op", "delete", "table", "entities", "id", id)

	res, err := s.db.ExecContext(ctx, "DELETE FROM entities WHERE EntityID = ?", id)
	if err != nil {
		return fmt.Errorf("delete entity: %w", err)
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

// DeleteEntityByName removes the entity with the given name from a map.
func (s *Store) DeleteEntityByName(ctx context.Context, number, name string) error {
	s.logger.Debug("sql", "op", "delete", "table", "entities", "beisman_number", number, "name", name)

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM entities WHERE BeismanNumber = ? AND EntityName = ?", number, name)
	if err != nil {
		return fmt.Errorf("delete entity by name: %w", err)
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

// ListEntitiesForMap returns all entities referencing the given map number.
func (s *Store) ListEntitiesForMap(ctx context.Context, number string) ([]record.Entity, error) {
	s.logger.Debug("sql", "op", "select", "table", "entities", "beisman_number", number)

	rows, err := s.db.QueryContext(ctx,
		"SELECT EntityID, EntityName, BeismanNumber, CreatedDate FROM entities WHERE BeismanNumber = ? ORDER BY EntityName",
		number)
	if err != nil {
		return nil, fmt.Errorf("list entities for map: %w", err)
	}
	defer rows.Close()

	var entities []record.Entity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, *e)
	}
	return entities, rows.Err()
}

// AllEntities returns every entity matching the optional search term, for
// export. Capped at 10000 rows.
func (s *Store) AllEntities(ctx context.Context, search string) ([]record.Entity, error) {
	s.logger.Debug("sql", "op", "select", "table", "entities", "export", true, "search", search)

	where := ""
	args := []any{}
	if search != "" {
		where = " WHERE EntityName LIKE ? OR BeismanNumber LIKE ?"
		term := "%" + search + "%"
		args = append(args, term, term)
	}

	query := "SELECT EntityID, EntityName, BeismanNumber, CreatedDate FROM entities" +
		where + " ORDER BY EntityName LIMIT 10000"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("export entities: %w", err)
	}
	defer rows.Close()

	var entities []record.Entity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, *e)
	}
	return entities, rows.Err()
}

// CountEntities returns the total number of entities.
func (s *Store) CountEntities(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entities").Scan(&n)
	return n, err
}

func scanEntity(row scanner) (*record.Entity, error) {
	var e record.Entity
	var created string
	if err := row.Scan(&e.EntityID, &e.EntityName, &e.BeismanNumber, &created); err != nil {
		return nil, err
	}
	e.CreatedDate = parseTime(created)
	return &e, nil
}

// Compile-time interface verification.
var _ record.EntityStore = (*Store)(nil)
