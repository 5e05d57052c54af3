package record

import "context"

// MapStore persists map records.
// Implementations: SQLite (adapter/outbound/sqlitedb).
type MapStore interface {
	// ListMaps returns one page of maps plus the total row count for the
	// search. The search term matches Number, Drawer, or PropertyDetails.
	ListMaps(ctx context.Context, params ListParams) ([]Map, int, error)

	// GetMap retrieves a map by Number. Returns ErrNotFound if missing.
	GetMap(ctx context.Context, number string) (*Map, error)

	// InsertMap stores a new map. Returns ErrDuplicate when the Number is taken.
	InsertMap(ctx context.Context, m *Map) error

	// UpdateMap applies a partial update to an existing map and bumps its
	// ModifiedDate. Returns ErrNotFound if missing.
	UpdateMap(ctx context.Context, number string, upd MapUpdate) error

	// DeleteMap removes a map and every entity referencing it.
	// Returns ErrNotFound if the map does not exist.
	DeleteMap(ctx context.Context, number string) error

	// AllMaps returns every map matching the optional search term, for
	// export. Implementations may cap the row count.
	AllMaps(ctx context.Context, search string) ([]Map, error)

	// CountMaps returns the total number of maps.
	CountMaps(ctx context.Context) (int, error)
}

// EntityStore persists entity records.
type EntityStore interface {
	// ListEntities returns one page of entities plus the total row count for
	// the search. The search term matches EntityName or BeismanNumber.
	ListEntities(ctx context.Context, params ListParams) ([]Entity, int, error)

	// GetEntity retrieves an entity by ID. Returns ErrNotFound if missing.
	GetEntity(ctx context.Context, id int64) (*Entity, error)

	// InsertEntity stores a new entity and fills in its assigned EntityID.
	InsertEntity(ctx context.Context, e *Entity) error

	// DeleteEntity removes an entity by ID. Returns ErrNotFound if missing.
	DeleteEntity(ctx context.Context, id int64) error

	// DeleteEntityByName removes the entity with the given name from a map.
	// Returns ErrNotFound when no such pairing exists.
	DeleteEntityByName(ctx context.Context, number, name string) error

	// ListEntitiesForMap returns all entities referencing the given map
	// number, ordered by name.
	ListEntitiesForMap(ctx context.Context, number string) ([]Entity, error)

	// AllEntities returns every entity matching the optional search term,
	// for export. Implementations may cap the row count.
	AllEntities(ctx context.Context, search string) ([]Entity, error)

	// CountEntities returns the total number of entities.
	CountEntities(ctx context.Context) (int, error)
}
