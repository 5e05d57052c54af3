package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/beismanmaps/server/internal/domain/record"
)

// EntityInput is the payload for creating an entity.
type EntityInput struct {
	EntityName    string `json:"EntityName" validate:"required,max=255"`
	BeismanNumber string `json:"BeismanNumber" validate:"required,max=50"`
}

// EntityService handles entity CRUD with input validation.
type EntityService struct {
	store    record.EntityStore
	validate *validator.Validate
	logger   *slog.Logger
}

// NewEntityService creates an EntityService over the given store.
func NewEntityService(store record.EntityStore, logger *slog.Logger) *EntityService {
	return &EntityService{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With("component", "entities"),
	}
}

// List returns one page of entities with page metadata.
func (s *EntityService) List(ctx context.Context, params record.ListParams) ([]record.Entity, record.PageMeta, error) {
	params.Normalize()
	entities, total, err := s.store.ListEntities(ctx, params)
	if err != nil {
		return nil, record.PageMeta{}, err
	}
	return entities, record.NewPageMeta(total, params.Page, params.PageSize), nil
}

// Get retrieves an entity by ID. Returns record.ErrNotFound if missing.
func (s *EntityService) Get(ctx context.Context, id int64) (*record.Entity, error) {
	return s.store.GetEntity(ctx, id)
}

// Create validates the input and inserts a new entity.
// The referenced map number is not checked for existence; entities may point
// at not-yet-filed maps.
func (s *EntityService) Create(ctx context.Context, in EntityInput) (*record.Entity, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	e := &record.Entity{
		EntityName:    in.EntityName,
		BeismanNumber: in.BeismanNumber,
	}
	if err := s.store.InsertEntity(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info("entity created", "id", e.EntityID, "name", e.EntityName)
	return e, nil
}

// Delete removes an entity by ID.
func (s *EntityService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteEntity(ctx, id); err != nil {
		return err
	}
	s.logger.Info("entity deleted", "id", id)
	return nil
}

// DeleteFromMap removes the named entity from a map.
func (s *EntityService) DeleteFromMap(ctx context.Context, number, name string) error {
	if err := s.store.DeleteEntityByName(ctx, number, name); err != nil {
		return err
	}
	s.logger.Info("entity removed from map", "map", number, "name", name)
	return nil
}

// BulkDeleteLimit caps how many entities one bulk-delete call may remove.
const BulkDeleteLimit = 100

// BulkDeleteResult reports the outcome of a bulk delete.
type BulkDeleteResult struct {
	Deleted   int     `json:"deleted_count"`
	Failed    int     `json:"failed_count"`
	FailedIDs []int64 `json:"failed_ids"`
}

// BulkDelete removes a batch of entities by ID. IDs that cannot be deleted
// are collected rather than aborting the batch.
func (s *EntityService) BulkDelete(ctx context.Context, ids []int64) (*BulkDeleteResult, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no entity IDs provided", ErrInvalidInput)
	}
	if len(ids) > BulkDeleteLimit {
		return nil, fmt.Errorf("%w: cannot delete more than %d entities at once", ErrInvalidInput, BulkDeleteLimit)
	}

	result := &BulkDeleteResult{FailedIDs: []int64{}}
	for _, id := range ids {
		if err := s.store.DeleteEntity(ctx, id); err != nil {
			s.logger.Warn("bulk delete entity failed", "id", id, "error", err)
			result.Failed++
			result.FailedIDs = append(result.FailedIDs, id)
			continue
		}
		result.Deleted++
	}

	s.logger.Info("bulk delete completed", "deleted", result.Deleted, "failed", result.Failed)
	return result, nil
}

// ExportAll returns every entity matching the optional search term.
func (s *EntityService) ExportAll(ctx context.Context, search string) ([]record.Entity, error) {
	return s.store.AllEntities(ctx, search)
}

// ListForMap returns all entities referencing a map.
func (s *EntityService) ListForMap(ctx context.Context, number string) ([]record.Entity, error) {
	return s.store.ListEntitiesForMap(ctx, number)
}
