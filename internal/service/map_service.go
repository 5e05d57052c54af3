package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/beismanmaps/server/internal/domain/record"
)

// MapInput is the payload for creating a map.
type MapInput struct {
	Number          string `json:"Number" validate:"required,max=50"`
	Drawer          string `json:"Drawer" validate:"max=255"`
	PropertyDetails string `json:"PropertyDetails" validate:"max=1000"`
}

// MapPatch is the payload for a partial map update; nil fields are untouched.
type MapPatch struct {
	Drawer          *string `json:"Drawer" validate:"omitempty,max=255"`
	PropertyDetails *string `json:"PropertyDetails" validate:"omitempty,max=1000"`
}

// MapService handles map CRUD with input validation.
type MapService struct {
	store    record.MapStore
	validate *validator.Validate
	logger   *slog.Logger
}

// NewMapService creates a MapService over the given store.
func NewMapService(store record.MapStore, logger *slog.Logger) *MapService {
	return &MapService{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With("component", "maps"),
	}
}

// List returns one page of maps with page metadata.
func (s *MapService) List(ctx context.Context, params record.ListParams) ([]record.Map, record.PageMeta, error) {
	params.Normalize()
	maps, total, err := s.store.ListMaps(ctx, params)
	if err != nil {
		return nil, record.PageMeta{}, err
	}
	return maps, record.NewPageMeta(total, params.Page, params.PageSize), nil
}

// Get retrieves a map by Number. Returns record.ErrNotFound if missing.
func (s *MapService) Get(ctx context.Context, number string) (*record.Map, error) {
	return s.store.GetMap(ctx, number)
}

// Create validates the input and inserts a new map.
func (s *MapService) Create(ctx context.Context, in MapInput) (*record.Map, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	m := &record.Map{
		Number:          in.Number,
		Drawer:          in.Drawer,
		PropertyDetails: in.PropertyDetails,
	}
	if err := s.store.InsertMap(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("map created", "number", m.Number)
	return m, nil
}

// Update validates the patch, applies it, and returns the updated record.
func (s *MapService) Update(ctx context.Context, number string, patch MapPatch) (*record.Map, error) {
	if err := s.validate.Struct(patch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	upd := record.MapUpdate{
		Drawer:          patch.Drawer,
		PropertyDetails: patch.PropertyDetails,
	}
	if err := s.store.UpdateMap(ctx, number, upd); err != nil {
		return nil, err
	}

	s.logger.Info("map updated", "number", number)
	return s.store.GetMap(ctx, number)
}

// Delete removes a map and its entities.
func (s *MapService) Delete(ctx context.Context, number string) error {
	if err := s.store.DeleteMap(ctx, number); err != nil {
		return err
	}
	s.logger.Info("map deleted", "number", number)
	return nil
}

// MapBulkDeleteResult reports the outcome of a bulk map delete.
type MapBulkDeleteResult struct {
	Deleted       int      `json:"deleted_count"`
	Failed        int      `json:"failed_count"`
	FailedNumbers []string `json:"failed_numbers"`
}

// BulkDelete removes a batch of maps by number, cascading each map's
// entities. Numbers that cannot be deleted are collected rather than
// aborting the batch.
func (s *MapService) BulkDelete(ctx context.Context, numbers []string) (*MapBulkDeleteResult, error) {
	if len(numbers) == 0 {
		return nil, fmt.Errorf("%w: no map numbers provided", ErrInvalidInput)
	}
	if len(numbers) > BulkDeleteLimit {
		return nil, fmt.Errorf("%w: cannot delete more than %d maps at once", ErrInvalidInput, BulkDeleteLimit)
	}

	result := &MapBulkDeleteResult{FailedNumbers: []string{}}
	for _, number := range numbers {
		if err := s.store.DeleteMap(ctx, number); err != nil {
			s.logger.Warn("bulk delete map failed", "number", number, "error", err)
			result.Failed++
			result.FailedNumbers = append(result.FailedNumbers, number)
			continue
		}
		result.Deleted++
	}

	s.logger.Info("bulk delete completed", "deleted", result.Deleted, "failed", result.Failed)
	return result, nil
}

// ExportAll returns every map matching the optional search term.
func (s *MapService) ExportAll(ctx context.Context, search string) ([]record.Map, error) {
	return s.store.AllMaps(ctx, search)
}
