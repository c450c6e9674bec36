package item

import (
	"context"
	"time"

	"itemstore/internal/core/apperror"
	"itemstore/internal/core/id"
	"itemstore/internal/core/tx"
)

// Service provides business logic for the item catalog.
// It owns the SKU uniqueness invariant, timestamp assignment, and the
// translation of persistence failures into the error taxonomy. It returns
// domain-level errors only; HTTP status codes are assigned at the transport
// boundary.
type Service struct {
	repo      Repository
	txManager tx.Manager

	// now is the single clock for timestamp assignment; injectable for tests.
	now func() time.Time
}

// NewService creates a new item service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create validates input, enforces SKU uniqueness and persists a new item.
// Returns the fully populated item with assigned id and timestamps.
func (s *Service) Create(ctx context.Context, in Input) (*Item, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsBySKU(ctx, in.SKU)
	if err != nil {
		return nil, s.normalizeErr(err)
	}
	if exists {
		return nil, apperror.NewDuplicate("sku", in.SKU)
	}

	itm := New(in, id.New(), s.now())

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, itm)
	})
	if err != nil {
		// The unique constraint is the final arbiter under races: the repo
		// reports its violation as the same duplicate error the pre-check
		// produces, and it must pass through untranslated.
		return nil, s.normalizeErr(err)
	}

	return itm, nil
}

// GetByID retrieves an item by id.
func (s *Service) GetByID(ctx context.Context, itemID id.ID) (*Item, error) {
	itm, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, s.normalizeErr(err)
	}
	return itm, nil
}

// List returns one page of items with total counts. The raw sort spec is
// parsed here; unparseable parts fall back to defaults and never fail.
func (s *Service) List(ctx context.Context, q ListQuery) (*Page, error) {
	filter := ListFilter{
		NameContains: q.Name,
		Offset:       q.Page * q.Size,
		Limit:        q.Size,
		Sort:         ParseSortSpec(q.Sort),
	}

	result, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, s.normalizeErr(err)
	}

	return &Page{
		Content:       result.Items,
		Page:          q.Page,
		Size:          q.Size,
		TotalElements: result.TotalCount,
		TotalPages:    totalPages(result.TotalCount, q.Size),
	}, nil
}

// Update replaces every mutable field of an existing item (full replace
// semantics), keeping id and CreatedAt untouched and resetting UpdatedAt.
func (s *Service) Update(ctx context.Context, itemID id.ID, in Input) (*Item, error) {
	itm, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, s.normalizeErr(err)
	}

	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	// Reusing the item's own SKU is fine; only another holder conflicts.
	exists, err := s.repo.ExistsBySKUExcluding(ctx, in.SKU, itemID)
	if err != nil {
		return nil, s.normalizeErr(err)
	}
	if exists {
		return nil, apperror.NewDuplicate("sku", in.SKU)
	}

	itm.Apply(in, s.now())

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, itm)
	})
	if err != nil {
		return nil, s.normalizeErr(err)
	}

	return itm, nil
}

// Delete removes an item permanently.
func (s *Service) Delete(ctx context.Context, itemID id.ID) error {
	itm, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return s.normalizeErr(err)
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, itm.ID)
	})
	if err != nil {
		return s.normalizeErr(err)
	}

	return nil
}

// normalizeErr keeps taxonomy errors as-is and wraps everything else as an
// infrastructure failure so internal detail never reaches callers.
func (s *Service) normalizeErr(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewDatabase(err)
}

func totalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	pages := total / int64(size)
	if total%int64(size) > 0 {
		pages++
	}
	return int(pages)
}
