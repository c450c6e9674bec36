package item

import (
	"context"

	"itemstore/internal/core/id"
)

// Repository defines the interface for item persistence.
// Implementations must translate a storage-level unique-constraint violation
// on the SKU into the same conflict error the service pre-check produces, so
// a racing create never surfaces as a raw storage error.
type Repository interface {
	// Create inserts a new item.
	Create(ctx context.Context, itm *Item) error

	// GetByID retrieves an item by id, returning a not-found error when absent.
	GetByID(ctx context.Context, itemID id.ID) (*Item, error)

	// Update replaces all mutable columns of an existing row.
	Update(ctx context.Context, itm *Item) error

	// Delete physically removes the row.
	Delete(ctx context.Context, itemID id.ID) error

	// ExistsBySKU reports whether any item holds the given SKU.
	ExistsBySKU(ctx context.Context, sku string) (bool, error)

	// ExistsBySKUExcluding reports whether an item other than excludeID holds the SKU.
	ExistsBySKUExcluding(ctx context.Context, sku string, excludeID id.ID) (bool, error)

	// List retrieves one page of items with total count, ordered per the
	// filter's sort spec (stable ordering guaranteed by the implementation).
	List(ctx context.Context, filter ListFilter) (ListResult, error)
}
