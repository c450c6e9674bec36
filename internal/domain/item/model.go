// Package item provides the catalog item resource and its business logic.
// An item is identified internally by a server-assigned id and externally
// by a caller-supplied SKU that must stay unique across the whole catalog.
package item

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"itemstore/internal/core/apperror"
	"itemstore/internal/core/id"
)

// Item represents a single catalog entry.
// Id, CreatedAt and UpdatedAt are owned by the service; callers never set them.
type Item struct {
	ID id.ID `db:"id" json:"id"`

	// SKU is the caller-supplied business key, unique across the catalog
	SKU string `db:"sku" json:"sku"`

	// Name is the display text
	Name string `db:"name" json:"name"`

	// Description is optional free text
	Description *string `db:"description" json:"description,omitempty"`

	// Price is the unit price, strictly greater than zero
	Price decimal.Decimal `db:"price" json:"price"`

	// Quantity is the stock on hand, never negative
	Quantity int `db:"quantity" json:"quantity"`

	// Category is an optional grouping label
	Category *string `db:"category" json:"category,omitempty"`

	// Active marks the item as sellable; defaults to true
	Active bool `db:"active" json:"active"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Input carries the caller-supplied fields for create and update.
// Update replaces every mutable field wholesale; there is no partial patch.
type Input struct {
	SKU         string
	Name        string
	Description *string
	Price       decimal.Decimal
	Quantity    int
	Category    *string

	// Active is tri-state on the wire: absent means "default to true"
	Active *bool
}

// Validate checks structural invariants of the input.
// Every violation is collected so the resulting message summarizes all
// offending fields, not just the first.
func (in Input) Validate(ctx context.Context) error {
	var violations []string

	if strings.TrimSpace(in.SKU) == "" {
		violations = append(violations, "sku: must not be blank")
	}
	if strings.TrimSpace(in.Name) == "" {
		violations = append(violations, "name: must not be blank")
	}
	if !in.Price.IsPositive() {
		violations = append(violations, "price: must be greater than zero")
	}
	if in.Quantity < 0 {
		violations = append(violations, "quantity: must not be negative")
	}

	if len(violations) > 0 {
		return apperror.NewValidation(strings.Join(violations, "; "))
	}
	return nil
}

// active resolves the tri-state Active flag.
func (in Input) active() bool {
	if in.Active == nil {
		return true
	}
	return *in.Active
}

// New builds a fresh Item from input. Both timestamps come from the single
// clock read `now`, so CreatedAt always equals UpdatedAt at creation.
func New(in Input, itemID id.ID, now time.Time) *Item {
	return &Item{
		ID:          itemID,
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Category:    in.Category,
		Active:      in.active(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply replaces every mutable field from input and resets UpdatedAt.
// ID and CreatedAt are immutable.
func (i *Item) Apply(in Input, now time.Time) {
	i.SKU = in.SKU
	i.Name = in.Name
	i.Description = in.Description
	i.Price = in.Price
	i.Quantity = in.Quantity
	i.Category = in.Category
	i.Active = in.active()
	i.UpdatedAt = now
}
