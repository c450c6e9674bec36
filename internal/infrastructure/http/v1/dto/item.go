package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"itemstore/internal/domain/item"
)

// --- Request DTOs ---

// ItemRequest is the request body for creating or updating an item.
// The same shape serves both operations because update is a full replace.
type ItemRequest struct {
	SKU         string          `json:"sku" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Category    *string         `json:"category"`
	Active      *bool           `json:"active"`
}

// ToInput converts the request to the service input shape.
func (r *ItemRequest) ToInput() item.Input {
	return item.Input{
		SKU:         r.SKU,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Quantity:    r.Quantity,
		Category:    r.Category,
		Active:      r.Active,
	}
}

// --- Response DTOs ---

// ItemResponse is the wire representation of an item.
type ItemResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Category    *string         `json:"category,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// FromItem creates a response DTO from the domain entity.
func FromItem(itm *item.Item) *ItemResponse {
	return &ItemResponse{
		ID:          itm.ID.String(),
		SKU:         itm.SKU,
		Name:        itm.Name,
		Description: itm.Description,
		Price:       itm.Price,
		Quantity:    itm.Quantity,
		Category:    itm.Category,
		Active:      itm.Active,
		CreatedAt:   itm.CreatedAt,
		UpdatedAt:   itm.UpdatedAt,
	}
}

// FromItemPage maps a domain page into the paginated envelope.
func FromItemPage(page *item.Page) PageResponse[*ItemResponse] {
	content := make([]*ItemResponse, len(page.Content))
	for i, itm := range page.Content {
		content[i] = FromItem(itm)
	}
	return PageResponse[*ItemResponse]{
		Content:       content,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	}
}
