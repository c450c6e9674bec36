package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"itemstore/internal/core/apperror"
	"itemstore/internal/core/id"
	"itemstore/internal/domain/item"
	"itemstore/internal/infrastructure/http/v1/dto"
)

// ItemService is the operation set the handler needs from the domain layer.
type ItemService interface {
	Create(ctx context.Context, in item.Input) (*item.Item, error)
	List(ctx context.Context, q item.ListQuery) (*item.Page, error)
	GetByID(ctx context.Context, itemID id.ID) (*item.Item, error)
	Update(ctx context.Context, itemID id.ID, in item.Input) (*item.Item, error)
	Delete(ctx context.Context, itemID id.ID) error
}

// List query parameter defaults.
const (
	defaultPage = 0
	defaultSize = 10
	defaultSort = "createdAt,desc"
)

// ItemHandler provides HTTP handlers for the item resource.
// It maps taxonomy errors to status codes via the error middleware and never
// inspects business rules itself.
type ItemHandler struct {
	*BaseHandler
	service ItemService
}

// NewItemHandler creates a new item handler.
func NewItemHandler(base *BaseHandler, service ItemService) *ItemHandler {
	return &ItemHandler{BaseHandler: base, service: service}
}

// Create handles POST /items.
func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.ItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	itm, err := h.service.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Location", c.Request.URL.Path+"/"+itm.ID.String())
	c.JSON(http.StatusCreated, dto.FromItem(itm))
}

// List handles GET /items with pagination, sorting and optional name filter.
func (h *ItemHandler) List(c *gin.Context) {
	page, err := h.ParseIntQuery(c, "page", defaultPage)
	if err != nil {
		h.Error(c, err)
		return
	}
	size, err := h.ParseIntQuery(c, "size", defaultSize)
	if err != nil {
		h.Error(c, err)
		return
	}

	if page < 0 {
		h.Error(c, apperror.NewValidation("page must be greater than or equal to 0"))
		return
	}
	if size < 1 {
		h.Error(c, apperror.NewValidation("size must be greater than or equal to 1"))
		return
	}

	result, err := h.service.List(c.Request.Context(), item.ListQuery{
		Name: c.Query("name"),
		Page: page,
		Size: size,
		Sort: c.DefaultQuery("sort", defaultSort),
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromItemPage(result))
}

// Get handles GET /items/:id.
func (h *ItemHandler) Get(c *gin.Context) {
	itemID, ok := h.parseID(c)
	if !ok {
		return
	}

	itm, err := h.service.GetByID(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromItem(itm))
}

// Update handles PUT /items/:id (full replace).
func (h *ItemHandler) Update(c *gin.Context) {
	itemID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.ItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	itm, err := h.service.Update(c.Request.Context(), itemID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromItem(itm))
}

// Delete handles DELETE /items/:id.
func (h *ItemHandler) Delete(c *gin.Context) {
	itemID, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), itemID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ItemHandler) parseID(c *gin.Context) (id.ID, bool) {
	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return id.Nil(), false
	}
	return itemID, true
}
