package item

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itemstore/internal/core/apperror"
	"itemstore/internal/core/id"
)

// noopTxManager runs the function without a real transaction.
type noopTxManager struct{}

func (noopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memRepo is an in-memory Repository covering the gateway contract,
// including stable ordering and the substring filter.
type memRepo struct {
	items map[id.ID]*Item

	// createErr, when set, is returned by Create to simulate storage failures
	createErr error
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[id.ID]*Item)}
}

func (r *memRepo) Create(ctx context.Context, itm *Item) error {
	if r.createErr != nil {
		return r.createErr
	}
	cp := *itm
	r.items[itm.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, itemID id.ID) (*Item, error) {
	itm, ok := r.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("item", itemID.String())
	}
	cp := *itm
	return &cp, nil
}

func (r *memRepo) Update(ctx context.Context, itm *Item) error {
	if _, ok := r.items[itm.ID]; !ok {
		return apperror.NewNotFound("item", itm.ID.String())
	}
	cp := *itm
	r.items[itm.ID] = &cp
	return nil
}

func (r *memRepo) Delete(ctx context.Context, itemID id.ID) error {
	if _, ok := r.items[itemID]; !ok {
		return apperror.NewNotFound("item", itemID.String())
	}
	delete(r.items, itemID)
	return nil
}

func (r *memRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	for _, itm := range r.items {
		if itm.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) ExistsBySKUExcluding(ctx context.Context, sku string, excludeID id.ID) (bool, error) {
	for _, itm := range r.items {
		if itm.SKU == sku && itm.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	var matched []*Item
	for _, itm := range r.items {
		if filter.NameContains != "" &&
			!strings.Contains(strings.ToLower(itm.Name), strings.ToLower(filter.NameContains)) {
			continue
		}
		cp := *itm
		matched = append(matched, &cp)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		var less bool
		switch filter.Sort.Field {
		case FieldName:
			less = a.Name < b.Name
		case FieldSKU:
			less = a.SKU < b.SKU
		default:
			less = a.CreatedAt.Before(b.CreatedAt)
		}
		if filter.Sort.Direction == SortDesc {
			return !less
		}
		return less
	})

	total := int64(len(matched))

	if filter.Offset >= len(matched) {
		matched = nil
	} else {
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	return ListResult{Items: matched, TotalCount: total}, nil
}

// newTestService returns a service over an in-memory repo with a
// deterministic clock that advances one second per read.
func newTestService(repo *memRepo) *Service {
	svc := NewService(repo, noopTxManager{})
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		t := base.Add(time.Duration(tick) * time.Second)
		tick++
		return t
	}
	return svc
}

func validInput(sku, name string) Input {
	return Input{
		SKU:      sku,
		Name:     name,
		Price:    decimal.NewFromFloat(10.00),
		Quantity: 5,
	}
}

func TestCreate_AssignsIDAndTimestamps(t *testing.T) {
	svc := newTestService(newMemRepo())
	ctx := context.Background()

	itm, err := svc.Create(ctx, validInput("K1", "Widget"))
	require.NoError(t, err)

	assert.False(t, id.IsNil(itm.ID))
	assert.True(t, itm.Active, "active defaults to true when absent")
	assert.Equal(t, itm.CreatedAt, itm.UpdatedAt, "single clock read at creation")

	got, err := svc.GetByID(ctx, itm.ID)
	require.NoError(t, err)
	assert.Equal(t, itm, got, "create then get must return an identical item")
}

func TestCreate_ActiveExplicitFalse(t *testing.T) {
	svc := newTestService(newMemRepo())

	in := validInput("K1", "Widget")
	inactive := false
	in.Active = &inactive

	itm, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, itm.Active)
}

func TestCreate_DuplicateSKU(t *testing.T) {
	svc := newTestService(newMemRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, validInput("K1", "Widget"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, validInput("K1", "Other"))
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), "K1")
}

func TestCreate_StorageRaceSurfacesAsConflict(t *testing.T) {
	// The pre-check passes but persist fails with the unique-constraint
	// error the repo translated; it must reach the caller as-is.
	repo := newMemRepo()
	repo.createErr = apperror.NewDuplicate("sku", "K1")
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), validInput("K1", "Widget"))
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestCreate_InfrastructureFailureIsGeneric(t *testing.T) {
	repo := newMemRepo()
	repo.createErr = assert.AnError
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), validInput("K1", "Widget"))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDatabase, appErr.Code)
	assert.Equal(t, "internal server error", appErr.Message, "internal detail must not leak")
}

func TestGetByID_Unknown(t *testing.T) {
	svc := newTestService(newMemRepo())

	_, err := svc.GetByID(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdate_FullReplace(t *testing.T) {
	svc := newTestService(newMemRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput("K1", "Widget"))
	require.NoError(t, err)

	in := validInput("K1", "Widget Pro")
	in.Price = decimal.NewFromFloat(12.50)
	in.Quantity = 7

	updated, err := svc.Update(ctx, created.ID, in)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Widget Pro", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt, "createdAt is immutable")
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt), "updatedAt strictly increases")
	assert.True(t, updated.Active, "active defaults to true on update too")
}

func TestUpdate_OwnSKUSucceeds(t *testing.T) {
	svc := newTestService(newMemRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput("K1", "Widget"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, validInput("K1", "Renamed"))
	assert.NoError(t, err, "reusing the item's own sku is not a conflict")
}

func TestUpdate_ForeignSKUConflicts(t *testing.T) {
	svc := newTestService(newMemRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, validInput("K1", "Widget"))
	require.NoError(t, err)
	other, err := svc.Create(ctx, validInput("K2", "Gadget"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, other.ID, validInput("K1", "Gadget"))
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestUpdate_Unknown(t *testing.T) {
	svc := newTestService(newMemRepo())

	_, err := svc.Update(context.Background(), id.New(), validInput("K1", "Widget"))
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete_ThenGet(t *testing.T) {
	svc := newTestService(newMemRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput("K1", "Widget"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete_Unknown(t *testing.T) {
	svc := newTestService(newMemRepo())

	err := svc.Delete(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestList_Pagination(t *testing.T) {
	svc := newTestService(newMemRepo())
	ctx := context.Background()

	for _, sku := range []string{"A1", "A2", "A3", "A4", "A5"} {
		_, err := svc.Create(ctx, validInput(sku, "Item "+sku))
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, ListQuery{Page: 0, Size: 2})
	require.NoError(t, err)
	assert.Len(t, page.Content, 2)
	assert.Equal(t, int64(5), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages, "totalPages = ceil(5/2)")

	last, err := svc.List(ctx, ListQuery{Page: 2, Size: 2})
	require.NoError(t, err)
	assert.Len(t, last.Content, 1)
}

func TestList_EmptyCatalog(t *testing.T) {
	svc := newTestService(newMemRepo())

	page, err := svc.List(context.Background(), ListQuery{Page: 0, Size: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Equal(t, int64(0), page.TotalElements)
	assert.Equal(t, 0, page.TotalPages)
}

func TestList_FilterCaseInsensitive(t *testing.T) {
	svc := newTestService(newMemRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, validInput("K1", "Mechanical Keyboard"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, validInput("K2", "Mouse"))
	require.NoError(t, err)

	page, err := svc.List(ctx, ListQuery{Name: "KEYBOARD", Page: 0, Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "K1", page.Content[0].SKU)

	// Empty filter behaves identically to no filter
	all, err := svc.List(ctx, ListQuery{Name: "", Page: 0, Size: 10})
	require.NoError(t, err)
	assert.Len(t, all.Content, 2)
}

func TestList_SortByNameAscending(t *testing.T) {
	svc := newTestService(newMemRepo())
	ctx := context.Background()

	for _, name := range []string{"Charlie", "Alpha", "Bravo"} {
		_, err := svc.Create(ctx, validInput("SKU-"+name, name))
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, ListQuery{Page: 0, Size: 10, Sort: "name,asc"})
	require.NoError(t, err)
	require.Len(t, page.Content, 3)

	names := []string{page.Content[0].Name, page.Content[1].Name, page.Content[2].Name}
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, names)
}

func TestList_UnparseableSortDefaultsToNewestFirst(t *testing.T) {
	svc := newTestService(newMemRepo())
	ctx := context.Background()

	first, err := svc.Create(ctx, validInput("K1", "First"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, validInput("K2", "Second"))
	require.NoError(t, err)

	page, err := svc.List(ctx, ListQuery{Page: 0, Size: 10, Sort: ",sideways"})
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	assert.Equal(t, second.ID, page.Content[0].ID)
	assert.Equal(t, first.ID, page.Content[1].ID)
}

// TestCatalogLifecycle walks the full create / conflict / update / filter /
// delete sequence end to end at the service level.
func TestCatalogLifecycle(t *testing.T) {
	svc := newTestService(newMemRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput("K1", "Widget"))
	require.NoError(t, err)
	assert.False(t, id.IsNil(created.ID))
	assert.True(t, created.Active)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	_, err = svc.Create(ctx, validInput("K1", "Impostor"))
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))

	updated, err := svc.Update(ctx, created.ID, validInput("K1", "Widget Pro"))
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	page, err := svc.List(ctx, ListQuery{Name: "widget", Page: 0, Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Widget Pro", page.Content[0].Name)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
