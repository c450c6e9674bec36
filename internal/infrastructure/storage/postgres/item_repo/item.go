// Package item_repo provides the PostgreSQL implementation of the item repository.
package item_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"itemstore/internal/core/apperror"
	"itemstore/internal/core/id"
	"itemstore/internal/domain/item"
	"itemstore/internal/infrastructure/storage/postgres"
)

const itemTable = "items"

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

var itemColumns = []string{
	"id", "sku", "name", "description", "price",
	"quantity", "category", "active", "created_at", "updated_at",
}

// sortColumns maps API-level sort field names to table columns.
var sortColumns = map[string]string{
	item.FieldID:        "id",
	item.FieldSKU:       "sku",
	item.FieldName:      "name",
	item.FieldPrice:     "price",
	item.FieldQuantity:  "quantity",
	item.FieldCategory:  "category",
	item.FieldActive:    "active",
	item.FieldCreatedAt: "created_at",
	item.FieldUpdatedAt: "updated_at",
}

// Compile-time check that ItemRepo implements item.Repository.
var _ item.Repository = (*ItemRepo)(nil)

// ItemRepo implements item.Repository over PostgreSQL.
type ItemRepo struct {
	txManager *postgres.TxManager
}

// NewItemRepo creates a new item repository.
func NewItemRepo(txManager *postgres.TxManager) *ItemRepo {
	return &ItemRepo{txManager: txManager}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *ItemRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *ItemRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(itemColumns...).
		From(itemTable)
}

// Create inserts a new item row.
func (r *ItemRepo) Create(ctx context.Context, itm *item.Item) error {
	q := r.Builder().
		Insert(itemTable).
		Columns(itemColumns...).
		Values(
			itm.ID, itm.SKU, itm.Name, itm.Description, itm.Price,
			itm.Quantity, itm.Category, itm.Active, itm.CreatedAt, itm.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return duplicateSKU(itm.SKU, err)
		}
		return fmt.Errorf("insert %s: %w", itemTable, err)
	}

	return nil
}

// GetByID retrieves an item by id.
func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": itemID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var itm item.Item
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &itm, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("item", itemID.String())
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}

	return &itm, nil
}

// Update replaces all mutable columns of an existing row.
func (r *ItemRepo) Update(ctx context.Context, itm *item.Item) error {
	q := r.Builder().
		Update(itemTable).
		Set("sku", itm.SKU).
		Set("name", itm.Name).
		Set("description", itm.Description).
		Set("price", itm.Price).
		Set("quantity", itm.Quantity).
		Set("category", itm.Category).
		Set("active", itm.Active).
		Set("updated_at", itm.UpdatedAt).
		Where(squirrel.Eq{"id": itm.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return duplicateSKU(itm.SKU, err)
		}
		return fmt.Errorf("update %s: %w", itemTable, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("item", itm.ID.String())
	}

	return nil
}

// Delete performs physical removal from the database.
func (r *ItemRepo) Delete(ctx context.Context, itemID id.ID) error {
	q := r.Builder().
		Delete(itemTable).
		Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("execute delete %s: %w", itemTable, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("item", itemID.String())
	}

	return nil
}

// ExistsBySKU checks if any item holds the given SKU.
func (r *ItemRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	q := r.Builder().
		Select("1").
		From(itemTable).
		Where(squirrel.Eq{"sku": sku}).
		Limit(1)

	return r.exists(ctx, q)
}

// ExistsBySKUExcluding checks if an item other than excludeID holds the SKU.
func (r *ItemRepo) ExistsBySKUExcluding(ctx context.Context, sku string, excludeID id.ID) (bool, error) {
	q := r.Builder().
		Select("1").
		From(itemTable).
		Where(squirrel.Eq{"sku": sku}).
		Where(squirrel.NotEq{"id": excludeID}).
		Limit(1)

	return r.exists(ctx, q)
}

func (r *ItemRepo) exists(ctx context.Context, q squirrel.SelectBuilder) (bool, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	var one int
	err = querier.QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}

	return true, nil
}

// List retrieves one page of items with total count.
func (r *ItemRepo) List(ctx context.Context, filter item.ListFilter) (item.ListResult, error) {
	var result item.ListResult

	q := r.baseSelect()

	if filter.NameContains != "" {
		q = q.Where(squirrel.ILike{"name": "%" + filter.NameContains + "%"})
	}

	// Count total (before pagination)
	countQ := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy(orderBy(filter.Sort))

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}

	return result, nil
}

// orderBy builds the ORDER BY clause for a sort spec. The id tiebreaker
// keeps pagination stable when the requested column has equal values.
func orderBy(spec item.SortSpec) string {
	col, ok := sortColumns[spec.Field]
	if !ok {
		col = "created_at"
	}

	dir := "DESC"
	if spec.Direction == item.SortAsc {
		dir = "ASC"
	}

	return col + " " + dir + ", id ASC"
}

// isUniqueViolation checks for PostgreSQL unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// duplicateSKU collapses a storage-level unique-constraint violation into the
// same conflict error the service pre-check produces, so callers cannot tell
// a detected-early duplicate from one that lost a race.
func duplicateSKU(sku string, cause error) error {
	return apperror.NewDuplicate("sku", sku).WithCause(cause)
}
