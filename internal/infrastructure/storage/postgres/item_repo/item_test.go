package item_repo

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itemstore/internal/core/apperror"
	"itemstore/internal/domain/item"
)

func TestOrderBy(t *testing.T) {
	tests := []struct {
		name string
		spec item.SortSpec
		want string
	}{
		{
			name: "default newest first",
			spec: item.SortSpec{Field: item.FieldCreatedAt, Direction: item.SortDesc},
			want: "created_at DESC, id ASC",
		},
		{
			name: "name ascending",
			spec: item.SortSpec{Field: item.FieldName, Direction: item.SortAsc},
			want: "name ASC, id ASC",
		},
		{
			name: "camelCase field maps to snake_case column",
			spec: item.SortSpec{Field: item.FieldUpdatedAt, Direction: item.SortAsc},
			want: "updated_at ASC, id ASC",
		},
		{
			name: "unknown field falls back to created_at",
			spec: item.SortSpec{Field: "bogus", Direction: item.SortAsc},
			want: "created_at ASC, id ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderBy(tt.spec))
		})
	}
}

func TestListQuerySQL(t *testing.T) {
	r := NewItemRepo(nil)

	q := r.baseSelect().
		Where(squirrel.ILike{"name": "%teclado%"}).
		OrderBy(orderBy(item.SortSpec{Field: item.FieldName, Direction: item.SortAsc})).
		Limit(10).
		Offset(20)

	sql, args, err := q.ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM items")
	assert.Contains(t, sql, "name ILIKE $1")
	assert.Contains(t, sql, "ORDER BY name ASC, id ASC")
	assert.Contains(t, sql, "LIMIT 10")
	assert.Contains(t, sql, "OFFSET 20")
	assert.Equal(t, []interface{}{"%teclado%"}, args)
}

func TestCountQuerySQL(t *testing.T) {
	r := NewItemRepo(nil)

	inner := r.baseSelect().Where(squirrel.ILike{"name": "%x%"})
	countQ := r.Builder().Select("COUNT(*)").FromSelect(inner, "sub")

	sql, args, err := countQ.ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "SELECT COUNT(*) FROM (")
	assert.Contains(t, sql, ") AS sub")
	assert.Len(t, args, 1)
}

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "uk_items_sku"}
	assert.True(t, isUniqueViolation(unique))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert items: %w", unique)))

	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(assert.AnError))
	assert.False(t, isUniqueViolation(nil))
}

func TestDuplicateSKU(t *testing.T) {
	cause := &pgconn.PgError{Code: "23505", ConstraintName: "uk_items_sku"}

	err := duplicateSKU("K1", cause)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)
	assert.Contains(t, appErr.Message, "K1")
	assert.ErrorIs(t, err, cause)
}
