package item

import "strings"

// Sort field names accepted from callers. These are the JSON-level names;
// the storage layer maps them to columns.
const (
	FieldID        = "id"
	FieldSKU       = "sku"
	FieldName      = "name"
	FieldPrice     = "price"
	FieldQuantity  = "quantity"
	FieldCategory  = "category"
	FieldActive    = "active"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// DefaultSortField orders newest-first listings.
const DefaultSortField = FieldCreatedAt

var sortableFields = map[string]struct{}{
	FieldID:        {},
	FieldSKU:       {},
	FieldName:      {},
	FieldPrice:     {},
	FieldQuantity:  {},
	FieldCategory:  {},
	FieldActive:    {},
	FieldCreatedAt: {},
	FieldUpdatedAt: {},
}

// SortDirection is the requested ordering direction.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortSpec is the parsed sort specification passed to the store gateway.
type SortSpec struct {
	Field     string
	Direction SortDirection
}

// ParseSortSpec parses a "<field>,<direction>" specification.
// A blank or unrecognized field falls back to createdAt; a missing or
// unrecognized direction falls back to descending. Directions are matched
// case-insensitively. Parsing never fails.
func ParseSortSpec(raw string) SortSpec {
	spec := SortSpec{Field: DefaultSortField, Direction: SortDesc}

	parts := strings.SplitN(raw, ",", 2)

	field := strings.TrimSpace(parts[0])
	if _, ok := sortableFields[field]; ok {
		spec.Field = field
	}

	if len(parts) == 2 && strings.EqualFold(strings.TrimSpace(parts[1]), string(SortAsc)) {
		spec.Direction = SortAsc
	}

	return spec
}

// ListQuery carries the raw listing parameters as received from transport.
// Page is zero-based; Size is at least one (validated upstream).
type ListQuery struct {
	// Name is an optional case-insensitive substring filter against Name.
	// Empty means no filtering.
	Name string

	Page int
	Size int

	// Sort is the raw "<field>,<direction>" specification.
	Sort string
}

// ListFilter is the storage-level query contract derived from a ListQuery.
type ListFilter struct {
	// NameContains filters rows whose name contains the substring,
	// case-insensitively. Empty means no filter.
	NameContains string

	Offset int
	Limit  int

	Sort SortSpec
}

// ListResult is what the store gateway returns for one page.
type ListResult struct {
	Items      []*Item
	TotalCount int64
}

// Page is the typed pagination result returned to transport.
type Page struct {
	Content       []*Item
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
}
