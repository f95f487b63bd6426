package provider

// Source is the query capability of the tabular media index.
//
// filter is a boolean expression over the collection's columns with ?
// placeholders bound from args; sort is a comma-separated column order
// list. Both may be empty, and an empty sort falls back to the
// collection's native order.
//
// A (nil, nil) return means the source has no result set for the query.
// A non-nil [Cursor] must be released with Close exactly once.
type Source interface {
	Query(collection, filter string, args []any, sort string) (Cursor, error)
}

// Cursor walks the rows of one query's result set.
//
// Offsets come from ColumnIndex, resolved once per result set and used for
// every row. The typed getters are null-safe: NULL cells, the -1 offset
// for an absent column, and out-of-range offsets all yield the type's
// zero value.
type Cursor interface {
	// Next advances to the next row, returning false once exhausted.
	Next() bool
	// ColumnIndex resolves a column name to its offset, -1 when absent.
	ColumnIndex(name string) int
	// Text returns the cell at offset i as a string, "" when null or absent.
	Text(i int) string
	// Int returns the cell at offset i as an int64, 0 when null or absent.
	Int(i int) int64
	// Close releases the result set's resources.
	Close() error
}
