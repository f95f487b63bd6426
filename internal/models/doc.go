// Package models defines the record types materialized from the mediadex index.
//
// The package contains two categories of types:
//
// 1. The record base: [RecordFields] carries the identity and timestamp
// columns every record shares, and [Record] is the interface concrete
// records satisfy by embedding it.
//
// 2. Concrete records: [Song] and [Playlist], one value per mapped source
// row, fully populated by the scanner before they reach callers.
//
// [Serialize] renders any record as JSON text with a total contract:
// encoder failures are logged and replaced by the "{}" fallback, never
// surfaced as an error.
package models
