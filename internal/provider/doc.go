// Package provider exposes the media index as a queryable tabular source.
//
// # Contracts
//
// [Source] issues read-only queries against named collections and returns
// a [Cursor] per result set. A (nil, nil) return means the source has no
// result set for the query; callers treat it exactly like an empty result.
//
// [Cursor] walks one result set positionally. Column offsets are resolved
// by name through ColumnIndex, -1 when a column is absent, and the typed
// getters normalize NULL, absent and mistyped cells to type defaults.
//
// # Collections
//
// Three collections are registered over the SQLite index:
//   - audio: the global track table
//   - playlists: playlist rows without membership
//   - playlist_audio: a join view pairing playlist entries with their
//     tracks, audio columns prefixed to keep the two row shapes distinct
//
// Each collection carries a native row order used when a query passes no
// sort expression.
package provider
