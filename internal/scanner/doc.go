// Package scanner materializes media records from the tabular index.
//
// # Operations
//
// [Scanner] exposes three scans:
//  1. [Scanner.Songs] : every playable track, ordered by title then artist
//  2. [Scanner.Playlists] : all playlists, each with its song list
//     resolved through a secondary membership query before the playlist
//     is appended
//  3. [Scanner.SongsFromPlaylist] : one playlist's playable tracks in the
//     source's native order
//
// # Row mapping
//
// The global audio collection and the playlist membership view expose the
// same semantic fields under different column names. The reconciliation
// lives in a single table (songColumns); offsets are resolved once per
// result set, and every field reads through null-safe getters so NULL or
// missing columns degrade to type defaults instead of failing the scan.
//
// # Error model
//
// Scans are total and never return errors. A query that yields no result
// set, whether the source is unavailable or nothing matched, degrades to
// an empty slice and a log line. Acquired result sets are released exactly
// once on every exit path.
package scanner
