// Package database holds the in-memory index of GIF files.
//
// A Database is built from one source directory. Construction performs a
// synchronous scan; later scans are additive only: files seen before are
// never updated and files that disappear are never removed. Besides the
// insertion-ordered list of all GIFs the index maintains three groupings:
//   - by person (owner token), in scan order
//   - by year of modification time, in scan order
//   - by display name, last write wins
//
// Lookups on a missing key return an error wrapping ErrNotFound.
package database
