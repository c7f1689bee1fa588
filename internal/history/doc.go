// Package history keeps a short, in-memory record of recent
// transliterations, most recent first. Entries are unique by source text
// (case-insensitive) and the oldest are evicted once capacity is reached.
// Nothing is written to disk.
package history
