// Package session coordinates live transliteration for one user: it
// debounces typing, decides when to call the transliteration client,
// applies only the newest response and records successful conversions in
// the history. Front ends drive it through method calls and render the
// State snapshots it publishes.
package session
