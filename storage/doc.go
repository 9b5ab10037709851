// Package storage provides the durable persistence adapter: a simple named
// blob store the broker uses to save and load its two state snapshots (the
// contact graph and the message history).
//
// Snapshots are written wholesale after each relevant mutation, so backends
// must make each Save atomic: the file store writes to a temporary file and
// renames it into place, the SQLite store relies on transactional upserts.
// A crash mid-write therefore leaves the previous snapshot intact.
package storage
