// Package sqlite provides SQLite-backed implementations of driven port
// interfaces using modernc.org/sqlite, a pure Go driver that needs no CGO.
//
//   - ChatHistoryStore: chat transcripts shown on the Chat page
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of NNN_name.up.sql and
// NNN_name.down.sql files; applied versions are recorded in
// schema_migrations.
//
// # Data Location
//
// The database lives at <data dir>/docchat.db (data/docchat.db by default).
package sqlite
