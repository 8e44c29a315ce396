// Package sqlite provides persistent storage for documents, blocks,
// and outlines, plus an FTS5-backed block ranking index, all in one
// SQLite database (modernc.org/sqlite, no cgo).
//
// The FTS index is kept in sync inside the same transaction as every
// block write, so ranking always reflects committed state.
package sqlite
