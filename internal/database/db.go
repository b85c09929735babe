// Package database is the query layer for the import tables.
//
// It keeps the sqlc surface shape (New(DBTX) returning *Queries with one
// method per statement) so callers treat it exactly like generated code.
// The store exposes only two operation shapes: insert-returning-id and
// existence checks.
package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// New creates a Queries instance bound to the given database handle.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Queries provides typed access to the import tables.
type Queries struct {
	db DBTX
}
