// Package core implements the row-level CSV import pipeline: field
// coercion, row validation, reference resolution, and per-row persistence.
// This package has no CLI or HTTP dependencies and can be driven by any
// invocation surface.
package core

import (
	"context"
	"time"

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

// FieldType represents the expected data type for a CSV field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
	FieldDate
	FieldInt
	FieldNumeric
	FieldFloat
	FieldBool
)

// FieldSpec defines coercion and validation rules for a single CSV column.
type FieldSpec struct {
	Name       string    // Column header name (matched case-insensitively)
	Type       FieldType // Expected data type
	Required   bool      // Value must be present and non-empty after trim
	EnumValues []string  // Valid values for FieldEnum (exact, case-sensitive)
}

// EntityInfo contains display information about an importable entity kind.
type EntityInfo struct {
	Key     string   // Unique identifier: "realtor", "listing"
	Label   string   // Display name: "Realtors"
	Table   string   // Destination table name
	Columns []string // Header column names, in sample-file order
}

// HeaderIndex maps column names (lowercase) to their position in the CSV row.
type HeaderIndex map[string]int

// BuildParamsFunc coerces a CSV row into typed insert parameters.
// Runs only after the row validator has accepted the row, so required
// fields are known to be present and well-typed.
type BuildParamsFunc func(row []string, headerIdx HeaderIndex) (any, error)

// InsertFunc inserts one record and returns the store-assigned identity.
type InsertFunc func(ctx context.Context, db DBTX, params any) (int64, error)

// ResolveFunc checks referential integrity for an accepted row.
// Returns ErrUnknownReference (wrapped) when the referenced entity does
// not exist; any other error is a store error.
type ResolveFunc func(ctx context.Context, r *RealtorResolver, params any) error

// EntityDefinition contains everything needed to import one entity kind.
type EntityDefinition struct {
	Info        EntityInfo
	FieldSpecs  []FieldSpec
	BuildParams BuildParamsFunc
	Insert      InsertFunc

	// Resolve is nil for entities without foreign keys.
	Resolve ResolveFunc
}

// RowStatus is the terminal state of one processed row.
type RowStatus string

const (
	RowImported RowStatus = "imported"
	RowSkipped  RowStatus = "skipped"
	RowErrored  RowStatus = "errored"
)

// FailedRow describes a row that was not persisted.
type FailedRow struct {
	LineNumber int
	Status     RowStatus
	Reasons    []string
	Data       []string
}

// ImportResult is the run summary for one file-processing invocation.
// Counters are reported even when the run aborts early.
type ImportResult struct {
	RunID     string
	EntityKey string
	FileName  string
	TotalRows int
	Imported  int
	Skipped   int
	Errored   int
	Failed    []FailedRow
	Duration  time.Duration
	Error     string // Non-empty if the run aborted
}

// Completed reports whether the run reached the end of the file.
// A completed run may still have skipped or errored rows.
func (r ImportResult) Completed() bool {
	return r.Error == ""
}
