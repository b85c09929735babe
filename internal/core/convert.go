package core

// convert.go converts raw CSV cell values to PostgreSQL types.
//
// All ToPg* functions return pgtype values with Valid=false for empty
// input, letting the database store NULL for absent optional fields.
// Coercion of a non-empty value that does not fit its declared type also
// yields Valid=false; the row validator turns that into a per-field
// rejection reason. The functions are pure: no logging, no state.

import (
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateLayout is the only accepted date format for import files.
const DateLayout = "2006-01-02"

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgDate converts a string to pgtype.Date.
// Only the strict YYYY-MM-DD layout is accepted.
func ToPgDate(s string) pgtype.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Date{Valid: false}
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: t, Valid: true}
}

// ToPgInt8 converts a string to pgtype.Int8.
// Whitespace is trimmed first; any non-integer input is invalid.
func ToPgInt8(s string) pgtype.Int8 {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Int8{Valid: false}
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return pgtype.Int8{Valid: false}
	}
	return pgtype.Int8{Int64: i, Valid: true}
}

// ToPgNumeric converts a string to pgtype.Numeric for decimal columns.
func ToPgNumeric(s string) pgtype.Numeric {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Numeric{Valid: false}
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return pgtype.Numeric{Valid: false}
	}
	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		return pgtype.Numeric{Valid: false}
	}
	return n
}

// ToPgFloat8 converts a string to pgtype.Float8.
func ToPgFloat8(s string) pgtype.Float8 {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Float8{Valid: false}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return pgtype.Float8{Valid: false}
	}
	return pgtype.Float8{Float64: f, Valid: true}
}

// ToPgBool converts a string to pgtype.Bool.
// Only the literals "true" and "false" are accepted, case-insensitively;
// anything else is invalid and callers fall back to the field default.
func ToPgBool(s string) pgtype.Bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return pgtype.Bool{Bool: true, Valid: true}
	case "false":
		return pgtype.Bool{Bool: false, Valid: true}
	default:
		return pgtype.Bool{Valid: false}
	}
}

// BoolOrDefault coerces a boolean cell, substituting def for empty or
// unrecognized input. Boolean fields never fail coercion.
func BoolOrDefault(s string, def bool) pgtype.Bool {
	if b := ToPgBool(s); b.Valid {
		return b
	}
	return pgtype.Bool{Bool: def, Valid: true}
}

// MakeHeaderIndex creates a HeaderIndex from a CSV header row.
// Keys are lowercased for case-insensitive matching; column order in the
// file is irrelevant.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		idx[strings.ToLower(CleanCell(h))] = i
	}
	return idx
}

// CleanCell trims whitespace and the UTF-8 BOM from a cell value.
func CleanCell(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	return strings.TrimSpace(s)
}
