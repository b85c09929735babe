package core

// validation.go provides row-level validation before insertion.
//
// Validation happens at two levels:
//  1. Header validation: required columns must be present in the file
//  2. Row validation: each cell is checked against its FieldSpec
//
// The RowValidator always collects every violation for a row (all missing
// required fields, all coercion failures, any enum violation) so a skipped
// row can be reported with its complete reason list, not just the first
// problem found.

import (
	"fmt"
	"strings"
)

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string // Field/column name
	Value   string // The invalid raw value
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (value %q)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult is the verdict for one row.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// Reasons returns the rejection reasons as strings, in field-spec order.
func (r ValidationResult) Reasons() []string {
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.Error()
	}
	return out
}

// RowValidator validates rows against an entity's field specifications.
type RowValidator struct {
	specs     []FieldSpec
	headerIdx HeaderIndex
}

// NewRowValidator creates a validator for the given specs and header index.
func NewRowValidator(specs []FieldSpec, headerIdx HeaderIndex) *RowValidator {
	return &RowValidator{
		specs:     specs,
		headerIdx: headerIdx,
	}
}

// ValidateRow validates a single CSV row and returns all violations.
func (v *RowValidator) ValidateRow(row []string) ValidationResult {
	result := ValidationResult{Valid: true}

	reject := func(e ValidationError) {
		result.Valid = false
		result.Errors = append(result.Errors, e)
	}

	for _, spec := range v.specs {
		pos, ok := v.headerIdx[strings.ToLower(spec.Name)]
		if !ok || pos >= len(row) {
			if spec.Required {
				reject(ValidationError{Field: spec.Name, Message: "missing required column"})
			}
			continue
		}

		raw := CleanCell(row[pos])
		if raw == "" {
			if spec.Required {
				reject(ValidationError{Field: spec.Name, Message: "required field is empty"})
			}
			continue
		}

		if err := ValidateCell(raw, spec); err != nil {
			reject(ValidationError{Field: spec.Name, Value: raw, Message: err.Error()})
		}
	}

	return result
}

// ValidateCell checks a single non-empty cell value against its spec.
// Returns nil if valid, or an error describing the problem.
func ValidateCell(value string, spec FieldSpec) error {
	switch spec.Type {
	case FieldInt:
		if !ToPgInt8(value).Valid {
			return fmt.Errorf("invalid integer")
		}
	case FieldNumeric:
		if !ToPgNumeric(value).Valid {
			return fmt.Errorf("invalid number")
		}
	case FieldFloat:
		if !ToPgFloat8(value).Valid {
			return fmt.Errorf("invalid number")
		}
	case FieldDate:
		if !ToPgDate(value).Valid {
			return fmt.Errorf("invalid date format (use %s)", DateLayout)
		}
	case FieldEnum:
		if len(spec.EnumValues) > 0 && !enumMember(value, spec.EnumValues) {
			return fmt.Errorf("must be one of: %s", strings.Join(spec.EnumValues, ", "))
		}
	case FieldBool:
		// Unrecognized booleans fall back to the field default in the
		// coercer, so they never reject a row.
	}
	return nil
}

// enumMember reports set membership with an exact, case-sensitive match.
// District labels are stored verbatim, so "eastern" is not "Eastern".
func enumMember(value string, set []string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

// MissingColumns lists the required columns absent from the header index,
// in field order. A missing column is row-scoped, not run-scoped: the row
// validator rejects each affected row and the run completes.
func MissingColumns(idx HeaderIndex, specs []FieldSpec) []string {
	var missing []string
	for _, spec := range specs {
		if spec.Required {
			if _, ok := idx[strings.ToLower(spec.Name)]; !ok {
				missing = append(missing, spec.Name)
			}
		}
	}
	return missing
}
