package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	db "github.com/bcre/estate-import/internal/database"
)

// DefaultMaxFileSize is the maximum allowed CSV file size (100MB).
const DefaultMaxFileSize int64 = 100 * 1024 * 1024

// Options configures a Service.
type Options struct {
	// MaxFileSize caps the input file size in bytes.
	// Zero means DefaultMaxFileSize.
	MaxFileSize int64

	// Logger receives row outcomes and run summaries.
	// Nil means slog.Default().
	Logger *slog.Logger
}

// Service runs CSV imports against a single database handle.
// Lifecycle is open → run → close: the caller owns the handle and closes
// it after the last run.
type Service struct {
	db          DBTX
	logger      *slog.Logger
	maxFileSize int64

	// exists backs the per-run reference resolver.
	// Replaceable in tests.
	exists ExistsFunc
}

// NewService creates an import service on the given database handle.
func NewService(dbtx DBTX, opts Options) *Service {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{
		db:          dbtx,
		logger:      opts.Logger,
		maxFileSize: opts.MaxFileSize,
		exists: func(ctx context.Context, id int64) (bool, error) {
			return db.New(dbtx).RealtorExists(ctx, id)
		},
	}
}

// ImportFile processes one CSV file for the given entity kind.
//
// Rows are streamed in file order, one at a time. Each row is independent
// end to end: it is validated, resolved, and inserted (each insert commits
// on its own), and its failure never affects another row. Row-scoped
// problems are recorded in the result and the run continues; only
// run-scoped failures (unreadable file, store unavailability)
// abort the run, and then the returned result still carries the partial
// counters.
func (s *Service) ImportFile(ctx context.Context, entityKey, path string) (ImportResult, error) {
	start := time.Now()
	result := ImportResult{
		RunID:     uuid.NewString(),
		EntityKey: entityKey,
		FileName:  filepath.Base(path),
	}

	def, ok := Get(entityKey)
	if !ok {
		return s.abort(result, start, fmt.Errorf("unknown entity kind %q (registered: %v)", entityKey, Keys()))
	}

	f, err := os.Open(path)
	if err != nil {
		return s.abort(result, start, fmt.Errorf("open file: %w", err))
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > s.maxFileSize {
		return s.abort(result, start, fmt.Errorf("file exceeds %dMB limit", s.maxFileSize/(1024*1024)))
	}

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return s.abort(result, start, fmt.Errorf("read header: %w", err))
	}

	headerIdx := MakeHeaderIndex(header)

	logger := s.logger.With("run_id", result.RunID, "entity", entityKey, "file", result.FileName)
	logger.Info("import started")

	if missing := MissingColumns(headerIdx, def.FieldSpecs); len(missing) > 0 {
		logger.Warn("header missing required columns, affected rows will be skipped", "columns", missing)
	}

	validator := NewRowValidator(def.FieldSpecs, headerIdx)
	resolver := NewRealtorResolver(s.exists)

	for lineNum := 2; ; lineNum++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return s.abort(result, start, fmt.Errorf("read row %d: %w", lineNum, err))
		}

		if isEmptyRow(row) {
			continue
		}
		result.TotalRows++

		if fatal := s.processRow(ctx, &result, def, validator, resolver, logger, lineNum, row); fatal != nil {
			return s.abort(result, start, fatal)
		}
	}

	result.Duration = time.Since(start)
	logger.Info("import completed",
		"rows", result.TotalRows,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"errored", result.Errored,
		"duration", result.Duration,
	)
	return result, nil
}

// processRow takes one row through coerce → validate → resolve → insert.
// A non-nil return is a run-ending failure; every row-scoped outcome is
// recorded on the result instead.
func (s *Service) processRow(ctx context.Context, result *ImportResult, def EntityDefinition, validator *RowValidator, resolver *RealtorResolver, logger *slog.Logger, lineNum int, row []string) error {
	verdict := validator.ValidateRow(row)
	if !verdict.Valid {
		s.skip(result, logger, lineNum, row, verdict.Reasons())
		return nil
	}

	params, err := def.BuildParams(row, validator.headerIdx)
	if err != nil {
		// Validation already vouched for every field, so this is a
		// definition bug rather than bad input.
		s.fail(result, logger, lineNum, row, fmt.Sprintf("build record: %v", err))
		return nil
	}

	if def.Resolve != nil {
		switch err := def.Resolve(ctx, resolver, params); {
		case err == nil:
		case errors.Is(err, ErrUnknownReference):
			s.skip(result, logger, lineNum, row, []string{err.Error()})
			return nil
		case db.IsUnavailable(err):
			return fmt.Errorf("store unavailable: %w", err)
		default:
			s.fail(result, logger, lineNum, row, err.Error())
			return nil
		}
	}

	id, err := def.Insert(ctx, s.db, params)
	if err != nil {
		if db.IsUnavailable(err) {
			return fmt.Errorf("store unavailable: %w", err)
		}
		s.fail(result, logger, lineNum, row, fmt.Sprintf("insert: %v", err))
		return nil
	}

	result.Imported++
	logger.Debug("row imported", "line", lineNum, "id", id)
	return nil
}

// skip records a row rejected for data reasons (validation, enum,
// referential). Malformed input is expected, not exceptional.
func (s *Service) skip(result *ImportResult, logger *slog.Logger, lineNum int, row []string, reasons []string) {
	result.Skipped++
	result.Failed = append(result.Failed, FailedRow{
		LineNumber: lineNum,
		Status:     RowSkipped,
		Reasons:    reasons,
		Data:       row,
	})
	logger.Warn("row skipped", "line", lineNum, "reasons", reasons)
}

// fail records a row lost to a row-scoped store or build error.
func (s *Service) fail(result *ImportResult, logger *slog.Logger, lineNum int, row []string, reason string) {
	result.Errored++
	result.Failed = append(result.Failed, FailedRow{
		LineNumber: lineNum,
		Status:     RowErrored,
		Reasons:    []string{reason},
		Data:       row,
	})
	logger.Error("row errored", "line", lineNum, "reason", reason)
}

// abort finalizes a run-scoped failure. The partial counters collected so
// far are kept on the result and logged with the error.
func (s *Service) abort(result ImportResult, start time.Time, err error) (ImportResult, error) {
	result.Duration = time.Since(start)
	result.Error = err.Error()
	s.logger.Error("import aborted",
		"run_id", result.RunID,
		"entity", result.EntityKey,
		"file", result.FileName,
		"error", err,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"errored", result.Errored,
	)
	return result, err
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if CleanCell(v) != "" {
			return false
		}
	}
	return true
}
