package database

// errors.go separates two failure modes the import loop must not conflate:
// a statement the server rejected (row-scoped, the run continues) and a
// store that cannot be reached at all (run-scoped, the run aborts).

import (
	"errors"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsUnavailable reports whether err means the store itself is unreachable
// rather than one statement failing. A *pgconn.PgError outside SQLSTATE
// class 08 proves the server received and rejected the statement, so those
// stay row-scoped (constraint violations and the like).
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exception
		return strings.HasPrefix(pgErr.Code, "08")
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	// pgxpool returns this after Close; puddle does not export the value.
	if strings.Contains(err.Error(), "closed pool") {
		return true
	}

	return false
}
