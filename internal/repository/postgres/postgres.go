// Package postgres contains the PostgreSQL-backed repository implementations.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/silentc1/mobileotosanayi-sub000/pkg/errors"
)

// wrapStoreErr wraps a store error, classifying timeouts and connection
// failures as retryable StoreUnavailable so callers surface a 503 instead
// of a generic 500.
func wrapStoreErr(op string, err error) error {
	if isStoreUnavailable(err) {
		return apperrors.StoreUnavailable(fmt.Errorf("%s: %w", op, err))
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isStoreUnavailable reports whether the error means the database could not
// be reached at all, as opposed to rejecting the statement.
func isStoreUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// Dial, read and reset failures surface as net errors through pgx.
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var connectErr *pgconn.ConnectError
	return errors.As(err, &connectErr)
}
