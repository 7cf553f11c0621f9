package persistence

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/clothstore/backend/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// DefaultQueryTimeout bounds a single repository call when no timeout is configured
const DefaultQueryTimeout = 5 * time.Second

const pgUniqueViolation = "23505"

// RepositoryOption configures a GORM repository
type RepositoryOption func(*repositoryOptions)

type repositoryOptions struct {
	queryTimeout time.Duration
	now          func() time.Time
}

// WithQueryTimeout sets the per-call deadline applied to every store operation
func WithQueryTimeout(d time.Duration) RepositoryOption {
	return func(o *repositoryOptions) {
		if d > 0 {
			o.queryTimeout = d
		}
	}
}

// WithClock sets the time source used to stamp written rows
func WithClock(now func() time.Time) RepositoryOption {
	return func(o *repositoryOptions) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []RepositoryOption) repositoryOptions {
	o := repositoryOptions{queryTimeout: DefaultQueryTimeout, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// withDeadline derives a context bounded by the query timeout
func withDeadline(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d)
}

// IsDuplicateKey reports whether err is a unique constraint violation
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// IsUnavailable reports whether err is a transient connectivity or deadline failure
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// translateError maps driver errors into domain errors. notFound is returned for missing rows.
// A failure after ctx hit its deadline is reported as unavailable whatever the driver said.
func translateError(ctx context.Context, err error, notFound *shared.DomainError) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case IsDuplicateKey(err):
		return shared.ErrDuplicateIdentifier
	case IsUnavailable(err):
		return fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	return err
}
