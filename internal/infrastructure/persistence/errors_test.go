package persistence

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/clothstore/backend/internal/domain/order"
	"github.com/clothstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockOrderRepository creates a GormOrderRepository with a mocked SQL connection
func newMockOrderRepository(t *testing.T, opts ...RepositoryOption) (*GormOrderRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return NewGormOrderRepository(gormDB, opts...), mock, mockDB
}

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm duplicated key", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"postgres unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"postgres other error", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite message", errors.New("UNIQUE constraint failed: orders.order_number"), true},
		{"unrelated", errors.New("syntax error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicateKey(tt.err))
		})
	}
}

func TestIsUnavailable(t *testing.T) {
	assert.False(t, IsUnavailable(nil))
	assert.True(t, IsUnavailable(context.DeadlineExceeded))
	assert.True(t, IsUnavailable(fmt.Errorf("query: %w", driver.ErrBadConn)))
	assert.True(t, IsUnavailable(sql.ErrConnDone))
	assert.False(t, IsUnavailable(errors.New("syntax error")))
}

func TestTranslateError(t *testing.T) {
	ctx := context.Background()
	notFound := shared.ErrNotFound.WithMessage("Thing not found")

	assert.NoError(t, translateError(ctx, nil, notFound))
	assert.Equal(t, notFound, translateError(ctx, gorm.ErrRecordNotFound, notFound))
	assert.True(t, errors.Is(translateError(ctx, &pgconn.PgError{Code: "23505"}, notFound), shared.ErrDuplicateIdentifier))
	assert.True(t, errors.Is(translateError(ctx, driver.ErrBadConn, notFound), shared.ErrStoreUnavailable))

	other := errors.New("boom")
	assert.Equal(t, other, translateError(ctx, other, notFound))

	expired, cancel := context.WithDeadline(ctx, time.Now().Add(-time.Second))
	defer cancel()
	assert.True(t, errors.Is(translateError(expired, errors.New("canceled"), notFound), shared.ErrStoreUnavailable))
}

func TestGormOrderRepository_FindByID_NotFound(t *testing.T) {
	repo, mock, mockDB := newMockOrderRepository(t)
	defer mockDB.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), id)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOrderRepository_Count_WithStatus(t *testing.T) {
	repo, mock, mockDB := newMockOrderRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE status = \$1`).
		WithArgs("completed").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.Count(context.Background(), order.WithStatus(order.StatusCompleted))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOrderRepository_QueryTimeout(t *testing.T) {
	repo, mock, mockDB := newMockOrderRepository(t, WithQueryTimeout(20*time.Millisecond))
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "orders"`).
		WillDelayFor(500 * time.Millisecond).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := repo.Count(context.Background(), order.Filter{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrStoreUnavailable))
}

func TestGormOrderRepository_StoreError(t *testing.T) {
	repo, mock, mockDB := newMockOrderRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "orders"`).
		WillReturnError(&net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")})

	_, err := repo.CountCreatedSince(context.Background(), time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrStoreUnavailable))
}
