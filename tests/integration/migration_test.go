package integration

import (
	"testing"

	"github.com/clothstore/backend/internal/infrastructure/migration"
	"github.com/clothstore/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func tableExists(t *testing.T, tdb *TestDB, name string) bool {
	t.Helper()
	var exists bool
	require.NoError(t, tdb.DB.Raw(
		"SELECT EXISTS (SELECT 1 FROM pg_tables WHERE schemaname = 'public' AND tablename = ?)", name,
	).Scan(&exists).Error)
	return exists
}

func TestMigrations_EmbeddedSet(t *testing.T) {
	list, err := migration.ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "000001_create_orders", list[0].String())
	assert.Equal(t, "000002_create_products", list[1].String())
	for _, m := range list {
		assert.True(t, m.HasDown, m.String())
	}
}

func TestMigrations_UpStepDown(t *testing.T) {
	tdb := NewEmptyTestDB(t)

	m, err := migration.New(tdb.SqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)

	require.NoError(t, m.Up())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.True(t, tableExists(t, tdb, "orders"))
	assert.True(t, tableExists(t, tdb, "order_items"))
	assert.True(t, tableExists(t, tdb, "products"))

	// a second Up is a no-op
	require.NoError(t, m.Up())

	require.NoError(t, m.Steps(-1))
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, tableExists(t, tdb, "products"))
	assert.True(t, tableExists(t, tdb, "orders"))

	require.NoError(t, m.Down())
	assert.False(t, tableExists(t, tdb, "orders"))

	require.NoError(t, m.GoTo(2))
	assert.True(t, tableExists(t, tdb, "products"))
}

func TestMigrations_OrderNumberIsUnique(t *testing.T) {
	tdb := NewSharedTestDB(t)

	insert := `INSERT INTO orders (id, order_number, customer_name, customer_phone, customer_address, total_amount)
		VALUES (gen_random_uuid(), 'ORD001', 'Ayesha', '0300', 'Lahore', 10)`
	require.NoError(t, tdb.DB.Exec(insert).Error)
	assert.Error(t, tdb.DB.Exec(insert).Error)
}
