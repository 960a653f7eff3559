//go:build integration

package migrations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-console/internal/platform/migrations"
	"github.com/Apurer/storefront-console/internal/platform/postgres/pgtest"
)

func TestRunCreatesEveryTable(t *testing.T) {
	db, cleanup := pgtest.Setup(t)
	defer cleanup()

	require.NoError(t, migrations.Run(db))
	require.NoError(t, migrations.Run(db))

	for _, table := range migrations.Tables() {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
