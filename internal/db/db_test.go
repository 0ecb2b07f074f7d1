package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeCraft-Studio/studio-site/internal/config"
	"github.com/CodeCraft-Studio/studio-site/internal/db"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	gdb, err := db.Open(&config.Config{DB: config.DB{GormEngine: config.EngineSQLite}})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	for _, table := range []string{"users", "experts", "expert_expertise", "services",
		"service_features", "service_benefits", "industries"} {
		assert.True(t, gdb.Migrator().HasTable(table), table)
	}

	var fk int
	require.NoError(t, gdb.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}

func TestOpenUnknownEngine(t *testing.T) {
	_, err := db.Open(&config.Config{DB: config.DB{GormEngine: "oracle"}})
	require.ErrorIs(t, err, config.ErrUnknownGormEngine)
}
