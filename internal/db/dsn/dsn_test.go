package dsn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CodeCraft-Studio/studio-site/internal/config"
	"github.com/CodeCraft-Studio/studio-site/internal/db/dsn"
)

func TestCreate(t *testing.T) {
	db := config.DB{
		Host:     "localhost",
		Port:     3306,
		User:     "studio",
		Password: "secret",
		Name:     "site",
		Extras:   "parseTime=true",
	}

	tests := []struct {
		name   string
		engine string
		port   int
		path   string
		want   string
	}{
		{
			name:   "mysql",
			engine: config.EngineMySQL,
			port:   3306,
			want:   "studio:secret@tcp(localhost:3306)/site?parseTime=true",
		},
		{
			name:   "postgres",
			engine: config.EnginePostgres,
			port:   5432,
			want:   "host=localhost port=5432 user=studio password=secret dbname=site parseTime=true",
		},
		{
			name:   "sqlite",
			engine: config.EngineSQLite,
			path:   "studio.db",
			want:   "studio.db?_pragma=foreign_keys(1)",
		},
		{
			name:   "sqlite with query",
			engine: config.EngineSQLite,
			path:   "file:studio.db?cache=shared",
			want:   "file:studio.db?cache=shared&_pragma=foreign_keys(1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{DB: db}
			cfg.DB.GormEngine = tt.engine
			cfg.DB.Port = tt.port
			cfg.DB.Path = tt.path

			assert.Equal(t, tt.want, dsn.Create(cfg))
		})
	}
}
