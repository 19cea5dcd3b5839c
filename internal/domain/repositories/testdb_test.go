package repositories

import (
	"path/filepath"
	"testing"

	"github.com/palacios-io/attribution-api/internal/infrastructure/database/migrations"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB sobe um banco sqlite descartável com o mesmo schema e os mesmos
// índices da migração de produção
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := migrations.Migrate(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	if err := migrations.AddConstraints(db); err != nil {
		t.Fatalf("adding constraints: %v", err)
	}

	return db
}
