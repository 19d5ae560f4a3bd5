package database

import (
	"embed"

	migrate "github.com/rubenv/sql-migrate"
	"gorm.io/gorm"
)

//go:embed migrations/identity/*.sql migrations/insurance/*.sql migrations/contact/*.sql
var migrationFiles embed.FS

// Migrate applies the ordered migration log of each schema against its own
// connection. Each schema keeps its own gorp_migrations bookkeeping table.
func (s *DB) Migrate() error {
	log := s.log.Function("Migrate")

	schemas := []struct {
		name string
		db   *gorm.DB
	}{
		{"identity", s.Identity},
		{"insurance", s.Insurance},
		{"contact", s.Contact},
	}

	for _, schema := range schemas {
		source := &migrate.EmbedFileSystemMigrationSource{
			FileSystem: migrationFiles,
			Root:       "migrations/" + schema.name,
		}

		sqlDB, err := schema.db.DB()
		if err != nil {
			return log.Err("failed to get sql.DB for migrations", err, "schema", schema.name)
		}

		applied, err := migrate.Exec(sqlDB, "sqlite3", source, migrate.Up)
		if err != nil {
			return log.Err("failed to apply migrations", err, "schema", schema.name)
		}

		if applied > 0 {
			log.Info("Applied migrations", "schema", schema.name, "count", applied)
		}
	}

	return nil
}
