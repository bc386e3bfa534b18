// Package migration applies versioned SQL migrations to SQLite databases.
//
// Migration files follow the naming convention {version}_{description}.sql
// (e.g. "001_floor_snapshots.sql") and are read from an fs.FS, usually an
// embedded directory. Applied versions are tracked in a schema_migrations table
// and each migration runs in its own transaction.
//
// Example usage:
//
//	manager := NewManager(NewScanner(files, "migrations"), NewSQLiteExecutor(db), logger)
//	if err := manager.RunMigrations(ctx); err != nil {
//		return err
//	}
package migration
