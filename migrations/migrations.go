package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is the registry cmd/migrate runs. Each file registers itself;
// the version is taken from the file name.
var Migrations = migrate.NewMigrations()
