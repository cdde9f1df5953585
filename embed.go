package oni

import "embed"

// MigrationsFS holds the SQL migrations applied at startup.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
