package migrations

import "embed"

// FS holds the SQL migrations for every supported driver, one directory each.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
