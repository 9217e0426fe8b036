package migrations

import "embed"

// Migration files are embedded at compile time so the cache schema ships
// inside the binary, one set per supported driver.
//
//go:embed sqlite/*.sql
var SqliteMigrations embed.FS

//go:embed postgres/*.sql
var PostgresMigrations embed.FS
