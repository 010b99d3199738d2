// Package migrations embeds the SQL schema for every supported store.
package migrations

import "embed"

// Postgres holds the golang-migrate files under postgres/.
//
//go:embed postgres/*.sql
var Postgres embed.FS

// SQLite holds the golang-migrate files under sqlite/.
//
//go:embed sqlite/*.sql
var SQLite embed.FS
