// Package assets carries files compiled into the binaries.
package assets

import "embed"

// Migrations holds the Postgres schema for the snapshot backend.
//
//go:embed migrations/*.sql
var Migrations embed.FS
