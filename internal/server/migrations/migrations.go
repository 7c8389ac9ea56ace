// Package migrations embeds the goose SQL migrations for the parole core
// schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
