// Package migrations embeds the SQL migrations applied to every context store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
