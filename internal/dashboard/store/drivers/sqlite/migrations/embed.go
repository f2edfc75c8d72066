// Package migrations embeds the SQL migration files for the sqlite driver.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
