// Package migrations embeds the SQL migration files so the goose
// programmatic API can run them from tests and server bootstrap.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
