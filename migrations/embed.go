// Package migrations holds the SQL schema applied by the database migrator.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
