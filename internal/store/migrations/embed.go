package migrations

import "embed"

// FS holds the SQL migrations applied to a namespace store.
//
//go:embed *.sql
var FS embed.FS
