package migrations

import "embed"

// FS содержит SQL миграции goose для PostgreSQL
//
//go:embed *.sql
var FS embed.FS
