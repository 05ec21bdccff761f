package sql

import "embed"

// Migrations holds the schema migration files applied by db.ApplyMigrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/insert_run.sql
var InsertRun string

//go:embed queries/insert_clarification.sql
var InsertClarification string

//go:embed queries/insert_duplicate_group.sql
var InsertDuplicateGroup string
