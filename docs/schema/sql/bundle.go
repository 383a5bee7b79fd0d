// Package sqldocs exposes the snapshot-table DDL bundles directly from the docs tree.
package sqldocs

import _ "embed"

// SQLite contains the snapshot-table SQLite DDL.
//
//go:embed sqlite.sql
var SQLite string

// Postgres contains the snapshot-table Postgres DDL.
//
//go:embed postgres.sql
var Postgres string
