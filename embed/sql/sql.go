package sql

import _ "embed"

// Schema creates the key-value table backing the task store.
//
//go:embed schema.sql
var Schema string
