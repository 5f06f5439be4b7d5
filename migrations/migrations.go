// Package migrations embeds the PostgreSQL schema migrations so the binary
// does not depend on its working directory.
package migrations

import "embed"

// FS holds the numbered up/down SQL files.
//
//go:embed *.sql
var FS embed.FS
