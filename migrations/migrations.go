// Package migrations embeds the SurrealQL schema applied at startup and
// by the integration test database.
package migrations

import "embed"

// Files holds every *.surql migration, applied in lexical order.
//
//go:embed *.surql
var Files embed.FS
