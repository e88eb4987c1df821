// Package migrations embeds the SQL schema in golang-migrate layout:
// NNNNNN_name.up.sql applies a version, NNNNNN_name.down.sql reverts it.
package migrations

import "embed"

//go:embed *.sql
var files embed.FS

// FS returns the embedded migration files.
func FS() embed.FS {
	return files
}
