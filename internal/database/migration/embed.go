package migration

import "embed"

//go:embed migrations/*.sql
var Files embed.FS

// Default returns a Runner over the embedded migration files.
func Default() Runner {
	return Runner{FS: Files, Dir: "migrations"}
}
