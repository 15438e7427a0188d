// Package migrations embeds the SQL migration files for the trips and
// audit_logs tables so the goose programmatic API can apply them in tests
// and at server bootstrap.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
// Pass this to goose.UpFS / goose.DownToFS instead of relying on
// a filesystem path at runtime.
//
//go:embed *.sql
var FS embed.FS
