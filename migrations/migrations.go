// Package migrations holds the versioned schema applied before the service
// starts serving requests.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
