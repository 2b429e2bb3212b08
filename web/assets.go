package webassets

import "embed"

// Files contains the embedded dashboard pages and static assets.
//
// Keep this broad enough so page updates are automatically packaged in binaries.
//
//go:embed *.html static
var Files embed.FS
