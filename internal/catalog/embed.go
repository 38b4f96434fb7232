package catalog

import "embed"

// resourceFS carries the default framework pack: the index plus one
// document per framework.
//
//go:embed resources
var resourceFS embed.FS
