// Package version holds the lifegraph version. Release builds set Version with
// -ldflags "-X oss.terrastruct.com/lifegraph/lib/version.Version=...".
package version

var Version = "v0.1.0-HEAD"
