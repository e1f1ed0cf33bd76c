package lgcli

import (
	"fmt"
	"path/filepath"

	"oss.terrastruct.com/lifegraph/lib/version"
	"oss.terrastruct.com/lifegraph/lib/xmain"
)

func help(ms *xmain.State) {
	fmt.Fprintf(ms.Stdout, `%[1]s %[2]s
Usage:
  %[1]s [--watch=false] [--open=false] poster.yml [poster.svg | poster.json]
  %[1]s version

%[1]s lays out the life events, eras and era spans listed in poster.yml (or
poster.toml) on a grid of weeks and renders it to poster.svg. Writing to a .json
file exports the layout instead of drawing it.
It defaults to poster.svg if an output path is not provided.

Use - to have %[1]s read YAML from stdin or write to stdout.

Flags:
%[3]s

Subcommands:
  %[1]s version - Print the version
`, filepath.Base(ms.Name), version.Version, ms.Opts.Help())
}
