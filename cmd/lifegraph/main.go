package main

import (
	"oss.terrastruct.com/lifegraph/lgcli"
	"oss.terrastruct.com/lifegraph/lib/xmain"
)

func main() {
	xmain.Main(lgcli.Run)
}
