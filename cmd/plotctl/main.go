// Command plotctl imports measurement files into a plot workspace and
// derives, summarises, renders and exports its graphs from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/banshee-data/gpuplot/internal/fsutil"
)

func main() {
	a := &app{fs: fsutil.OSFileSystem{}, out: os.Stdout}
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
