// Command validate checks the symbol pool JSON files in the ../pools
// directory. For every file it checks:
//   - JSON structure and the required name
//   - At least one symbol, with no blank or repeated symbols
//
// Valid files are listed with the largest grid they can fill for each group
// size. The command exits with a non-zero status if any file is invalid.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/wricardo/mcp-training/tilematch/game/pool"
)

const poolsDir = "../pools"

func main() {
	dir := poolsDir
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	os.Exit(run(os.Stdout, dir))
}

// run validates every pool file in dir and returns the process exit code.
func run(w io.Writer, dir string) int {
	results, err := pool.ValidateDir(dir)
	if err != nil {
		fmt.Fprintf(w, "Error finding pool files: %v\n", err)
		return 1
	}
	if !pool.WriteReport(w, results) {
		return 1
	}
	return 0
}
