// Command dasha computes Vimshottari dasha timelines.
package main

import (
	"os"

	"github.com/roach88/dasha/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
