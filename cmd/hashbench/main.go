// Command hashbench compares chained hash table lookups against linear
// scans over a product dataset.
package main

import (
	"fmt"
	"os"

	"github.com/eunmann/hashbench/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
