// Command idlibdump extracts the type reflection table of a running
// 64-bit process and writes it as JSON.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "idlibdump: %v\n", err)
		os.Exit(1)
	}
}
