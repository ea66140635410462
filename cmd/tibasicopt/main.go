// Command tibasicopt rewrites TI-BASIC programs to a smaller or faster
// equivalent, reading either a plain-text program or a .8xp calculator
// file and writing the rewritten form back out the same way.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
