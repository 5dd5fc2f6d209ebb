// Command gradient renders slope-coloured elevation profiles of GPX tracks.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
