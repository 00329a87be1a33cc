// Command clea generates keys, encodes and decodes venue QR codes and runs
// a venue display that renews its deep link on schedule.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
