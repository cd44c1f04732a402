// Command nioconv converts text between character sets.
package main

import (
	"os"

	"github.com/oy3o/nio/cmd/nioconv/command"
)

func main() {
	if err := command.Root.Execute(); err != nil {
		os.Exit(1)
	}
}
