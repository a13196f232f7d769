// Command presencectl evaluates presence windows from the command line.
package main

import (
	"os"

	"github.com/okian/presence/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
