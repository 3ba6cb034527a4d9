package main

import (
	"github.com/railtix/railtix/cmd/cli"
)

// main delegates to the cli package.
func main() {
	cli.Execute()
}
