// Command moleculectl is the reference CLI for the molecular transaction
// engine: derive wallets, build and sign molecules, and submit them to a
// node.
package main

import (
	"github.com/shadowy/molecule/internal/cli"
)

func main() {
	cli.Execute()
}
