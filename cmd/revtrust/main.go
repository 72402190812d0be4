// Command revtrust checks that the checkout of a git data repository is
// recent and signed before its contents are used.
package main

import (
	"os"

	"github.com/meigma/revtrust/cmd/revtrust/commands"
)

func main() {
	os.Exit(commands.Execute())
}
