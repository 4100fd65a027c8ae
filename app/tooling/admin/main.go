// This program performs administrative tasks against a running ledger node
// and its snapshots.
package main

import (
	"fmt"
	"os"

	"github.com/ardanlabs/ledger/app/tooling/admin/commands"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {
	root, err := commands.NewRootCmd(build)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}
