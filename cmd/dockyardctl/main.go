// Command dockyardctl is the CLI front-end for the corvus control plane
// daemon. every subcommand talks to dockyardd over its Unix control
// socket; dockyardctl never touches Docker or the project store directly.
package main

import (
	"fmt"
	"os"

	"github.com/sasta-kro/corvus-paas/corvus-control-plane/cmd/dockyardctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
