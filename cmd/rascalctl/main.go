// Command rascalctl is a thin CLI wrapper around the rascal package (§1
// names it as an out-of-core collaborator, not part of the library
// itself): validate a topology file, run a broker process with the
// management/metrics servers wired in, or exercise publish/subscribe by
// hand against a live broker. Bootstrap shape (config.LoadConfig,
// logging.Init, signal-driven graceful shutdown) is grounded on the
// teacher's cmd/ottermq/main.go.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "rascalctl",
		Short: "Inspect and drive a rascal-go topology from the command line",
	}
	root.AddCommand(newValidateCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newPublishCmd())
	root.AddCommand(newSubscribeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
