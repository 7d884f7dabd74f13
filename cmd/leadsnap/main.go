package main

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "leadsnap",
		Short:         "Turn the open WhatsApp Web chat into a classified sales lead",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("data-dir", "", "Data directory (default $LEADSNAP_DATA_DIR or .)")

	root.AddCommand(
		newServeCmd(),
		newSnapCmd(),
		newScrapeCmd(),
		newLeadsCmd(),
		newKeyCmd(),
		newConfigCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}
