package cmd

import (
	"context"
	"os"

	"agent-reconciler/core/report"

	"github.com/spf13/cobra"
)

var searchNoCache bool

// searchCmd finds records by IP address.
var searchCmd = &cobra.Command{
	Use:   "search <ip>",
	Short: "Find agents, devices and VMs by IP address",
	Long:  `Searches the cached populations, fetching any that are missing, for records carrying the address. Prints JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchNoCache, "no-cache", false, "Fetch from the APIs instead of snapshots")
	RootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	e, err := setup(false)
	if err != nil {
		return err
	}
	defer e.Close()

	res, err := e.service.SearchIP(context.Background(), args[0], searchNoCache)
	if err != nil {
		return err
	}
	return report.Encode(os.Stdout, res)
}
