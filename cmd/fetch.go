package cmd

import (
	"context"
	"os"

	"agent-reconciler/core/report"
	"agent-reconciler/feature/inventory"
	"agent-reconciler/feature/nessus"
	"agent-reconciler/feature/netbox"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fetchJSON bool

var fetchKinds = map[string]inventory.Kind{
	"agents":  inventory.Agents,
	"devices": inventory.Devices,
	"vms":     inventory.VMs,
}

// fetchCmd fetches one population and caches it as a snapshot.
var fetchCmd = &cobra.Command{
	Use:       "fetch agents|devices|vms",
	Short:     "Fetch and cache one population",
	Long:      `Fetches Nessus agents, Netbox devices or Netbox VMs, stores the snapshot in the output directory and prints statistics.`,
	ValidArgs: []string{"agents", "devices", "vms"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:      runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "Print statistics as JSON")
	RootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	e, err := setup(false)
	if err != nil {
		return err
	}
	defer e.Close()

	kind := fetchKinds[args[0]]
	data, err := e.service.Fetch(context.Background(), kind)
	if err != nil {
		return err
	}

	var stats any
	if kind == inventory.Agents {
		stats = nessus.Stats(data)
	} else {
		stats = netbox.Stats(data)
	}

	if fetchJSON {
		return report.Encode(os.Stdout, stats)
	}
	e.logger.Info("Fetched population",
		zap.String("kind", string(kind)),
		zap.Int("count", len(data)),
		zap.Any("statistics", stats),
	)
	return nil
}
