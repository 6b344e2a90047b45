package cmd

import (
	"context"
	"os"

	"agent-reconciler/core/report"
	"agent-reconciler/feature/comparison"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	compareJSON     bool
	compareNoCache  bool
	compareStrategy string
	compareUpload   bool
)

// compareCmd runs one reconciliation.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare Nessus agents with Netbox devices and VMs",
	Long: `Fetches the three populations, reconciles them and writes
comparison_results.json to the output directory.

Examples:
  # Summary on the console
  compare

  # Full document on stdout, always calling the APIs
  compare --json --no-cache

  # Reference matcher, archived to object storage
  compare --strategy linear --upload`,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "Print the comparison document to stdout")
	compareCmd.Flags().BoolVar(&compareNoCache, "no-cache", false, "Ignore cached snapshots")
	compareCmd.Flags().StringVar(&compareStrategy, "strategy", "", "Matcher strategy (indexed, linear)")
	compareCmd.Flags().BoolVar(&compareUpload, "upload", false, "Archive the document to object storage (default from comparison.upload)")
	RootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	e, err := setup(true)
	if err != nil {
		return err
	}
	defer e.Close()

	opts := e.service.DefaultRunOptions()
	opts.NoCache = compareNoCache
	if cmd.Flags().Changed("upload") {
		opts.Upload = compareUpload
	}
	if compareStrategy != "" {
		if opts.Strategy, err = comparison.ParseStrategy(compareStrategy); err != nil {
			return err
		}
	}

	res, err := e.service.Run(context.Background(), opts)
	if err != nil {
		return err
	}

	if compareJSON {
		return report.Encode(os.Stdout, res.Document)
	}
	printComparison(e.logger, res)
	return nil
}

// printComparison logs the summary and a sample of unmatched agents.
func printComparison(l *zap.Logger, res *comparison.Result) {
	doc := res.Document
	s := doc.Summary
	l.Info("Comparison summary",
		zap.Int("total_agents", s.TotalAgents),
		zap.Int("total_devices", s.TotalDevices),
		zap.Int("total_vms", s.TotalVMs),
		zap.Int("matched_with_devices", s.MatchedWithDevices),
		zap.Int("matched_with_vms", s.MatchedWithVMs),
		zap.Int("unmatched_agents", s.UnmatchedAgents),
		zap.Int("unmatched_devices", s.UnmatchedDevices),
		zap.Int("unmatched_vms", s.UnmatchedVMs),
	)

	d := doc.Details
	l.Info("Comparison details",
		zap.Int("hostname_matches", d.MatchType.HostnameMatches),
		zap.Int("ip_matches", d.MatchType.IPMatches),
		zap.Int("status_mismatches", d.Status.StatusMismatches),
		zap.Int("platform_mismatches", d.Platform.PlatformMismatches),
		zap.Float64("coverage_percentage", d.Coverage.CoveragePercentage),
		zap.Float64("agent_coverage_percentage", d.Coverage.AgentCoveragePercentage),
	)

	maxShow := min(5, len(doc.UnmatchedAgents))
	for _, raw := range doc.UnmatchedAgents[:maxShow] {
		l.Info("Unmatched agent", zap.ByteString("agent", raw))
	}
	if len(doc.UnmatchedAgents) > maxShow {
		l.Info("Additional unmatched agents not shown", zap.Int("count", len(doc.UnmatchedAgents)-maxShow))
	}

	l.Info("Results written", zap.String("path", res.Path), zap.String("archive_key", res.ArchiveKey))
}
