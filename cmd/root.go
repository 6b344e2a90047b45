package cmd

import (
	"fmt"
	"os"

	"agent-reconciler/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "agent-reconciler",
	Short: "Nessus agent to Netbox reconciliation",
	Long: `Agent Reconciler matches Nessus agents against Netbox devices and
virtual machines by hostname and IP address and reports coverage gaps.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Debug config gives ISO8601 timestamps on the console.
		l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
