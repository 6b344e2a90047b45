package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// pingCmd verifies both API connections.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Test the Nessus and Netbox connections",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := context.Background()
		var errs []error
		if err := e.nessus.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("nessus: %w", err))
		} else {
			e.logger.Info("Nessus connection OK", zap.String("url", e.cfg.Nessus.URL))
		}
		if err := e.netbox.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("netbox: %w", err))
		} else {
			e.logger.Info("Netbox connection OK", zap.String("url", e.cfg.Netbox.URL))
		}
		return errors.Join(errs...)
	},
}

func init() {
	RootCmd.AddCommand(pingCmd)
}
