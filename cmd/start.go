package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"agent-reconciler/core/loader"
	"agent-reconciler/core/logger"
	"agent-reconciler/core/middleware/auth"
	"agent-reconciler/core/middleware/rayid"
	"agent-reconciler/feature/comparison"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "agent-reconciler/docs/swagger"
)

// @title Agent Reconciler API
// @version 1.0
// @description Reconciles Nessus agents against Netbox devices and virtual machines.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the reconciliation API server",
	Long: `Starts the HTTP server, loads all enabled features and, when
comparison.schedule_interval_minutes is set, runs comparisons periodically.`,
	RunE: runStart,
}

func init() {
	RootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	e, err := setup(true)
	if err != nil {
		return err
	}
	defer e.Close()
	cfg, logg := e.cfg, e.logger
	zap.ReplaceGlobals(logg)

	if err := cfg.Server.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           cfg.Server.ReadTimeout(),
		WriteTimeout:          cfg.Server.WriteTimeout(),
	})

	mgr := loader.NewManager()
	mgr.Register(comparison.NewFeature(e.service))

	// Ray id first so every later log line carries it.
	app.Use(rayid.New())
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	if cfg.Server.Swagger {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}
	app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Skip: []string{"/swagger"}}))
	if cfg.Server.ApiKey == "" {
		logg.Warn("API key is empty, authentication is disabled")
	}

	loaded, err := mgr.LoadAll(app)
	if err != nil {
		return fmt.Errorf("failed to load features: %w", err)
	}
	logg.Info("Features loaded", zap.Strings("features", loaded))

	if interval := cfg.Comparison.ScheduleInterval(); interval > 0 {
		sched, err := comparison.NewScheduler(ctx, e.service, interval)
		if err != nil {
			return err
		}
		sched.Start()
		defer func() {
			if err := sched.Shutdown(); err != nil {
				logg.Error("Error shutting down scheduler", zap.Error(err))
			}
		}()
		logg.Info("Scheduled comparisons", zap.Duration("interval", interval))
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("port", cfg.Server.Port))
		errCh <- app.Listen(cfg.Server.Addr())
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logg.Info("Shutting down server...")
	return app.Shutdown()
}
