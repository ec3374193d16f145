package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/leyumyum/leyum-web/internal/config"
	"github.com/leyumyum/leyum-web/internal/foodapi"
	"github.com/leyumyum/leyum-web/internal/logging"
	"github.com/leyumyum/leyum-web/internal/schedule"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the web backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), verbose)
		},
	}
	check := &cobra.Command{
		Use:   "check",
		Short: "Probe the food recommendation API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.APITimeout)
			defer cancel()
			status, err := foodapi.NewClient(cfg.APIBaseURL, cfg.APITimeout, nil).Health(ctx)
			if err != nil {
				return fmt.Errorf("%s: %s", cfg.APIBaseURL, foodapi.UserMessage(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", cfg.APIBaseURL, status)
			return nil
		},
	}

	root := &cobra.Command{
		Use:          "leyum",
		Short:        "Leyum food recommendation backend",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	root.AddCommand(serve, check)
	return root
}

func runServe(ctx context.Context, verbose bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	client := foodapi.NewClient(cfg.APIBaseURL, cfg.APITimeout, log)
	srv := newServer(cfg, client, schedule.Real, log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if _, err := srv.catalog.Refresh(ctx); err != nil {
			log.Warn("initial catalog load failed, serving fallback", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		return srv.registry.Run(ctx, cfg.SweepInterval)
	})
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr), zap.String("api", cfg.APIBaseURL))
		return srv.app.Listen(cfg.Addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.app.ShutdownWithContext(shutdownCtx)
		srv.registry.Close()
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("stopped")
	return nil
}
