package main

import (
	"context"
	"fmt"

	"github.com/Bhupesh-S/SmartShop-AI/internal/storefront"
	"github.com/Bhupesh-S/SmartShop-AI/pkg/config"
	"github.com/Bhupesh-S/SmartShop-AI/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type cli struct {
	app  *storefront.App
	logg *logger.Logger
}

func newRootCommand() *cobra.Command {
	state := &cli{}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "SmartShop storefront client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return state.boot(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			state.shutdown()
		},
	}

	root.AddCommand(
		newProductsCommand(state),
		newSearchCommand(state),
		newCartCommand(state),
		newLoginCommand(state),
		newSignupCommand(state),
		newLogoutCommand(state),
		newWhoamiCommand(state),
		newChatCommand(state),
		newRecommendCommand(state),
		newFindImageCommand(state),
		newReviewCommand(state),
		newCheckoutCommand(state),
	)
	return root
}

func (c *cli) boot(ctx context.Context) error {
	logg := logger.New(logger.Options{ServiceName: "storefront", Level: zerolog.InfoLevel})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		return err
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	app, err := storefront.New(ctx, storefront.Params{
		Config:   cfg,
		Logger:   logg,
		Registry: prometheus.NewRegistry(),
	})
	if err != nil {
		logg.Error(ctx, "failed to bootstrap storefront", err)
		return err
	}

	c.app = app
	c.logg = logg
	return nil
}

func (c *cli) shutdown() {
	if c.app != nil {
		c.app.Close()
	}
}

func (c *cli) requireCatalog(ctx context.Context) error {
	if c.app.Catalog() != nil {
		return nil
	}
	if err := c.app.LoadCatalog(ctx); err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	return nil
}
