package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"karya.dev/internal/build"
)

var (
	buildOut   string
	buildFrom  string
	buildWatch bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render every page in both languages to static files",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if buildOut != "" {
			cfg.OutDir = buildOut
		}
		if buildFrom != "" {
			cfg.SiteURL = buildFrom
		}
		if buildWatch && cfg.SiteURL != "" {
			return fmt.Errorf("--watch needs a local site directory, not %s", cfg.SiteURL)
		}
		src, err := cfg.Source()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		b := build.NewBuilder(cfg.SiteDir, cfg.OutDir, cfg.Site, logger).WithSource(src)
		if _, err := b.Run(ctx); err != nil {
			return err
		}
		if !buildWatch {
			return nil
		}

		w, err := build.NewWatcher(cfg.SiteDir, cfg.OutDir, build.DefaultDebounce, func(ctx context.Context) error {
			_, err := b.Run(ctx)
			return err
		}, logger)
		if err != nil {
			return err
		}
		logger.Info("watching for changes")
		return w.Run(ctx)
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "Output directory (overrides PORTFOLIO_OUT_DIR)")
	buildCmd.Flags().StringVar(&buildFrom, "from", "", "Read pages from a deployed site URL (overrides PORTFOLIO_SITE_URL)")
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "Rebuild when the site directory changes")
}
