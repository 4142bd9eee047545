package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/pitcher-luck/internal/config"
	"github.com/pfrederiksen/pitcher-luck/internal/export"
	"github.com/pfrederiksen/pitcher-luck/internal/logger"
	"github.com/pfrederiksen/pitcher-luck/internal/server"
	"github.com/pfrederiksen/pitcher-luck/internal/storage"
)

var (
	flagHost     string
	flagPort     int
	flagOutDir   string
	flagCharts   bool
	flagNoVerify bool
	flagCleanOut bool
	flagCleanAll bool
	flagCheckURL string
	flagJSONOut  bool
)

// applyListen overrides the configured listener with --host and --port.
func applyListen(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Host = flagHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = flagPort
	}
}

func addListenFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagHost, "host", config.DefaultHost, "Interface to listen on")
	cmd.Flags().IntVar(&flagPort, "port", config.DefaultPort, "Port to listen on")
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Serve the live dashboard",
		Long: `Load every configured season and serve the interactive dashboard.
Each browser keeps its own filters. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applyListen(cmd, cfg)

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			store, err := loadStore(ctx, cfg)
			if err != nil {
				return err
			}

			srv := server.New(store, server.Options{CORSOrigins: cfg.CORSOrigins})
			return srv.Run(ctx, cfg.Addr())
		},
	}
	addListenFlags(cmd)
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the dashboard as a static site",
		Long: `Pre-render one page per season, sort column, direction and row limit,
with charts and images, into a directory that any static file host can
serve. The team filter needs the live server and is not exported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("out") {
				cfg.ExportDir = flagOutDir
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			store, err := loadStore(ctx, cfg)
			if err != nil {
				return err
			}

			if flagCleanOut {
				if err := export.Clean(cfg.ExportDir); err != nil {
					return err
				}
			}

			result, err := export.Export(ctx, store, export.Options{Dir: cfg.ExportDir, Charts: flagCharts})
			if err != nil {
				return fmt.Errorf("exporting: %w", err)
			}

			if !flagNoVerify {
				if _, err := export.Verify(cfg.ExportDir); err != nil {
					return fmt.Errorf("verifying export: %w", err)
				}
			}

			if flagJSONOut {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			abs, _ := filepath.Abs(result.Dir)
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d pages, %d charts and %d images to %s\n",
				result.Pages, result.Charts, result.Images, abs)
			return nil
		},
	}
	cmd.Flags().StringVar(&flagOutDir, "out", config.DefaultExportDir, "Output directory")
	cmd.Flags().BoolVar(&flagCharts, "charts", true, "Render a run support chart for every page")
	cmd.Flags().BoolVar(&flagNoVerify, "no-verify", false, "Skip the broken link check after exporting")
	cmd.Flags().BoolVar(&flagCleanOut, "clean", false, "Remove the output directory before exporting")
	cmd.Flags().BoolVar(&flagJSONOut, "json", false, "Print the export summary as JSON")
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview an exported site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applyListen(cmd, cfg)
			if cmd.Flags().Changed("dir") {
				cfg.ExportDir = flagOutDir
			}

			if _, err := os.Stat(filepath.Join(cfg.ExportDir, export.IndexFile)); err != nil {
				return fmt.Errorf("no export in %s, run 'pitcher-luck export' first: %w", cfg.ExportDir, err)
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return server.ServeStatic(ctx, cfg.Addr(), cfg.ExportDir)
		},
	}
	addListenFlags(cmd)
	cmd.Flags().StringVar(&flagOutDir, "dir", config.DefaultExportDir, "Exported site directory")
	return cmd
}

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the exported site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dir") {
				cfg.ExportDir = flagOutDir
			}

			if err := export.Clean(cfg.ExportDir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", cfg.ExportDir)

			if !flagCleanAll {
				return nil
			}
			dir := cfg.CacheDir
			if dir == "" {
				dir = config.DefaultCacheDir
			}
			return clearCache(cmd.Context(), dir, cmd)
		},
	}
	cmd.Flags().StringVar(&flagOutDir, "dir", config.DefaultExportDir, "Exported site directory")
	cmd.Flags().BoolVar(&flagCleanAll, "cache", false, "Also clear the season cache")
	return cmd
}

func clearCache(ctx context.Context, dir string, cmd *cobra.Command) error {
	st, err := storage.New(dir)
	if err != nil {
		return fmt.Errorf("opening season cache: %w", err)
	}
	defer st.Close()

	if err := st.Clear(ctx); err != nil {
		return err
	}
	logger.Info("season cache cleared", logger.Fields{"path": st.Path()})
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared season cache %s\n", st.Path())
	return nil
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Crawl a running dashboard for broken links and images",
		Long: `Fetch the root page of a running dashboard (live or exported) and
follow every local link and image, reporting anything that does not answer
200 OK.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			target := flagCheckURL
			if target == "" {
				target = "http://" + cfg.Addr() + "/"
			}

			report, err := export.NewChecker().Check(cmd.Context(), target)
			if report != nil && flagJSONOut {
				if werr := writeJSON(cmd.OutOrStdout(), report); werr != nil {
					return werr
				}
			} else if report != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Checked %d pages and %d references, %d broken\n",
					report.Pages, report.Refs, len(report.Broken))
				for _, b := range report.Broken {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s -> %s\n", b.Page, b.Ref)
				}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&flagCheckURL, "url", "", "Base URL (default http://<host>:<port>/ from the config)")
	cmd.Flags().BoolVar(&flagJSONOut, "json", false, "Print the report as JSON")
	return cmd
}
