package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"lensdl/pkg/logger"
	"lensdl/pkg/metrics"
	"lensdl/pkg/scraper"
	"lensdl/pkg/ui"
)

var (
	outputDir     string
	directoryFmt  string
	filenameFmt   string
	concurrent    int
	archivePath   string
	writeMetadata bool
	overwrite     bool
	metricsAddr   string
	notify        bool
)

var getCmd = &cobra.Command{
	Use:   "get <url>...",
	Short: "Download every file behind one or more lensdump URLs",
	Long: `Download images from lensdump.com.

Supported URLs:
  https://lensdump.com/i/<key>          a single image
  https://lensdump.com/a/<id>           an album
  https://lensdump.com/<user>           a user's gallery
  https://lensdump.com/<user>/albums    every album of a user

The scheme is optional. Files go to <output>/lensdump/ for images and
<output>/lensdump/<id> <title>/ for albums unless --directory is given.`,
	Example: `  # Download an album
  lensdl get https://lensdump.com/a/1IhJr

  # Download all albums of a user, 5 at a time, remembering what was fetched
  lensdl get lensdump.com/vstar925/albums --concurrent 5 --archive ~/.lensdl.db

  # Custom layout with metadata sidecars
  lensdl get lensdump.com/i/tyoAyM --filename "{id}.{extension}" --write-metadata`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&outputDir, "output", "o", "", "base output directory")
	getCmd.Flags().StringVarP(&directoryFmt, "directory", "d", "", "directory template, segments separated by '/'")
	getCmd.Flags().StringVarP(&filenameFmt, "filename", "f", "", "file name template")
	getCmd.Flags().IntVar(&concurrent, "concurrent", 0, "number of concurrent downloads")
	getCmd.Flags().StringVar(&archivePath, "archive", "", "sqlite download archive path")
	getCmd.Flags().BoolVar(&writeMetadata, "write-metadata", false, "write a JSON sidecar next to every file")
	getCmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite existing files")
	getCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	getCmd.Flags().BoolVar(&notify, "notify", false, "send a desktop notification when done")
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(map[string]interface{}{
		"output":         outputDir,
		"directory":      directoryFmt,
		"filename":       filenameFmt,
		"concurrent":     concurrent,
		"archive":        archivePath,
		"write-metadata": writeMetadata,
		"overwrite":      overwrite,
		"metrics-addr":   metricsAddr,
	})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.GetLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.Metrics.ListenAddress != "" {
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.ListenAddress, log); err != nil {
				log.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	ui.PrintLogo()
	debug := strings.EqualFold(cfg.Logging.Level, "debug")

	var failed []error
	for _, rawURL := range args {
		ui.PrintInfo("Target", rawURL)
		progress := ui.NewProgressDisplay(rawURL, debug)

		s, err := scraper.New(cfg, scraper.WithMetrics(m), scraper.WithProgress(progress), scraper.WithLogger(log))
		if err != nil {
			return fmt.Errorf("failed to initialize scraper: %w", err)
		}
		summary, err := s.Run(ctx, rawURL)
		s.Close()
		progress.Complete()

		if err == nil {
			err = summary.Err()
		}
		if err != nil {
			log.WithError(err).WithField("url", rawURL).Error("Extraction failed")
			ui.PrintError("EXTRACTION FAILED", err)
			failed = append(failed, fmt.Errorf("%s: %w", rawURL, err))
			if ctx.Err() != nil {
				break
			}
		}
	}

	if notify {
		n := ui.NewNotifier()
		if len(failed) > 0 {
			n.SendError("lensdl", fmt.Sprintf("%d of %d URLs failed", len(failed), len(args)))
		} else {
			n.SendSuccess("lensdl", fmt.Sprintf("%d URLs downloaded", len(args)))
		}
	}
	return errors.Join(failed...)
}
