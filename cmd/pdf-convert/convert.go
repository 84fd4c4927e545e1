package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-convert/internal/convert"
	"github.com/pdiddy/pdf-convert/internal/ledger"
	"github.com/pdiddy/pdf-convert/internal/logging"
	"github.com/pdiddy/pdf-convert/internal/pipeline"
	"github.com/pdiddy/pdf-convert/internal/raster"
	"github.com/pdiddy/pdf-convert/internal/report"
	"github.com/pdiddy/pdf-convert/pkg/types"
)

// rendererFactory builds the renderer selected by the image settings.
type rendererFactory func(types.ImageConfig) (raster.Renderer, error)

func init() {
	rootCmd.Flags().String("report", "", "also write the run summary as YAML to this file")
}

func runConvert(cmd *cobra.Command, args []string) error {
	return convertWith(cmd, raster.New)
}

// convertWith runs one conversion, building the renderer through newRenderer.
func convertWith(cmd *cobra.Command, newRenderer rendererFactory) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Paths.Target, 0o755); err != nil {
		return fmt.Errorf("creating target directory: %w", err)
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	log, closer, err := logging.Open(cfg.Paths.Logs, level)
	if err != nil {
		return err
	}
	defer closer.Close()

	renderer, err := newRenderer(cfg.Image)
	if err != nil {
		log.Error(fmt.Sprintf("Renderer unavailable: %v", err))
		return err
	}

	var opts []pipeline.Option
	if cfg.Ledger.Path != "" {
		store, err := ledger.Open(cfg.Ledger.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, pipeline.WithRecorder(store))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	proc := pipeline.New(cfg,
		convert.New(renderer, cfg.Image.DPI, cfg.Image.Quality),
		report.New(log, cmd.OutOrStdout()),
		opts...,
	)
	sum := proc.Run(ctx)

	if path, _ := cmd.Flags().GetString("report"); path != "" {
		if err := report.WriteYAML(path, sum); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Wrote report:", path)
	}
	return nil
}
