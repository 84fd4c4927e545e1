// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdf-convert CLI.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-convert/internal/config"
	"github.com/pdiddy/pdf-convert/pkg/types"
)

// version is set at build time via ldflags.
var version = "1.1.1"

// rootCmd converts every PDF under the configured source tree.
var rootCmd = &cobra.Command{
	Use:   "pdf-convert",
	Short: "Render the first page of each PDF to JPEG and file the originals",
	Long: `pdf-convert walks the configured source directory, renders page one of
every PDF to a JPEG in the target tree, and moves the PDF (and its companion
metadata file, when one is required) next to the image.

Items without the required companion are skipped and left in place. A failed
item never stops the run; the exit status is 0 unless configuration or
startup fails.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	},
	RunE: runConvert,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: config.ini next to the executable)")
}

// loadConfig reads the file named by --config, or the default one.
func loadConfig(cmd *cobra.Command) (types.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return types.Config{}, err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", path)
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
