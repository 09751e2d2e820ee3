package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bookvoice/bookvoice/internal/cliout"
	"github.com/bookvoice/bookvoice/internal/config"
	"github.com/bookvoice/bookvoice/version"
)

var (
	cfgFile      string
	outputFormat string
	verbose      bool

	cfgManager *config.Manager
)

var rootCmd = &cobra.Command{
	Use:   "bookvoice",
	Short: "Convert ePub books into M4B audiobooks",
	Long: `Bookvoice reads an ePub, synthesizes each chapter with a text-to-speech
provider, and assembles the audio into a single M4B audiobook with chapter
markers, cover art, and metadata tags.

The pipeline includes:
  - ePub parsing with chapter titles from the navigation document
  - Per-chapter speech synthesis and AAC encoding
  - Chapter-aware merging into an M4B container via ffmpeg
  - Optional publishing to a local library or S3`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.bookvoice/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cliout.SetFormat(outputFormat)

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		var err error
		cfgManager, err = config.NewManager(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return nil
	}

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(voicesCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
