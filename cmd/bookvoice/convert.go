package main

import (
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bookvoice/bookvoice/internal/cliout"
	"github.com/bookvoice/bookvoice/internal/convert"
	"github.com/bookvoice/bookvoice/internal/epub"
	"github.com/bookvoice/bookvoice/internal/ffmpeg"
	"github.com/bookvoice/bookvoice/internal/progress"
	"github.com/bookvoice/bookvoice/internal/storage"
)

var (
	convertProvider string
	convertVoice    string
	convertOut      string
	convertPublish  bool
	keepWorkdir     bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [epub-file]",
	Short: "Convert an ePub into an M4B audiobook",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertProvider, "provider", "", "TTS provider name (default: from config)")
	convertCmd.Flags().StringVar(&convertVoice, "voice", "", "voice ID (default: from config)")
	convertCmd.Flags().StringVar(&convertOut, "out", "", "output .m4b path (default: <output dir>/<book>.m4b)")
	convertCmd.Flags().BoolVar(&convertPublish, "publish", false, "upload the result to the configured storage backend")
	convertCmd.Flags().BoolVar(&keepWorkdir, "keep-workdir", false, "keep the working directory for debugging")
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := cfgManager.Get()
	logger := slog.Default()

	b, err := epub.NewParser(logger).Parse(args[0])
	if err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}
	logger.Info("parsed book", "title", b.Title, "chapters", len(b.Chapters), "images", len(b.Images))

	providerName := convertProvider
	if providerName == "" {
		providerName = cfg.Defaults.TTSProvider
	}
	voice := convertVoice
	if voice == "" {
		voice = cfg.Defaults.Voice
	}

	reg, err := cfg.BuildRegistry()
	if err != nil {
		return err
	}
	synth, err := reg.Get(providerName)
	if err != nil {
		return err
	}

	runner := ffmpeg.NewRunner(ffmpeg.Config{
		FFmpegPath:  cfg.FFmpeg.FFmpegPath,
		FFprobePath: cfg.FFmpeg.FFprobePath,
		Bitrate:     cfg.Audio.Bitrate,
		Logger:      logger,
	})

	wd, err := convert.NewWorkdir(cfg.Output.WorkDir)
	if err != nil {
		return err
	}
	if keepWorkdir || cfg.Output.KeepWorkdir {
		logger.Info("keeping working directory", "dir", wd.Root())
	} else {
		defer wd.Cleanup()
	}

	outputFile := convertOut
	if outputFile == "" {
		outputFile = filepath.Join(cfg.Output.Dir, b.FileName+".m4b")
	}

	reporter := progress.ReporterFunc(func(u progress.Update) {
		pct, err := progress.Percentage(u, b)
		if err != nil {
			logger.Error("progress estimate failed", "error", err)
			return
		}
		logger.Info("progress",
			"stage", u.Stage.String(),
			"scope", u.Scope,
			"state", u.State.String(),
			"percent", pct,
		)
	})

	conv := convert.New(synth, runner, convert.WithLogger(logger))
	if err := conv.Convert(ctx, voice, b, outputFile, wd, reporter); err != nil {
		return err
	}

	result := map[string]any{
		"output":   outputFile,
		"title":    b.Title,
		"chapters": len(b.Chapters),
	}

	if convertPublish {
		adapter, err := storage.NewAdapter(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		defer adapter.Close()

		key := publishKey(b.Authors, outputFile)
		if err := storage.Publish(ctx, adapter, outputFile, key); err != nil {
			return err
		}
		logger.Info("published audiobook", "key", key, "backend", cfg.Storage.Type)
		result["published"] = key
	}

	return cliout.Print(result)
}

// publishKey places the audiobook under its first author's directory.
func publishKey(authors []string, outputFile string) string {
	base := filepath.Base(outputFile)
	if len(authors) == 0 || strings.TrimSpace(authors[0]) == "" {
		return base
	}
	return path.Join(authors[0], base)
}
