package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bookvoice/bookvoice/internal/cliout"
	"github.com/bookvoice/bookvoice/internal/epub"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [epub-file]",
	Short: "Show an ePub's metadata and chapter layout without converting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := epub.NewParser(slog.Default()).Parse(args[0])
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		type chapterInfo struct {
			Name  string `json:"name" yaml:"name"`
			File  string `json:"file" yaml:"file"`
			Chars int    `json:"chars" yaml:"chars"`
		}
		chapters := make([]chapterInfo, len(b.Chapters))
		for i, ch := range b.Chapters {
			chapters[i] = chapterInfo{Name: ch.Name, File: ch.File, Chars: len(ch.Content)}
		}

		return cliout.Print(map[string]any{
			"title":       b.Title,
			"authors":     b.Authors,
			"description": b.Description,
			"cover":       b.CoverImage != nil,
			"images":      len(b.Images),
			"text_chars":  b.TotalTextLen(),
			"chapters":    chapters,
		})
	},
}
