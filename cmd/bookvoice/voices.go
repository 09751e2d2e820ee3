package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bookvoice/bookvoice/internal/cliout"
	"github.com/bookvoice/bookvoice/internal/voices"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List available voices across configured TTS providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := cfgManager.Get().BuildRegistry()
		if err != nil {
			return err
		}

		entries, err := voices.List(cmd.Context(), reg, slog.Default())
		if err != nil {
			return err
		}
		return cliout.Print(entries)
	},
}
