package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Validate the configuration and print effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, cfg)
			}

			requireUnderscore := "auto"
			if cfg.Sheet.RequireUnderscore != nil {
				requireUnderscore = strconv.FormatBool(*cfg.Sheet.RequireUnderscore)
			}

			rows := [][]string{
				{"Port", cfg.Port},
				{"Max upload size", strconv.FormatInt(cfg.MaxUploadSize, 10)},
				{"Read / write timeout", cfg.ReadTimeout.String() + " / " + cfg.WriteTimeout.String()},
				{"Rate limit", fmt.Sprintf("%g/s, burst %d", cfg.RateLimitPerSec, cfg.RateLimitBurst)},
				{"Log", cfg.LogLevel + " " + cfg.LogFormat},
				{"Match threshold", fmt.Sprintf("%g", cfg.Match.DefaultThreshold)},
				{"Match strategy", cfg.Match.Strategy},
				{"Match workers", strconv.Itoa(cfg.Match.Workers)},
				{"Stemming", strconv.FormatBool(cfg.Match.Stemming)},
				{"Header synonyms", strings.Join(cfg.Sheet.HeaderSynonyms, ", ")},
				{"Require underscore", requireUnderscore},
				{"Compare path mode", cfg.Compare.PathMode},
				{"Max entry size", strconv.FormatInt(cfg.Archive.MaxEntrySize, 10)},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, rows, nil))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
