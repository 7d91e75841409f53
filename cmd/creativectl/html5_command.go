package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newHTML5Command(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "html5 <creative.zip>",
		Short: "Validate an HTML5 creative archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service()
			if err != nil {
				return err
			}
			upload, err := readUpload(args[0])
			if err != nil {
				return err
			}

			report, err := svc.ValidateHTML5(cmd.Context(), upload)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			status := "valid"
			if !report.Valid {
				status = "invalid"
			}
			fmt.Fprintf(out, "%s: %s (%d files, %.1f KB initial load)\n", args[0], status, report.FileCount, report.InitialLoadKB)
			if report.AdSize != "" {
				fmt.Fprintf(out, "Ad size: %s\n", report.AdSize)
			}
			for _, e := range report.Errors {
				fmt.Fprintf(out, "  error: %s\n", e)
			}
			for _, w := range report.Warnings {
				fmt.Fprintf(out, "  warning: %s\n", w)
			}
			if len(report.MissingAssets) > 0 {
				fmt.Fprintf(out, "Missing assets: %s\n", strings.Join(report.MissingAssets, ", "))
			}
			return nil
		},
	}
}
