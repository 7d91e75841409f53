package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"creativerenamer/matching"
	"creativerenamer/rename"
	"creativerenamer/server/services"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var flags matchFlags

	cmd := &cobra.Command{
		Use:   "preview <archive.zip> <sheet>",
		Short: "Show the best T-sheet name for every archive entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service()
			if err != nil {
				return err
			}
			req, err := flags.request(cmd, args[0], args[1])
			if err != nil {
				return err
			}

			resp, err := svc.Preview(cmd.Context(), req)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderPreview(resp.Preview))
			fmt.Fprintf(out, "Names: %d  Threshold: %d  Strategy: %s  Failed entries: %d\n",
				resp.SheetNamesCount, resp.Threshold, resp.Strategy, resp.FailedEntries)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func renderPreview(results []matching.Result) string {
	names := rename.BuildPlan(results).Names()
	rows := make([][]string, 0, len(results))
	for i, r := range results {
		mark := ""
		switch {
		case r.Error != "":
			mark = "error: " + r.Error
		case r.BelowThreshold:
			mark = "below threshold"
		}
		rows = append(rows, []string{r.FilePath, names[i], strconv.Itoa(r.Score), mark})
	}
	return renderTable(
		[]string{"File", "New name", "Score", "Note"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	)
}

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var flags matchFlags
	var output string

	cmd := &cobra.Command{
		Use:   "rename <archive.zip> <sheet>",
		Short: "Write a renamed copy of the archive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service()
			if err != nil {
				return err
			}
			req, err := flags.request(cmd, args[0], args[1])
			if err != nil {
				return err
			}

			res, err := svc.Rename(cmd.Context(), req)
			if err != nil {
				return err
			}

			target := output
			if target == "" {
				target = res.Filename
			}
			if err := writeOutput(target, res.Archive); err != nil {
				return err
			}

			summary := map[string]any{"output": target, "total_entries": res.TotalEntries, "renamed": res.Renamed}
			if ctx.jsonOutput() {
				return writeJSON(cmd, summary)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %d of %d entries into %s\n", res.Renamed, res.TotalEntries, target)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination archive (default renamed-creatives.zip)")
	return cmd
}

func newLogCommand(ctx *commandContext) *cobra.Command {
	var flags matchFlags
	var format, output string

	cmd := &cobra.Command{
		Use:   "log <archive.zip> <sheet>",
		Short: "Build the rename log as CSV or XLSX",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service()
			if err != nil {
				return err
			}
			req, err := flags.request(cmd, args[0], args[1])
			if err != nil {
				return err
			}

			res, err := svc.Log(cmd.Context(), req, format)
			if err != nil {
				return err
			}

			if res.Format == services.LogFormatXLSX && output == "" {
				output = "rename-log.xlsx"
			}
			if output != "" {
				if err := writeOutput(output, res.Payload); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d log rows to %s\n", len(res.Rows), output)
				return nil
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, res.Rows)
			}
			if format == "" {
				fmt.Fprintln(cmd.OutOrStdout(), renderLog(res.Rows))
				return nil
			}
			_, err = cmd.OutOrStdout().Write(res.Payload)
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "", "Log format: csv or xlsx (default table, or csv when written to a file)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the log to a file")
	return cmd
}

func renderLog(rows []rename.LogRow) string {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{r.OldName, r.NewName, strconv.Itoa(r.Score), r.Error})
	}
	return renderTable(
		[]string{"Old name", "New name", "Score", "Error"},
		data,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	)
}
