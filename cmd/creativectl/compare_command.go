package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"creativerenamer/diff"
	"creativerenamer/server/services"
)

func newCompareCommand(ctx *commandContext) *cobra.Command {
	var pathMode string

	cmd := &cobra.Command{
		Use:   "compare <first.zip> <second.zip>",
		Short: "Compare two archives by path and content",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service()
			if err != nil {
				return err
			}
			first, err := readUpload(args[0])
			if err != nil {
				return err
			}
			second, err := readUpload(args[1])
			if err != nil {
				return err
			}

			res, err := svc.Compare(cmd.Context(), services.CompareRequest{
				Archive1: first,
				Archive2: second,
				PathMode: pathMode,
			})
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, res)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderCompare(res))
			return nil
		},
	}
	cmd.Flags().StringVar(&pathMode, "path-mode", "", "Path identity: full or basename")
	return cmd
}

func renderCompare(res *diff.Result) string {
	var rows [][]string
	add := func(status string, paths []string) {
		for _, p := range paths {
			rows = append(rows, []string{status, p})
		}
	}
	add("only in 1", res.OnlyIn1)
	add("only in 2", res.OnlyIn2)
	add("different", res.DifferentContent)
	add("same", res.SameContent)
	for _, s := range res.Skipped1 {
		rows = append(rows, []string{"unreadable in 1", s.Path})
	}
	for _, s := range res.Skipped2 {
		rows = append(rows, []string{"unreadable in 2", s.Path})
	}

	summary := renderTable(
		[]string{"Only in 1", "Only in 2", "Same", "Different"},
		[][]string{{
			strconv.Itoa(res.Summary.OnlyIn1),
			strconv.Itoa(res.Summary.OnlyIn2),
			strconv.Itoa(res.Summary.SameContent),
			strconv.Itoa(res.Summary.DifferentContent),
		}},
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
	)
	return renderTable([]string{"Status", "Path"}, rows, nil) + "\n" + summary
}
