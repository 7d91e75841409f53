package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"creativerenamer/server/services"
)

// matchFlags параметры сопоставления, общие для preview, rename и log
type matchFlags struct {
	threshold    float64
	sheetName    string
	columnHeader string
	columnIndex  int
	strategy     string
}

func (f *matchFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&f.threshold, "threshold", "t", 0, "Advisory threshold, 0..1 or 0..100")
	cmd.Flags().StringVar(&f.sheetName, "sheet-name", "", "Workbook sheet with names")
	cmd.Flags().StringVar(&f.columnHeader, "column-header", "", "Header of the names column")
	cmd.Flags().IntVar(&f.columnIndex, "column-index", 0, "Zero-based names column")
	cmd.Flags().StringVarP(&f.strategy, "strategy", "s", "", "Assignment strategy: greedy or exclusive")
}

func (f *matchFlags) request(cmd *cobra.Command, archivePath, sheetPath string) (services.MatchRequest, error) {
	archive, err := readUpload(archivePath)
	if err != nil {
		return services.MatchRequest{}, err
	}
	sheet, err := readUpload(sheetPath)
	if err != nil {
		return services.MatchRequest{}, err
	}

	req := services.MatchRequest{
		Archive:      archive,
		Sheet:        sheet,
		SheetName:    f.sheetName,
		ColumnHeader: f.columnHeader,
		Strategy:     f.strategy,
	}
	if cmd.Flags().Changed("threshold") {
		threshold := f.threshold
		req.Threshold = &threshold
	}
	if cmd.Flags().Changed("column-index") {
		if f.columnIndex < 0 {
			return services.MatchRequest{}, fmt.Errorf("column-index must be non-negative, got %d", f.columnIndex)
		}
		index := f.columnIndex
		req.ColumnIndex = &index
	}
	return req, nil
}

func readUpload(path string) (services.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return services.Upload{}, fmt.Errorf("read %s: %w", path, err)
	}
	return services.Upload{Filename: filepath.Base(path), Data: data}, nil
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
