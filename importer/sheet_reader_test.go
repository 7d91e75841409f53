package importer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type sheetFixture struct {
	Name string
	Rows [][]string
}

func buildWorkbook(t *testing.T, sheets ...sheetFixture) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sheet.Name))
		} else {
			_, err := f.NewSheet(sheet.Name)
			require.NoError(t, err)
		}
		for r, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := make([]interface{}, len(row))
			for c, v := range row {
				values[c] = v
			}
			require.NoError(t, f.SetSheetRow(sheet.Name, cell, &values))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func trafficRows(n int) [][]string {
	rows := [][]string{{"Placement", "Size", "Creative Name"}}
	for i := 0; i < n; i++ {
		rows = append(rows, []string{fmt.Sprintf("P%d", i), "300x250", fmt.Sprintf("UK_Q1_Yahoo_Banner%02d_300x250", i)})
	}
	return rows
}

func TestReadCandidateNames_PicksTraffickingSheet(t *testing.T) {
	rows := trafficRows(11)
	rows = append(rows,
		[]string{"P-dup", "300x250", "UK_Q1_Yahoo_Banner00_300x250"},
		[]string{"P-date", "", "2024-01-15_launch"},
		[]string{"P-empty", "", ""},
	)

	other := [][]string{}
	for i := 0; i < 15; i++ {
		other = append(other, []string{fmt.Sprintf("DE_Q2_Other_Creative%02d_728x90", i)})
	}

	content := buildWorkbook(t,
		sheetFixture{Name: "Summary", Rows: [][]string{{"Campaign", "Spring"}, {"Owner", "Ops"}}},
		sheetFixture{Name: "Other", Rows: other},
		sheetFixture{Name: "T1 Traffic", Rows: rows},
	)

	res, err := ReadCandidateNames(content, "plan.xlsx", SheetOptions{})
	require.NoError(t, err)

	assert.Equal(t, FormatXLSX, res.Format)
	assert.Equal(t, "T1 Traffic", res.SheetName)
	assert.Equal(t, 2, res.Column)
	assert.Equal(t, 0, res.HeaderRow)
	assert.Equal(t, StrategySynonym, res.Strategy)
	require.Len(t, res.Names, 11)
	assert.Equal(t, "UK_Q1_Yahoo_Banner00_300x250", res.Names[0])
	assert.Equal(t, "UK_Q1_Yahoo_Banner10_300x250", res.Names[10])
}

func TestReadCandidateNames_ExplicitSheet(t *testing.T) {
	content := buildWorkbook(t,
		sheetFixture{Name: "T1", Rows: trafficRows(12)},
		sheetFixture{Name: "Manual", Rows: [][]string{{"Creative Name"}, {"A_B_C_1"}, {"A_B_C_2"}}},
	)

	res, err := ReadCandidateNames(content, "plan.xlsx", SheetOptions{SheetName: "Manual"})
	require.NoError(t, err)
	assert.Equal(t, "Manual", res.SheetName)
	assert.Equal(t, []string{"A_B_C_1", "A_B_C_2"}, res.Names)
}

func TestReadCandidateNames_FallsBackToFirstSheetAndColumn(t *testing.T) {
	content := buildWorkbook(t,
		sheetFixture{Name: "Tiny", Rows: [][]string{{"Creative Name"}, {"A_B_C_D"}, {"no-underscore"}}},
	)

	res, err := ReadCandidateNames(content, "plan.xlsx", SheetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Tiny", res.SheetName)
	assert.Equal(t, StrategyFirstColumn, res.Strategy)
	assert.Equal(t, []string{"A_B_C_D"}, res.Names)
}

func TestReadCandidateNames_UnreadableWorkbook(t *testing.T) {
	_, err := ReadCandidateNames([]byte("not a workbook"), "plan.xlsx", SheetOptions{})
	assert.ErrorIs(t, err, ErrUnreadableSheet)
}

func TestReadCandidateNames_CSV(t *testing.T) {
	content := []byte("Creative Name;Size\nUK_Q1_A_300x250;300x250\nUK_Q1_B_728x90;728x90\nUK_Q1_A_300x250;300x250\n")

	res, err := ReadCandidateNames(content, "PLAN.CSV", SheetOptions{})
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, res.Format)
	assert.Equal(t, StrategySynonym, res.Strategy)
	assert.Equal(t, []string{"UK_Q1_A_300x250", "UK_Q1_B_728x90"}, res.Names)

	idx := 1
	res, err = ReadCandidateNames(content, "plan.csv", SheetOptions{ColumnIndex: &idx})
	require.NoError(t, err)
	assert.Equal(t, StrategyColumnIndex, res.Strategy)
	assert.Equal(t, []string{"300x250", "728x90"}, res.Names)
}

func TestReadCandidateNames_CSVWindows1252(t *testing.T) {
	content := []byte("Name\nCaf\xe9_Banner_300x250\n")

	res, err := ReadCandidateNames(content, "plan.csv", SheetOptions{ColumnHeader: "name"})
	require.NoError(t, err)
	assert.Equal(t, StrategyHeaderOverride, res.Strategy)
	assert.Equal(t, []string{"Café_Banner_300x250"}, res.Names)
}

func TestReadCandidateNames_CSVWithBOM(t *testing.T) {
	content := []byte("\xef\xbb\xbfname_one\nname_two\n")

	res, err := ReadCandidateNames(content, "plan.csv", SheetOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"name_one", "name_two"}, res.Names)
}

func TestReadCandidateNames_EmptyCSV(t *testing.T) {
	_, err := ReadCandidateNames([]byte(""), "plan.csv", SheetOptions{})
	assert.ErrorIs(t, err, ErrNoNameColumn)
}

func TestReadCandidateNames_RequireUnderscoreOverride(t *testing.T) {
	content := []byte("alpha\nbeta_gamma\n")
	strict := true

	res, err := ReadCandidateNames(content, "plan.csv", SheetOptions{RequireUnderscore: &strict})
	require.NoError(t, err)
	assert.Equal(t, []string{"beta_gamma"}, res.Names)
}

func TestFilterNames(t *testing.T) {
	values := []string{
		"  UK_Q1_A  ",
		"ab",
		"Creative Name",
		"placement name",
		"SIZE",
		"2024-03-01",
		"plain",
		"UK_Q1_A",
		"",
	}

	assert.Equal(t, []string{"UK_Q1_A"}, FilterNames(values, true))
	assert.Equal(t, []string{"UK_Q1_A", "plain"}, FilterNames(values, false))
	assert.Equal(t, []string{}, FilterNames(nil, true))
}

func TestScoreSheetName(t *testing.T) {
	assert.Equal(t, 2, scoreSheetName("T1 - Display"))
	assert.Equal(t, 2, scoreSheetName("ncl"))
	assert.Equal(t, 2, scoreSheetName("Creatives"))
	assert.Equal(t, 1, scoreSheetName("T-Sheet"))
	assert.Equal(t, 1, scoreSheetName("Sheet2"))
	assert.Equal(t, 0, scoreSheetName("Summary"))
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ',', sniffDelimiter("a,b,c\n1;2"))
	assert.Equal(t, ';', sniffDelimiter("a;b;c\n"))
	assert.Equal(t, '\t', sniffDelimiter("a\tb\n"))
	assert.Equal(t, ',', sniffDelimiter("single"))
}
