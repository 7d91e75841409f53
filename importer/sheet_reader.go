// Package importer читает T-лист (XLSX или CSV) и извлекает эталонные имена креативов.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

var (
	// ErrUnreadableSheet файл не разбирается как XLSX или CSV
	ErrUnreadableSheet = errors.New("sheet cannot be parsed")
	// ErrNoNameColumn не удалось определить колонку с именами
	ErrNoNameColumn = errors.New("could not find a column with creative names")
)

const (
	// DefaultHeuristicMinUnique минимум уникальных имен для эвристики
	DefaultHeuristicMinUnique = 3
	// minSheetRows листы короче не участвуют в автоматическом выборе
	minSheetRows = 10
	// minNameLength имена короче отбрасываются
	minNameLength = 3
)

// Формат листа
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

var (
	headerLikePattern = regexp.MustCompile(`(?i)^(CREATIVE NAME|SIZE|PLACEMENT|DISPLAY|PLACEMENT NAME)`)
	isoDatePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	cm360Pattern      = regexp.MustCompile(`^[A-Za-z0-9]+_[A-Za-z0-9]+_.*_.*`)

	utf8BOM = []byte("\xef\xbb\xbf")
)

// SheetOptions параметры чтения листа
type SheetOptions struct {
	// SheetName лист книги; если не найден, лист выбирается автоматически
	SheetName string
	// ColumnHeader текст заголовка колонки (без учета регистра, по вхождению)
	ColumnHeader string
	// ColumnIndex номер колонки с нуля, имеет приоритет над заголовком
	ColumnIndex *int
	// HeaderSynonyms известные заголовки колонки с именами
	HeaderSynonyms []string
	// RequireUnderscore оставлять только значения с "_" (nil = true для XLSX, false для CSV)
	RequireUnderscore  *bool
	HeuristicMinUnique int
}

// SheetResult извлеченные имена и то, откуда они взяты
type SheetResult struct {
	Names     []string `json:"names"`
	Format    string   `json:"format"`
	SheetName string   `json:"sheet_name,omitempty"`
	Column    int      `json:"column"`
	HeaderRow int      `json:"header_row"`
	Strategy  string   `json:"strategy"`
}

// IsCSV определяет формат по имени файла
func IsCSV(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".csv")
}

// ReadCandidateNames читает имена из содержимого листа
// Формат определяется по расширению: .csv читается как CSV, остальное как книга Excel.
// Пустой список имен не считается ошибкой.
func ReadCandidateNames(content []byte, filename string, opts SheetOptions) (*SheetResult, error) {
	if IsCSV(filename) {
		return readCSV(content, opts)
	}
	return readXLSX(content, opts)
}

func readXLSX(content []byte, opts SheetOptions) (*SheetResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableSheet, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrNoNameColumn)
	}

	chain := NewDetectorChain(opts)
	sheetName, rows, err := selectSheet(f, sheets, opts.SheetName, chain)
	if err != nil {
		return nil, err
	}

	return extract(rows, chain, FormatXLSX, sheetName, requireUnderscore(opts, true))
}

// selectSheet выбирает лист: явно заданный, иначе лучший по названию и числу имен CM360, иначе первый
func selectSheet(f *excelize.File, sheets []string, requested string, chain DetectorChain) (string, [][]string, error) {
	if requested != "" {
		for _, name := range sheets {
			if name == requested {
				rows, err := f.GetRows(name)
				if err != nil {
					return "", nil, fmt.Errorf("%w: sheet %q: %v", ErrUnreadableSheet, name, err)
				}
				return name, rows, nil
			}
		}
	}

	var (
		bestName  string
		bestRows  [][]string
		bestScore = [2]int{-1, -1}
	)
	for _, name := range sheets {
		rows, err := f.GetRows(name)
		if err != nil {
			return "", nil, fmt.Errorf("%w: sheet %q: %v", ErrUnreadableSheet, name, err)
		}
		if len(rows) < minSheetRows {
			continue
		}
		det, ok := chain.Detect(rows)
		if !ok {
			continue
		}

		unique, like := cm360Stats(rows, det.Column)
		score := [2]int{scoreSheetName(name), like}
		if unique >= 3 && like >= 3 && better(score, bestScore) {
			bestName, bestRows, bestScore = name, rows, score
		}
	}
	if bestRows != nil {
		return bestName, bestRows, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", nil, fmt.Errorf("%w: sheet %q: %v", ErrUnreadableSheet, sheets[0], err)
	}
	return sheets[0], rows, nil
}

// scoreSheetName оценивает название листа: листы трафикинга предпочтительнее
func scoreSheetName(name string) int {
	n := strings.ToUpper(name)
	for _, marker := range []string{"T1", "NCL", "TRAFFIC", "TS ", "CREATIVE"} {
		if strings.Contains(n, marker) {
			return 2
		}
	}
	if strings.Contains(n, "T-") || strings.Contains(n, "SHEET") {
		return 1
	}
	return 0
}

// cm360Stats число уникальных имен и число значений вида CM360 в колонке
// Значения с "|" не считаются: так выглядят составные поля, а не имена.
func cm360Stats(rows [][]string, col int) (unique, like int) {
	seen := make(map[string]struct{})
	for r := range rows {
		v := strings.TrimSpace(cell(rows, r, col))
		if !looksLikeCreativeName(v) || strings.Contains(v, "|") {
			continue
		}
		seen[v] = struct{}{}
		if cm360Pattern.MatchString(v) {
			like++
		}
	}
	return len(seen), like
}

func better(a, b [2]int) bool {
	if a[0] != b[0] {
		return a[0] > b[0]
	}
	return a[1] > b[1]
}

func readCSV(content []byte, opts SheetOptions) (*SheetResult, error) {
	text, err := decodeText(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableSheet, err)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sniffDelimiter(text)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableSheet, err)
	}

	return extract(rows, NewDetectorChain(opts), FormatCSV, "", requireUnderscore(opts, false))
}

// decodeText приводит содержимое к UTF-8
// Валидный UTF-8 (с BOM или без) берется как есть, иначе кодировка определяется
// по BOM и содержимому (по умолчанию windows-1252).
func decodeText(content []byte) (string, error) {
	if trimmed := bytes.TrimPrefix(content, utf8BOM); utf8.Valid(trimmed) {
		return string(trimmed), nil
	}

	enc, name, _ := charset.DetermineEncoding(content, "text/csv")
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(content), enc.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	return strings.TrimPrefix(string(decoded), "\ufeff"), nil
}

// sniffDelimiter выбирает разделитель по первой строке: запятая, точка с запятой или табуляция
func sniffDelimiter(text string) rune {
	firstLine, _, _ := strings.Cut(text, "\n")
	best, bestCount := ',', strings.Count(firstLine, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(firstLine, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func requireUnderscore(opts SheetOptions, def bool) bool {
	if opts.RequireUnderscore != nil {
		return *opts.RequireUnderscore
	}
	return def
}

// extract выбирает колонку и фильтрует ее значения
func extract(rows [][]string, chain DetectorChain, format, sheetName string, underscore bool) (*SheetResult, error) {
	det, ok := chain.Detect(rows)
	if !ok {
		return nil, ErrNoNameColumn
	}

	return &SheetResult{
		Names:     FilterNames(columnValues(rows, det), underscore),
		Format:    format,
		SheetName: sheetName,
		Column:    det.Column,
		HeaderRow: det.HeaderRow,
		Strategy:  det.Strategy,
	}, nil
}

func columnValues(rows [][]string, det Detection) []string {
	values := make([]string, 0, len(rows))
	for r := det.HeaderRow + 1; r < len(rows); r++ {
		values = append(values, cell(rows, r, det.Column))
	}
	return values
}

// FilterNames обрезает пробелы, отбрасывает короткие значения, заголовки и даты,
// при необходимости требует "_" и убирает повторы, сохраняя порядок первого появления
func FilterNames(values []string, underscore bool) []string {
	names := []string{}
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if utf8.RuneCountInString(v) < minNameLength {
			continue
		}
		if headerLikePattern.MatchString(v) || isoDatePattern.MatchString(v) {
			continue
		}
		if underscore && !strings.Contains(v, "_") {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		names = append(names, v)
	}
	return names
}
