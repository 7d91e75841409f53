package importer

import (
	"strings"
)

// Названия стратегий в SheetResult.Strategy
const (
	StrategyColumnIndex    = "column_index"
	StrategyHeaderOverride = "header_override"
	StrategySynonym        = "synonym"
	StrategyHeuristic      = "heuristic"
	StrategyFirstColumn    = "first_column"
)

// headerScanRows сколько первых строк просматривается в поисках заголовка
const headerScanRows = 5

// DefaultHeaderSynonyms заголовки колонки с именами креативов
var DefaultHeaderSynonyms = []string{"creative name", "creative_name", "cm360 creative name"}

// Detection выбранная колонка и строка заголовка (-1, если заголовок не найден)
type Detection struct {
	Column    int
	HeaderRow int
	Strategy  string
}

// ColumnDetector одна стратегия выбора колонки с именами
type ColumnDetector interface {
	Detect(rows [][]string) (Detection, bool)
}

// DetectorChain пробует стратегии по порядку до первой сработавшей
type DetectorChain []ColumnDetector

// Detect реализует ColumnDetector
func (chain DetectorChain) Detect(rows [][]string) (Detection, bool) {
	for _, d := range chain {
		if det, ok := d.Detect(rows); ok {
			return det, true
		}
	}
	return Detection{}, false
}

// NewDetectorChain собирает цепочку: индекс -> заголовок -> синонимы -> эвристика -> первая колонка
func NewDetectorChain(opts SheetOptions) DetectorChain {
	var chain DetectorChain
	if opts.ColumnIndex != nil {
		chain = append(chain, IndexOverride{Index: *opts.ColumnIndex})
	}
	if h := strings.TrimSpace(opts.ColumnHeader); h != "" {
		chain = append(chain, HeaderOverride{Header: h})
	}

	synonyms := opts.HeaderSynonyms
	if len(synonyms) == 0 {
		synonyms = DefaultHeaderSynonyms
	}
	minUnique := opts.HeuristicMinUnique
	if minUnique <= 0 {
		minUnique = DefaultHeuristicMinUnique
	}

	return append(chain,
		SynonymMatch{Synonyms: synonyms, MinUnique: 2},
		ContentHeuristic{MinUnique: minUnique},
		FirstColumn{},
	)
}

// IndexOverride явно заданный номер колонки (с нуля)
type IndexOverride struct {
	Index int
}

// Detect реализует ColumnDetector
func (d IndexOverride) Detect(rows [][]string) (Detection, bool) {
	if d.Index < 0 || d.Index >= width(rows) {
		return Detection{}, false
	}
	return Detection{Column: d.Index, HeaderRow: -1, Strategy: StrategyColumnIndex}, true
}

// HeaderOverride колонка, в первых строках которой встречается заданный текст (без учета регистра)
type HeaderOverride struct {
	Header string
}

// Detect реализует ColumnDetector
func (d HeaderOverride) Detect(rows [][]string) (Detection, bool) {
	needle := strings.ToLower(d.Header)
	for r := 0; r < min(headerScanRows, len(rows)); r++ {
		for c, val := range rows[r] {
			if val != "" && strings.Contains(strings.ToLower(val), needle) {
				return Detection{Column: c, HeaderRow: r, Strategy: StrategyHeaderOverride}, true
			}
		}
	}
	return Detection{}, false
}

// SynonymMatch колонка с известным заголовком, в которой есть имена с "_"
type SynonymMatch struct {
	Synonyms  []string
	MinUnique int
}

// Detect реализует ColumnDetector
func (d SynonymMatch) Detect(rows [][]string) (Detection, bool) {
	for c := 0; c < width(rows); c++ {
		for r := 0; r < min(headerScanRows, len(rows)); r++ {
			v := strings.ToLower(strings.TrimSpace(cell(rows, r, c)))
			if v == "" || !d.isHeader(v) {
				continue
			}
			if countUnique(rows, c, func(s string) bool { return strings.Contains(s, "_") }) >= d.MinUnique {
				return Detection{Column: c, HeaderRow: r, Strategy: StrategySynonym}, true
			}
			// Заголовок найден, но имен под ним нет: следующая колонка
			break
		}
	}
	return Detection{}, false
}

func (d SynonymMatch) isHeader(v string) bool {
	for _, s := range d.Synonyms {
		if v == strings.ToLower(strings.TrimSpace(s)) {
			return true
		}
	}
	return strings.HasPrefix(v, "creative") && strings.Contains(v, "name")
}

// ContentHeuristic колонка с наибольшим числом уникальных значений вида CM360
type ContentHeuristic struct {
	MinUnique int
}

// Detect реализует ColumnDetector
func (d ContentHeuristic) Detect(rows [][]string) (Detection, bool) {
	best, bestCount := -1, 0
	for c := 0; c < width(rows); c++ {
		n := countUnique(rows, c, looksLikeCreativeName)
		if n > bestCount && n >= d.MinUnique {
			best, bestCount = c, n
		}
	}
	if best < 0 {
		return Detection{}, false
	}
	return Detection{Column: best, HeaderRow: -1, Strategy: StrategyHeuristic}, true
}

// FirstColumn позиционный запасной вариант
type FirstColumn struct{}

// Detect реализует ColumnDetector
func (FirstColumn) Detect(rows [][]string) (Detection, bool) {
	if width(rows) == 0 {
		return Detection{}, false
	}
	return Detection{Column: 0, HeaderRow: -1, Strategy: StrategyFirstColumn}, true
}

func looksLikeCreativeName(s string) bool {
	return len([]rune(s)) > 5 && strings.Contains(s, "_")
}

func countUnique(rows [][]string, col int, keep func(string) bool) int {
	seen := make(map[string]struct{})
	for r := range rows {
		v := strings.TrimSpace(cell(rows, r, col))
		if v != "" && keep(v) {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

func cell(rows [][]string, r, c int) string {
	if r < 0 || r >= len(rows) || c < 0 || c >= len(rows[r]) {
		return ""
	}
	return rows[r][c]
}

func width(rows [][]string) int {
	w := 0
	for _, row := range rows {
		w = max(w, len(row))
	}
	return w
}
