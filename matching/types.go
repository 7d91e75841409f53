// Package matching сопоставляет элементы архива с эталонными именами из листа.
//
// Каждый элемент получает лучшее имя и целочисленную оценку 0..100.
// Порог только помечает слабые совпадения и никогда их не отбрасывает.
package matching

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"creativerenamer/archive"
)

var (
	// ErrInvalidThreshold порог вне диапазона 0..1 или 0..100
	ErrInvalidThreshold = errors.New("threshold must be within 0..1 or 0..100")
	// ErrUnknownStrategy неизвестная стратегия назначения
	ErrUnknownStrategy = errors.New("unknown matching strategy")
)

// DefaultThreshold порог по умолчанию (в долях)
const DefaultThreshold = 0.7

// Strategy стратегия назначения имен
type Strategy string

const (
	// StrategyGreedy лучшее имя для каждого элемента независимо (одно имя может достаться нескольким)
	StrategyGreedy Strategy = "greedy"
	// StrategyExclusive каждое имя используется не больше одного раза
	StrategyExclusive Strategy = "exclusive"
)

// ParseStrategy разбирает название стратегии; пустая строка означает greedy
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyGreedy:
		return StrategyGreedy, nil
	case StrategyExclusive:
		return StrategyExclusive, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// Candidate эталонное имя из листа
type Candidate struct {
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// CandidatesFromNames строит кандидатов в порядке следования имен
func CandidatesFromNames(names []string) []Candidate {
	candidates := make([]Candidate, len(names))
	for i, name := range names {
		candidates[i] = Candidate{Text: name, Order: i}
	}
	return candidates
}

// EntryRef то, что движку нужно знать об элементе архива
type EntryRef struct {
	Path      string
	Stem      string
	Extension string
	// Err непустой, если элемент не читается; такой элемент не оценивается
	Err string
}

// RefsFromEntries переводит элементы архива в EntryRef с сохранением порядка
func RefsFromEntries(entries []archive.Entry) []EntryRef {
	refs := make([]EntryRef, len(entries))
	for i := range entries {
		refs[i] = EntryRef{
			Path:      entries[i].Path,
			Stem:      entries[i].Stem,
			Extension: entries[i].Extension,
			Err:       entries[i].ErrorMessage(),
		}
	}
	return refs
}

// Result результат сопоставления одного элемента
type Result struct {
	FilePath       string `json:"file_path"`
	FileStem       string `json:"file_stem"`
	Extension      string `json:"extension"`
	MatchedName    string `json:"matched_name"`
	Score          int    `json:"score"`
	BelowThreshold bool   `json:"below_threshold"`
	Error          string `json:"error,omitempty"`
}

// Options параметры сопоставления
type Options struct {
	// Threshold порог в долях (0..1) или процентах (1..100]
	Threshold float64
	Strategy  Strategy
	// Workers размер пула (0 = число CPU)
	Workers  int
	Stemming bool
}

// NormalizeThreshold приводит порог к шкале 0..100
// Значения до 1 включительно трактуются как доли: 0.7 -> 70, 1 -> 100.
func NormalizeThreshold(v float64) (int, error) {
	if math.IsNaN(v) || v < 0 || v > 100 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidThreshold, v)
	}
	if v <= 1 {
		return int(math.Round(v * 100)), nil
	}
	return int(math.Round(v)), nil
}

// sortCandidates упорядочивает кандидатов по Order, равные Order сохраняют входной порядок
func sortCandidates(candidates []Candidate) []Candidate {
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}
