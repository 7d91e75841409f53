// Package diff сравнивает два архива по путям и содержимому.
package diff

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"creativerenamer/archive"
	"creativerenamer/internal/infrastructure/workers"
)

var (
	// ErrDuplicatePath два элемента одного архива дают одинаковый нормализованный путь
	ErrDuplicatePath = errors.New("duplicate path in archive")
	// ErrUnknownPathMode неизвестный режим нормализации путей
	ErrUnknownPathMode = errors.New("unknown path mode")
)

// PathMode способ нормализации путей перед сравнением
type PathMode string

const (
	// PathModeFull полный путь: "\" -> "/", path.Clean, без ведущих "./" и "/", регистр сохраняется
	PathModeFull PathMode = "full"
	// PathModeBasename только имя файла
	PathModeBasename PathMode = "basename"
)

// ParsePathMode разбирает режим; пустая строка означает full
func ParsePathMode(s string) (PathMode, error) {
	switch PathMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", PathModeFull:
		return PathModeFull, nil
	case PathModeBasename:
		return PathModeBasename, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPathMode, s)
	}
}

// NormalizePath приводит путь элемента к ключу сравнения
func NormalizePath(p string, mode PathMode) string {
	p = archive.CleanPath(p)
	if mode == PathModeBasename {
		p = path.Base(p)
	}
	return p
}

// Summary количества по категориям
type Summary struct {
	OnlyIn1          int `json:"only_in_1"`
	OnlyIn2          int `json:"only_in_2"`
	SameContent      int `json:"same_content"`
	DifferentContent int `json:"different_content"`
}

// Result результат сравнения; все списки отсортированы лексикографически
type Result struct {
	OnlyIn1          []string `json:"only_in_1"`
	OnlyIn2          []string `json:"only_in_2"`
	SameContent      []string `json:"same_content"`
	DifferentContent []string `json:"different_content"`
	Summary          Summary  `json:"summary"`
	// Skipped1, Skipped2 нечитаемые элементы, исключенные из сравнения
	Skipped1 []SkippedEntry `json:"skipped_1"`
	Skipped2 []SkippedEntry `json:"skipped_2"`
}

// SkippedEntry элемент, который не удалось прочитать
type SkippedEntry struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Options параметры сравнения
type Options struct {
	PathMode PathMode
	// Workers размер пула хэширования (0 = число CPU)
	Workers int
}

// Engine сравнивает архивы
type Engine struct {
	mode    PathMode
	workers int
	hasher  Hasher
}

// NewEngine создает движок сравнения
func NewEngine(opts Options) (*Engine, error) {
	mode, err := ParsePathMode(string(opts.PathMode))
	if err != nil {
		return nil, err
	}
	return &Engine{mode: mode, workers: opts.Workers, hasher: SHA256Hasher{}}, nil
}

// PathMode выбранный режим нормализации
func (e *Engine) PathMode() PathMode { return e.mode }

// Compare классифицирует элементы a и b
// Один и тот же режим нормализации применяется к обоим архивам.
func (e *Engine) Compare(ctx context.Context, a, b *archive.Archive) (*Result, error) {
	digests1, skipped1, err := e.digests(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("archive 1: %w", err)
	}
	digests2, skipped2, err := e.digests(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("archive 2: %w", err)
	}

	result := &Result{
		OnlyIn1:          []string{},
		OnlyIn2:          []string{},
		SameContent:      []string{},
		DifferentContent: []string{},
		Skipped1:         skipped1,
		Skipped2:         skipped2,
	}

	for p, d1 := range digests1 {
		d2, ok := digests2[p]
		switch {
		case !ok:
			result.OnlyIn1 = append(result.OnlyIn1, p)
		case d1 == d2:
			result.SameContent = append(result.SameContent, p)
		default:
			result.DifferentContent = append(result.DifferentContent, p)
		}
	}
	for p := range digests2 {
		if _, ok := digests1[p]; !ok {
			result.OnlyIn2 = append(result.OnlyIn2, p)
		}
	}

	sort.Strings(result.OnlyIn1)
	sort.Strings(result.OnlyIn2)
	sort.Strings(result.SameContent)
	sort.Strings(result.DifferentContent)

	result.Summary = Summary{
		OnlyIn1:          len(result.OnlyIn1),
		OnlyIn2:          len(result.OnlyIn2),
		SameContent:      len(result.SameContent),
		DifferentContent: len(result.DifferentContent),
	}
	return result, nil
}

// digests строит карту нормализованный путь -> дайджест
// Нечитаемые элементы попадают в skipped и в карту не входят.
func (e *Engine) digests(ctx context.Context, a *archive.Archive) (map[string]string, []SkippedEntry, error) {
	entries := a.Entries()

	keys := make([]string, len(entries))
	owners := make(map[string]string, len(entries))
	for i, entry := range entries {
		key := NormalizePath(entry.Path, e.mode)
		if prev, dup := owners[key]; dup {
			return nil, nil, fmt.Errorf("%w: %q and %q both map to %q", ErrDuplicatePath, prev, entry.Path, key)
		}
		owners[key] = entry.Path
		keys[i] = key
	}

	sums := make([]string, len(entries))
	errs := make([]error, len(entries))
	err := workers.ForEach(ctx, len(entries), e.workers, func(_ context.Context, i int) error {
		if entries[i].Err != nil {
			errs[i] = entries[i].Err
			return nil
		}
		sums[i], errs[i] = e.hasher.Digest(&entries[i])
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	digests := make(map[string]string, len(entries))
	skipped := []SkippedEntry{}
	for i := range entries {
		if errs[i] != nil {
			skipped = append(skipped, SkippedEntry{Path: entries[i].Path, Error: errs[i].Error()})
			continue
		}
		digests[keys[i]] = sums[i]
	}
	if len(entries) > 0 && len(digests) == 0 {
		return nil, nil, fmt.Errorf("%w: %d of %d entries failed", archive.ErrAllEntriesFailed, len(skipped), len(entries))
	}
	return digests, skipped, nil
}
