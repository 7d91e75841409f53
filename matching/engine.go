package matching

import (
	"context"
	"fmt"

	"creativerenamer/internal/infrastructure/workers"
	"creativerenamer/normalization"
	"creativerenamer/normalization/algorithms"
)

// Engine сопоставляет элементы архива с кандидатами
// Engine не хранит состояния между вызовами и безопасен для параллельного использования.
type Engine struct {
	normalizer *normalization.NameNormalizer
	scorer     *algorithms.Scorer
	assigner   Assigner
	strategy   Strategy
	threshold  int
	workers    int
}

// NewEngine создает движок с проверкой порога и стратегии
func NewEngine(opts Options) (*Engine, error) {
	threshold, err := NormalizeThreshold(opts.Threshold)
	if err != nil {
		return nil, err
	}
	strategy, err := ParseStrategy(string(opts.Strategy))
	if err != nil {
		return nil, err
	}
	assigner, err := NewAssigner(strategy)
	if err != nil {
		return nil, err
	}

	return &Engine{
		normalizer: normalization.NewNameNormalizer(normalization.Options{Stemming: opts.Stemming}),
		scorer:     algorithms.NewScorer(),
		assigner:   assigner,
		strategy:   strategy,
		threshold:  threshold,
		workers:    opts.Workers,
	}, nil
}

// WithAssigner подменяет стратегию назначения
func (e *Engine) WithAssigner(a Assigner) *Engine {
	clone := *e
	clone.assigner = a
	return &clone
}

// Threshold порог в шкале 0..100
func (e *Engine) Threshold() int { return e.threshold }

// Strategy выбранная стратегия
func (e *Engine) Strategy() Strategy { return e.strategy }

// Match возвращает по одному результату на элемент в порядке entries
func (e *Engine) Match(ctx context.Context, entries []EntryRef, candidates []Candidate) ([]Result, error) {
	results := make([]Result, len(entries))
	for i, entry := range entries {
		results[i] = Result{
			FilePath:  entry.Path,
			FileStem:  entry.Stem,
			Extension: entry.Extension,
			Error:     entry.Err,
		}
	}

	// Элементы с ошибкой не оцениваются
	scorable := make([]int, 0, len(entries))
	for i, entry := range entries {
		if entry.Err == "" {
			scorable = append(scorable, i)
		}
	}

	sorted := sortCandidates(candidates)
	if len(scorable) > 0 && len(sorted) > 0 {
		canonical := make([]string, len(sorted))
		for j, c := range sorted {
			canonical[j] = e.normalizer.Normalize(c.Text)
		}

		scores := NewScoreMatrix(len(scorable), len(sorted))
		err := workers.ForEach(ctx, len(scorable), e.workers, func(ctx context.Context, row int) error {
			stem := e.normalizer.Normalize(entries[scorable[row]].Stem)
			for j, name := range canonical {
				scores.Set(row, j, e.scorer.Score(stem, name))
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		assignment, err := e.assigner.Assign(ctx, scores)
		if err != nil {
			return nil, err
		}
		if len(assignment) != len(scorable) {
			return nil, fmt.Errorf("assigner returned %d rows, want %d", len(assignment), len(scorable))
		}

		for row, col := range assignment {
			if col == NoMatch {
				continue
			}
			r := &results[scorable[row]]
			r.MatchedName = sorted[col].Text
			r.Score = scores.At(row, col)
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i := range results {
		results[i].BelowThreshold = results[i].Error == "" && results[i].Score < e.threshold
	}
	return results, nil
}
