package algorithms

import "math"

// ScoreDetail раскладка оценки по отдельным метрикам
type ScoreDetail struct {
	EditRatio     float64 `json:"edit_ratio"`
	TokenSetRatio float64 `json:"token_set_ratio"`
	Score         int     `json:"score"`
}

// Scorer вычисляет уверенность (0-100) в том, что две строки обозначают один креатив
//
// Посимвольная метрика сильно штрафует перестановку слов, а токенная не замечает
// почти одинаковые токены, поэтому берется максимум из двух.
// Scorer не хранит изменяемого состояния и безопасен для параллельного использования.
type Scorer struct {
	indel  *Indel
	tokens *TokenBasedSimilarity
}

// NewScorer создает новый вычислитель оценки
func NewScorer() *Scorer {
	return &Scorer{
		indel:  NewIndel(),
		tokens: NewTokenBasedSimilarity(),
	}
}

// Score возвращает целочисленную оценку для двух канонических строк
func (s *Scorer) Score(a, b string) int {
	return s.Detail(a, b).Score
}

// Detail возвращает оценку вместе со значениями отдельных метрик
func (s *Scorer) Detail(a, b string) ScoreDetail {
	if a == "" && b == "" {
		return ScoreDetail{EditRatio: 100, TokenSetRatio: 100, Score: 100}
	}
	if a == "" || b == "" {
		return ScoreDetail{}
	}

	edit := s.indel.Ratio(a, b)
	tokenSet := s.tokens.TokenSetRatio(a, b)

	return ScoreDetail{
		EditRatio:     edit,
		TokenSetRatio: tokenSet,
		Score:         clampScore(math.Round(max(edit, tokenSet))),
	}
}

// clampScore приводит значение к диапазону [0, 100]
func clampScore(value float64) int {
	switch {
	case value < 0:
		return 0
	case value > 100:
		return 100
	}
	return int(value)
}
