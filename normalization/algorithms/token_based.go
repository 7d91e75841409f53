package algorithms

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// TokenBasedSimilarity вычисляет схожесть на основе множеств токенов
// Устойчива к перестановке слов и к лишним словам в одной из строк
type TokenBasedSimilarity struct {
	indel *Indel
}

// NewTokenBasedSimilarity создает новый вычислитель токен-ориентированной схожести
func NewTokenBasedSimilarity() *TokenBasedSimilarity {
	return &TokenBasedSimilarity{
		indel: NewIndel(),
	}
}

// TokenSetRatio сравнивает строки как множества токенов (шкала 0-100)
//
// Строки разбиваются по пробелам, из токенов строятся отсортированные множества:
// пересечение sect и разности diffAB, diffBA. Если пересечение не пусто, а одна из
// разностей пуста (одна строка целиком содержится в другой), результат 100.
// Иначе берется максимум из сравнений "sect+diffAB" с "sect+diffBA" и каждой из них с sect.
func (tb *TokenBasedSimilarity) TokenSetRatio(text1, text2 string) float64 {
	tokens1 := tokenSet(text1)
	tokens2 := tokenSet(text2)

	if len(tokens1) == 0 || len(tokens2) == 0 {
		return 0
	}

	var intersection, diffAB, diffBA []string
	for token := range tokens1 {
		if tokens2[token] {
			intersection = append(intersection, token)
		} else {
			diffAB = append(diffAB, token)
		}
	}
	for token := range tokens2 {
		if !tokens1[token] {
			diffBA = append(diffBA, token)
		}
	}

	if len(intersection) > 0 && (len(diffAB) == 0 || len(diffBA) == 0) {
		return 100
	}

	sort.Strings(intersection)
	sort.Strings(diffAB)
	sort.Strings(diffBA)

	sect := strings.Join(intersection, " ")
	ab := strings.Join(diffAB, " ")
	ba := strings.Join(diffBA, " ")

	sectLen := utf8.RuneCountInString(sect)
	abLen := utf8.RuneCountInString(ab)
	baLen := utf8.RuneCountInString(ba)

	// Длины строк "sect ab" и "sect ba" с разделителем, если sect не пуст
	separator := 0
	if sectLen > 0 {
		separator = 1
	}
	sectABLen := sectLen + separator + abLen
	sectBALen := sectLen + separator + baLen

	// Общий префикс "sect " не влияет на расстояние, поэтому сравниваем только разности
	result := normalizedRatio(tb.indel.Distance(ab, ba), sectABLen+sectBALen)
	if sectLen == 0 {
		return result
	}

	// sect против "sect ab": расстояние равно длине добавленного хвоста
	sectABRatio := normalizedRatio(separator+abLen, sectLen+sectABLen)
	sectBARatio := normalizedRatio(separator+baLen, sectLen+sectBALen)

	return max(result, sectABRatio, sectBARatio)
}

// tokenSet разбивает уже нормализованный текст на множество токенов
func tokenSet(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range strings.Fields(text) {
		tokens[word] = true
	}
	return tokens
}
