// Package normalization приводит имена файлов и строки из таблицы именования
// к канонической форме, пригодной только для сравнения.
package normalization

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Name строка в исходном и каноническом виде
// Исходная строка всегда сохраняется для отображения
type Name struct {
	Original  string `json:"original"`
	Canonical string `json:"canonical"`
}

// Options параметры нормализации
type Options struct {
	// Stemming включает приведение токенов к основе (английский Snowball)
	Stemming bool
}

// NameNormalizer канонизирует строки для сравнения
// Не хранит изменяемого состояния, безопасен для параллельного использования
type NameNormalizer struct {
	stemmer Stemmer
}

// NewNameNormalizer создает новый нормализатор имен
func NewNameNormalizer(opts Options) *NameNormalizer {
	n := &NameNormalizer{}
	if opts.Stemming {
		n.stemmer = NewEnglishStemmer()
	}
	return n
}

// Normalize выполняет полную нормализацию строки
//
//  1. NFKD-разложение и удаление диакритических знаков
//  2. Приведение к нижнему регистру
//  3. Любой символ, кроме буквы или цифры, считается разделителем
//  4. Серии разделителей схлопываются в один пробел
func (n *NameNormalizer) Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := stripDiacritics(raw)
	text = strings.ToLower(text)

	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	if n.stemmer != nil {
		tokens = n.stemmer.StemTokens(tokens)
	}

	return strings.Join(tokens, " ")
}

// NormalizeName возвращает строку в исходном и каноническом виде
func (n *NameNormalizer) NormalizeName(raw string) Name {
	return Name{Original: raw, Canonical: n.Normalize(raw)}
}

// NormalizeStem нормализует путь файла: отбрасывает каталоги и расширение
// В Original сохраняется основа имени без расширения
func (n *NameNormalizer) NormalizeStem(filePath string) Name {
	stem, _ := SplitName(filePath)
	return Name{Original: stem, Canonical: n.Normalize(stem)}
}

// SplitName разбивает путь на основу имени и расширение (с точкой)
// Каталоги отбрасываются, поддерживаются разделители "/" и "\".
// Точка в начале имени не начинает расширение: ".hidden" -> (".hidden", "").
func SplitName(filePath string) (stem, ext string) {
	base := path.Base(strings.ReplaceAll(filePath, "\\", "/"))
	if base == "." || base == "/" {
		return "", ""
	}

	idx := strings.LastIndex(base, ".")
	if idx <= 0 {
		return base, ""
	}
	return base[:idx], base[idx:]
}

// stripDiacritics удаляет диакритические знаки через NFKD-разложение
// NFKD также раскладывает совместимые символы (полноширинные цифры, лигатуры)
func stripDiacritics(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return result
}
