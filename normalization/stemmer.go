package normalization

import (
	"strings"

	"github.com/kljensen/snowball"
)

// Stemmer interface defines methods for stemming words
type Stemmer interface {
	// Stem returns the stemmed version of a word
	Stem(word string) string

	// StemTokens returns stemmed versions of multiple words
	StemTokens(tokens []string) []string
}

// EnglishStemmer implements stemming for English creative names using Snowball algorithm
// Tokens containing digits (sizes, IDs, versions) are left untouched.
type EnglishStemmer struct {
	language string
}

// NewEnglishStemmer creates a new English language stemmer
func NewEnglishStemmer() *EnglishStemmer {
	return &EnglishStemmer{language: "english"}
}

// Stem returns the stemmed version of a word using Snowball algorithm
// Example: "banners" -> "banner", "running" -> "run"
func (s *EnglishStemmer) Stem(word string) string {
	normalized := strings.ToLower(strings.TrimSpace(word))
	if normalized == "" || strings.ContainsAny(normalized, "0123456789") {
		return normalized
	}

	stemmed, err := snowball.Stem(normalized, s.language, true)
	if err != nil || stemmed == "" {
		// If stemming fails, return the normalized word
		return normalized
	}

	return stemmed
}

// StemTokens returns stemmed versions of multiple words
func (s *EnglishStemmer) StemTokens(tokens []string) []string {
	if len(tokens) == 0 {
		return []string{}
	}

	stemmed := make([]string, len(tokens))
	for i, token := range tokens {
		stemmed[i] = s.Stem(token)
	}

	return stemmed
}
