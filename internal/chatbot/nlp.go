// internal/chatbot/nlp.go
package chatbot

import (
	"strings"
	"unicode"
)

// Resources bundles the stopword set and lemma tables used by Normalize.
// Build one in the composition root and share it read-only across queries.
type Resources struct {
	stopwords map[string]struct{}
	lemmas    map[string]string
}

// English stopwords, the usual closed-class words.
var stopwordList = []string{
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves",
	"you", "your", "yours", "yourself", "yourselves",
	"he", "him", "his", "himself", "she", "her", "hers", "herself",
	"it", "its", "itself", "they", "them", "their", "theirs", "themselves",
	"what", "which", "who", "whom", "this", "that", "these", "those",
	"am", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "having", "do", "does", "did", "doing",
	"a", "an", "the", "and", "but", "if", "or", "because", "as",
	"until", "while", "of", "at", "by", "for", "with", "about",
	"against", "between", "into", "through", "during", "before",
	"after", "above", "below", "to", "from", "up", "down", "in",
	"out", "on", "off", "over", "under", "again", "further", "then",
	"once", "here", "there", "when", "where", "why", "how", "all",
	"any", "both", "each", "few", "more", "most", "other", "some",
	"such", "no", "nor", "not", "only", "own", "same", "so", "than",
	"too", "very", "s", "t", "can", "will", "just", "don", "should",
	"now",
}

// Irregular noun forms the suffix rules below would get wrong.
var lemmaExceptions = map[string]string{
	"men":      "man",
	"women":    "woman",
	"children": "child",
	"people":   "person",
	"feet":     "foot",
	"teeth":    "tooth",
	"mice":     "mouse",
	"geese":    "goose",
	"analyses": "analysis",
	"indices":  "index",
	"statuses": "status",
}

// NewResources builds the shared normalization tables.
func NewResources() *Resources {
	stopwords := make(map[string]struct{}, len(stopwordList))
	for _, w := range stopwordList {
		stopwords[w] = struct{}{}
	}
	return &Resources{
		stopwords: stopwords,
		lemmas:    lemmaExceptions,
	}
}

// Normalize lowercases text, splits it on non-alphanumeric boundaries, drops
// stopwords and reduces the remaining tokens to a dictionary form. Pure and
// deterministic for a fixed Resources. The resolver matches entities against
// the raw lowercased query instead (multi-word department names make
// substring containment the simpler mechanism), so this output is currently
// informational.
func (r *Resources) Normalize(text string) []string {
	lowered := strings.ToLower(text)

	raw := strings.FieldsFunc(lowered, func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsDigit(c)
	})

	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if _, stop := r.stopwords[tok]; stop {
			continue
		}
		tokens = append(tokens, r.lemmatize(tok))
	}
	return tokens
}

// lemmatize reduces a token to its singular form: exception table first, then
// plural suffix stripping. Anything else passes through unchanged.
func (r *Resources) lemmatize(token string) string {
	if lemma, ok := r.lemmas[token]; ok {
		return lemma
	}

	switch {
	case strings.HasSuffix(token, "sses"):
		return token[:len(token)-2]
	case strings.HasSuffix(token, "ies") && len(token) > 4:
		return token[:len(token)-3] + "y"
	case strings.HasSuffix(token, "s") && !strings.HasSuffix(token, "ss") && !strings.HasSuffix(token, "us") && len(token) > 3:
		return token[:len(token)-1]
	default:
		return token
	}
}
