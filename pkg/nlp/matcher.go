package nlp

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	wordPattern = regexp.MustCompile(`\b\w+\b`)
	// capitalizedRunPattern matches runs of one or more consecutive
	// capitalized words in the original-case query, e.g. "Acme Corp".
	capitalizedRunPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
)

// stopwords covers common question words, prepositions, auxiliary verbs,
// and articles that never name an entity.
var stopwords = map[string]struct{}{
	"what": {}, "who": {}, "where": {}, "when": {}, "why": {}, "how": {},
	"is": {}, "are": {}, "was": {}, "were": {},
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {},
	"of": {}, "with": {}, "by": {}, "from": {}, "about": {}, "into": {},
	"through": {}, "during": {}, "before": {}, "after": {}, "above": {},
	"below": {}, "up": {}, "down": {}, "out": {}, "off": {},
	"over": {}, "under": {}, "again": {}, "further": {}, "then": {},
	"once": {}, "can": {}, "could": {}, "should": {}, "would": {},
	"may": {}, "might": {}, "must": {}, "shall": {}, "will": {},
	"do": {}, "does": {}, "did": {}, "has": {}, "have": {}, "had": {},
	"been": {}, "being": {}, "get": {}, "got": {},
}

// EntityMatcher turns a free-text query into candidate entity surface
// forms for graph search.
type EntityMatcher struct{}

// NewEntityMatcher creates an EntityMatcher.
func NewEntityMatcher() *EntityMatcher {
	return &EntityMatcher{}
}

// Extract returns candidate entity surface forms from the query, in a
// deterministic order: filtered lowercase tokens first, then lowercased
// capitalized runs from the original query, deduplicated preserving
// first occurrence.
func (m *EntityMatcher) Extract(query string) []string {
	var candidates []string

	for _, word := range wordPattern.FindAllString(strings.ToLower(query), -1) {
		if len(word) <= 2 || isNumeric(word) {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		candidates = append(candidates, word)
	}

	for _, run := range capitalizedRunPattern.FindAllString(query, -1) {
		candidates = append(candidates, strings.ToLower(run))
	}

	seen := make(map[string]struct{}, len(candidates))
	unique := candidates[:0]
	for _, candidate := range candidates {
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		unique = append(unique, candidate)
	}
	return unique
}

func isNumeric(word string) bool {
	for _, r := range word {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(word) > 0
}
