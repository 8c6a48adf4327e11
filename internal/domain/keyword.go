package domain

import (
	"strings"
	"unicode"
)

//nolint:gochecknoglobals // read-only lookup table
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"can": {}, "do": {}, "does": {}, "for": {}, "from": {}, "get": {}, "how": {},
	"i": {}, "if": {}, "in": {}, "is": {}, "it": {}, "me": {}, "my": {}, "of": {},
	"on": {}, "or": {}, "so": {}, "that": {}, "the": {}, "there": {}, "this": {},
	"to": {}, "was": {}, "we": {}, "what": {}, "whats": {}, "when": {}, "where": {},
	"which": {}, "who": {}, "why": {}, "will": {}, "with": {}, "you": {}, "your": {},
}

const minTokenLength = 2

// Tokenize lower-cases text, splits on anything that is not a letter or digit
// and drops stop words and single characters. Duplicates are removed; order of
// first appearance is kept.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < minTokenLength {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}

	return tokens
}

// KeywordMatcher is the lexical fallback tier.
type KeywordMatcher struct {
	threshold float64
}

// NewKeywordMatcher creates a new keyword matcher.
func NewKeywordMatcher(threshold float64) *KeywordMatcher {
	return &KeywordMatcher{threshold: threshold}
}

// Score returns |overlap| / max(|query|, |candidate|) over token sets.
func (m *KeywordMatcher) Score(queryTokens []string, candidate string) float64 {
	candTokens := Tokenize(candidate)
	if len(queryTokens) == 0 || len(candTokens) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(candTokens))
	for _, t := range candTokens {
		set[t] = struct{}{}
	}

	overlap := 0
	for _, t := range queryTokens {
		if _, ok := set[t]; ok {
			overlap++
		}
	}

	denom := len(queryTokens)
	if len(candTokens) > denom {
		denom = len(candTokens)
	}

	return float64(overlap) / float64(denom)
}

// Match returns the best scoring entry above the threshold, or nil.
func (m *KeywordMatcher) Match(question string, entries []FAQEntry) *Match {
	queryTokens := Tokenize(question)
	if len(queryTokens) == 0 {
		return nil
	}

	bestIdx := -1
	bestScore := 0.0

	for i := range entries {
		score := m.Score(queryTokens, entries[i].Question)
		if score >= m.threshold && score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx < 0 {
		return nil
	}

	entry := entries[bestIdx]

	return &Match{
		Entry:      &entry,
		Ordinal:    bestIdx + 1,
		Category:   entry.Category,
		Answer:     entry.Answer,
		Score:      bestScore,
		Confidence: LevelForScore(bestScore),
		Type:       MatchTypeKeyword,
	}
}
