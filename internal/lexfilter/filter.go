package lexfilter

import (
	"context"

	"lingosub/internal/config"
	"lingosub/internal/knowledge"
	"lingosub/internal/segment"
)

// Part-of-speech tags with classification significance.
const (
	posPronoun     = "PRON"
	posAdposition  = "ADP"
	posPunctuation = "PUNCT"
)

// Thresholds tune the LEARNING/HARD boundary.
type Thresholds struct {
	MaxUnknownForLearning int
	MaxRatioForLearning   float64
}

// ThresholdsFromConfig lifts the filter section out of application config.
func ThresholdsFromConfig(cfg *config.Config) Thresholds {
	return Thresholds{
		MaxUnknownForLearning: cfg.Filter.MaxUnknownForLearning,
		MaxRatioForLearning:   cfg.Filter.MaxRatioForLearning,
	}
}

// Filtered is one segment's classification result with enriched tokens.
type Filtered struct {
	Classification segment.Classification
	UnknownCount   int
	Tokens         []segment.Token
}

// Filter classifies segments into difficulty tiers against a user's known
// vocabulary. Stateless apart from the knowledge lookup.
type Filter struct {
	knowledge  *knowledge.Service
	thresholds Thresholds
}

// New constructs a filter using the given knowledge service and thresholds.
func New(svc *knowledge.Service, thresholds Thresholds) *Filter {
	return &Filter{knowledge: svc, thresholds: thresholds}
}

// FilterSegment classifies a single segment's tokens for a user.
func (f *Filter) FilterSegment(ctx context.Context, tokens []segment.Token, userID, lang string) (Filtered, error) {
	lemmas := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if isContentLemma(token) {
			lemmas = append(lemmas, token.Lemma)
		}
	}
	knownSet, err := f.knowledge.KnownLemmas(ctx, userID, lang, lemmas)
	if err != nil {
		return Filtered{}, err
	}
	return f.classify(tokens, knownSet), nil
}

// FilterBatch classifies many segments with a single knowledge lookup: the
// union of all content lemmas is fetched once, then each segment is
// classified independently against the shared known-set.
func (f *Filter) FilterBatch(ctx context.Context, segments [][]segment.Token, userID, lang string) ([]Filtered, error) {
	var lemmas []string
	for _, tokens := range segments {
		for _, token := range tokens {
			if isContentLemma(token) {
				lemmas = append(lemmas, token.Lemma)
			}
		}
	}
	knownSet, err := f.knowledge.KnownLemmas(ctx, userID, lang, lemmas)
	if err != nil {
		return nil, err
	}

	results := make([]Filtered, len(segments))
	for i, tokens := range segments {
		results[i] = f.classify(tokens, knownSet)
	}
	return results, nil
}

// classify enriches every token with its known flag and labels the segment.
// Pronouns and adpositions count as content even when tagged as stop words:
// they stay hard for learners. Non-content tokens are always "known" so they
// never block progress.
func (f *Filter) classify(tokens []segment.Token, knownSet map[string]struct{}) Filtered {
	enriched := make([]segment.Token, len(tokens))
	contentCount := 0
	unknownCount := 0
	for i, token := range tokens {
		_, inKnownSet := knownSet[token.Lemma]
		enriched[i] = token
		enriched[i].Known = segment.KnownFlag(token.IsStop || token.POS == posPunctuation || inKnownSet)

		if isContentToken(token) {
			contentCount++
			if !inKnownSet {
				unknownCount++
			}
		}
	}

	classification := segment.Easy
	if contentCount > 0 {
		unknownRatio := float64(unknownCount) / float64(contentCount)
		isLearning := unknownCount > 0 &&
			unknownCount <= f.thresholds.MaxUnknownForLearning &&
			unknownRatio <= f.thresholds.MaxRatioForLearning
		isHard := unknownCount > f.thresholds.MaxUnknownForLearning ||
			unknownRatio > f.thresholds.MaxRatioForLearning
		switch {
		case isLearning:
			classification = segment.Learning
		case isHard:
			classification = segment.Hard
		}
	}

	return Filtered{
		Classification: classification,
		UnknownCount:   unknownCount,
		Tokens:         enriched,
	}
}

// isContentToken selects tokens that carry pedagogical weight when
// classifying difficulty.
func isContentToken(token segment.Token) bool {
	if token.POS == posPunctuation {
		return false
	}
	return !token.IsStop || token.POS == posPronoun || token.POS == posAdposition
}

// isContentLemma selects lemmas worth a knowledge lookup: everything that is
// neither a plain stop word nor punctuation.
func isContentLemma(token segment.Token) bool {
	return !token.IsStop && token.POS != posPunctuation
}
