package deck

import (
	"context"
	"fmt"
	"sort"

	"lingosub/internal/knowledge"
	"lingosub/internal/segment"
	"lingosub/internal/store"
)

// Part-of-speech tags worth drilling in the vocabulary game.
var contentPOS = map[string]struct{}{
	"NOUN": {},
	"VERB": {},
	"ADJ":  {},
}

// Card is one vocabulary game card, built per request and never persisted.
type Card struct {
	Lemma           string `json:"lemma"`
	Original        string `json:"original"`
	ContextSentence string `json:"contextSentence"`
	CEFR            string `json:"cefr"`
	Translation     string `json:"translation"`
	Known           bool   `json:"isKnown"`
}

// Builder extracts vocabulary decks from processed videos.
type Builder struct {
	store     *store.Store
	knowledge *knowledge.Service
	limit     int
}

// NewBuilder constructs a deck builder. limit caps deck size when Generate
// is called with a non-positive limit.
func NewBuilder(st *store.Store, svc *knowledge.Service, limit int) *Builder {
	if limit <= 0 {
		limit = 15
	}
	return &Builder{store: st, knowledge: svc, limit: limit}
}

// Generate builds a deck of unique lemmas spoken within [startTime, endTime)
// of the video. Unknown words sort before known ones; the deck is truncated
// to limit. Missing processing records and empty windows yield an empty
// deck, not an error.
func (b *Builder) Generate(ctx context.Context, userID, videoID, targetLang string, startTime, endTime float64, limit int) ([]Card, error) {
	if limit <= 0 {
		limit = b.limit
	}

	processing, err := b.store.GetProcessing(ctx, videoID, targetLang)
	if err != nil {
		return nil, fmt.Errorf("load processing record: %w", err)
	}
	if processing == nil || processing.Segments == nil {
		return []Card{}, nil
	}

	candidates := extractCandidates(processing.Segments, startTime, endTime)
	if len(candidates) == 0 {
		return []Card{}, nil
	}

	lemmas := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		lemmas = append(lemmas, candidate.token.Lemma)
	}
	knownSet, err := b.knowledge.KnownLemmas(ctx, userID, targetLang, lemmas)
	if err != nil {
		return nil, err
	}

	cards := buildUniqueCards(candidates, knownSet)
	sort.SliceStable(cards, func(i, j int) bool {
		return !cards[i].Known && cards[j].Known
	})
	if len(cards) > limit {
		cards = cards[:limit]
	}
	return cards, nil
}

type candidate struct {
	token   segment.Token
	context string
}

// extractCandidates collects content tokens from every segment overlapping
// the window. Segments are scanned in full rather than assuming ascending
// sort order, so out-of-order arrays still yield all candidates.
func extractCandidates(segments []segment.Segment, startTime, endTime float64) []candidate {
	var candidates []candidate
	for _, seg := range segments {
		if seg.End < startTime || seg.Start >= endTime {
			continue
		}
		for _, token := range seg.Tokens {
			if _, ok := contentPOS[token.POS]; !ok {
				continue
			}
			candidates = append(candidates, candidate{token: token, context: seg.Text})
		}
	}
	return candidates
}

// buildUniqueCards groups candidates by lemma, keeping the first-seen
// surface form and context sentence.
func buildUniqueCards(candidates []candidate, knownSet map[string]struct{}) []Card {
	seen := make(map[string]struct{}, len(candidates))
	cards := make([]Card, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.token.Lemma]; ok {
			continue
		}
		seen[c.token.Lemma] = struct{}{}

		translation := c.token.Translation
		if translation == "" {
			translation = "..."
		}
		_, known := knownSet[c.token.Lemma]
		cards = append(cards, Card{
			Lemma:           c.token.Lemma,
			Original:        c.token.Text,
			ContextSentence: c.context,
			CEFR:            "?",
			Translation:     translation,
			Known:           known,
		})
	}
	return cards
}
