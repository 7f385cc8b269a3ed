package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"lingosub/internal/lexfilter"
	"lingosub/internal/segment"
)

// enrich attaches translations (and, for signed-in users, difficulty
// classifications) to analyzed segments. Lemma and sentence translation are
// independent service calls, so they run concurrently.
func (o *Orchestrator) enrich(ctx context.Context, req Request, segments []segment.Segment) ([]segment.Segment, error) {
	req.emit(StageTranslate, percentTranslate)
	if req.UserID == "" {
		return o.enrichGuest(ctx, req, segments)
	}
	return o.enrichUser(ctx, req, segments)
}

// enrichGuest translates a capped sample of content lemmas plus every
// sentence. Guests have no known vocabulary, so no classification happens.
func (o *Orchestrator) enrichGuest(ctx context.Context, req Request, segments []segment.Segment) ([]segment.Segment, error) {
	lemmas := uniqueContentLemmas(segments, o.cfg.Translation.GuestLemmaLimit)

	lemmaTranslations, sentenceTranslations, err := o.translateConcurrently(ctx, req, lemmas, segmentTexts(segments))
	if err != nil {
		return nil, err
	}

	byLemma := zipTranslations(lemmas, lemmaTranslations)
	for i := range segments {
		for j := range segments[i].Tokens {
			token := &segments[i].Tokens[j]
			if translation, ok := byLemma[token.Lemma]; ok {
				token.Translation = translation
			}
		}
		if i < len(sentenceTranslations) {
			segments[i].Translation = sentenceTranslations[i]
		}
	}
	return segments, nil
}

// enrichUser classifies every segment against the user's vocabulary, then
// translates only the lemmas the user does not know, plus every sentence.
func (o *Orchestrator) enrichUser(ctx context.Context, req Request, segments []segment.Segment) ([]segment.Segment, error) {
	tokenLists := make([][]segment.Token, len(segments))
	for i, seg := range segments {
		tokenLists[i] = seg.Tokens
	}
	filtered, err := o.filter.FilterBatch(ctx, tokenLists, req.UserID, req.TargetLang)
	if err != nil {
		return nil, fmt.Errorf("classify segments: %w", err)
	}

	lemmas := uniqueUnknownLemmas(filtered)

	lemmaTranslations, sentenceTranslations, err := o.translateConcurrently(ctx, req, lemmas, segmentTexts(segments))
	if err != nil {
		return nil, err
	}

	byLemma := zipTranslations(lemmas, lemmaTranslations)
	for i := range segments {
		segments[i].Tokens = filtered[i].Tokens
		segments[i].Classification = filtered[i].Classification
		for j := range segments[i].Tokens {
			token := &segments[i].Tokens[j]
			if token.IsKnown() {
				continue
			}
			if translation, ok := byLemma[token.Lemma]; ok {
				token.Translation = translation
			}
		}
		if i < len(sentenceTranslations) {
			segments[i].Translation = sentenceTranslations[i]
		}
	}
	return segments, nil
}

// translateConcurrently issues the lemma and sentence translation calls in
// parallel. A nil lemma slice skips that call; sentences always translate.
func (o *Orchestrator) translateConcurrently(ctx context.Context, req Request, lemmas, sentences []string) ([]string, []string, error) {
	var lemmaTranslations, sentenceTranslations []string

	group, groupCtx := errgroup.WithContext(ctx)
	if len(lemmas) > 0 {
		group.Go(func() error {
			result, err := o.gateway.Translate(groupCtx, lemmas, req.TargetLang, req.NativeLang)
			if err != nil {
				return fmt.Errorf("translate lemmas: %w", err)
			}
			lemmaTranslations = result.Translations
			return nil
		})
	}
	group.Go(func() error {
		result, err := o.gateway.Translate(groupCtx, sentences, req.TargetLang, req.NativeLang)
		if err != nil {
			return fmt.Errorf("translate sentences: %w", err)
		}
		sentenceTranslations = result.Translations
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}
	return lemmaTranslations, sentenceTranslations, nil
}

func segmentTexts(segments []segment.Segment) []string {
	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Text
	}
	return texts
}

// uniqueContentLemmas collects non-stop, non-punctuation lemmas in first-seen
// order, stopping at limit.
func uniqueContentLemmas(segments []segment.Segment, limit int) []string {
	seen := make(map[string]struct{})
	var lemmas []string
	for _, seg := range segments {
		for _, token := range seg.Tokens {
			if token.IsStop || token.POS == "PUNCT" || token.Lemma == "" {
				continue
			}
			if _, ok := seen[token.Lemma]; ok {
				continue
			}
			seen[token.Lemma] = struct{}{}
			lemmas = append(lemmas, token.Lemma)
			if limit > 0 && len(lemmas) >= limit {
				return lemmas
			}
		}
	}
	return lemmas
}

// uniqueUnknownLemmas collects, in first-seen order, every lemma the
// classifier marked unknown.
func uniqueUnknownLemmas(filtered []lexfilter.Filtered) []string {
	seen := make(map[string]struct{})
	var lemmas []string
	for _, result := range filtered {
		for _, token := range result.Tokens {
			if token.IsKnown() || token.Lemma == "" {
				continue
			}
			if _, ok := seen[token.Lemma]; ok {
				continue
			}
			seen[token.Lemma] = struct{}{}
			lemmas = append(lemmas, token.Lemma)
		}
	}
	return lemmas
}

// zipTranslations pairs source lemmas with their translations by index,
// tolerating a short translation slice.
func zipTranslations(lemmas, translations []string) map[string]string {
	byLemma := make(map[string]string, len(lemmas))
	for i, lemma := range lemmas {
		if i >= len(translations) {
			break
		}
		byLemma[lemma] = translations[i]
	}
	return byLemma
}
