// Package deck builds per-request vocabulary game decks from the enriched
// segments of a processed video.
package deck
