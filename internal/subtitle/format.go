package subtitle

import (
	"fmt"
	"strings"

	"lingosub/internal/segment"
)

// Mode selects which text a caption carries.
type Mode string

const (
	ModeNative     Mode = "native"
	ModeTranslated Mode = "translated"
	ModeBilingual  Mode = "bilingual"
)

// ParseMode converts a string into a known Mode.
func ParseMode(value string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeNative:
		return ModeNative, true
	case ModeTranslated:
		return ModeTranslated, true
	case ModeBilingual:
		return ModeBilingual, true
	default:
		return "", false
	}
}

// Cue is one timed caption block. Both VTT and SRT renderings derive from
// the same cue stream.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// BuildCues converts enriched segments into timed caption cues. For
// translated output, the segment-level translation wins when present;
// otherwise the text is reconstructed from per-token translations. The
// fallback covers records produced before sentence-level translation existed.
func BuildCues(segments []segment.Segment, mode Mode) []Cue {
	cues := make([]Cue, 0, len(segments))
	for i, seg := range segments {
		var text string
		switch mode {
		case ModeTranslated:
			text = translatedText(seg)
		case ModeBilingual:
			text = seg.Text + "\n" + translatedText(seg)
		default:
			text = seg.Text
		}
		cues = append(cues, Cue{
			Index: i + 1,
			Start: seg.Start,
			End:   seg.End,
			Text:  text,
		})
	}
	return cues
}

func translatedText(seg segment.Segment) string {
	if seg.Translation != "" {
		return seg.Translation
	}
	var builder strings.Builder
	for _, token := range seg.Tokens {
		if token.Translation != "" {
			builder.WriteString(token.Translation)
		} else {
			builder.WriteString(token.Text)
		}
	}
	return builder.String()
}

// RenderVTT serializes cues as WebVTT.
func RenderVTT(cues []Cue) string {
	var builder strings.Builder
	builder.WriteString("WEBVTT\n\n")
	for i, cue := range cues {
		if i > 0 {
			builder.WriteString("\n\n")
		}
		fmt.Fprintf(&builder, "%d\n%s --> %s\n%s", cue.Index, VTTTimestamp(cue.Start), VTTTimestamp(cue.End), cue.Text)
	}
	builder.WriteString("\n")
	return builder.String()
}

// RenderSRT serializes cues as SubRip text.
func RenderSRT(cues []Cue) string {
	blocks := make([]string, 0, len(cues))
	for _, cue := range cues {
		blocks = append(blocks, fmt.Sprintf("%d\n%s --> %s\n%s", cue.Index, SRTTimestamp(cue.Start), SRTTimestamp(cue.End), cue.Text))
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

// VTTTimestamp formats seconds as HH:MM:SS.mmm.
func VTTTimestamp(seconds float64) string {
	h, m, s, ms := splitTimestamp(seconds)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// SRTTimestamp formats seconds as HH:MM:SS,mmm (SRT uses a comma separator).
func SRTTimestamp(seconds float64) string {
	h, m, s, ms := splitTimestamp(seconds)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func splitTimestamp(seconds float64) (int, int, int, int) {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	ms := int((seconds - float64(total)) * 1000)
	return total / 3600, (total % 3600) / 60, total % 60, ms
}
