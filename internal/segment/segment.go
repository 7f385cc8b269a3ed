package segment

// Classification labels how learnable a segment is for a specific viewer.
type Classification string

const (
	Easy     Classification = "EASY"
	Learning Classification = "LEARNING"
	Hard     Classification = "HARD"
)

// Token is one surface token of a transcribed sentence, enriched during
// processing. Translation and Known are absent until the enrichment step
// runs; Known stays nil for guest processing where no user knowledge exists.
type Token struct {
	Text        string `json:"text"`
	Lemma       string `json:"lemma"`
	POS         string `json:"pos"`
	IsStop      bool   `json:"is_stop"`
	Whitespace  string `json:"whitespace,omitempty"`
	Translation string `json:"translation,omitempty"`
	Known       *bool  `json:"isKnown,omitempty"`
}

// IsKnown reports the enriched known flag, defaulting to false when the
// token has not been through enrichment.
func (t Token) IsKnown() bool {
	return t.Known != nil && *t.Known
}

// Segment is one timed caption unit. Tokens preserve surface order,
// including whitespace and punctuation tokens. Classification and
// Translation are populated by the enrichment step.
type Segment struct {
	Start          float64        `json:"start"`
	End            float64        `json:"end"`
	Text           string         `json:"text"`
	Tokens         []Token        `json:"tokens"`
	Classification Classification `json:"classification,omitempty"`
	Translation    string         `json:"translation,omitempty"`
}

// KnownFlag returns a pointer suitable for Token.Known.
func KnownFlag(known bool) *bool {
	return &known
}
