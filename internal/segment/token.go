package segment

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter maps a text span to the length measure used as the chunk
// budget unit. Implementations must be deterministic; the unit is not
// necessarily characters or words.
type TokenCounter func(text string) int

// EstimateTokens gives a rough token count using a word-based heuristic.
// This is intentionally simple; it is the fallback when no tokenizer
// encoding is configured.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	// Roughly 1.33 tokens per word for English text.
	tokens := int(float64(words) * 1.33)
	if tokens < 1 && len(text) > 0 {
		tokens = 1
	}
	return tokens
}

// NewTiktokenCounter returns a TokenCounter backed by the tiktoken BPE
// vocabulary for the given encoding (e.g. "cl100k_base").
func NewTiktokenCounter(encoding string) (TokenCounter, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding %q: %w", encoding, err)
	}
	return func(text string) int {
		return len(enc.Encode(text, nil, nil))
	}, nil
}
