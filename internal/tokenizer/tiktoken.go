package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// encodingInfo holds the vocabulary facts tiktoken-go does not expose.
type encodingInfo struct {
	vocabSize    int
	endOfText    int32
	specialFirst int32 // first reserved special id, inclusive
	specialLast  int32 // last reserved special id, inclusive
}

var encodings = map[string]encodingInfo{
	"cl100k_base": {vocabSize: 100256, endOfText: 100257, specialFirst: 100256, specialLast: 100276},
	"p50k_base":   {vocabSize: 50257, endOfText: 50256, specialFirst: 50256, specialLast: 50256},
	"r50k_base":   {vocabSize: 50257, endOfText: 50256, specialFirst: 50256, specialLast: 50256},
}

// TikToken wraps pkoukk/tiktoken-go encodings.
//
// TikToken has no bos, pad or unk tokens. Padded id sequences therefore rely on
// the collator's mask rather than a pad id.
type TikToken struct {
	encoding *tiktoken.Tiktoken
	name     string
	info     encodingInfo
}

// NewTikToken loads the named encoding, e.g. "cl100k_base".
func NewTikToken(encodingName string) (*TikToken, error) {
	info, ok := encodings[encodingName]
	if !ok {
		return nil, fmt.Errorf("unsupported tiktoken encoding %q", encodingName)
	}
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}
	return &TikToken{encoding: encoding, name: encodingName, info: info}, nil
}

// Encode converts text to token IDs. Special token text is encoded as plain text.
func (t *TikToken) Encode(text string) ([]int32, error) {
	tokens := t.encoding.Encode(text, nil, nil)
	ids := make([]int32, len(tokens))
	for i, tok := range tokens {
		ids[i] = int32(tok) //nolint:gosec // G115: Token ID fits in int32 - vocab size < 2^31.
	}
	return ids, nil
}

// Decode converts token IDs back to text.
func (t *TikToken) Decode(tokens []int32) (string, error) {
	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		if tok < 0 {
			return "", fmt.Errorf("negative token %d at position %d", tok, i)
		}
		ids[i] = int(tok)
	}
	return t.encoding.Decode(ids), nil
}

// VocabSize returns the number of regular (non-special) tokens.
func (t *TikToken) VocabSize() int { return t.info.vocabSize }

// BosToken returns -1.
func (t *TikToken) BosToken() int32 { return -1 }

// EosToken returns the <|endoftext|> id.
func (t *TikToken) EosToken() int32 { return t.info.endOfText }

// PadToken returns -1.
func (t *TikToken) PadToken() int32 { return -1 }

// UnkToken returns -1. Byte-level BPE never produces unknowns.
func (t *TikToken) UnkToken() int32 { return -1 }

// IsSpecialToken reports whether token falls in the encoding's reserved range.
func (t *TikToken) IsSpecialToken(token int32) bool {
	return token >= t.info.specialFirst && token <= t.info.specialLast
}

// Name returns the encoding name.
func (t *TikToken) Name() string { return t.name }
