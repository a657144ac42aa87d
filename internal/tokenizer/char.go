package tokenizer

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// Special token IDs of CharTokenizer. Pad is zero so zero-padded id sequences decode as padding.
const (
	CharPad int32 = iota
	CharBos
	CharEos
	CharUnk

	charSpecials
)

// CharTokenizer maps each character of a fixed alphabet to its own id.
//
// Encode brackets every sequence with bos and eos. Characters outside the
// alphabet encode as unk.
type CharTokenizer struct {
	ids   map[rune]int32
	chars []rune
}

// NewCharTokenizer creates a tokenizer over the characters of alphabet, in order of
// first occurrence. Ids start after the special tokens.
func NewCharTokenizer(alphabet string) *CharTokenizer {
	c := &CharTokenizer{ids: make(map[rune]int32)}
	for _, r := range alphabet {
		if _, ok := c.ids[r]; ok {
			continue
		}
		c.ids[r] = charSpecials + int32(len(c.chars)) //nolint:gosec // G115: alphabet size fits in int32.
		c.chars = append(c.chars, r)
	}
	return c
}

// BuildCharTokenizer creates a tokenizer over every character in texts, sorted by code point.
func BuildCharTokenizer(texts []string) *CharTokenizer {
	seen := make(map[rune]struct{})
	var chars []rune
	for _, text := range texts {
		for _, r := range text {
			if _, ok := seen[r]; !ok {
				seen[r] = struct{}{}
				chars = append(chars, r)
			}
		}
	}
	slices.Sort(chars)
	return NewCharTokenizer(string(chars))
}

// Encode converts text to [bos, ids..., eos].
func (c *CharTokenizer) Encode(text string) ([]int32, error) {
	ids := make([]int32, 0, len(text)+2)
	ids = append(ids, CharBos)
	for _, r := range text {
		id, ok := c.ids[r]
		if !ok {
			id = CharUnk
		}
		ids = append(ids, id)
	}
	return append(ids, CharEos), nil
}

// Decode converts ids back to text. Bos, eos and pad are dropped and unk becomes U+FFFD.
func (c *CharTokenizer) Decode(tokens []int32) (string, error) {
	var sb strings.Builder
	for i, id := range tokens {
		switch {
		case id == CharUnk:
			sb.WriteRune(utf8.RuneError)
		case id >= 0 && id < charSpecials:
		case id >= charSpecials && int(id-charSpecials) < len(c.chars):
			sb.WriteRune(c.chars[id-charSpecials])
		default:
			return "", fmt.Errorf("token %d at position %d is outside the vocabulary (size %d)", id, i, c.VocabSize())
		}
	}
	return sb.String(), nil
}

// VocabSize returns the number of characters plus the four special tokens.
func (c *CharTokenizer) VocabSize() int { return int(charSpecials) + len(c.chars) }

// BosToken returns CharBos.
func (c *CharTokenizer) BosToken() int32 { return CharBos }

// EosToken returns CharEos.
func (c *CharTokenizer) EosToken() int32 { return CharEos }

// PadToken returns CharPad.
func (c *CharTokenizer) PadToken() int32 { return CharPad }

// UnkToken returns CharUnk.
func (c *CharTokenizer) UnkToken() int32 { return CharUnk }

// IsSpecialToken reports whether token is one of pad, bos, eos or unk.
func (c *CharTokenizer) IsSpecialToken(token int32) bool {
	return token >= 0 && token < charSpecials
}

// Alphabet returns the vocabulary characters in id order.
func (c *CharTokenizer) Alphabet() string { return string(c.chars) }
