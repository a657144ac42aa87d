// Package tokenizer converts text fields into token id sequences for collation.
//
// Supported tokenizers:
//   - CharTokenizer: per-character vocabulary with pad=0, bos=1, eos=2, unk=3
//   - TikToken: OpenAI BPE encodings (cl100k_base, p50k_base, r50k_base)
//
// Example usage:
//
//	import "github.com/born-ml/padcollate/tokenizer"
//
//	tok, err := tokenizer.ForEncoding("char", texts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ids, err := tok.Encode(texts[0])
package tokenizer

import (
	"github.com/born-ml/padcollate/internal/tokenizer"
)

// Tokenizer is the core interface for text tokenization.
type Tokenizer = tokenizer.Tokenizer

// CharTokenizer maps each character of a fixed alphabet to its own id.
type CharTokenizer = tokenizer.CharTokenizer

// Special token IDs of CharTokenizer.
const (
	CharPad = tokenizer.CharPad
	CharBos = tokenizer.CharBos
	CharEos = tokenizer.CharEos
	CharUnk = tokenizer.CharUnk
)

// EncodingChar selects the character tokenizer in ForEncoding.
const EncodingChar = tokenizer.EncodingChar

// NewCharTokenizer creates a tokenizer over the characters of alphabet.
func NewCharTokenizer(alphabet string) *CharTokenizer {
	return tokenizer.NewCharTokenizer(alphabet)
}

// BuildCharTokenizer creates a tokenizer over every character in texts.
func BuildCharTokenizer(texts []string) *CharTokenizer {
	return tokenizer.BuildCharTokenizer(texts)
}

// NewTikToken creates a TikToken tokenizer with the specified encoding.
func NewTikToken(encodingName string) (Tokenizer, error) {
	return tokenizer.NewTikToken(encodingName)
}

// ForEncoding returns the tokenizer for an encoding name.
func ForEncoding(name string, corpus []string) (Tokenizer, error) {
	return tokenizer.ForEncoding(name, corpus)
}
