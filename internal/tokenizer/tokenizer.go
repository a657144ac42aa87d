package tokenizer

import "fmt"

// Tokenizer is the core interface for text tokenization.
type Tokenizer interface {
	// Encode converts text to token IDs.
	Encode(text string) ([]int32, error)

	// Decode converts token IDs back to text.
	Decode(tokens []int32) (string, error)

	// VocabSize returns the total vocabulary size.
	VocabSize() int

	// BosToken returns the beginning-of-sequence token ID.
	// Returns -1 if not applicable.
	BosToken() int32

	// EosToken returns the end-of-sequence token ID.
	// Returns -1 if not applicable.
	EosToken() int32

	// PadToken returns the padding token ID.
	// Returns -1 if not applicable.
	PadToken() int32

	// UnkToken returns the unknown token ID.
	// Returns -1 if not applicable.
	UnkToken() int32

	// IsSpecialToken checks if a token ID is a special token.
	IsSpecialToken(token int32) bool
}

// EncodingChar selects the character tokenizer in ForEncoding.
const EncodingChar = "char"

// ForEncoding returns the tokenizer for an encoding name. EncodingChar builds a
// character vocabulary from corpus; any other name is looked up in tiktoken.
func ForEncoding(name string, corpus []string) (Tokenizer, error) {
	if name == EncodingChar {
		return BuildCharTokenizer(corpus), nil
	}
	tok, err := NewTikToken(name)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", name, err)
	}
	return tok, nil
}
