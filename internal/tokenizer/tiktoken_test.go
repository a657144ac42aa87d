package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadTikToken fetches BPE ranks on first use, so these tests are skipped with -short.
func loadTikToken(t *testing.T, name string) *TikToken {
	t.Helper()
	if testing.Short() {
		t.Skip("tiktoken encodings are downloaded on first use")
	}
	tok, err := NewTikToken(name)
	require.NoError(t, err)
	return tok
}

func TestTikToken_UnsupportedEncoding(t *testing.T) {
	tok, err := NewTikToken("invalid_encoding_xyz")
	assert.Error(t, err)
	assert.Nil(t, tok)
}

func TestTikToken_Roundtrip(t *testing.T) {
	tok := loadTikToken(t, "cl100k_base")

	for _, text := range []string{
		"Hello, world!",
		"Hello\nWorld\n",
		"Hello 世界! 🌍",
		"",
	} {
		ids, err := tok.Encode(text)
		require.NoError(t, err)

		decoded, err := tok.Decode(ids)
		require.NoError(t, err)
		assert.Equal(t, text, decoded)
	}
}

func TestTikToken_SpecialTokens(t *testing.T) {
	tok := loadTikToken(t, "cl100k_base")

	assert.Equal(t, int32(-1), tok.BosToken())
	assert.Equal(t, int32(-1), tok.PadToken())
	assert.Equal(t, int32(-1), tok.UnkToken())
	assert.Equal(t, int32(100257), tok.EosToken())
	assert.True(t, tok.IsSpecialToken(tok.EosToken()))
	assert.True(t, tok.IsSpecialToken(100276))
	assert.False(t, tok.IsSpecialToken(1000))
	assert.Equal(t, "cl100k_base", tok.Name())
}

func TestTikToken_VocabSize(t *testing.T) {
	for name, want := range map[string]int{"cl100k_base": 100256, "p50k_base": 50257} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, loadTikToken(t, name).VocabSize())
		})
	}
}

func TestTikToken_DecodeNegative(t *testing.T) {
	tok := loadTikToken(t, "p50k_base")
	_, err := tok.Decode([]int32{1, -1})
	assert.Error(t, err)
}
