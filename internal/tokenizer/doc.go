// Package tokenizer turns text fields into integer token sequences before collation.
//
// Two implementations are provided:
//   - CharTokenizer: one id per character with pad=0, bos=1, eos=2, unk=3
//   - TikToken: BPE encodings from tiktoken-go (cl100k_base, p50k_base, r50k_base)
//
// Example usage:
//
//	tok := tokenizer.BuildCharTokenizer([]string{"hello", "world"})
//	ids, err := tok.Encode("hold")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// ids == [1 h o l d 2]
package tokenizer
