package embeddings

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// maxWordChars mirrors the BERT limit; longer words map straight to [UNK].
const maxWordChars = 100

// WordPieceTokenizer implements the uncased BERT tokenizer used by
// sentence-transformer exports.
type WordPieceTokenizer struct {
	vocab        map[string]int64
	clsID        int64
	sepID        int64
	padID        int64
	unkID        int64
	continuation string
}

// LoadWordPieceTokenizer builds the tokenizer from vocab.txt.
func LoadWordPieceTokenizer(path string) (*WordPieceTokenizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocab: %w", err)
	}
	defer f.Close()

	vocab := make(map[string]int64)
	sc := bufio.NewScanner(f)
	var idx int64
	for sc.Scan() {
		token := strings.TrimSpace(sc.Text())
		if token == "" {
			continue
		}
		vocab[token] = idx
		idx++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan vocab: %w", err)
	}

	return NewWordPieceTokenizer(vocab)
}

// NewWordPieceTokenizer builds a tokenizer from an in-memory vocabulary.
// The vocabulary must contain [CLS], [SEP], [PAD] and [UNK].
func NewWordPieceTokenizer(vocab map[string]int64) (*WordPieceTokenizer, error) {
	for _, special := range []string{"[CLS]", "[SEP]", "[PAD]", "[UNK]"} {
		if _, ok := vocab[special]; !ok {
			return nil, fmt.Errorf("%w: vocab missing %s", ErrInvalidConfig, special)
		}
	}
	return &WordPieceTokenizer{
		vocab:        vocab,
		continuation: "##",
		clsID:        vocab["[CLS]"],
		sepID:        vocab["[SEP]"],
		padID:        vocab["[PAD]"],
		unkID:        vocab["[UNK]"],
	}, nil
}

// Encode converts text into token IDs and an attention mask of length seqLen.
// Sequences longer than seqLen are truncated, keeping [CLS] and [SEP].
func (t *WordPieceTokenizer) Encode(text string, seqLen int) ([]int64, []int64) {
	if seqLen < 2 {
		return nil, nil
	}

	tokens := make([]int64, 0, seqLen)
	tokens = append(tokens, t.clsID)

	for _, w := range basicTokenize(text) {
		pieces := t.wordPiece(w)
		if len(tokens)+len(pieces) > seqLen-1 {
			pieces = pieces[:seqLen-1-len(tokens)]
		}
		tokens = append(tokens, pieces...)
		if len(tokens) >= seqLen-1 {
			break
		}
	}
	tokens = append(tokens, t.sepID)

	attn := make([]int64, seqLen)
	for i := range tokens {
		attn[i] = 1
	}
	for len(tokens) < seqLen {
		tokens = append(tokens, t.padID)
	}

	return tokens, attn
}

// basicTokenize lowercases, splits on whitespace and isolates punctuation.
func basicTokenize(text string) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsSpace(r) || unicode.IsControl(r):
			flush()
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			flush()
			words = append(words, string(r))
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return words
}

// wordPiece greedily splits a word into the longest known sub-tokens.
func (t *WordPieceTokenizer) wordPiece(word string) []int64 {
	if id, ok := t.vocab[word]; ok {
		return []int64{id}
	}
	if len([]rune(word)) > maxWordChars {
		return []int64{t.unkID}
	}

	var pieces []int64
	start := 0
	for start < len(word) {
		end := len(word)
		found := false
		for end > start {
			sub := word[start:end]
			if start > 0 {
				sub = t.continuation + sub
			}
			if id, ok := t.vocab[sub]; ok {
				pieces = append(pieces, id)
				start = end
				found = true
				break
			}
			end--
		}
		if !found {
			return []int64{t.unkID}
		}
	}
	return pieces
}
