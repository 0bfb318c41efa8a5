package tiktoken

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/tiller-tolbus/packrat/internal/core/ports/driven"
)

// DefaultEncoding is the encoding used when none is configured.
const DefaultEncoding = "cl100k_base"

// Tokenizer counts tokens using a tiktoken BPE encoding.
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
}

var _ driven.Tokenizer = (*Tokenizer)(nil)

// NewTokenizer creates a Tokenizer for the named encoding. An empty
// name selects DefaultEncoding.
func NewTokenizer(encodingName string) (*Tokenizer, error) {
	if encodingName == "" {
		encodingName = DefaultEncoding
	}

	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("loading %s encoding: %w", encodingName, err)
	}

	return &Tokenizer{encoding: enc}, nil
}

// Count returns the number of tokens in text. Special tokens are not
// treated specially; the text is encoded as ordinary content.
func (t *Tokenizer) Count(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}
