package driven

// Tokenizer counts tokens the way the downstream consumer will.
// Counting is reporting only: it informs the advisory budget display
// and never blocks a save.
type Tokenizer interface {
	// Count returns the number of tokens in the text.
	Count(text string) int
}
