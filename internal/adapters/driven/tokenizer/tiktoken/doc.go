// Package tiktoken provides a Tokenizer implementation backed by the
// tiktoken BPE encodings. The default cl100k_base encoding matches the
// vocabularies used by current chat models, so counts line up with
// what a model context window actually consumes.
package tiktoken
