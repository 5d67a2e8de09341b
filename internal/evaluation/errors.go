package evaluation

import "fmt"

// DocumentParseError indicates the document-to-text extractor failed for a
// proposal file, even after its own transport retry.
type DocumentParseError struct {
	Path string
	Err  error
}

func (e *DocumentParseError) Error() string {
	return fmt.Sprintf("parse document %q: %v", e.Path, e.Err)
}

func (e *DocumentParseError) Unwrap() error { return e.Err }

// PayloadParseError indicates an oracle payload could not be parsed as
// structured data, even after the brace-substring fallback.
type PayloadParseError struct {
	Chunk int
	Err   error
}

func (e *PayloadParseError) Error() string {
	return fmt.Sprintf("chunk %d: unparseable oracle payload: %v", e.Chunk, e.Err)
}

func (e *PayloadParseError) Unwrap() error { return e.Err }

// ValidationError indicates a parsed score record is missing a required
// field. The engine never guesses a requirement id or verdict.
type ValidationError struct {
	Record int
	Field  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("score record %d: missing or invalid field %q", e.Record, e.Field)
}

// DispatchError indicates a chunk call to the oracle failed. A partial
// requirement list would silently under-score a vendor, so the whole
// dispatch fails.
type DispatchError struct {
	Chunk int
	Err   error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("chunk %d: oracle call failed: %v", e.Chunk, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
