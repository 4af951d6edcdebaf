// Package decode provides the byte-to-codepoint decoder layer consumed by
// the xml package's lexer. Decoders are an external collaborator of the
// grammar: the grammar only ever calls Step one byte at a time and reacts to
// the returned Result, so any encoding can be plugged in as long as it
// implements this one-byte-at-a-time contract.
package decode

import "fmt"

// Step consumes exactly one input byte and returns a Result describing what,
// if anything, could be produced from it.
type Step func(b byte) Result

// Result is the outcome of feeding one byte to a Step. If Ready is false, no
// codepoint could yet be produced (the decoder needs more bytes) and Next
// should be called with the following input byte. If Ready is true, Codepoint
// holds the decoded scalar value and Next is the step to resume with on the
// byte after the one that completed it. Err is set when the input byte
// sequence is not legal for the decoder's encoding; once Err is non-nil the
// decoder must not be driven further.
type Result struct {
	Ready    bool
	Codepoint rune
	Next      Step
	Err       error
}

func need(next Step) Result {
	return Result{Ready: false, Next: next}
}

func yield(cp rune, next Step) Result {
	return Result{Ready: true, Codepoint: cp, Next: next}
}

func fail(err error) Result {
	return Result{Err: err}
}

// InvalidChar is returned when a decoder encounters a byte sequence that is
// not legal for its encoding.
type InvalidChar struct {
	Encoding string
	Detail   string
}

func (e *InvalidChar) Error() string {
	return fmt.Sprintf("%s: invalid byte sequence: %s", e.Encoding, e.Detail)
}

// Decoder names an encoding and provides a fresh Step function for it. It is
// the shape passed to xml.UnknownEncodingHandler and returned by Autodetect.
type Decoder struct {
	// Name is the canonical encoding name, as would appear in an XML
	// encoding declaration (case-insensitively).
	Name string

	// New returns a fresh Step ready to decode from the first byte of a
	// document (or of whatever remains after encoding autodetection/
	// declaration processing has consumed its prefix).
	New func() Step
}
