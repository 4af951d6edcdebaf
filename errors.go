package xml

import "fmt"

// ErrorKind discriminates the reasons a Parser can fail. Generalized from
// the game-message/technical-message split of an interpreterError into a
// typed Kind enum, since the parser has no player-facing vs. technical
// distinction to preserve: every Error is a technical one.
type ErrorKind int

const (
	// LexerError covers any grammar violation: an expected character that
	// wasn't there, bad quoting, a forbidden construct ('<' in an attribute
	// value, "]]>" in text, "--" in a comment, malformed "??>"), an invalid
	// declaration, or an unsupported XML version.
	LexerError ErrorKind = iota

	// UnknownToken is raised when a keyword is required to be one of a
	// small fixed set (e.g. a DTD declaration keyword that is not ELEMENT,
	// ATTLIST, ENTITY, or NOTATION) and isn't.
	UnknownToken

	// UnknownEntity is raised by the default EntityResolver for any entity
	// reference it doesn't recognize; custom resolvers may choose to
	// succeed instead.
	UnknownEntity

	// InvalidChar is raised when a character reference resolves to a
	// codepoint outside IsXMLChar.
	InvalidChar

	// Finished is raised when Parse is called on a handle that has already
	// passed end-of-data.
	Finished

	// TooFew is raised when fewer than four bytes are available to
	// autodetect and finish is true, so no more bytes will ever arrive.
	TooFew
)

func (k ErrorKind) String() string {
	switch k {
	case LexerError:
		return "LexerError"
	case UnknownToken:
		return "UnknownToken"
	case UnknownEntity:
		return "UnknownEntity"
	case InvalidChar:
		return "InvalidChar"
	case Finished:
		return "Finished"
	case TooFew:
		return "TooFew"
	default:
		return "Unknown"
	}
}

// Error is the single error type the parser raises. All kinds are fatal at
// first occurrence: after returning one, the Parser handle that produced it
// is logically dead (IsParsing returns false) and must be discarded.
type Error struct {
	Kind ErrorKind
	msg  string
	wrap error
}

func (e *Error) Error() string {
	return e.msg
}

// Unwrap gives the error that Error wraps, if any.
func (e *Error) Unwrap() error {
	return e.wrap
}

func newError(kind ErrorKind, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, a...)}
}

func wrapError(kind ErrorKind, wrapped error, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, a...), wrap: wrapped}
}
