package xml

// literalMatch is a reusable lexerState for "match this exact rune
// sequence or fail" sub-tokens: the two dashes after "<!", "CDATA[" after
// "<![", "OCTYPE" after "<!D", "?>" closing a PI, and so on. Rather than
// hand-writing a one-off state type per literal (most of which would be
// identical but for the text and what happens next), every fixed-keyword
// match in this grammar goes through one literalMatch type carrying its own
// position counter, so it resumes correctly no matter where a chunk
// boundary falls inside the keyword.
type literalMatch struct {
	want []rune
	pos  int

	onComplete func(l *coreLexer) stepResult
	what       string // for error messages, e.g. "comment opening '--'"
}

func matchLiteral(want string, what string, onComplete func(l *coreLexer) stepResult) *literalMatch {
	return &literalMatch{want: []rune(want), what: what, onComplete: onComplete}
}

func (m *literalMatch) step(l *coreLexer, in Input) stepResult {
	switch in.Kind {
	case InEndOfBuffer:
		return cont(m)
	case InEndOfData:
		return errEmit(LexerError, "unexpected end of input while matching %s", m.what)
	}

	if in.Codepoint != m.want[m.pos] {
		return errEmit(LexerError, "expected %q while matching %s, got %q", m.want[m.pos], m.what, in.Codepoint)
	}
	m.pos++
	if m.pos == len(m.want) {
		return m.onComplete(l)
	}
	return cont(m)
}

// deadState is the lexerState installed on a Parser handle after an error:
// it refuses to do anything further, since Parse itself checks IsParsing
// before ever calling step, but a stray direct step call fails loudly
// instead of papering over reuse of a dead handle.
type deadState struct{ err error }

func (s *deadState) step(l *coreLexer, in Input) stepResult {
	return stepResult{Err: s.err}
}

// errEmit reports a grammar failure from within a step method. The driver
// recognizes a stepResult with a non-nil Err and surfaces it to the caller
// as an error instead of a Production, marking the handle dead.
func errEmit(kind ErrorKind, format string, a ...interface{}) stepResult {
	err := newError(kind, format, a...)
	return stepResult{Err: err, Next: &deadState{err: err}}
}

func wrapErrEmit(kind ErrorKind, wrapped error, format string, a ...interface{}) stepResult {
	err := wrapError(kind, wrapped, format, a...)
	return stepResult{Err: err, Next: &deadState{err: err}}
}
