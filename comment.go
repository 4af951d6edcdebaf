package xml

// commentState accumulates comment text after "<!--", stopping at the
// literal "--" (which XML 1.0 §2.5 forbids from appearing anywhere else in
// a comment) and then requiring the closing '>'.
type commentState struct {
	buf   []rune
	dashes int
}

func newCommentState() *commentState { return &commentState{} }

func (s *commentState) step(l *coreLexer, in Input) stepResult {
	switch in.Kind {
	case InEndOfBuffer:
		return cont(s)
	case InEndOfData:
		return errEmit(LexerError, "unexpected end of input in comment")
	}

	cp := in.Codepoint

	if cp == '-' {
		s.dashes++
		if s.dashes == 2 {
			return cont(matchLiteral(">", "comment closing \"-->\"", func(l *coreLexer) stepResult {
				return s.emit()
			}))
		}
		return cont(s)
	}

	for i := 0; i < s.dashes; i++ {
		s.buf = append(s.buf, '-')
	}
	s.dashes = 0

	if !IsXMLChar(cp) {
		return errEmit(LexerError, "illegal character U+%X in comment", cp)
	}
	s.buf = append(s.buf, cp)
	return cont(s)
}

func (s *commentState) emit() stepResult {
	var next lexerState = newTextState()
	return emit(Production{Kind: PComment, Text: string(s.buf)}, next)
}
