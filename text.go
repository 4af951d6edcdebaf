package xml

// textState accumulates character data inside element content until it
// hits markup ('<') or end of input. It resolves entity and character
// references inline (the resolved replacement text is merged into the
// accumulated buffer, not re-lexed as markup) and rejects a literal "]]>"
// appearing outside a CDATA section, per XML 1.0 §2.4.
//
// closeBrackets holds a run of not-yet-flushed ']' characters while
// deciding whether they are about to be followed by "]>" (forming the
// forbidden "]]>"), without emitting a stepResult for each one.
type textState struct {
	buf           []rune
	closeBrackets int
}

func newTextState() *textState { return &textState{} }

func (s *textState) flushBrackets() {
	for i := 0; i < s.closeBrackets; i++ {
		s.buf = append(s.buf, ']')
	}
	s.closeBrackets = 0
}

func (s *textState) step(l *coreLexer, in Input) stepResult {
	switch in.Kind {
	case InEndOfBuffer:
		return cont(s)
	case InEndOfData:
		s.flushBrackets()
		return s.emitIfAny(&documentEndState{})
	}

	cp := in.Codepoint

	if cp == ']' {
		if s.closeBrackets < 2 {
			s.closeBrackets++
			return cont(s)
		}
		// already holding two: this one also counts, flush the oldest.
		s.buf = append(s.buf, ']')
		return cont(s)
	}

	if cp == '>' && s.closeBrackets >= 2 {
		return errEmit(LexerError, "literal \"]]>\" is not allowed in element content")
	}

	s.flushBrackets()

	switch cp {
	case '<':
		return s.emitIfAny(&afterLTState{})
	case '&':
		return cont(startRef(func(l *coreLexer, repl string) stepResult {
			s.buf = append(s.buf, []rune(repl)...)
			return cont(s)
		}))
	default:
		if !IsXMLChar(cp) {
			return errEmit(LexerError, "illegal character U+%X in element content", cp)
		}
		if len(l.elements) == 0 && !IsSpace(cp) {
			return errEmit(LexerError, "character data is not allowed outside the document element")
		}
		s.buf = append(s.buf, cp)
		return cont(s)
	}
}

// emitIfAny emits the accumulated text as a Production (Whitespace if it is
// entirely XML space, Text otherwise) and resumes with next; if nothing was
// accumulated, it skips straight to next without emitting anything.
func (s *textState) emitIfAny(next lexerState) stepResult {
	if len(s.buf) == 0 {
		return cont(next)
	}
	text := string(s.buf)
	kind := PText
	if allSpace(text) {
		kind = PWhitespace
	}
	return emit(Production{Kind: kind, Text: text}, next)
}

func allSpace(s string) bool {
	for _, r := range s {
		if !IsSpace(r) {
			return false
		}
	}
	return true
}
