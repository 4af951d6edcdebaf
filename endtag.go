package xml

// endTagState follows "</" and reads the element name, then optional
// whitespace, then the closing '>', validating that the name matches the
// currently open element.
type endTagState struct{}

func (s *endTagState) step(l *coreLexer, in Input) stepResult {
	switch in.Kind {
	case InEndOfBuffer:
		return cont(s)
	case InEndOfData:
		return errEmit(LexerError, "unexpected end of input in end tag")
	}

	if !IsFirstNameChar(in.Codepoint) {
		return errEmit(LexerError, "expected element name after \"</\", got %q", in.Codepoint)
	}
	return cont(readName(in.Codepoint, endTagNameDone))
}

func endTagNameDone(l *coreLexer, name string, terminator Input) stepResult {
	return skipSpace(false, "before '>' in end tag", func(l *coreLexer, in Input) stepResult {
		if in.Kind != InCodepoint || in.Codepoint != '>' {
			return errEmit(LexerError, "expected '>' to close end tag </%s>", name)
		}
		if err := l.popElement(name); err != nil {
			return stepResult{Err: err, Next: &deadState{err: err}}
		}
		return emit(Production{Kind: PEndElement, Name: name}, newTextState())
	}).step(l, terminator)
}
