package xml

import "strings"

// piTargetState reads a processing instruction's target name, then routes
// to either the XML declaration's dedicated pseudo-attribute reader (only
// legal for the very first "<?xml" of the document) or the general PI data
// reader.
type piTargetState struct {
	atDocStart bool
}

func (s *piTargetState) step(l *coreLexer, in Input) stepResult {
	switch in.Kind {
	case InEndOfBuffer:
		return cont(s)
	case InEndOfData:
		return errEmit(LexerError, "unexpected end of input reading processing instruction target")
	}
	if !IsFirstNameChar(in.Codepoint) {
		return errEmit(LexerError, "expected processing instruction target, got %q", in.Codepoint)
	}
	atDocStart := s.atDocStart
	return cont(readName(in.Codepoint, func(l *coreLexer, name string, terminator Input) stepResult {
		return piTargetDone(l, name, terminator, atDocStart)
	}))
}

func piTargetDone(l *coreLexer, name string, terminator Input, atDocStart bool) stepResult {
	if name == "xml" && atDocStart {
		return (&xmlDeclState{}).step(l, terminator)
	}
	if strings.EqualFold(name, "xml") {
		return errEmit(LexerError, "processing instruction target %q is reserved", name)
	}
	return (&piDataState{target: name}).step(l, terminator)
}

// piDataState reads the optional whitespace-separated data of a general
// processing instruction up to "?>".
type piDataState struct {
	target   string
	buf      []rune
	started  bool
	question bool
}

func (s *piDataState) step(l *coreLexer, in Input) stepResult {
	switch in.Kind {
	case InEndOfBuffer:
		return cont(s)
	case InEndOfData:
		return errEmit(LexerError, "unexpected end of input in processing instruction")
	}

	cp := in.Codepoint

	if !s.started {
		s.started = true
		if cp == '?' {
			s.question = true
			return cont(s)
		}
		if !IsSpace(cp) {
			return errEmit(LexerError, "expected whitespace after processing instruction target %q", s.target)
		}
		return cont(s)
	}

	if s.question {
		if cp == '>' {
			return emit(Production{Kind: PPi, Target: s.target, Data: string(s.buf)}, newTextState())
		}
		s.buf = append(s.buf, '?')
		s.question = false
	}
	if cp == '?' {
		s.question = true
		return cont(s)
	}
	if !IsXMLChar(cp) {
		return errEmit(LexerError, "illegal character U+%X in processing instruction", cp)
	}
	s.buf = append(s.buf, cp)
	return cont(s)
}
