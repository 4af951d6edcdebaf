package xml

// afterLTState is entered the instant a '<' has been consumed, whether at
// the top level (before/after the document element) or inside element
// content. Its only job is to look at the very next codepoint and branch
// into whichever construct that codepoint begins. atDocStart is true only
// for the very first '<' of the whole document, since that is the one
// position where "<?xml" introduces the XML declaration rather than an
// ordinary processing instruction that happens to target "xml".
type afterLTState struct {
	atDocStart bool
}

func (s *afterLTState) step(l *coreLexer, in Input) stepResult {
	switch in.Kind {
	case InEndOfBuffer:
		return cont(s)
	case InEndOfData:
		return errEmit(LexerError, "unexpected end of input after '<'")
	}

	switch cp := in.Codepoint; {
	case cp == '?':
		return cont(&piTargetState{atDocStart: s.atDocStart})
	case cp == '!':
		return cont(&bangState{})
	case cp == '/':
		if len(l.elements) == 0 {
			return errEmit(LexerError, "end tag with no open element")
		}
		return cont(&endTagState{})
	case IsFirstNameChar(cp):
		if l.rootClosed {
			return errEmit(LexerError, "element not allowed after the document element is closed")
		}
		if len(l.elements) == 0 {
			l.seenRoot = true
		}
		return cont(readName(cp, startElementNameDone))
	default:
		return errEmit(LexerError, "unexpected character %q after '<'", cp)
	}
}

func startElementNameDone(l *coreLexer, name string, terminator Input) stepResult {
	return newStartTagState(name).step(l, terminator)
}

// bangState follows "<!" and dispatches on the next codepoint to a comment,
// a CDATA section, or a DOCTYPE declaration.
type bangState struct{}

func (s *bangState) step(l *coreLexer, in Input) stepResult {
	switch in.Kind {
	case InEndOfBuffer:
		return cont(s)
	case InEndOfData:
		return errEmit(LexerError, "unexpected end of input after \"<!\"")
	}

	switch in.Codepoint {
	case '-':
		return cont(matchLiteral("-", "comment opening \"--\"", func(l *coreLexer) stepResult {
			return cont(newCommentState())
		}))
	case '[':
		return cont(matchLiteral("CDATA[", "CDATA section opening", func(l *coreLexer) stepResult {
			return cont(newCDATAState())
		}))
	case 'D':
		return cont(matchLiteral("OCTYPE", "DOCTYPE declaration", func(l *coreLexer) stepResult {
			return cont(newDoctypeState())
		}))
	default:
		return errEmit(LexerError, "unexpected character %q after \"<!\"", in.Codepoint)
	}
}
