package xml

import "github.com/hannesm/xml/internal/util"

// startTagBetweenState is positioned just after an element name or just
// after an attribute, deciding whether the next thing is more whitespace,
// another attribute, the "/>" empty-element close, or the ">" start-tag
// close. It is also, unmodified, the state used right after the element
// name is first read (the dispatch is identical), so newStartTagState just
// constructs one of these directly.
type startTagBetweenState struct {
	name     string
	attrs    []Attr
	attrSeen util.StringSet
}

func newStartTagState(name string) *startTagBetweenState {
	return &startTagBetweenState{name: name, attrSeen: util.NewStringSet()}
}

func (s *startTagBetweenState) step(l *coreLexer, in Input) stepResult {
	switch in.Kind {
	case InEndOfBuffer:
		return cont(s)
	case InEndOfData:
		return errEmit(LexerError, "unexpected end of input in start tag <%s>", s.name)
	}

	cp := in.Codepoint
	switch {
	case IsSpace(cp):
		return cont(s)
	case cp == '/':
		return cont(matchLiteral(">", "empty-element tag close \"/>\"", func(l *coreLexer) stepResult {
			return emit(Production{Kind: PEmptyElement, Name: s.name, Attrs: s.attrs}, newTextState())
		}))
	case cp == '>':
		l.pushElement(s.name)
		return emit(Production{Kind: PStartElement, Name: s.name, Attrs: s.attrs}, newTextState())
	case IsFirstNameChar(cp):
		return cont(readName(cp, s.attrNameDone))
	default:
		return errEmit(LexerError, "unexpected character %q in start tag <%s>", cp, s.name)
	}
}

func (s *startTagBetweenState) attrNameDone(l *coreLexer, name string, terminator Input) stepResult {
	if s.attrSeen.Has(name) {
		return errEmit(LexerError, "attribute %q specified more than once in tag <%s>", name, s.name)
	}
	s.attrSeen.Add(name)
	return (&attrEqualsState{tag: s, attrName: name}).step(l, terminator)
}

// attrEqualsState consumes optional whitespace, a mandatory '=', and more
// optional whitespace before an attribute's value.
type attrEqualsState struct {
	tag      *startTagBetweenState
	attrName string
	sawEq    bool
}

func (s *attrEqualsState) step(l *coreLexer, in Input) stepResult {
	switch in.Kind {
	case InEndOfBuffer:
		return cont(s)
	case InEndOfData:
		return errEmit(LexerError, "unexpected end of input reading attribute %q", s.attrName)
	}

	cp := in.Codepoint
	if !s.sawEq {
		if IsSpace(cp) {
			return cont(s)
		}
		if cp != '=' {
			return errEmit(LexerError, "expected '=' after attribute name %q, got %q", s.attrName, cp)
		}
		s.sawEq = true
		return cont(s)
	}

	if IsSpace(cp) {
		return cont(s)
	}
	if cp != '"' && cp != '\'' {
		return errEmit(LexerError, "expected quote to open value of attribute %q, got %q", s.attrName, cp)
	}
	return cont(newAttrValueState(cp, s.tag, s.attrName))
}

// attrValueState accumulates an attribute value up to its closing quote,
// resolving entity/character references inline and rejecting a literal '<'
// (forbidden in attribute values by XML 1.0 §3.1).
type attrValueState struct {
	quote rune
	tag   *startTagBetweenState
	name  string
	buf   []rune
}

func newAttrValueState(quote rune, tag *startTagBetweenState, name string) *attrValueState {
	return &attrValueState{quote: quote, tag: tag, name: name}
}

func (s *attrValueState) step(l *coreLexer, in Input) stepResult {
	switch in.Kind {
	case InEndOfBuffer:
		return cont(s)
	case InEndOfData:
		return errEmit(LexerError, "unexpected end of input in value of attribute %q", s.name)
	}

	cp := in.Codepoint
	switch {
	case cp == s.quote:
		s.tag.attrs = append(s.tag.attrs, Attr{Name: s.name, Value: string(s.buf)})
		return cont(s.tag)
	case cp == '<':
		return errEmit(LexerError, "'<' is not allowed in the value of attribute %q", s.name)
	case cp == '&':
		return cont(startRef(func(l *coreLexer, repl string) stepResult {
			s.buf = append(s.buf, []rune(repl)...)
			return cont(s)
		}))
	case IsSpace(cp):
		// attribute-value normalization: any whitespace char becomes a
		// single space (XML 1.0 §3.3.3).
		s.buf = append(s.buf, ' ')
		return cont(s)
	default:
		if !IsXMLChar(cp) {
			return errEmit(LexerError, "illegal character U+%X in value of attribute %q", cp, s.name)
		}
		s.buf = append(s.buf, cp)
		return cont(s)
	}
}
