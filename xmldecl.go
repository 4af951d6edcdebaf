package xml

import (
	"strings"

	"github.com/hannesm/xml/internal/util"
)

// xmlDeclState reads the pseudo-attributes of an XML or text declaration
// ("<?xml version=\"1.0\" encoding=\"...\" standalone=\"...\"?>"), reusing
// the same quoted-literal accumulation as an ordinary attribute value since
// the grammar is identical; the three recognized names are validated
// against the fixed set the spec allows instead of being returned to the
// caller as a Production (the declaration itself never becomes a Production
// — it only ever causes a possible SwitchDecoder and is otherwise
// transparent, matching the distilled grammar's treatment of it as a
// generic PI that the lexer re-scans internally).
type xmlDeclState struct {
	pending map[string]string
	order   []string
}

func (s *xmlDeclState) step(l *coreLexer, in Input) stepResult {
	if s.pending == nil {
		s.pending = map[string]string{}
	}
	return (&xmlDeclAttrState{decl: s}).step(l, in)
}

// xmlDeclAttrState reads zero or more pseudo-attributes, then the closing
// "?>".
type xmlDeclAttrState struct {
	decl *xmlDeclState
}

func (s *xmlDeclAttrState) step(l *coreLexer, in Input) stepResult {
	switch in.Kind {
	case InEndOfBuffer:
		return cont(s)
	case InEndOfData:
		return errEmit(LexerError, "unexpected end of input in XML declaration")
	}

	cp := in.Codepoint
	switch {
	case IsSpace(cp):
		return cont(s)
	case cp == '?':
		return cont(matchLiteral(">", "XML declaration closing \"?>\"", func(l *coreLexer) stepResult {
			return s.decl.finish(l)
		}))
	case IsFirstNameChar(cp):
		return cont(readName(cp, s.attrNameDone))
	default:
		return errEmit(LexerError, "unexpected character %q in XML declaration", cp)
	}
}

func (s *xmlDeclAttrState) attrNameDone(l *coreLexer, name string, terminator Input) stepResult {
	switch name {
	case "version", "encoding", "standalone":
	default:
		allowed := util.MakeTextList([]string{"version", "encoding", "standalone"})
		return errEmit(LexerError, "unexpected pseudo-attribute %q in XML declaration, expected one of %s", name, allowed)
	}
	return (&xmlDeclEqualsState{parent: s, name: name}).step(l, terminator)
}

type xmlDeclEqualsState struct {
	parent *xmlDeclAttrState
	name   string
	sawEq  bool
}

func (s *xmlDeclEqualsState) step(l *coreLexer, in Input) stepResult {
	switch in.Kind {
	case InEndOfBuffer:
		return cont(s)
	case InEndOfData:
		return errEmit(LexerError, "unexpected end of input reading XML declaration pseudo-attribute %q", s.name)
	}

	cp := in.Codepoint
	if !s.sawEq {
		if IsSpace(cp) {
			return cont(s)
		}
		if cp != '=' {
			return errEmit(LexerError, "expected '=' after %q in XML declaration", s.name)
		}
		s.sawEq = true
		return cont(s)
	}
	if IsSpace(cp) {
		return cont(s)
	}
	if cp != '"' && cp != '\'' {
		return errEmit(LexerError, "expected quote to open value of %q in XML declaration", s.name)
	}
	return cont(&xmlDeclValueState{parent: s.parent, name: s.name, quote: cp})
}

type xmlDeclValueState struct {
	parent *xmlDeclAttrState
	name   string
	quote  rune
	buf    []rune
}

func (s *xmlDeclValueState) step(l *coreLexer, in Input) stepResult {
	switch in.Kind {
	case InEndOfBuffer:
		return cont(s)
	case InEndOfData:
		return errEmit(LexerError, "unexpected end of input in value of %q in XML declaration", s.name)
	}

	cp := in.Codepoint
	if cp == s.quote {
		s.parent.decl.pending[s.name] = string(s.buf)
		s.parent.decl.order = append(s.parent.decl.order, s.name)
		return cont(s.parent)
	}
	if !IsXMLChar(cp) {
		return errEmit(LexerError, "illegal character U+%X in value of %q in XML declaration", cp, s.name)
	}
	s.buf = append(s.buf, cp)
	return cont(s)
}

// finish validates the declaration and, if an encoding attribute names a
// different encoding than the one currently active, instructs the driver
// to hot-swap decoders.
func (s *xmlDeclState) finish(l *coreLexer) stepResult {
	if len(s.order) > 0 && s.order[0] != "version" {
		return errEmit(LexerError, "XML declaration's \"version\" pseudo-attribute must come first")
	}
	if _, ok := s.pending["version"]; !ok {
		return errEmit(LexerError, "XML declaration is missing required \"version\" pseudo-attribute")
	}
	if sa, ok := s.pending["standalone"]; ok {
		if sa != "yes" && sa != "no" {
			return errEmit(LexerError, "XML declaration's \"standalone\" must be \"yes\" or \"no\", got %q", sa)
		}
	}

	next := lexerState(newTextState())

	enc, ok := s.pending["encoding"]
	if !ok {
		return cont(next)
	}
	if strings.EqualFold(enc, l.currentEncoding) {
		return cont(next)
	}
	d, err := l.unknownEncodingHandler(enc)
	if err != nil {
		return wrapErrEmit(LexerError, err, "unsupported encoding %q named in XML declaration", enc)
	}
	return switchDecoder(d, next)
}
