package xml

import (
	"fmt"
	"strings"

	"github.com/hannesm/xml/internal/util"
)

// doctypeState drives the outer shell of a DOCTYPE declaration
// ("<!DOCTYPE Name ExternalID? ( '[' intSubset ']' )? '>'"), resumably at
// the byte level. The bracketed internal subset, once its matching ']' is
// found, is handed to parseIntSubset as a single already-complete string:
// extracting it is resumable (the grammar can suspend anywhere inside the
// brackets and pick back up exactly where it left off), but the
// declarations nested inside it are short and fully buffered by the time
// parsing starts, so parsing them doesn't need its own suspend points.
type doctypeState struct{}

func newDoctypeState() *doctypeState { return &doctypeState{} }

func (s *doctypeState) step(l *coreLexer, in Input) stepResult {
	if l.doctypeSeen {
		return errEmit(LexerError, "a document may have at most one DOCTYPE declaration")
	}
	if len(l.elements) != 0 || l.seenRoot {
		return errEmit(LexerError, "DOCTYPE declaration must precede the document element")
	}
	return skipSpace(true, "after DOCTYPE", func(l *coreLexer, in Input) stepResult {
		if in.Kind != InCodepoint || !IsFirstNameChar(in.Codepoint) {
			return errEmit(LexerError, "expected root element name after DOCTYPE")
		}
		return cont(readName(in.Codepoint, doctypeNameDone))
	}).step(l, in)
}

func doctypeNameDone(l *coreLexer, name string, terminator Input) stepResult {
	return (&doctypeAfterNameState{dtd: &DTD{Name: name}}).step(l, terminator)
}

type doctypeAfterNameState struct {
	dtd *DTD
}

func (s *doctypeAfterNameState) step(l *coreLexer, in Input) stepResult {
	switch in.Kind {
	case InEndOfBuffer:
		return cont(s)
	case InEndOfData:
		return errEmit(LexerError, "unexpected end of input in DOCTYPE declaration")
	}

	if IsSpace(in.Codepoint) {
		return cont(s)
	}
	if in.Codepoint == 'S' || in.Codepoint == 'P' {
		return cont(newExternalIDState(in.Codepoint, func(l *coreLexer, ext *ExternalID, terminator Input) stepResult {
			s.dtd.ExternalID = ext
			return (&doctypeAfterExternalIDState{dtd: s.dtd}).step(l, terminator)
		}))
	}
	return (&doctypeAfterExternalIDState{dtd: s.dtd}).step(l, in)
}

type doctypeAfterExternalIDState struct {
	dtd *DTD
}

func (s *doctypeAfterExternalIDState) step(l *coreLexer, in Input) stepResult {
	switch in.Kind {
	case InEndOfBuffer:
		return cont(s)
	case InEndOfData:
		return errEmit(LexerError, "unexpected end of input in DOCTYPE declaration")
	}

	switch {
	case IsSpace(in.Codepoint):
		return cont(s)
	case in.Codepoint == '[':
		return cont(newIntSubsetState(s.dtd))
	case in.Codepoint == '>':
		return s.finish(l)
	default:
		return errEmit(LexerError, "unexpected character %q in DOCTYPE declaration", in.Codepoint)
	}
}

func (s *doctypeAfterExternalIDState) finish(l *coreLexer) stepResult {
	l.doctypeSeen = true
	return emit(Production{Kind: PDoctype, Doctype: s.dtd}, newTextState())
}

// externalIDState reads "SYSTEM SystemLiteral" or "PUBLIC PubidLiteral
// SystemLiteral", given the first already-consumed letter.
type externalIDState struct {
	onComplete func(l *coreLexer, ext *ExternalID, terminator Input) stepResult
}

func newExternalIDState(first rune, onComplete func(l *coreLexer, ext *ExternalID, terminator Input) stepResult) lexerState {
	want := "YSTEM"
	kind := "SYSTEM"
	if first == 'P' {
		want = "UBLIC"
		kind = "PUBLIC"
	}
	return matchLiteral(want, kind+" keyword", func(l *coreLexer) stepResult {
		if kind == "SYSTEM" {
			return cont(skipSpace(true, "after SYSTEM", func(l *coreLexer, in Input) stepResult {
				return readQuotedLiteral(in, false, func(l *coreLexer, lit string, terminator Input) stepResult {
					return onComplete(l, &ExternalID{System: lit}, terminator)
				})
			}))
		}
		return cont(skipSpace(true, "after PUBLIC", func(l *coreLexer, in Input) stepResult {
			return readQuotedLiteral(in, true, func(l *coreLexer, pub string, terminator Input) stepResult {
				return (&externalIDSystemPartState{pub: pub, onComplete: onComplete}).step(l, terminator)
			})
		}))
	})
}

type externalIDSystemPartState struct {
	pub        string
	onComplete func(l *coreLexer, ext *ExternalID, terminator Input) stepResult
}

func (s *externalIDSystemPartState) step(l *coreLexer, in Input) stepResult {
	return skipSpace(true, "between PUBLIC identifiers", func(l *coreLexer, in Input) stepResult {
		return readQuotedLiteral(in, false, func(l *coreLexer, sys string, terminator Input) stepResult {
			return s.onComplete(l, &ExternalID{Public: s.pub, System: sys}, terminator)
		})
	}).step(l, in)
}

// quotedLiteralState reads a quoted literal; if pubid is true, its contents
// are restricted to IsPubidChar.
type quotedLiteralState struct {
	quote      rune
	pubid      bool
	buf        []rune
	onComplete func(l *coreLexer, lit string, terminator Input) stepResult
}

func readQuotedLiteral(in Input, pubid bool, onComplete func(l *coreLexer, lit string, terminator Input) stepResult) stepResult {
	if in.Kind != InCodepoint || (in.Codepoint != '"' && in.Codepoint != '\'') {
		return errEmit(LexerError, "expected quote to open literal")
	}
	return cont(&quotedLiteralState{quote: in.Codepoint, pubid: pubid, onComplete: onComplete})
}

func (s *quotedLiteralState) step(l *coreLexer, in Input) stepResult {
	switch in.Kind {
	case InEndOfBuffer:
		return cont(s)
	case InEndOfData:
		return errEmit(LexerError, "unexpected end of input in quoted literal")
	}
	cp := in.Codepoint
	if cp == s.quote {
		return cont(&literalDoneShim{s: s})
	}
	if s.pubid && !IsPubidChar(cp) {
		return errEmit(LexerError, "illegal character %q in public identifier", cp)
	}
	if !s.pubid && !IsXMLChar(cp) {
		return errEmit(LexerError, "illegal character U+%X in literal", cp)
	}
	s.buf = append(s.buf, cp)
	return cont(s)
}

// literalDoneShim exists only so quotedLiteralState can hand its result to
// onComplete together with whatever Input follows the closing quote,
// without onComplete itself needing to be a lexerState.
type literalDoneShim struct{ s *quotedLiteralState }

func (d *literalDoneShim) step(l *coreLexer, in Input) stepResult {
	return d.s.onComplete(l, string(d.s.buf), in)
}

// intSubsetState captures the raw text of a DOCTYPE internal subset between
// '[' and its matching ']', tracking quote state so a ']' inside a quoted
// literal doesn't end the subset early. Conditional sections
// ("<![INCLUDE[" / "<![IGNORE[") are not supported; a '[' appearing outside
// a quote is treated as nested bracket depth, matching ordinary internal
// subsets (element/attlist/entity/notation declarations, comments, PIs, and
// parameter-entity references) without them.
type intSubsetState struct {
	dtd   *DTD
	buf   []rune
	depth int
	quote rune
}

func newIntSubsetState(dtd *DTD) *intSubsetState {
	return &intSubsetState{dtd: dtd, depth: 1}
}

func (s *intSubsetState) step(l *coreLexer, in Input) stepResult {
	switch in.Kind {
	case InEndOfBuffer:
		return cont(s)
	case InEndOfData:
		return errEmit(LexerError, "unexpected end of input in DOCTYPE internal subset")
	}

	cp := in.Codepoint
	if s.quote != 0 {
		if cp == s.quote {
			s.quote = 0
		}
		s.buf = append(s.buf, cp)
		return cont(s)
	}

	switch cp {
	case '"', '\'':
		s.quote = cp
		s.buf = append(s.buf, cp)
		return cont(s)
	case '[':
		s.depth++
		s.buf = append(s.buf, cp)
		return cont(s)
	case ']':
		s.depth--
		if s.depth == 0 {
			subset, err := parseIntSubset(string(s.buf))
			if err != nil {
				return wrapErrEmit(LexerError, err, "malformed DOCTYPE internal subset")
			}
			s.dtd.IntSubset = subset
			return cont(&doctypeAfterExternalIDState{dtd: s.dtd})
		}
		s.buf = append(s.buf, cp)
		return cont(s)
	default:
		if !IsXMLChar(cp) {
			return errEmit(LexerError, "illegal character U+%X in DOCTYPE internal subset", cp)
		}
		s.buf = append(s.buf, cp)
		return cont(s)
	}
}

// --- non-resumable parsing of an already-fully-captured internal subset ---

type subsetScanner struct {
	r   []rune
	pos int
}

func parseIntSubset(text string) ([]IntSub, error) {
	sc := &subsetScanner{r: []rune(text)}
	var out []IntSub
	for {
		sc.skipSpace()
		if sc.pos >= len(sc.r) {
			return out, nil
		}
		decl, err := sc.readDecl()
		if err != nil {
			return nil, err
		}
		out = append(out, decl)
	}
}

func (sc *subsetScanner) skipSpace() {
	for sc.pos < len(sc.r) && IsSpace(sc.r[sc.pos]) {
		sc.pos++
	}
}

func (sc *subsetScanner) peek() rune {
	if sc.pos >= len(sc.r) {
		return 0
	}
	return sc.r[sc.pos]
}

func (sc *subsetScanner) eat(r rune) error {
	if sc.peek() != r {
		return fmt.Errorf("expected %q at position %d", r, sc.pos)
	}
	sc.pos++
	return nil
}

func (sc *subsetScanner) eatLiteral(lit string) error {
	for _, r := range lit {
		if err := sc.eat(r); err != nil {
			return err
		}
	}
	return nil
}

func (sc *subsetScanner) readName() (string, error) {
	start := sc.pos
	if sc.pos >= len(sc.r) || !IsFirstNameChar(sc.r[sc.pos]) {
		return "", fmt.Errorf("expected name at position %d", sc.pos)
	}
	sc.pos++
	for sc.pos < len(sc.r) && IsNameChar(sc.r[sc.pos]) {
		sc.pos++
	}
	return string(sc.r[start:sc.pos]), nil
}

func (sc *subsetScanner) readQuoted() (string, error) {
	q := sc.peek()
	if q != '"' && q != '\'' {
		return "", fmt.Errorf("expected quote at position %d", sc.pos)
	}
	sc.pos++
	start := sc.pos
	for sc.pos < len(sc.r) && sc.r[sc.pos] != q {
		sc.pos++
	}
	if sc.pos >= len(sc.r) {
		return "", fmt.Errorf("unterminated quoted literal")
	}
	s := string(sc.r[start:sc.pos])
	sc.pos++
	return s, nil
}

func (sc *subsetScanner) readDecl() (IntSub, error) {
	switch sc.peek() {
	case '%':
		sc.pos++
		name, err := sc.readName()
		if err != nil {
			return IntSub{}, err
		}
		if err := sc.eat(';'); err != nil {
			return IntSub{}, err
		}
		return IntSub{Kind: ISDeclSect, Name: name}, nil
	case '<':
		sc.pos++
		if sc.peek() == '?' {
			sc.pos++
			return sc.readPI()
		}
		if err := sc.eat('!'); err != nil {
			return IntSub{}, err
		}
		if sc.peek() == '-' {
			return sc.readComment()
		}
		kw, err := sc.readUpperKeyword()
		if err != nil {
			return IntSub{}, err
		}
		switch kw {
		case "ELEMENT":
			return sc.readElementDecl()
		case "ATTLIST":
			return sc.readAttlistDecl()
		case "ENTITY":
			return sc.readEntityDecl()
		case "NOTATION":
			return sc.readNotationDecl()
		default:
			allowed := util.MakeTextList([]string{"ELEMENT", "ATTLIST", "ENTITY", "NOTATION"})
			return IntSub{}, fmt.Errorf("unknown declaration keyword %q, expected one of %s", kw, allowed)
		}
	default:
		return IntSub{}, fmt.Errorf("unexpected character %q at position %d in internal subset", sc.peek(), sc.pos)
	}
}

func (sc *subsetScanner) readUpperKeyword() (string, error) {
	start := sc.pos
	for sc.pos < len(sc.r) && sc.r[sc.pos] >= 'A' && sc.r[sc.pos] <= 'Z' {
		sc.pos++
	}
	if sc.pos == start {
		return "", fmt.Errorf("expected declaration keyword at position %d", sc.pos)
	}
	return string(sc.r[start:sc.pos]), nil
}

func (sc *subsetScanner) readComment() (IntSub, error) {
	if err := sc.eatLiteral("--"); err != nil {
		return IntSub{}, err
	}
	start := sc.pos
	for {
		if sc.pos+1 < len(sc.r) && sc.r[sc.pos] == '-' && sc.r[sc.pos+1] == '-' {
			break
		}
		if sc.pos >= len(sc.r) {
			return IntSub{}, fmt.Errorf("unterminated comment")
		}
		sc.pos++
	}
	text := string(sc.r[start:sc.pos])
	sc.pos += 2
	if err := sc.eat('>'); err != nil {
		return IntSub{}, err
	}
	return IntSub{Kind: ISComment, Text: text}, nil
}

func (sc *subsetScanner) readPI() (IntSub, error) {
	target, err := sc.readName()
	if err != nil {
		return IntSub{}, err
	}
	if sc.peek() != '?' {
		sc.skipSpace()
	}
	start := sc.pos
	for {
		if sc.pos+1 < len(sc.r) && sc.r[sc.pos] == '?' && sc.r[sc.pos+1] == '>' {
			break
		}
		if sc.pos >= len(sc.r) {
			return IntSub{}, fmt.Errorf("unterminated processing instruction")
		}
		sc.pos++
	}
	data := strings.TrimSpace(string(sc.r[start:sc.pos]))
	sc.pos += 2
	return IntSub{Kind: ISPI, Target: target, Data: data}, nil
}

func (sc *subsetScanner) readElementDecl() (IntSub, error) {
	sc.skipSpace()
	name, err := sc.readName()
	if err != nil {
		return IntSub{}, err
	}
	sc.skipSpace()
	cs, err := sc.readContentspec()
	if err != nil {
		return IntSub{}, err
	}
	sc.skipSpace()
	if err := sc.eat('>'); err != nil {
		return IntSub{}, err
	}
	return IntSub{Kind: ISElementDecl, Name: name, Contentspec: cs}, nil
}

func (sc *subsetScanner) readContentspec() (*Contentspec, error) {
	if strings.HasPrefix(string(sc.r[sc.pos:]), "EMPTY") {
		sc.pos += len("EMPTY")
		return &Contentspec{Kind: CSEmpty}, nil
	}
	if strings.HasPrefix(string(sc.r[sc.pos:]), "ANY") {
		sc.pos += len("ANY")
		return &Contentspec{Kind: CSAny}, nil
	}
	if err := sc.eat('('); err != nil {
		return nil, err
	}
	sc.skipSpace()
	if strings.HasPrefix(string(sc.r[sc.pos:]), "#PCDATA") {
		sc.pos += len("#PCDATA")
		var names []string
		seen := util.NewStringSet()
		for {
			sc.skipSpace()
			if sc.peek() == ')' {
				sc.pos++
				if sc.peek() == '*' {
					sc.pos++
				}
				return &Contentspec{Kind: CSMixed, MixedNames: names}, nil
			}
			if err := sc.eat('|'); err != nil {
				return nil, err
			}
			sc.skipSpace()
			n, err := sc.readName()
			if err != nil {
				return nil, err
			}
			if seen.Has(n) {
				return nil, fmt.Errorf("element name %q repeated in mixed-content declaration", n)
			}
			seen.Add(n)
			names = append(names, n)
		}
	}
	cp, err := sc.readCPGroupBody()
	if err != nil {
		return nil, err
	}
	return &Contentspec{Kind: CSChildren, Children: cp}, nil
}

// readCPGroupBody parses the inside of a '(' already consumed by the
// caller) content-particle group, including its own closing ')' and
// trailing quantifier.
func (sc *subsetScanner) readCPGroupBody() (*CP, error) {
	var children []*CP
	sep := rune(0)
	for {
		sc.skipSpace()
		child, err := sc.readCP()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
		sc.skipSpace()
		switch sc.peek() {
		case '|', ',':
			if sep == 0 {
				sep = sc.peek()
			} else if sep != sc.peek() {
				return nil, fmt.Errorf("mixed ',' and '|' in content particle group at position %d", sc.pos)
			}
			sc.pos++
		case ')':
			sc.pos++
			kind := CPSeq
			if sep == '|' {
				kind = CPChoice
			}
			node := &CP{Kind: kind, Children: children, Quantify: sc.readQuantify()}
			if len(children) == 1 && sep == 0 {
				// a parenthesized single particle with no separator is
				// just that particle, reparented with its own quantifier.
				node.Kind = CPSeq
			}
			return node, nil
		default:
			return nil, fmt.Errorf("expected ',' , '|' or ')' in content particle group at position %d", sc.pos)
		}
	}
}

func (sc *subsetScanner) readCP() (*CP, error) {
	if sc.peek() == '(' {
		sc.pos++
		return sc.readCPGroupBody()
	}
	name, err := sc.readName()
	if err != nil {
		return nil, err
	}
	return &CP{Kind: CPName, Name: name, Quantify: sc.readQuantify()}, nil
}

func (sc *subsetScanner) readQuantify() Quantify {
	switch sc.peek() {
	case '?':
		sc.pos++
		return QQuest
	case '*':
		sc.pos++
		return QStar
	case '+':
		sc.pos++
		return QPlus
	default:
		return QOne
	}
}

func (sc *subsetScanner) readAttlistDecl() (IntSub, error) {
	sc.skipSpace()
	name, err := sc.readName()
	if err != nil {
		return IntSub{}, err
	}
	var defs []AttDef
	for {
		sc.skipSpace()
		if sc.peek() == '>' {
			sc.pos++
			return IntSub{Kind: ISAttlistDecl, Name: name, AttDefs: defs}, nil
		}
		def, err := sc.readAttDef()
		if err != nil {
			return IntSub{}, err
		}
		defs = append(defs, def)
	}
}

func (sc *subsetScanner) readAttDef() (AttDef, error) {
	name, err := sc.readName()
	if err != nil {
		return AttDef{}, err
	}
	sc.skipSpace()
	at, enumVals, err := sc.readAttType()
	if err != nil {
		return AttDef{}, err
	}
	sc.skipSpace()
	dd, dv, err := sc.readDefaultDecl()
	if err != nil {
		return AttDef{}, err
	}
	return AttDef{Name: name, AttType: at, EnumValues: enumVals, DefaultDecl: dd, DefaultValue: dv}, nil
}

func (sc *subsetScanner) readAttType() (AttType, []string, error) {
	rest := string(sc.r[sc.pos:])
	switch {
	case strings.HasPrefix(rest, "CDATA"):
		sc.pos += len("CDATA")
		return ATCData, nil, nil
	case strings.HasPrefix(rest, "IDREFS"):
		sc.pos += len("IDREFS")
		return ATIDRefs, nil, nil
	case strings.HasPrefix(rest, "IDREF"):
		sc.pos += len("IDREF")
		return ATIDRef, nil, nil
	case strings.HasPrefix(rest, "ID"):
		sc.pos += len("ID")
		return ATID, nil, nil
	case strings.HasPrefix(rest, "ENTITIES"):
		sc.pos += len("ENTITIES")
		return ATEntities, nil, nil
	case strings.HasPrefix(rest, "ENTITY"):
		sc.pos += len("ENTITY")
		return ATEntity, nil, nil
	case strings.HasPrefix(rest, "NMTOKENS"):
		sc.pos += len("NMTOKENS")
		return ATNMTokens, nil, nil
	case strings.HasPrefix(rest, "NMTOKEN"):
		sc.pos += len("NMTOKEN")
		return ATNMToken, nil, nil
	case strings.HasPrefix(rest, "NOTATION"):
		sc.pos += len("NOTATION")
		sc.skipSpace()
		vals, err := sc.readEnumGroup()
		return ATNotation, vals, err
	case sc.peek() == '(':
		vals, err := sc.readEnumGroup()
		return ATEnumeration, vals, err
	default:
		return 0, nil, fmt.Errorf("unrecognized attribute type at position %d", sc.pos)
	}
}

func (sc *subsetScanner) readEnumGroup() ([]string, error) {
	if err := sc.eat('('); err != nil {
		return nil, err
	}
	var vals []string
	for {
		sc.skipSpace()
		start := sc.pos
		for sc.pos < len(sc.r) && IsNameChar(sc.r[sc.pos]) {
			sc.pos++
		}
		if sc.pos == start {
			return nil, fmt.Errorf("expected enumeration value at position %d", sc.pos)
		}
		vals = append(vals, string(sc.r[start:sc.pos]))
		sc.skipSpace()
		if sc.peek() == '|' {
			sc.pos++
			continue
		}
		if err := sc.eat(')'); err != nil {
			return nil, err
		}
		return vals, nil
	}
}

func (sc *subsetScanner) readDefaultDecl() (DefaultDeclKind, string, error) {
	rest := string(sc.r[sc.pos:])
	switch {
	case strings.HasPrefix(rest, "#REQUIRED"):
		sc.pos += len("#REQUIRED")
		return DDRequired, "", nil
	case strings.HasPrefix(rest, "#IMPLIED"):
		sc.pos += len("#IMPLIED")
		return DDImplied, "", nil
	case strings.HasPrefix(rest, "#FIXED"):
		sc.pos += len("#FIXED")
		sc.skipSpace()
		v, err := sc.readQuoted()
		return DDFixed, v, err
	default:
		v, err := sc.readQuoted()
		return DDDefault, v, err
	}
}

func (sc *subsetScanner) readEntityDecl() (IntSub, error) {
	sc.skipSpace()
	isParam := false
	if sc.peek() == '%' {
		isParam = true
		sc.pos++
		sc.skipSpace()
	}
	name, err := sc.readName()
	if err != nil {
		return IntSub{}, err
	}
	sc.skipSpace()

	rest := string(sc.r[sc.pos:])
	if strings.HasPrefix(rest, "SYSTEM") || strings.HasPrefix(rest, "PUBLIC") {
		ext, err := sc.readExternalID()
		if err != nil {
			return IntSub{}, err
		}
		sub := IntSub{Kind: ISEntityDecl, Name: name, IsParameter: isParam, EntityExternal: ext}
		sc.skipSpace()
		if !isParam && strings.HasPrefix(string(sc.r[sc.pos:]), "NDATA") {
			sc.pos += len("NDATA")
			sc.skipSpace()
			nd, err := sc.readName()
			if err != nil {
				return IntSub{}, err
			}
			sub.EntityNData = nd
			sc.skipSpace()
		}
		if err := sc.eat('>'); err != nil {
			return IntSub{}, err
		}
		return sub, nil
	}

	val, err := sc.readQuoted()
	if err != nil {
		return IntSub{}, err
	}
	sc.skipSpace()
	if err := sc.eat('>'); err != nil {
		return IntSub{}, err
	}
	return IntSub{Kind: ISEntityDecl, Name: name, IsParameter: isParam, EntityValue: val}, nil
}

func (sc *subsetScanner) readExternalID() (*ExternalID, error) {
	rest := string(sc.r[sc.pos:])
	if strings.HasPrefix(rest, "SYSTEM") {
		sc.pos += len("SYSTEM")
		sc.skipSpace()
		sys, err := sc.readQuoted()
		if err != nil {
			return nil, err
		}
		return &ExternalID{System: sys}, nil
	}
	if strings.HasPrefix(rest, "PUBLIC") {
		sc.pos += len("PUBLIC")
		sc.skipSpace()
		pub, err := sc.readQuoted()
		if err != nil {
			return nil, err
		}
		sc.skipSpace()
		sys, err := sc.readQuoted()
		if err != nil {
			return nil, err
		}
		return &ExternalID{Public: pub, System: sys}, nil
	}
	return nil, fmt.Errorf("expected SYSTEM or PUBLIC at position %d", sc.pos)
}

func (sc *subsetScanner) readNotationDecl() (IntSub, error) {
	sc.skipSpace()
	name, err := sc.readName()
	if err != nil {
		return IntSub{}, err
	}
	sc.skipSpace()
	ext, err := sc.readExternalID()
	if err != nil {
		return IntSub{}, err
	}
	sc.skipSpace()
	if err := sc.eat('>'); err != nil {
		return IntSub{}, err
	}
	return IntSub{Kind: ISNotationDecl, Name: name, NotationExternal: ext}, nil
}
