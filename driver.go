package xml

import (
	"github.com/hannesm/xml/decode"
)

// Encoding names one of the five encodings the parser knows how to decode
// without any embedder help. The zero value, EncodingAuto, means "sniff it
// from the first four bytes" (XML 1.0 Appendix F).
type Encoding int

const (
	EncodingAuto Encoding = iota
	EncodingUTF8
	EncodingUTF16
	EncodingASCII
	EncodingLatin1
	EncodingUCS4
)

// EntityResolver resolves a non-built-in entity reference's name to its
// replacement text. The default resolver always fails with UnknownEntity.
type EntityResolver func(name string) (string, error)

// UnknownEncodingHandler resolves an encoding name from an XML declaration
// to a decode.Decoder, when that name isn't one of the five built-ins. The
// default handler consults decode.NewRegistry(), which in turn falls back
// to the IANA charset registry via golang.org/x/text/encoding/ianaindex.
type UnknownEncodingHandler func(label string) (decode.Decoder, error)

func defaultEntityResolver(name string) (string, error) {
	return "", newError(UnknownEntity, "no resolver registered for entity %q", name)
}

var defaultRegistry = decode.NewRegistry()

func defaultUnknownEncodingHandler(label string) (decode.Decoder, error) {
	return defaultRegistry.Lookup(label)
}

// Option configures a Parser at construction time, the idiomatic Go
// rendering of the distilled grammar's create(encoding?,
// unknown_encoding_handler?, entity_resolver?) constructor parameters.
type Option func(*Parser)

// WithEncoding fixes the initial decoder instead of autodetecting it from
// the first four bytes of input.
func WithEncoding(e Encoding) Option {
	return func(p *Parser) { p.configuredEncoding = e }
}

// WithEntityResolver installs a resolver for entity references that aren't
// one of the five built-ins.
func WithEntityResolver(fn EntityResolver) Option {
	return func(p *Parser) { p.entityResolver = fn }
}

// WithUnknownEncodingHandler installs a handler for XML declarations naming
// an encoding outside the five built-ins.
func WithUnknownEncodingHandler(fn UnknownEncodingHandler) Option {
	return func(p *Parser) { p.unknownEncodingHandler = fn }
}

// Parser is the immutable-by-replacement handle threaded through a
// streaming parse: every Parse call returns a new value rather than
// mutating the receiver, which must not be reused afterward.
type Parser struct {
	isParsing bool
	finish    bool

	buffered []byte

	configuredEncoding Encoding
	decoderStep        decode.Step
	encodingName       string

	norm normalizer

	lexState lexerState
	lexCtx   *coreLexer

	entityResolver         EntityResolver
	unknownEncodingHandler UnknownEncodingHandler

	deadErr error
}

// New returns a fresh Parser ready to receive the start of a document.
func New(opts ...Option) *Parser {
	p := &Parser{
		isParsing:              true,
		entityResolver:         defaultEntityResolver,
		unknownEncodingHandler: defaultUnknownEncodingHandler,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.installProlog()
	return p
}

func (p *Parser) installProlog() {
	p.lexCtx = &coreLexer{
		entityResolver:         p.entityResolver,
		unknownEncodingHandler: p.unknownEncodingHandler,
	}
	p.lexState = &afterLTProlog{}

	if d, ok := encodingDecoder(p.configuredEncoding); ok {
		p.decoderStep = d.New()
		p.encodingName = d.Name
		p.lexCtx.currentEncoding = d.Name
	}
}

func encodingDecoder(e Encoding) (decode.Decoder, bool) {
	switch e {
	case EncodingUTF8:
		return decode.UTF8, true
	case EncodingUTF16:
		return decode.UTF16BE, true
	case EncodingASCII:
		return decode.ASCII, true
	case EncodingLatin1:
		return decode.Latin1, true
	case EncodingUCS4:
		return decode.UCS4BE, true
	default:
		return decode.Decoder{}, false
	}
}

// afterLTProlog is the true entry state of a document: it awaits the very
// first codepoint and, if it's '<', proceeds exactly like afterLTState but
// flagged as the document-start position (where "<?xml" means the XML
// declaration); anything else is handled by a plain textState, which
// already treats leading non-markup content as prolog misc (whitespace) or
// an error for anything else.
type afterLTProlog struct{}

func (s *afterLTProlog) step(l *coreLexer, in Input) stepResult {
	switch in.Kind {
	case InEndOfBuffer:
		return cont(s)
	case InEndOfData:
		return newTextState().step(l, in)
	}
	if in.Codepoint == '<' {
		return cont(&afterLTState{atDocStart: true})
	}
	return newTextState().step(l, in)
}

// clone returns a new Parser sharing no mutable state with p, ready to be
// advanced independently; p itself must not be used again afterward.
func (p *Parser) clone() *Parser {
	n := &Parser{
		isParsing:              p.isParsing,
		finish:                 p.finish,
		configuredEncoding:     p.configuredEncoding,
		decoderStep:            p.decoderStep,
		encodingName:           p.encodingName,
		norm:                   p.norm,
		lexState:               p.lexState,
		entityResolver:         p.entityResolver,
		unknownEncodingHandler: p.unknownEncodingHandler,
		deadErr:                p.deadErr,
	}
	if len(p.buffered) > 0 {
		n.buffered = append([]byte(nil), p.buffered...)
	}
	n.lexCtx = p.lexCtx.clone()
	n.lexCtx.currentEncoding = p.encodingName
	return n
}

// IsParsing reports whether further Parse calls are legal on this handle.
func (p *Parser) IsParsing() bool { return p.isParsing }

// RestBuffer returns the bytes appended to the handle that have not yet
// been consumed by the decoder, for chaining parsers or session handoff.
func (p *Parser) RestBuffer() []byte {
	return append([]byte(nil), p.buffered...)
}

// Reset re-installs the prolog lexer and clears the buffer, keeping the
// configured encoding and callbacks.
func (p *Parser) Reset() *Parser {
	n := p.clone()
	n.buffered = nil
	n.isParsing = true
	n.finish = false
	n.deadErr = nil
	n.decoderStep = nil
	n.encodingName = ""
	n.norm = normalizer{}
	n.installProlog()
	return n
}

// SetEntityResolver installs a new EntityResolver on a copy of the handle.
func (p *Parser) SetEntityResolver(fn EntityResolver) *Parser {
	n := p.clone()
	n.entityResolver = fn
	n.lexCtx.entityResolver = fn
	return n
}

// SplitName splits name on its first ':', returning an empty prefix if none
// is present. It performs no namespace resolution of its own.
func SplitName(name string) (prefix, local string) {
	for i, r := range name {
		if r == ':' {
			return name[:i], name[i+len(string(r)):]
		}
	}
	return "", name
}

const maxFlushIterations = 64

// Parse appends chunk to the handle's buffer, marks finish if true, and
// drives the decoder/normalizer/lexer pipeline until exactly one
// Production is ready. The receiver must not be reused; the returned
// *Parser is the value to call Parse on next.
func (p *Parser) Parse(chunk []byte, finish bool) (Production, *Parser, error) {
	if !p.isParsing {
		err := newError(Finished, "Parse called on a handle that has already finished")
		return Production{}, p, err
	}

	next := p.clone()
	if len(chunk) > 0 {
		next.buffered = append(next.buffered, chunk...)
	}
	if finish {
		next.finish = true
	}

	for {
		if next.decoderStep == nil {
			if len(next.buffered) < 4 {
				if next.finish {
					err := newError(TooFew, "fewer than 4 bytes available to autodetect encoding and no more input will arrive")
					return next.die(err)
				}
				return Production{Kind: PEndOfBuffer}, next, nil
			}
			det, err := decode.Autodetect(next.buffered)
			if err != nil {
				return next.die(newError(TooFew, "%s", err))
			}
			next.decoderStep = det.Decoder.New()
			next.encodingName = det.Decoder.Name
			next.lexCtx.currentEncoding = det.Decoder.Name
			next.buffered = next.buffered[det.BOMLength:]
			continue
		}

		if len(next.buffered) == 0 {
			break
		}

		b := next.buffered[0]
		next.buffered = next.buffered[1:]

		dres := next.decoderStep(b)
		if dres.Err != nil {
			return next.die(wrapError(LexerError, dres.Err, "decode error: %s", dres.Err))
		}
		next.decoderStep = dres.Next
		if !dres.Ready {
			continue
		}

		if prod, done, err := next.feedNormalized(dres.Codepoint); done {
			return prod, next, err
		}
	}

	if !next.finish {
		return Production{Kind: PEndOfBuffer}, next, nil
	}

	for i := 0; i < maxFlushIterations; i++ {
		sres := next.lexState.step(next.lexCtx, Input{Kind: InEndOfData})
		prod, isErr, done := next.applyStepResult(sres)
		if isErr {
			return next.die(sres.Err)
		}
		if done {
			if prod.Kind == PEndOfData {
				next.isParsing = false
			}
			return prod, next, nil
		}
	}
	return next.die(newError(LexerError, "internal error: end-of-data flush did not converge"))
}

// feedNormalized passes one decoded codepoint through the normalizer and
// then the lexer (which may itself yield zero, one, or two normalized
// codepoints to feed onward).
func (p *Parser) feedNormalized(cp rune) (Production, bool, error) {
	nres := p.norm.step(cp)
	if nres.Emit0 {
		sres := p.lexState.step(p.lexCtx, cpInput(nres.Out0))
		prod, isErr, done := p.applyStepResult(sres)
		if isErr {
			_, _, err := p.die(sres.Err)
			return Production{}, true, err
		}
		if done {
			return prod, true, nil
		}
		if nres.Emit1 {
			sres2 := p.lexState.step(p.lexCtx, cpInput(nres.Out1))
			prod2, isErr2, done2 := p.applyStepResult(sres2)
			if isErr2 {
				_, _, err := p.die(sres2.Err)
				return Production{}, true, err
			}
			if done2 {
				return prod2, true, nil
			}
		}
	}
	return Production{}, false, nil
}

// applyStepResult installs whatever the lexer asked for (a continuation, a
// decoder swap, or an emitted token) onto p and reports whether driving
// should stop this Parse call.
func (p *Parser) applyStepResult(sres stepResult) (prod Production, isErr bool, done bool) {
	if sres.Err != nil {
		p.lexState = sres.Next
		return Production{}, true, true
	}
	switch sres.Kind {
	case resultSwitchDecoder:
		p.decoderStep = sres.NewDecoder.New()
		p.encodingName = sres.NewDecoder.Name
		p.lexCtx.currentEncoding = sres.NewDecoder.Name
		p.lexState = sres.Next
		return Production{}, false, false
	case resultEmit:
		p.lexState = sres.Next
		return sres.Production, false, true
	default:
		p.lexState = sres.Next
		return Production{}, false, false
	}
}

func (p *Parser) die(err error) (Production, *Parser, error) {
	p.isParsing = false
	p.deadErr = err
	return Production{}, p, err
}

// ParseDTD drives the internal-subset sub-grammar directly on an in-memory
// UTF-8 buffer (no chunking, finish is implicitly true) and returns a
// synthetic Doctype production with Name empty and ExternalID nil, for
// embedders that already have a standalone DTD fragment to parse.
func ParseDTD(utf8Text string) (Production, error) {
	subset, err := parseIntSubset(utf8Text)
	if err != nil {
		return Production{}, wrapError(LexerError, err, "malformed internal subset: %s", err)
	}
	return Production{Kind: PDoctype, Doctype: &DTD{IntSubset: subset}}, nil
}
