package xml

import (
	"encoding/binary"
	"fmt"
)

// stateTag discriminates which lexerState a ParserSnapshot was captured at.
// Only the handful of suspend points listed here can be serialized; every
// other lexerState is mid-token (inside a tag, an attribute value, a
// comment, a DOCTYPE declaration, ...) and resuming it would require
// serializing every lexerState type's private fields, which this snapshot
// format does not attempt. A caller that needs to persist a parser between
// independent requests (see server/dao) must therefore only persist at a
// point where Snapshot succeeds, driving the parser further within the same
// request otherwise.
type stateTag byte

const (
	stateTagProlog stateTag = iota
	stateTagText
	stateTagDocumentEnd
)

// ParserSnapshot is the serializable projection of a Parser handle used by
// the HTTP session service (server/dao) to persist a suspended parse
// between independent requests. It implements encoding.BinaryMarshaler and
// encoding.BinaryUnmarshaler so it can be passed directly to
// github.com/dekarrin/rezi's EncBinary/DecBinary, the same way the teacher
// persists *game.State.
type ParserSnapshot struct {
	Buffered     []byte
	Finish       bool
	IsParsing    bool
	EncodingName string
	NormAfterCR  bool

	State    stateTag
	TextBuf  string // stateTagText
	Elements []string

	SeenRoot    bool
	RootClosed  bool
	DoctypeSeen bool
}

// ErrNotSnapshotable is returned by Snapshot when the parser is suspended
// mid-token at a lexerState this package does not know how to serialize.
var ErrNotSnapshotable = fmt.Errorf("xml: parser is not suspended at a snapshotable point")

// Snapshot captures p's state for later resumption via RestoreSnapshot, if
// p is currently suspended at a supported point (the document prolog, or an
// ordinary text run, including right after the document element closes).
func (p *Parser) Snapshot() (ParserSnapshot, error) {
	snap := ParserSnapshot{
		Buffered:     append([]byte(nil), p.buffered...),
		Finish:       p.finish,
		IsParsing:    p.isParsing,
		EncodingName: p.encodingName,
		NormAfterCR:  p.norm.afterCR,
		Elements:     append([]string(nil), p.lexCtx.elements...),
		SeenRoot:     p.lexCtx.seenRoot,
		RootClosed:   p.lexCtx.rootClosed,
		DoctypeSeen:  p.lexCtx.doctypeSeen,
	}

	switch st := p.lexState.(type) {
	case *afterLTProlog:
		snap.State = stateTagProlog
	case *textState:
		if st.closeBrackets != 0 {
			return ParserSnapshot{}, ErrNotSnapshotable
		}
		snap.State = stateTagText
		snap.TextBuf = string(st.buf)
	case *documentEndState:
		snap.State = stateTagDocumentEnd
	default:
		return ParserSnapshot{}, ErrNotSnapshotable
	}

	return snap, nil
}

// RestoreSnapshot rebuilds a Parser from a snapshot taken by Snapshot,
// re-applying any Options (entity resolver, unknown-encoding handler) the
// caller wants installed on the restored handle; these are never persisted
// in the snapshot itself since they are Go closures.
func RestoreSnapshot(snap ParserSnapshot, opts ...Option) *Parser {
	p := &Parser{
		isParsing:    snap.IsParsing,
		finish:       snap.Finish,
		buffered:     append([]byte(nil), snap.Buffered...),
		encodingName: snap.EncodingName,
		norm:         normalizer{afterCR: snap.NormAfterCR},

		entityResolver:         defaultEntityResolver,
		unknownEncodingHandler: defaultUnknownEncodingHandler,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.lexCtx = &coreLexer{
		elements:               append([]string(nil), snap.Elements...),
		seenRoot:               snap.SeenRoot,
		rootClosed:             snap.RootClosed,
		doctypeSeen:            snap.DoctypeSeen,
		entityResolver:         p.entityResolver,
		unknownEncodingHandler: p.unknownEncodingHandler,
		currentEncoding:        snap.EncodingName,
	}

	switch snap.State {
	case stateTagText:
		p.lexState = &textState{buf: []rune(snap.TextBuf)}
	case stateTagDocumentEnd:
		p.lexState = &documentEndState{}
	default:
		p.lexState = &afterLTProlog{}
	}

	if snap.EncodingName != "" {
		if d, err := defaultRegistry.Lookup(snap.EncodingName); err == nil {
			p.decoderStep = d.New()
		}
	}

	return p
}

// MarshalBinary implements encoding.BinaryMarshaler with a small
// length-prefixed format: a version byte, then each field in declaration
// order, strings and byte slices as a uint32 length followed by their
// bytes, booleans and the state tag as single bytes, and the element stack
// as a uint32 count followed by that many length-prefixed strings.
func (s ParserSnapshot) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 64+len(s.Buffered)+len(s.TextBuf))
	buf = append(buf, 1) // format version
	buf = appendBytes(buf, s.Buffered)
	buf = appendBool(buf, s.Finish)
	buf = appendBool(buf, s.IsParsing)
	buf = appendString(buf, s.EncodingName)
	buf = appendBool(buf, s.NormAfterCR)
	buf = append(buf, byte(s.State))
	buf = appendString(buf, s.TextBuf)

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(s.Elements)))
	buf = append(buf, lenBuf[:]...)
	for _, e := range s.Elements {
		buf = appendString(buf, e)
	}

	buf = appendBool(buf, s.SeenRoot)
	buf = appendBool(buf, s.RootClosed)
	buf = appendBool(buf, s.DoctypeSeen)
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler for the format
// written by MarshalBinary.
func (s *ParserSnapshot) UnmarshalBinary(data []byte) error {
	r := &byteReader{data: data}
	version, err := r.byteVal()
	if err != nil {
		return err
	}
	if version != 1 {
		return fmt.Errorf("xml: unsupported ParserSnapshot format version %d", version)
	}

	if s.Buffered, err = r.bytesVal(); err != nil {
		return err
	}
	if s.Finish, err = r.boolVal(); err != nil {
		return err
	}
	if s.IsParsing, err = r.boolVal(); err != nil {
		return err
	}
	if s.EncodingName, err = r.stringVal(); err != nil {
		return err
	}
	if s.NormAfterCR, err = r.boolVal(); err != nil {
		return err
	}
	tag, err := r.byteVal()
	if err != nil {
		return err
	}
	s.State = stateTag(tag)
	if s.TextBuf, err = r.stringVal(); err != nil {
		return err
	}

	count, err := r.uint32Val()
	if err != nil {
		return err
	}
	s.Elements = make([]string, count)
	for i := range s.Elements {
		if s.Elements[i], err = r.stringVal(); err != nil {
			return err
		}
	}

	if s.SeenRoot, err = r.boolVal(); err != nil {
		return err
	}
	if s.RootClosed, err = r.boolVal(); err != nil {
		return err
	}
	if s.DoctypeSeen, err = r.boolVal(); err != nil {
		return err
	}
	return nil
}

func appendBytes(buf, v []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(v)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, v...)
}

func appendString(buf []byte, v string) []byte {
	return appendBytes(buf, []byte(v))
}

func appendBool(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}
	return append(buf, 0)
}

type byteReader struct {
	data []byte
	pos  int
}

func (r *byteReader) byteVal() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("xml: truncated ParserSnapshot data")
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *byteReader) uint32Val() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("xml: truncated ParserSnapshot data")
	}
	v := binary.BigEndian.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *byteReader) bytesVal() ([]byte, error) {
	n, err := r.uint32Val()
	if err != nil {
		return nil, err
	}
	if r.pos+int(n) > len(r.data) {
		return nil, fmt.Errorf("xml: truncated ParserSnapshot data")
	}
	v := append([]byte(nil), r.data[r.pos:r.pos+int(n)]...)
	r.pos += int(n)
	return v, nil
}

func (r *byteReader) stringVal() (string, error) {
	b, err := r.bytesVal()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *byteReader) boolVal() (bool, error) {
	b, err := r.byteVal()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}
