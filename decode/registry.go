package decode

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// Registry resolves an encoding name (as it would appear in an XMLDecl or
// TextDecl's encoding attribute) to a Decoder, falling back to the IANA
// charset registry for anything not built into this package directly.
//
// This is the package's one delegation to golang.org/x/text: ianaindex
// already carries the full IANA charset-name table (aliases, case folding,
// the lot), and x/text/encoding's Decoder is a transform.Transformer, a
// shape built for driving from a whole buffer or io.Reader rather than byte
// by byte. xtextStep below adapts that shape to this package's Step
// contract, so any of the several hundred encodings x/text knows about can
// back a Decoder without this package needing to hand-write a state machine
// for each.
type Registry struct {
	// Builtin holds the names this package implements directly; they take
	// priority over falling through to x/text.
	Builtin map[string]Decoder
}

// NewRegistry returns a Registry preloaded with this package's hand-rolled
// decoders under their canonical and common alias names.
func NewRegistry() *Registry {
	r := &Registry{Builtin: map[string]Decoder{}}
	register := func(d Decoder, aliases ...string) {
		r.Builtin[normalizeName(d.Name)] = d
		for _, a := range aliases {
			r.Builtin[normalizeName(a)] = d
		}
	}
	register(UTF8, "utf8")
	register(ASCII, "ascii", "us-ascii", "ansi_x3.4-1968")
	register(Latin1, "latin1", "iso8859-1", "8859-1")
	register(UTF16BE, "utf-16be", "unicodebig")
	register(UTF16LE, "utf-16le", "unicodelittle")
	register(UCS4BE, "ucs-4be", "ucs4")
	register(UCS4LE, "ucs-4le")
	return r
}

func normalizeName(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

// Lookup resolves name to a Decoder, trying the builtin table first and then
// the IANA charset registry via golang.org/x/text.
func (r *Registry) Lookup(name string) (Decoder, error) {
	if d, ok := r.Builtin[normalizeName(name)]; ok {
		return d, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return Decoder{}, fmt.Errorf("decode: unsupported encoding %q", name)
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = name
	}
	return Decoder{
		Name: canonical,
		New:  func() Step { return newXTextStep(enc) },
	}, nil
}

// newXTextStep adapts an x/text encoding.Encoding's whole-buffer Decoder to
// this package's one-byte-at-a-time Step contract, feeding it successively
// larger prefixes of accumulated input and translating transform.ErrShortSrc
// ("not enough bytes yet to know") into a plain "need more" Result.
func newXTextStep(enc encoding.Encoding) Step {
	x := &xtextDecoder{transformer: enc.NewDecoder()}
	return x.step
}

type xtextDecoder struct {
	transformer transform.Transformer
	pending     []byte
}

func (x *xtextDecoder) step(b byte) Result {
	x.pending = append(x.pending, b)

	dst := make([]byte, 4)
	nDst, nSrc, err := x.transformer.Transform(dst, x.pending, false)
	if err == transform.ErrShortSrc {
		return need(x.step)
	}
	if err != nil && err != transform.ErrShortDst {
		return fail(&InvalidChar{Encoding: "x/text", Detail: err.Error()})
	}
	if nDst == 0 {
		return need(x.step)
	}

	r, size := utf8.DecodeRune(dst[:nDst])
	if r == utf8.RuneError && size <= 1 {
		return fail(&InvalidChar{Encoding: "x/text", Detail: "decoder produced invalid UTF-8"})
	}
	x.pending = x.pending[nSrc:]
	return yield(r, x.step)
}
