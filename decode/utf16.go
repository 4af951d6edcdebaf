package decode

import "unicode/utf16"

// UTF16BE and UTF16LE are the two-byte-unit UTF-16 decoders. Each decodes
// 16-bit code units and joins high/low surrogate pairs across two units into
// a single codepoint.
//
// These are hand-rolled rather than built on golang.org/x/text/encoding/
// unicode: that package's Decoder is a transform.Transformer shaped for
// whole-buffer or io.Reader driving (see the decode/xtext.go adapter, which
// is used for the encoding-registry fallback where that shape is exactly
// what's wanted); here we need an exact one-byte-at-a-time suspend contract
// plus precise control of which byte order a given decoder instance uses.
// The distilled source this package's sibling spec was derived from is
// reported to map a declared "UTF-16LE" onto its big-endian decoder; that is
// treated as a bug, not behavior to preserve (see DESIGN.md), so UTF16LE
// below is genuinely little-endian.
var (
	UTF16BE = Decoder{Name: "UTF-16BE", New: func() Step { return (&utf16Decoder{big: true}).step }}
	UTF16LE = Decoder{Name: "UTF-16LE", New: func() Step { return (&utf16Decoder{big: false}).step }}
)

type utf16Decoder struct {
	big     bool
	pending []byte
	high    uint16
	haveHigh bool
}

func (d *utf16Decoder) unit() uint16 {
	if d.big {
		return uint16(d.pending[0])<<8 | uint16(d.pending[1])
	}
	return uint16(d.pending[1])<<8 | uint16(d.pending[0])
}

func (d *utf16Decoder) step(b byte) Result {
	d.pending = append(d.pending, b)
	if len(d.pending) < 2 {
		return need(d.step)
	}

	u := d.unit()
	d.pending = d.pending[:0]

	if d.haveHigh {
		if u < 0xDC00 || u > 0xDFFF {
			return fail(&InvalidChar{Encoding: "UTF-16", Detail: "unpaired high surrogate"})
		}
		r := utf16.DecodeRune(rune(d.high), rune(u))
		d.haveHigh = false
		return yield(r, d.step)
	}

	switch {
	case u >= 0xD800 && u <= 0xDBFF:
		d.high = u
		d.haveHigh = true
		return need(d.step)
	case u >= 0xDC00 && u <= 0xDFFF:
		return fail(&InvalidChar{Encoding: "UTF-16", Detail: "unpaired low surrogate"})
	default:
		return yield(rune(u), d.step)
	}
}
