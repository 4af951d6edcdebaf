package decode

import "unicode/utf8"

// UTF8 is the UTF-8 decoder. It is a classical multi-byte state machine built
// on top of the standard library's unicode/utf8 package, which already
// implements the overlong-encoding and surrogate rejection XML requires;
// there is nothing a third-party package would add here, so depending on one
// would only add indirection around the same validation logic.
var UTF8 = Decoder{Name: "UTF-8", New: newUTF8}

func newUTF8() Step {
	return (&utf8Decoder{}).step
}

type utf8Decoder struct {
	pending []byte
	want    int
}

func (d *utf8Decoder) step(b byte) Result {
	if d.want == 0 {
		// first byte of a new rune: figure out how many continuation bytes
		// we need.
		switch {
		case b&0x80 == 0x00:
			return yield(rune(b), (&utf8Decoder{}).step)
		case b&0xE0 == 0xC0:
			d.want = 1
		case b&0xF0 == 0xE0:
			d.want = 2
		case b&0xF8 == 0xF0:
			d.want = 3
		default:
			return fail(&InvalidChar{Encoding: "UTF-8", Detail: "invalid leading byte"})
		}
		d.pending = append(d.pending, b)
		return need(d.step)
	}

	if b&0xC0 != 0x80 {
		return fail(&InvalidChar{Encoding: "UTF-8", Detail: "expected continuation byte"})
	}
	d.pending = append(d.pending, b)
	d.want--
	if d.want > 0 {
		return need(d.step)
	}

	r, size := utf8.DecodeRune(d.pending)
	if r == utf8.RuneError && size <= 1 {
		return fail(&InvalidChar{Encoding: "UTF-8", Detail: "overlong encoding or surrogate"})
	}
	return yield(r, (&utf8Decoder{}).step)
}
