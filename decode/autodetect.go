package decode

import (
	"bytes"
	"errors"
)

// ErrNeedMoreBytes is returned by Autodetect when fewer than four bytes are
// available. The caller should buffer more input and retry with a longer
// prefix; it is not a parse failure.
var ErrNeedMoreBytes = errors.New("decode: need at least 4 bytes to autodetect encoding")

// Detected describes the result of sniffing a document's encoding from its
// leading bytes, per XML 1.0 Appendix F.
type Detected struct {
	// Decoder is the byte decoder to install for the rest of the document.
	Decoder Decoder

	// BOMLength is how many of the sniffed bytes were a byte-order mark and
	// should be discarded rather than fed to Decoder. It is 0 when detection
	// relied only on the shape of a "<?xml" prefix rather than an explicit
	// BOM.
	BOMLength int

	// Certain is false when the sniff only narrowed the encoding down to
	// "some single-byte or UTF-8-compatible encoding" (the no-BOM,
	// "<?xml" in ASCII-compatible bytes case): the caller must still read
	// the XMLDecl's encoding attribute, if present, to pick the exact
	// decoder, defaulting to UTF-8 if the declaration is absent.
	Certain bool
}

// Autodetect sniffs an encoding from the first four bytes of a document, as
// required before an XMLDecl/TextDecl, if any, can itself be read. prefix
// must be at least 4 bytes; if it is shorter, ErrNeedMoreBytes is returned so
// the caller can accumulate more input before sniffing again.
func Autodetect(prefix []byte) (Detected, error) {
	if len(prefix) < 4 {
		return Detected{}, ErrNeedMoreBytes
	}
	p := prefix[:4]

	switch {
	case bytes.Equal(p, []byte{0x00, 0x00, 0xFE, 0xFF}):
		return Detected{Decoder: UCS4BE, BOMLength: 4, Certain: true}, nil
	case bytes.Equal(p, []byte{0xFF, 0xFE, 0x00, 0x00}):
		return Detected{Decoder: UCS4LE, BOMLength: 4, Certain: true}, nil
	case bytes.Equal(p, []byte{0x00, 0x00, 0x3C, 0x00}):
		return Detected{Decoder: UCS4BE, BOMLength: 0, Certain: true}, nil
	case bytes.Equal(p, []byte{0x00, 0x3C, 0x00, 0x00}):
		return Detected{Decoder: UCS4LE, BOMLength: 0, Certain: true}, nil
	case p[0] == 0xFE && p[1] == 0xFF:
		return Detected{Decoder: UTF16BE, BOMLength: 2, Certain: true}, nil
	case p[0] == 0xFF && p[1] == 0xFE:
		return Detected{Decoder: UTF16LE, BOMLength: 2, Certain: true}, nil
	case bytes.Equal(p, []byte{0x00, 0x3C, 0x00, 0x3F}):
		return Detected{Decoder: UTF16BE, BOMLength: 0, Certain: true}, nil
	case bytes.Equal(p, []byte{0x3C, 0x00, 0x3F, 0x00}):
		return Detected{Decoder: UTF16LE, BOMLength: 0, Certain: true}, nil
	case p[0] == 0xEF && p[1] == 0xBB && p[2] == 0xBF:
		return Detected{Decoder: UTF8, BOMLength: 3, Certain: true}, nil
	case bytes.Equal(p, []byte{0x3C, 0x3F, 0x78, 0x6D}):
		// "<?xm" with no BOM: an ASCII-compatible encoding (UTF-8,
		// US-ASCII, Latin-1, or an 8-bit superset of ASCII). Defer the
		// exact choice to the XMLDecl's encoding attribute, defaulting to
		// UTF-8 when it is absent, as the driver does.
		return Detected{Decoder: UTF8, BOMLength: 0, Certain: false}, nil
	default:
		// No recognizable signature at all: assume UTF-8, same as an
		// absent encoding declaration would.
		return Detected{Decoder: UTF8, BOMLength: 0, Certain: false}, nil
	}
}
