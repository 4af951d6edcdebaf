package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// drive feeds b one byte at a time through step, returning the decoded
// codepoints and the error, if any, that stopped decoding.
func drive(step Step, b []byte) ([]rune, error) {
	var out []rune
	for _, c := range b {
		res := step(c)
		if res.Err != nil {
			return out, res.Err
		}
		if res.Ready {
			out = append(out, res.Codepoint)
		}
		step = res.Next
	}
	return out, nil
}

func Test_ASCII(t *testing.T) {
	testCases := []struct {
		name      string
		input     []byte
		expect    []rune
		expectErr bool
	}{
		{name: "empty", input: nil, expect: nil},
		{name: "hello", input: []byte("hello"), expect: []rune("hello")},
		{name: "high bit set is an error", input: []byte{0x41, 0x80}, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := drive(ASCII.New(), tc.input)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expect, got)
		})
	}
}

func Test_Latin1_isIdentity(t *testing.T) {
	input := []byte{0x41, 0xE9, 0xFF}
	got, err := drive(Latin1.New(), input)

	assert.NoError(t, err)
	assert.Equal(t, []rune{0x41, 0xE9, 0xFF}, got)
}

func Test_UTF8(t *testing.T) {
	testCases := []struct {
		name      string
		input     []byte
		expect    []rune
		expectErr bool
	}{
		{name: "ascii", input: []byte("xml"), expect: []rune("xml")},
		{name: "two byte", input: []byte("café"), expect: []rune("café")},
		{name: "three byte", input: []byte("文書"), expect: []rune("文書")},
		{name: "four byte / astral", input: []byte("😀"), expect: []rune("😀")},
		{name: "truncated continuation", input: []byte{0xC3}, expect: nil},
		{name: "bad continuation byte", input: []byte{0xC3, 0x28}, expectErr: true},
		{name: "overlong encoding", input: []byte{0xC0, 0x80}, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := drive(UTF8.New(), tc.input)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expect, got)
		})
	}
}

func Test_UTF16BE(t *testing.T) {
	// "A€" = U+0041, U+20AC; astral U+1F600 needs a surrogate pair.
	input := []byte{0x00, 0x41, 0x20, 0xAC, 0xD8, 0x3D, 0xDE, 0x00}
	got, err := drive(UTF16BE.New(), input)

	assert.NoError(t, err)
	assert.Equal(t, []rune{0x0041, 0x20AC, 0x1F600}, got)
}

func Test_UTF16LE(t *testing.T) {
	// Same codepoints as Test_UTF16BE but with each 16-bit unit byte-swapped:
	// this is the bug the distilled source is reported to have (mapping a
	// declared UTF-16LE document onto the BE decoder) and which this package
	// deliberately does not reproduce.
	input := []byte{0x41, 0x00, 0xAC, 0x20, 0x3D, 0xD8, 0x00, 0xDE}
	got, err := drive(UTF16LE.New(), input)

	assert.NoError(t, err)
	assert.Equal(t, []rune{0x0041, 0x20AC, 0x1F600}, got)
}

func Test_UTF16_unpairedSurrogateIsError(t *testing.T) {
	// A high surrogate with no following low surrogate.
	input := []byte{0xD8, 0x3D, 0x00, 0x41}
	_, err := drive(UTF16BE.New(), input)

	assert.Error(t, err)
}

func Test_UCS4BE(t *testing.T) {
	input := []byte{0x00, 0x00, 0x00, 0x41, 0x00, 0x01, 0xF6, 0x00}
	got, err := drive(UCS4BE.New(), input)

	assert.NoError(t, err)
	assert.Equal(t, []rune{0x41, 0x1F600}, got)
}

func Test_UCS4LE(t *testing.T) {
	input := []byte{0x41, 0x00, 0x00, 0x00, 0x00, 0xF6, 0x01, 0x00}
	got, err := drive(UCS4LE.New(), input)

	assert.NoError(t, err)
	assert.Equal(t, []rune{0x41, 0x1F600}, got)
}

func Test_UCS4_surrogateRangeIsError(t *testing.T) {
	input := []byte{0x00, 0x00, 0xD8, 0x00}
	_, err := drive(UCS4BE.New(), input)

	assert.Error(t, err)
}
