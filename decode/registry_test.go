package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Registry_builtinLookupIsCaseInsensitive(t *testing.T) {
	r := NewRegistry()

	d, err := r.Lookup("UTF-8")
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", d.Name)

	d, err = r.Lookup("utf8")
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", d.Name)

	d, err = r.Lookup("US-ASCII")
	require.NoError(t, err)
	assert.Equal(t, "US-ASCII", d.Name)
}

func Test_Registry_ianaFallback(t *testing.T) {
	r := NewRegistry()

	d, err := r.Lookup("windows-1252")
	require.NoError(t, err)

	got, err := drive(d.New(), []byte{0x93, 0x41, 0x94})
	require.NoError(t, err)
	// 0x93/0x94 are curly quotes in windows-1252, distinct from their
	// Latin-1 codepoint identity.
	assert.Equal(t, []rune{0x201C, 'A', 0x201D}, got)
}

func Test_Registry_unknownEncodingIsError(t *testing.T) {
	r := NewRegistry()

	_, err := r.Lookup("not-a-real-encoding")

	assert.Error(t, err)
}
