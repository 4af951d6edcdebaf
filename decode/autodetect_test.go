package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Autodetect(t *testing.T) {
	testCases := []struct {
		name        string
		input       []byte
		expectName  string
		expectBOM   int
		expectCertain bool
	}{
		{
			name:       "UTF-8 BOM",
			input:      []byte{0xEF, 0xBB, 0xBF, 0x3C},
			expectName: "UTF-8", expectBOM: 3, expectCertain: true,
		},
		{
			name:       "UTF-16BE BOM",
			input:      []byte{0xFE, 0xFF, 0x00, 0x3C},
			expectName: "UTF-16BE", expectBOM: 2, expectCertain: true,
		},
		{
			name:       "UTF-16LE BOM",
			input:      []byte{0xFF, 0xFE, 0x3C, 0x00},
			expectName: "UTF-16LE", expectBOM: 2, expectCertain: true,
		},
		{
			name:       "UTF-16BE no BOM, <?xml prefix",
			input:      []byte{0x00, 0x3C, 0x00, 0x3F},
			expectName: "UTF-16BE", expectBOM: 0, expectCertain: true,
		},
		{
			name:       "UTF-16LE no BOM, <?xml prefix",
			input:      []byte{0x3C, 0x00, 0x3F, 0x00},
			expectName: "UTF-16LE", expectBOM: 0, expectCertain: true,
		},
		{
			name:       "UCS-4BE BOM",
			input:      []byte{0x00, 0x00, 0xFE, 0xFF},
			expectName: "ISO-10646-UCS-4", expectBOM: 4, expectCertain: true,
		},
		{
			name:       "UCS-4LE BOM",
			input:      []byte{0xFF, 0xFE, 0x00, 0x00},
			expectName: "ISO-10646-UCS-4LE", expectBOM: 4, expectCertain: true,
		},
		{
			name:       "ASCII-compatible <?xml prefix, no BOM",
			input:      []byte{0x3C, 0x3F, 0x78, 0x6D},
			expectName: "UTF-8", expectBOM: 0, expectCertain: false,
		},
		{
			name:       "no signature at all defaults to UTF-8",
			input:      []byte{0x41, 0x42, 0x43, 0x44},
			expectName: "UTF-8", expectBOM: 0, expectCertain: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Autodetect(tc.input)

			assert.NoError(t, err)
			assert.Equal(t, tc.expectName, got.Decoder.Name)
			assert.Equal(t, tc.expectBOM, got.BOMLength)
			assert.Equal(t, tc.expectCertain, got.Certain)
		})
	}
}

func Test_Autodetect_needsMoreBytes(t *testing.T) {
	_, err := Autodetect([]byte{0x3C, 0x3F})

	assert.ErrorIs(t, err, ErrNeedMoreBytes)
}
