package xml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_prologRoundTrip(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	p := New()
	snap, err := p.Snapshot()
	require.NoError(err)
	assert.Equal(stateTagProlog, snap.State)

	data, err := snap.MarshalBinary()
	require.NoError(err)

	var got ParserSnapshot
	require.NoError(got.UnmarshalBinary(data))
	assert.Equal(snap, got)

	restored := RestoreSnapshot(got)
	prod, restored, err := restored.Parse([]byte("<root/>"), true)
	require.NoError(err)
	assert.Equal(PEmptyElement, prod.Kind)
	assert.Equal("root", prod.Name)
	_ = restored
}

func TestSnapshot_textRoundTrip(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	p := New()
	prod, p, err := p.Parse([]byte("<root>hello"), false)
	require.NoError(err)
	assert.Equal(PStartElement, prod.Kind)

	prod, p, err = p.Parse(nil, false)
	require.NoError(err)
	assert.Equal(PEndOfBuffer, prod.Kind)

	snap, err := p.Snapshot()
	require.NoError(err)
	assert.Equal(stateTagText, snap.State)
	assert.Equal("hello", snap.TextBuf)
	assert.Equal([]string{"root"}, snap.Elements)

	data, err := snap.MarshalBinary()
	require.NoError(err)
	var got ParserSnapshot
	require.NoError(got.UnmarshalBinary(data))

	restored := RestoreSnapshot(got)
	prod, restored, err = restored.Parse([]byte(" world</root>"), true)
	require.NoError(err)
	assert.Equal(PText, prod.Kind)
	assert.Equal("hello world", prod.Text)

	prod, restored, err = restored.Parse(nil, true)
	require.NoError(err)
	assert.Equal(PEndElement, prod.Kind)
	assert.Equal("root", prod.Name)
}

func TestSnapshot_midTagIsNotSnapshotable(t *testing.T) {
	require := require.New(t)

	p := New()
	_, p, err := p.Parse([]byte("<root attr=\"val"), false)
	require.NoError(err)

	_, err = p.Snapshot()
	require.ErrorIs(err, ErrNotSnapshotable)
}
