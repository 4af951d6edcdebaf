package xml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drainAll feeds doc to a fresh Parser in one shot (finish=true on the last
// non-empty chunk) and collects every Production up to and including
// PEndOfData, failing the test on any error.
func drainAll(t *testing.T, doc string) []Production {
	t.Helper()
	var out []Production
	p := New()
	var prod Production
	var err error
	prod, p, err = p.Parse([]byte(doc), true)
	require.NoError(t, err)
	out = append(out, prod)
	for prod.Kind != PEndOfData {
		prod, p, err = p.Parse(nil, true)
		require.NoError(t, err)
		out = append(out, prod)
	}
	return out
}

func kinds(prods []Production) []ProductionKind {
	out := make([]ProductionKind, len(prods))
	for i, p := range prods {
		out[i] = p.Kind
	}
	return out
}

func TestParse_xmlDeclPlusEmptyElement(t *testing.T) {
	prods := drainAll(t, `<?xml version="1.0" encoding="UTF-8"?><root/>`)
	assert.Equal(t, []ProductionKind{PEmptyElement, PEndOfData}, kinds(prods))
	assert.Equal(t, "root", prods[0].Name)
	assert.Empty(t, prods[0].Attrs)
}

func TestParse_mixedContentWithCommentAndCDATA(t *testing.T) {
	doc := `<root>hello <!-- a comment --><![CDATA[<raw & unescaped>]]> world</root>`
	prods := drainAll(t, doc)
	assert.Equal(t, []ProductionKind{
		PStartElement, PText, PComment, PCdata, PText, PEndElement, PEndOfData,
	}, kinds(prods))
	assert.Equal(t, "hello ", prods[1].Text)
	assert.Equal(t, " a comment ", prods[2].Text)
	assert.Equal(t, "<raw & unescaped>", prods[3].Text)
	assert.Equal(t, " world", prods[4].Text)
}

func TestParse_crlfNormalization(t *testing.T) {
	doc := "<root>line1\r\nline2\rline3\nline4</root>"
	prods := drainAll(t, doc)
	require.Equal(t, []ProductionKind{PStartElement, PText, PEndElement, PEndOfData}, kinds(prods))
	assert.Equal(t, "line1\nline2\nline3\nline4", prods[1].Text)
}

func TestParse_forbiddenCDATAEndSequenceInText(t *testing.T) {
	p := New()
	_, _, err := p.Parse([]byte("<root>a]]>b</root>"), true)
	require.Error(t, err)
	var xerr *Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, LexerError, xerr.Kind)
}

func TestParse_doctypeInternalSubset(t *testing.T) {
	doc := `<!DOCTYPE greeting [
  <!ELEMENT greeting (#PCDATA)>
  <!ATTLIST greeting lang CDATA #IMPLIED>
  <!ENTITY hello "Hello, world!">
]><greeting lang="en">&hello;</greeting>`
	prods := drainAll(t, doc)
	assert.Equal(t, []ProductionKind{
		PDoctype, PStartElement, PText, PEndElement, PEndOfData,
	}, kinds(prods))

	dtd := prods[0].Doctype
	require.NotNil(t, dtd)
	assert.Equal(t, "greeting", dtd.Name)
	require.Len(t, dtd.IntSubset, 3)

	elem := dtd.IntSubset[0]
	assert.Equal(t, ISElementDecl, elem.Kind)
	assert.Equal(t, "greeting", elem.Name)
	require.NotNil(t, elem.Contentspec)
	assert.Equal(t, CSMixed, elem.Contentspec.Kind)

	attlist := dtd.IntSubset[1]
	assert.Equal(t, ISAttlistDecl, attlist.Kind)
	require.Len(t, attlist.AttDefs, 1)
	assert.Equal(t, "lang", attlist.AttDefs[0].Name)
	assert.Equal(t, ATCData, attlist.AttDefs[0].AttType)
	assert.Equal(t, DDImplied, attlist.AttDefs[0].DefaultDecl)

	entity := dtd.IntSubset[2]
	assert.Equal(t, ISEntityDecl, entity.Kind)
	assert.Equal(t, "hello", entity.Name)
	assert.Equal(t, "Hello, world!", entity.EntityValue)

	assert.Equal(t, "Hello, world!", prods[2].Text)
}

func TestParse_chunkedFeedAcrossTwoCalls(t *testing.T) {
	p := New()
	prod, p, err := p.Parse([]byte("<ro"), false)
	require.NoError(t, err)
	assert.Equal(t, PEndOfBuffer, prod.Kind)

	prod, p, err = p.Parse([]byte("ot>hi</root>"), true)
	require.NoError(t, err)
	assert.Equal(t, PStartElement, prod.Kind)
	assert.Equal(t, "root", prod.Name)

	prod, p, err = p.Parse(nil, true)
	require.NoError(t, err)
	assert.Equal(t, PText, prod.Kind)
	assert.Equal(t, "hi", prod.Text)

	prod, p, err = p.Parse(nil, true)
	require.NoError(t, err)
	assert.Equal(t, PEndElement, prod.Kind)

	prod, p, err = p.Parse(nil, true)
	require.NoError(t, err)
	assert.Equal(t, PEndOfData, prod.Kind)
	assert.False(t, p.IsParsing())
}

func TestParse_attributeOrderPreserved(t *testing.T) {
	prods := drainAll(t, `<root z="1" a="2" m="3"/>`)
	require.Equal(t, PEmptyElement, prods[0].Kind)
	require.Len(t, prods[0].Attrs, 3)
	assert.Equal(t, []Attr{{Name: "z", Value: "1"}, {Name: "a", Value: "2"}, {Name: "m", Value: "3"}}, prods[0].Attrs)
}

func TestParse_builtinEntities(t *testing.T) {
	prods := drainAll(t, `<root>&lt;&gt;&amp;&apos;&quot;</root>`)
	require.Equal(t, PText, prods[1].Kind)
	assert.Equal(t, `<>&'"`, prods[1].Text)
}

func TestParse_customEntityResolver(t *testing.T) {
	p := New(WithEntityResolver(func(name string) (string, error) {
		if name == "bullet" {
			return "*", nil
		}
		return "", newError(UnknownEntity, "no such entity %q", name)
	}))
	prod, p, err := p.Parse([]byte(`<root>&bullet;</root>`), true)
	require.NoError(t, err)
	require.Equal(t, PStartElement, prod.Kind)

	prod, p, err = p.Parse(nil, true)
	require.NoError(t, err)
	assert.Equal(t, "*", prod.Text)
	_ = p
}

func TestParse_endTagMismatchErrors(t *testing.T) {
	p := New()
	_, _, err := p.Parse([]byte("<a><b></a></b>"), true)
	require.Error(t, err)
}

func TestParse_unclosedElementAtEndOfDataErrors(t *testing.T) {
	p := New()
	_, _, err := p.Parse([]byte("<a><b></b>"), true)
	require.Error(t, err)
}

func TestParse_finishedHandleRejectsFurtherParse(t *testing.T) {
	p := New()
	_, p, err := p.Parse([]byte("<a/>"), true)
	require.NoError(t, err)
	_, p, err = p.Parse(nil, true)
	require.NoError(t, err)
	require.False(t, p.IsParsing())

	_, _, err = p.Parse(nil, true)
	require.Error(t, err)
	var xerr *Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, Finished, xerr.Kind)
}

func TestParse_processingInstruction(t *testing.T) {
	prods := drainAll(t, `<root><?target some data?></root>`)
	require.Equal(t, []ProductionKind{PStartElement, PPi, PEndElement, PEndOfData}, kinds(prods))
	assert.Equal(t, "target", prods[1].Target)
	assert.Equal(t, "some data", prods[1].Data)
}

func TestParse_reservedXmlTargetOutsideDeclRejected(t *testing.T) {
	p := New()
	_, _, err := p.Parse([]byte(`<root><?xml version="1.0"?></root>`), true)
	require.Error(t, err)
}

func TestSplitName(t *testing.T) {
	prefix, local := SplitName("ns:elem")
	assert.Equal(t, "ns", prefix)
	assert.Equal(t, "elem", local)

	prefix, local = SplitName("elem")
	assert.Equal(t, "", prefix)
	assert.Equal(t, "elem", local)
}

func TestParseDTD_standalone(t *testing.T) {
	prod, err := ParseDTD(`<!ELEMENT foo EMPTY><!ATTLIST foo id ID #REQUIRED>`)
	require.NoError(t, err)
	require.Equal(t, PDoctype, prod.Kind)
	require.Len(t, prod.Doctype.IntSubset, 2)
	assert.Equal(t, CSEmpty, prod.Doctype.IntSubset[0].Contentspec.Kind)
	assert.Equal(t, ATID, prod.Doctype.IntSubset[1].AttDefs[0].AttType)
}
