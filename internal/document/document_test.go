package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmptyInput(t *testing.T) {
	_, err := New("empty.xsl", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestLineAccess(t *testing.T) {
	doc, err := New("t.xsl", "one\ntwo\nthree")
	require.NoError(t, err)

	assert.Equal(t, 3, doc.LineCount())
	assert.Equal(t, "one", doc.Line(1))
	assert.Equal(t, "two", doc.Line(2))
	assert.Equal(t, "three", doc.Line(3))
	assert.Equal(t, "", doc.Line(0))
	assert.Equal(t, "", doc.Line(4))
}

func TestTrailingNewline(t *testing.T) {
	doc, err := New("t.xsl", "one\ntwo\n")
	require.NoError(t, err)

	// A trailing newline must not create a phantom empty line.
	assert.Equal(t, 2, doc.LineCount())
	assert.Equal(t, "two", doc.Line(2))
}

func TestCRLFLines(t *testing.T) {
	doc, err := New("t.xsl", "one\r\ntwo\r\n")
	require.NoError(t, err)

	assert.Equal(t, 2, doc.LineCount())
	assert.Equal(t, "one", doc.Line(1))
	assert.Equal(t, "two", doc.Line(2))
}

func TestRange(t *testing.T) {
	doc, err := New("t.xsl", "a\nb\nc\nd")
	require.NoError(t, err)

	assert.Equal(t, "b\nc", doc.Range(2, 3))
	assert.Equal(t, "a\nb\nc\nd", doc.Range(1, 4))
	assert.Equal(t, "a", doc.Range(1, 1))

	// Bounds clamp rather than fail.
	assert.Equal(t, "a\nb\nc\nd", doc.Range(0, 99))
	assert.Equal(t, "", doc.Range(3, 2))
}

func TestByteLen(t *testing.T) {
	doc, err := New("t.xsl", "ab\ncd\nef")
	require.NoError(t, err)

	assert.Equal(t, 3, doc.ByteLen(1, 1)) // "ab\n"
	assert.Equal(t, 6, doc.ByteLen(1, 2))
	assert.Equal(t, 8, doc.ByteLen(1, 3)) // last line has no terminator
	assert.Equal(t, 0, doc.ByteLen(5, 9))
}

func TestByteLenMonotonic(t *testing.T) {
	lines := make([]string, 50)
	for i := range lines {
		lines[i] = strings.Repeat("x", i%7)
	}
	doc, err := New("t.xsl", strings.Join(lines, "\n"))
	require.NoError(t, err)

	prev := 0
	for end := 1; end <= doc.LineCount(); end++ {
		n := doc.ByteLen(1, end)
		assert.GreaterOrEqual(t, n, prev)
		prev = n
	}
}

func TestSource(t *testing.T) {
	doc, err := New("sheets/invoice.xsl", "x")
	require.NoError(t, err)
	assert.Equal(t, "sheets/invoice.xsl", doc.Source())
}
