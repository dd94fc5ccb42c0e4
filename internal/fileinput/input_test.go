package fileinput_test

import (
	"io"
	"strings"
	"testing"

	"github.com/mattmacumber/forth/internal/fileinput"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedReader struct {
	io.Reader
	name   string
	closed bool
}

func (nr *namedReader) Name() string { return nr.name }
func (nr *namedReader) Close() error { nr.closed = true; return nil }

func named(name, src string) *namedReader {
	return &namedReader{Reader: strings.NewReader(src), name: name}
}

func Test_Input(t *testing.T) {
	a := named("a.fs", "1 2 +\n: SQ DUP * ;\r\n")
	b := named("b.fs", "\n3 SQ .")

	var in fileinput.Input
	in.Push(a, b)

	for _, expect := range []fileinput.Line{
		{Location: fileinput.Location{Name: "a.fs", Line: 1}, Text: "1 2 +"},
		{Location: fileinput.Location{Name: "a.fs", Line: 2}, Text: ": SQ DUP * ;"},
		{Location: fileinput.Location{Name: "b.fs", Line: 1}, Text: ""},
		{Location: fileinput.Location{Name: "b.fs", Line: 2}, Text: "3 SQ ."},
	} {
		line, err := in.ReadLine()
		require.NoError(t, err, "unexpected read error")
		assert.Equal(t, expect, line, "expected line")
		assert.Equal(t, expect, in.Last, "expected last line")
	}

	_, err := in.ReadLine()
	assert.Equal(t, io.EOF, err, "expected EOF after all inputs")
	assert.True(t, a.closed, "expected first input to be closed")
	assert.True(t, b.closed, "expected second input to be closed")

	assert.Equal(t, "b.fs:2", in.Last.Location.String())
	assert.Equal(t, `b.fs:2 "3 SQ ."`, in.Last.String())
}

func Test_Input_unnamed(t *testing.T) {
	var in fileinput.Input
	in.Push(strings.NewReader("CR"))
	line, err := in.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "<unnamed *strings.Reader>:1", line.Location.String())
}

func Test_Input_Close(t *testing.T) {
	a, b := named("a", "x\ny"), named("b", "z")
	var in fileinput.Input
	in.Push(a, b)
	_, err := in.ReadLine()
	require.NoError(t, err)
	require.NoError(t, in.Close())
	assert.True(t, a.closed, "expected current input closed")
	assert.True(t, b.closed, "expected queued input closed")
	_, err = in.ReadLine()
	assert.Equal(t, io.EOF, err)
}
