package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mattmacumber/forth/internal/fileinput"
	"github.com/mattmacumber/forth/internal/panicerr"
)

func Test_Run(t *testing.T) {
	errBoom := errors.New("boom")
	var tee bytes.Buffer
	script := &scriptedLines{lines: []string{"1 2", "+"}}

	vmTestCases{
		vmTest("run").withInput("test.fs", "1 2 +\nfoo\n3\n").
			expectReports("test.fs:2:1: unknown word: foo").
			expectStack(3, 3),
		vmTest("run underflow").withInput("test.fs", "+\n5\n").
			expectReports("test.fs:1:1: stack underflow: +").
			expectStack(5),
		vmTest("run tokenize fault").withInput("test.fs", "1 .\"abc\n2\n").
			expectReports(`test.fs:1:3: unterminated control structure: .": missing "`).
			expectStack(2),
		vmTest("run word fault").withInput("test.fs", ": w foo ;\nw\n").
			expectReports("test.fs:2: unknown word: foo (in w)"),
		vmTest("run inputs in order").withInput("a.fs", "1\n").withInput("b.fs", "foo\n2\n").
			expectReports("b.fs:1:1: unknown word: foo").
			expectStack(1, 2),
		vmTest("run output").withInput("out.fs", "1 .\n2 .\n").expectOutput("1 2 "),
		vmTest("run crlf").withInput("dos.fs", "1\r\n2\r\n").expectStack(1, 2),
		vmTest("run no input").expectStack(),
		vmTest("run blank line continues").withInput("file.fs", "1 .\n\n2 .\n").expectOutput("1 2 "),
		vmTest("run ends on blank line").withInput("<stdin>", "1 .\n  \t\n2 .\n").
			withOptions(WithEndOnBlankLine()).
			expectOutput("1 ").
			expectStack(),
		vmTest("run ends on blank line only").withInput("<stdin>", "1 .\n2 .\n").
			withOptions(WithEndOnBlankLine()).
			expectOutput("1 2 "),
		vmTest("run timeout").withInput("loop.fs", "BEGIN 0 UNTIL\n2\n").
			withTimeout(50*time.Millisecond).
			expectError(context.DeadlineExceeded),
		vmTest("run input writer error").withOptions(WithInputWriter(failingWriterTo{errBoom})).
			expectError(errBoom),
		vmTest("run line reader").withOptions(WithLineReader(script)).
			expectStack(3).
			check(func(t *testing.T, res *vmResult) {
				assert.True(t, script.closed, "expected line reader to be closed")
			}),
		vmTest("run tee").withInput("tee.fs", "65 EMIT 1 .\n").withOptions(WithTee(&tee)).
			expectOutput("A1 ").
			check(func(t *testing.T, res *vmResult) {
				assert.Equal(t, "A1 ", tee.String(), "expected tee output")
			}),
		vmTest("run panic").withInput("panic.fs", "1 .\n2\n").withOptions(WithOutput(&panicOnce{})).
			expectError(errWriteFailed).
			check(func(t *testing.T, res *vmResult) {
				if assert.Len(t, res.errs, 1) {
					assert.True(t, panicerr.IsPanic(res.errs[0]), "expected a panic error, got %+v", res.errs[0])
				}
			}).
			expectStack(),

		vmTest("demo").withOptions(WithInputWriter(demo)).
			expectReports().
			expectOutput(demoOutput()),
	}.run(t)
}

func Test_Exec(t *testing.T) {
	vmTestCases{
		vmTest("exec").exec("1", "2", "+").expectStack(3),
		vmTest("exec string").exec(`."Hi"`, "CR").expectOutput("Hi \n"),
		vmTest("exec control").exec("1", "IF", "2", "ELSE", "3", "THEN").expectStack(2),
		vmTest("exec definition").exec(":", "sq", "DUP", "*", ";", "5", "sq").expectStack(25),
		vmTest("exec fault").exec("1", "bogus").
			expectError(ErrUnknownWord).
			expectErrors("2: unknown word: bogus").
			expectStack(1),
		vmTest("exec underflow").exec("DROP", "1").
			expectReports("1: stack underflow: DROP").
			expectStack(1),
	}.run(t)
}

func Test_dump(t *testing.T) {
	vmTestCases{
		vmTest("dump empty").expectDump(lines(
			"# Forth Dump",
			"  stack: []",
			"  rstack: []",
			"  here: 0",
		)),
		vmTest("dump").eval(": sq DUP * ;", "VARIABLE v 7 v !", "3 CONSTANT three", "1 2 4 >R").expectDump(lines(
			"# Forth Dump",
			"  stack: [1 2]",
			"  rstack: [4]",
			"  here: 1",
			"# Dictionary",
			"  : sq DUP * ;",
			`  VARIABLE v \ @0 = 7`,
			"  3 CONSTANT three",
		)),
	}.run(t)
}

func Test_Fault(t *testing.T) {
	for _, tc := range []struct {
		fault  Fault
		expect string
		aborts bool
	}{
		{Fault{}, "fault", true},
		{Fault{Err: ErrStackUnderflow}, "stack underflow", false},
		{Fault{Err: ErrUnknownWord, Word: "x", Col: 3}, "3: unknown word: x", true},
		{Fault{Err: ErrUnknownWord, Word: "x", Loc: "f.fs:1", Col: 3, In: "w"}, "f.fs:1:3: unknown word: x (in w)", true},
		{Fault{Err: ErrDivisionByZero, Word: "/", Loc: "f.fs:2"}, "f.fs:2: division by zero: /", true},
		{Fault{Err: ErrUnterminated, Word: "IF", Detail: "missing THEN"}, "unterminated control structure: IF: missing THEN", true},
	} {
		t.Run(tc.expect, func(t *testing.T) {
			f := tc.fault
			assert.EqualError(t, &f, tc.expect)
			assert.Equal(t, tc.aborts, f.Aborts())
			if f.Err != nil {
				assert.True(t, errors.Is(&f, f.Err), "expected fault to wrap %v", f.Err)
			}
		})
	}
}

func demoOutput() string {
	var sb strings.Builder
	sb.WriteString(repeat("\nHello ", 10) + "\n")
	sb.WriteString("\n        *****\n        *\n        *****\n        *\n        *\n")
	sb.WriteString("\n5 \n7 ")
	sb.WriteString("Bigger ")
	sb.WriteString("\n5 \n7 ")
	sb.WriteString("Big_enough ")
	sb.WriteString("\n")
	for i := 1; i <= 100; i++ {
		switch {
		case i%15 == 0:
			sb.WriteString("FizzBuzz")
		case i%3 == 0:
			sb.WriteString("Fizz")
		case i%5 == 0:
			sb.WriteString("Buzz")
		default:
			sb.WriteString(strconv.Itoa(i))
		}
		sb.WriteByte(' ')
	}
	sb.WriteString("\n17 ")
	sb.WriteString("\n")
	return sb.String()
}

//// utilities

type failingWriterTo struct{ err error }

func (fw failingWriterTo) WriteTo(w io.Writer) (int64, error) { return 0, fw.err }

type scriptedLines struct {
	lines  []string
	n      int
	closed bool
}

func (sl *scriptedLines) ReadLine() (fileinput.Line, error) {
	if sl.n >= len(sl.lines) {
		return fileinput.Line{}, io.EOF
	}
	sl.n++
	return fileinput.Line{
		Location: fileinput.Location{Name: "<script>", Line: sl.n},
		Text:     sl.lines[sl.n-1],
	}, nil
}

func (sl *scriptedLines) Close() error {
	sl.closed = true
	return nil
}

var errWriteFailed = errors.New("write failed")

// panicOnce panics on its first write.
type panicOnce struct{ done bool }

func (po *panicOnce) Write(p []byte) (int, error) {
	if !po.done {
		po.done = true
		panic(errWriteFailed)
	}
	return len(p), nil
}

func (po *panicOnce) Flush() error { return nil }
