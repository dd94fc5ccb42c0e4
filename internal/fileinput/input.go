package fileinput

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Location names a line in an Input stream.
type Location struct {
	Name string
	Line int
}

// Line is one line of source text read from an Input, without its line
// terminator, along with where it came from.
type Line struct {
	Location
	Text string
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }
func (il Line) String() string      { return fmt.Sprintf("%v %q", il.Location, il.Text) }

// Input implements sequential line reading through a Queue of one or more
// input streams. The most recently read line is retained as Last to
// facilitate user feedback.
type Input struct {
	Queue []io.Reader
	Last  Line

	sc  *bufio.Scanner
	cur io.Reader
	loc Location
}

// Push appends readers to the input queue.
func (in *Input) Push(rs ...io.Reader) {
	in.Queue = append(in.Queue, rs...)
}

// ReadLine returns the next line from the current stream, moving on to the
// next queued stream once the current one is exhausted. Returns io.EOF only
// after every queued stream has been read.
func (in *Input) ReadLine() (Line, error) {
	for {
		if in.sc == nil && !in.nextIn() {
			return Line{}, io.EOF
		}
		if in.sc.Scan() {
			in.loc.Line++
			in.Last = Line{
				Location: in.loc,
				Text:     strings.TrimSuffix(in.sc.Text(), "\r"),
			}
			return in.Last, nil
		}
		if err := in.sc.Err(); err != nil {
			in.closeCur()
			return Line{}, fmt.Errorf("%v: %w", in.loc.Name, err)
		}
		in.closeCur()
	}
}

// Close closes any current or queued streams that implement io.Closer.
func (in *Input) Close() (err error) {
	if cerr := in.closeCur(); err == nil {
		err = cerr
	}
	for _, r := range in.Queue {
		if cl, ok := r.(io.Closer); ok {
			if cerr := cl.Close(); err == nil {
				err = cerr
			}
		}
	}
	in.Queue = nil
	return err
}

func (in *Input) closeCur() (err error) {
	if cl, ok := in.cur.(io.Closer); ok {
		err = cl.Close()
	}
	in.cur = nil
	in.sc = nil
	return err
}

func (in *Input) nextIn() bool {
	if len(in.Queue) == 0 {
		return false
	}
	r := in.Queue[0]
	in.Queue = in.Queue[1:]
	in.cur = r
	in.sc = bufio.NewScanner(r)
	in.loc = Location{Name: nameOf(r)}
	return true
}

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
