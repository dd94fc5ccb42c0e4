package main

import (
	"bytes"
	"io"
	"io/ioutil"

	"github.com/mattmacumber/forth/internal/flushio"
)

// VMOption configures a VM created by New.
type VMOption interface{ apply(vm *VM) }

const defaultDepthLimit = 1024

var defaults = []VMOption{
	withOutput(ioutil.Discard),
	withDepthLimit(defaultDepthLimit),
}

func (vm *VM) apply(opts ...VMOption) {
	for _, opt := range defaults {
		if opt != nil {
			opt.apply(vm)
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(vm)
		}
	}
}

type withLogfn func(mess string, args ...interface{})
type withReportfn func(err error)

func (logfn withLogfn) apply(vm *VM)      { vm.logfn = logfn }
func (fn withReportfn) apply(vm *VM)      { vm.reportfn = fn }
func (lim memLimitOption) apply(vm *VM)   { vm.heap.Limit = uint(lim) }
func (lim depthLimitOption) apply(vm *VM) { vm.depthLimit = int(lim) }
func (end endOnBlankOption) apply(vm *VM) { vm.endOnBlank = bool(end) }

type inputOption struct{ io.Reader }
type inputWriterOption struct{ io.WriterTo }
type lineReaderOption struct{ lineReader }
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type memLimitOption uint
type depthLimitOption int
type endOnBlankOption bool

func withInput(r io.Reader) inputOption               { return inputOption{r} }
func withInputWriter(w io.WriterTo) inputWriterOption { return inputWriterOption{w} }
func withLineReader(lr lineReader) lineReaderOption   { return lineReaderOption{lr} }
func withOutput(w io.Writer) outputOption             { return outputOption{w} }
func withTee(w io.Writer) teeOption                   { return teeOption{w} }
func withMemLimit(limit uint) memLimitOption          { return memLimitOption(limit) }
func withDepthLimit(limit int) depthLimitOption       { return depthLimitOption(limit) }

func (i inputOption) apply(vm *VM) {
	vm.files.Push(i.Reader)
	vm.in = &vm.files
}

// The writer's content is buffered up front, under the writer's name if
// it has one.
func (i inputWriterOption) apply(vm *VM) {
	var buf bytes.Buffer
	var r io.Reader = &buf
	if _, err := i.WriteTo(&buf); err != nil {
		r = errReader{err}
	}
	if nom, ok := i.WriterTo.(interface{ Name() string }); ok {
		r = NamedReader(nom.Name(), r)
	}
	vm.files.Push(r)
	vm.in = &vm.files
}

func (lr lineReaderOption) apply(vm *VM) {
	vm.in = lr.lineReader
	if cl, ok := lr.lineReader.(io.Closer); ok {
		vm.closers = append(vm.closers, cl)
	}
}

func (o outputOption) apply(vm *VM) {
	if vm.out != nil {
		vm.out.Flush()
	}
	vm.out = flushio.NewWriteFlusher(o.Writer)
}

func (o teeOption) apply(vm *VM) {
	vm.out = flushio.Tee(vm.out, flushio.NewWriteFlusher(o.Writer))
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }

type errReader struct{ err error }

func (er errReader) Read([]byte) (int, error) { return 0, er.err }
