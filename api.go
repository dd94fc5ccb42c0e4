package main

import (
	"context"
	"io"

	"github.com/mattmacumber/forth/internal/fileinput"
)

// New creates a VM; by default it reads no input and discards output.
func New(opts ...VMOption) *VM {
	var vm VM
	vm.in = &vm.files
	vm.apply(opts...)
	return &vm
}

// Eval tokenizes and evaluates one line of source. Stack underflows are
// reported, through WithReport or the log, and evaluation goes on; any
// other fault aborts the line and is returned as a *Fault.
func (vm *VM) Eval(ctx context.Context, line string) error {
	toks, err := tokenize(line)
	if err != nil {
		if f, ok := err.(*Fault); ok && f.Loc == "" {
			f.Loc = vm.loc
		}
		return err
	}
	return vm.exec(ctx, toks)
}

// Exec evaluates already split words, much like Eval would evaluate them
// joined by spaces; a string literal must be given as one word, like
// ."Hello". Fault columns count words, starting from 1.
func (vm *VM) Exec(ctx context.Context, words ...string) error {
	toks := make([]token, len(words))
	for i, atom := range words {
		toks[i] = classifyAtom(atom, i+1)
	}
	return vm.exec(ctx, toks)
}

// NamedReader attaches a name to a reader, used to locate faults in its
// lines.
func NamedReader(name string, r io.Reader) io.Reader { return namedReader{r, name} }

// WithInput queues a source reader for Run.
func WithInput(r io.Reader) VMOption { return withInput(r) }

// WithInputWriter queues the content written by w for Run.
func WithInputWriter(w io.WriterTo) VMOption { return withInputWriter(w) }

// WithLineReader has Run read lines from lr rather than queued inputs; lr
// is closed with the VM if it implements io.Closer.
func WithLineReader(lr interface {
	ReadLine() (fileinput.Line, error)
}) VMOption {
	return withLineReader(lr)
}

func WithOutput(w io.Writer) VMOption        { return withOutput(w) }
func WithTee(w io.Writer) VMOption           { return withTee(w) }
func WithMemLimit(limit uint) VMOption       { return withMemLimit(limit) }
func WithDepthLimit(limit int) VMOption      { return withDepthLimit(limit) }
func WithReport(fn func(err error)) VMOption { return withReportfn(fn) }

// WithEndOnBlankLine has Run stop reading at the first blank line, ending
// an interactive session.
func WithEndOnBlankLine() VMOption { return endOnBlankOption(true) }

func WithLogf(logfn func(mess string, args ...interface{})) VMOption { return withLogfn(logfn) }
