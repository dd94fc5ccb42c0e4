package main

import (
	"io"

	"github.com/mattmacumber/forth/internal/fileinput"
	"github.com/mattmacumber/forth/internal/flushio"
	"github.com/mattmacumber/forth/internal/mem"
	"github.com/mattmacumber/forth/internal/runeio"
)

// VM holds the state of one interpreter: the data stack shared by every
// word, the return stack, the dictionary of user words, and heap memory for
// variables. A VM is not safe for concurrent use.
type VM struct {
	ioCore

	// The data stack holds plain ints; flags are 0 and 1, and loop
	// index/limit pairs live here too while a DO loop runs.
	stack []int

	// The return stack only serves >R R> and R@; word calls and loop
	// bodies nest on the Go stack instead.
	rstack []int

	dict dictionary
	heap mem.Heap

	callers    []string // user words being executed, innermost last
	depth      int      // nested body evaluations
	depthLimit int

	loc        string // location of the line being evaluated, for faults
	endOnBlank bool   // Run stops at a blank line, as an interactive session does
}

// Stack returns a copy of the data stack, bottom first.
func (vm *VM) Stack() []int {
	return append([]int(nil), vm.stack...)
}

func (vm *VM) push(val int) {
	vm.stack = append(vm.stack, val)
}

func (vm *VM) pop() (val int) {
	i := len(vm.stack) - 1
	if i < 0 {
		vm.halt(ErrStackUnderflow)
	}
	val, vm.stack = vm.stack[i], vm.stack[:i]
	return val
}

// peek returns the i-th value below the top of the stack, without popping.
func (vm *VM) peek(i int) int {
	j := len(vm.stack) - 1 - i
	if j < 0 {
		vm.halt(ErrStackUnderflow)
	}
	return vm.stack[j]
}

func (vm *VM) need(n int) {
	if len(vm.stack) < n {
		vm.halt(ErrStackUnderflow)
	}
}

func (vm *VM) pushr(val int) {
	vm.rstack = append(vm.rstack, val)
}

func (vm *VM) popr() (val int) {
	i := len(vm.rstack) - 1
	if i < 0 {
		vm.haltWith(ErrStackUnderflow, "return stack empty")
	}
	val, vm.rstack = vm.rstack[i], vm.rstack[:i]
	return val
}

// reset clears evaluation state left behind by an aborted evaluation; the
// data stack is left as-is.
func (vm *VM) reset() {
	vm.rstack = vm.rstack[:0]
	vm.callers = vm.callers[:0]
	vm.depth = 0
}

type lineReader interface {
	ReadLine() (fileinput.Line, error)
}

type ioCore struct {
	files fileinput.Input
	in    lineReader
	out   flushio.WriteFlusher

	logfn    func(mess string, args ...interface{})
	reportfn func(err error)
	closers  []io.Closer
}

func (ioc *ioCore) withLogPrefix(prefix string) func() {
	logfn := ioc.logfn
	ioc.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		ioc.logfn = logfn
	}
}

func (ioc *ioCore) logf(mess string, args ...interface{}) {
	if ioc.logfn != nil {
		ioc.logfn(mess, args...)
	}
}

func (ioc *ioCore) report(err error) {
	if ioc.reportfn != nil {
		ioc.reportfn(err)
	} else {
		ioc.logf("! %v", err)
	}
}

// Close flushes output, then closes any inputs and resources acquired
// through options, most recent first.
func (ioc *ioCore) Close() (err error) {
	if ioc.out != nil {
		err = ioc.out.Flush()
	}
	if cerr := ioc.files.Close(); err == nil {
		err = cerr
	}
	for i := len(ioc.closers) - 1; i >= 0; i-- {
		if cerr := ioc.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	ioc.closers = nil
	return err
}

func (vm *VM) writeString(s string) {
	_, err := runeio.WriteANSIString(vm.out, s)
	vm.haltif(err)
}

func (vm *VM) writeRune(r rune) {
	_, err := runeio.WriteANSIRune(vm.out, r)
	vm.haltif(err)
}
