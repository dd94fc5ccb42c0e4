package main

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Faults raised while evaluating; every error returned by Eval, Exec, or
// passed to a WithReport function is a *Fault wrapping one of these (or a
// memory or context error).
var (
	ErrStackUnderflow = errors.New("stack underflow")
	ErrUnknownWord    = errors.New("unknown word")
	ErrUnterminated   = errors.New("unterminated control structure")
	ErrDivisionByZero = errors.New("division by zero")
	ErrReturnOverflow = errors.New("return stack overflow")
	ErrInvalidAddress = errors.New("invalid address")
)

// Fault describes an evaluation error along with where it happened.
type Fault struct {
	Err    error
	Word   string // the offending token
	Detail string

	Loc string // input location, like "demo.fs:3"
	Col int    // rune column within the line, or token position for Exec
	In  string // innermost user word being executed, if any
}

func (f *Fault) Error() string {
	var sb strings.Builder
	if f.Loc != "" {
		sb.WriteString(f.Loc)
		sb.WriteByte(':')
	}
	if f.Col > 0 {
		sb.WriteString(strconv.Itoa(f.Col))
		sb.WriteByte(':')
	}
	if sb.Len() > 0 {
		sb.WriteByte(' ')
	}
	if f.Err != nil {
		sb.WriteString(f.Err.Error())
	} else {
		sb.WriteString("fault")
	}
	if f.Word != "" {
		sb.WriteString(": ")
		sb.WriteString(f.Word)
	}
	if f.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(f.Detail)
	}
	if f.In != "" {
		sb.WriteString(" (in ")
		sb.WriteString(f.In)
		sb.WriteByte(')')
	}
	return sb.String()
}

func (f *Fault) Unwrap() error { return f.Err }

// Aborts returns true unless the fault is a stack underflow, after which
// evaluation carries on with the next token.
func (f *Fault) Aborts() bool { return !errors.Is(f.Err, ErrStackUnderflow) }

type haltError struct{ *Fault }

// halt aborts the current token by panicking with a haltError; callers up
// the evaluation stack recover it (see step and exec).
func (vm *VM) halt(err error) {
	f, ok := err.(*Fault)
	if !ok {
		f = &Fault{Err: err}
	}
	if f.Loc == "" {
		f.Loc = vm.loc
	}
	if f.In == "" {
		if i := len(vm.callers) - 1; i >= 0 {
			f.In = vm.callers[i]
		}
	}
	panic(haltError{f})
}

func (vm *VM) haltif(err error) {
	if err != nil {
		vm.halt(err)
	}
}

func (vm *VM) haltWith(err error, detail string) {
	vm.halt(&Fault{Err: err, Detail: detail})
}
