package main

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
)

// exec evaluates a top-level token sequence, returning any fault that
// aborted it. Output is flushed once evaluation stops.
func (vm *VM) exec(ctx context.Context, toks []token) (err error) {
	defer func() {
		if ferr := vm.out.Flush(); err == nil && ferr != nil {
			err = errors.Wrap(ferr, "flush")
		}
	}()
	defer vm.recoverHalt(&err)
	vm.eval(ctx, &tokenStream{toks: toks})
	return nil
}

func (vm *VM) recoverHalt(errp *error) {
	e := recover()
	if e == nil {
		return
	}
	he, ok := e.(haltError)
	if !ok {
		panic(e)
	}
	vm.logf("abort: %v", he.Fault)
	vm.reset()
	*errp = he.Fault
}

func (vm *VM) eval(ctx context.Context, ts *tokenStream) {
	for ts.more() {
		vm.step(ctx, ts)
	}
}

// step dispatches the next token from ts; control words consume further
// tokens from ts themselves.
func (vm *VM) step(ctx context.Context, ts *tokenStream) {
	vm.haltif(ctx.Err())
	tok := ts.next()
	defer vm.recoverStep(tok)

	if vm.logfn != nil {
		vm.logf("%v %v", tok.text, vm.stack)
	}

	switch tok.kind {
	case numeralToken:
		vm.push(tok.val)

	case stringToken:
		vm.writeString(tok.str)
		vm.writeRune(' ')

	case primToken:
		prim := &primTable[tok.prim]
		if prim.ctl != nil {
			prim.ctl(vm, ctx, ts, tok)
			return
		}
		vm.need(prim.arity)
		prim.op(vm)

	default:
		vm.call(ctx, tok)
	}
}

// recoverStep attributes a halt to the token being dispatched. Stack
// underflow is reported here, and evaluation of the stream carries on;
// anything else continues unwinding.
func (vm *VM) recoverStep(tok token) {
	e := recover()
	if e == nil {
		return
	}
	he, ok := e.(haltError)
	if !ok {
		panic(e)
	}
	if he.Word == "" {
		he.Word = tok.text
		if he.In == "" {
			he.Col = tok.col
		}
	}
	if he.Aborts() {
		panic(he)
	}
	vm.report(he.Fault)
}

// call evaluates a user word, looked up by name every time it is called.
func (vm *VM) call(ctx context.Context, tok token) {
	w := vm.dict.lookup(tok.text)
	if w == nil {
		f := &Fault{Err: ErrUnknownWord}
		if isDecimal(tok.text) {
			f.Detail = "numeral out of range"
		}
		vm.halt(f)
	}
	vm.evalBody(ctx, w.name, w.body)
}

// evalBody evaluates a word or construct body through a fresh cursor; name
// is empty for construct bodies.
func (vm *VM) evalBody(ctx context.Context, name string, body []token) {
	if limit := vm.depthLimit; limit > 0 && vm.depth >= limit {
		vm.haltWith(ErrReturnOverflow, "depth "+strconv.Itoa(vm.depth))
	}
	vm.depth++
	defer func() { vm.depth-- }()

	if name != "" {
		vm.callers = append(vm.callers, name)
		defer func() { vm.callers = vm.callers[:len(vm.callers)-1] }()
		if vm.logfn != nil {
			defer vm.withLogPrefix(name + "\t")()
		}
	} else if vm.logfn != nil {
		defer vm.withLogPrefix("\t")()
	}

	vm.eval(ctx, &tokenStream{toks: body})
}
