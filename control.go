package main

import (
	"context"
)

func (vm *VM) unterminated(detail string) {
	vm.halt(&Fault{Err: ErrUnterminated, Detail: detail})
}

// ifThen implements IF ... [ELSE ...] THEN. Both branches are consumed
// before the flag is popped, so a missing flag skips the whole construct.
func (vm *VM) ifThen(ctx context.Context, ts *tokenStream, _ token) {
	then, stop, ok := ts.scan(primElse, primThen)
	if !ok {
		vm.unterminated("missing THEN")
	}
	var els []token
	if stop == primElse {
		if els, _, ok = ts.scan(primThen); !ok {
			vm.unterminated("missing THEN")
		}
	}
	if vm.pop() != 0 {
		vm.evalBody(ctx, "", then)
	} else if len(els) > 0 {
		vm.evalBody(ctx, "", els)
	}
}

// doLoop implements DO ... LOOP over the limit and index pair on top of the
// stack. The body runs until the index equals the limit; the index is
// bumped after every iteration, and the pair is left on the stack when the
// loop finishes.
func (vm *VM) doLoop(ctx context.Context, ts *tokenStream, _ token) {
	body, _, ok := ts.scan(primLoop)
	if !ok {
		vm.unterminated("missing LOOP")
	}
	vm.need(2)
	for vm.peek(0) != vm.peek(1) {
		vm.haltif(ctx.Err())
		vm.evalBody(ctx, "", body)
		index := vm.pop() + 1
		limit := vm.pop()
		vm.push(limit)
		vm.push(index)
	}
}

// begin implements BEGIN ... UNTIL, looping until a true flag, and
// BEGIN ... WHILE ... REPEAT, looping while a flag is true.
func (vm *VM) begin(ctx context.Context, ts *tokenStream, _ token) {
	body, stop, ok := ts.scan(primWhile, primUntil)
	if !ok {
		vm.unterminated("missing UNTIL or WHILE")
	}
	var rest []token
	if stop == primWhile {
		if rest, _, ok = ts.scan(primRepeat); !ok {
			vm.unterminated("missing REPEAT")
		}
	}
	for {
		vm.haltif(ctx.Err())
		vm.evalBody(ctx, "", body)
		flag := vm.pop()
		if stop == primUntil {
			if flag != 0 {
				return
			}
			continue
		}
		if flag == 0 {
			return
		}
		vm.evalBody(ctx, "", rest)
	}
}

// unexpected faults a construct terminator met outside of its construct.
func (vm *VM) unexpected(_ context.Context, _ *tokenStream, tok token) {
	vm.halt(&Fault{
		Err:    ErrUnknownWord,
		Detail: "unexpected outside " + primTable[tok.prim].of,
	})
}

//// Definitions

func (vm *VM) wordName(ts *tokenStream) token {
	if !ts.more() {
		vm.unterminated("missing name")
	}
	return ts.next()
}

// define implements : name ... ; storing the body verbatim, to be parsed
// when called.
func (vm *VM) define(_ context.Context, ts *tokenStream, _ token) {
	name := vm.wordName(ts)
	body, ok := ts.scanTo(primSemi)
	if !ok {
		vm.unterminated("missing ; after " + name.text)
	}
	vm.defineWord(name, colonWord, body)
}

func (vm *VM) variable(_ context.Context, ts *tokenStream, _ token) {
	name := vm.wordName(ts)
	addr, err := vm.heap.Allot(1)
	vm.haltif(err)
	vm.defineWord(name, variableWord, []token{numeral(int(addr))})
}

func (vm *VM) constant(_ context.Context, ts *tokenStream, _ token) {
	name := vm.wordName(ts)
	vm.defineWord(name, constantWord, []token{numeral(vm.pop())})
}

func (vm *VM) defineWord(name token, kind wordKind, body []token) {
	switch name.kind {
	case primToken:
		vm.logf("define %v: shadowed by primitive", name.text)
	case numeralToken, stringToken:
		vm.logf("define %v: shadowed by literal", name.text)
	}
	vm.dict.define(&word{name: name.text, kind: kind, body: body})
}

//// Introspection

func (vm *VM) see(_ context.Context, ts *tokenStream, _ token) {
	name := vm.wordName(ts)
	if name.kind == primToken {
		vm.writeString("primitive " + name.text + "\n")
		return
	}
	w := vm.dict.lookup(name.text)
	if w == nil {
		vm.halt(&Fault{Err: ErrUnknownWord, Detail: name.text})
	}
	vm.writeString(formatWord(w))
	vm.writeRune('\n')
}

func (vm *VM) words() {
	for _, name := range vm.dict.names {
		vm.writeString(name)
		vm.writeRune(' ')
	}
}
