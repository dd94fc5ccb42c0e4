package main

import (
	"context"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/mattmacumber/forth/internal/runeio"
)

type primCode uint8

// Here's a summary of all the built in words; stack effects are written
// ( before -- after ) with the top of the stack rightmost.
const (
	// arithmetic and logic
	primAdd    primCode = iota // +       ( b a -- b+a )
	primSub                    // -       ( b a -- b-a )
	primMul                    // *       ( b a -- b*a )
	primDiv                    // /       ( b a -- b/a ) truncated
	primMod                    // MOD     ( b a -- b%a ) floored, sign follows a
	primDivMod                 // /MOD    ( b a -- b%a b/a )
	primLess                   // <       ( b a -- b<a )
	primMore                   // >       ( b a -- b>a )
	primEqual                  // =       ( b a -- b=a )
	primZeroEq                 // 0=      ( a -- a=0 )
	primNot                    // NOT     ( a -- a<>0 )
	primAnd                    // AND     ( b a -- a if a=0 else b )
	primOr                     // OR      ( b a -- a if a<>0 else b )
	primLShift                 // LSHIFT  ( b a -- b<<a )
	primRShift                 // RSHIFT  ( b a -- b>>a ) logical
	primMin                    // MIN     ( b a -- min )
	primMax                    // MAX     ( b a -- max )
	primNegate                 // NEGATE  ( a -- -a )
	primAbs                    // ABS     ( a -- |a| )

	// stack shuffling
	primDup    // DUP    ( a -- a a )
	primDrop   // DROP   ( a -- )
	primSwap   // SWAP   ( b a -- a b )
	primOver   // OVER   ( b a -- b a b )
	primRot    // ROT    ( c b a -- b a c )
	primTuck   // TUCK   ( b a -- a b a )
	prim2Drop  // 2DROP  ( b a -- )
	prim2Swap  // 2SWAP  ( d c b a -- b a d c )
	prim2Dup   // 2DUP   ( b a -- b a b a )
	primDepth  // DEPTH  ( -- n )
	primToR    // >R     ( a -- ) R:( -- a )
	primFromR  // R>     ( -- a ) R:( a -- )
	primRFetch // R@     ( -- a ) R:( a -- a )
	primIndex  // I      ( i -- i i ) the loop index, which is the top of stack

	// output
	primDot    // .       ( a -- ) print a and a space
	primDotS   // .S      ( -- ) print depth and stack
	primCR     // CR      ( -- ) print a newline
	primSpace  // SPACE   ( -- ) print a space
	primSpaces // SPACES  ( n -- ) print n spaces
	primEmit   // EMIT    ( c -- ) print c as a character

	// memory
	primFetch     // @      ( addr -- x )
	primStore     // !      ( x addr -- )
	primPlusStore // +!     ( n addr -- )
	primAllot     // ALLOT  ( n -- )
	primHere      // HERE   ( -- addr )

	// definitions and introspection; these read ahead in the token stream
	primColon    // : name ... ;
	primSemi     // ;
	primVariable // VARIABLE name
	primConstant // CONSTANT name  ( x -- )
	primSee      // SEE name
	primWords    // WORDS

	// control flow; these read ahead in the token stream
	primIf     // IF ... [ELSE ...] THEN  ( flag -- )
	primElse   // ELSE
	primThen   // THEN
	primDo     // DO ... LOOP  ( limit index -- limit index )
	primLoop   // LOOP
	primBegin  // BEGIN ... WHILE ... REPEAT  or  BEGIN ... UNTIL
	primWhile  // WHILE   ( flag -- )
	primRepeat // REPEAT
	primUntil  // UNTIL   ( flag -- )

	numPrims
)

type primitive struct {
	name string

	// arity is the number of stack values checked to be present before op
	// runs, so that an underflowing op never pops partially.
	arity int
	op    func(vm *VM)

	// ctl implements words that consume tokens after themselves.
	ctl func(vm *VM, ctx context.Context, ts *tokenStream, tok token)

	opens  bool   // starts a construct that nests within a scan
	closes bool   // ends a construct that nests within a scan
	of     string // the word whose construct a terminator belongs to
}

var (
	primTable [numPrims]primitive
	primCodes map[string]primCode
)

func init() {
	primTable = [...]primitive{
		primAdd:    {name: "+", arity: 2, op: (*VM).add},
		primSub:    {name: "-", arity: 2, op: (*VM).sub},
		primMul:    {name: "*", arity: 2, op: (*VM).mul},
		primDiv:    {name: "/", arity: 2, op: (*VM).div},
		primMod:    {name: "MOD", arity: 2, op: (*VM).mod},
		primDivMod: {name: "/MOD", arity: 2, op: (*VM).divMod},
		primLess:   {name: "<", arity: 2, op: (*VM).less},
		primMore:   {name: ">", arity: 2, op: (*VM).more},
		primEqual:  {name: "=", arity: 2, op: (*VM).equal},
		primZeroEq: {name: "0=", arity: 1, op: (*VM).zeroEq},
		primNot:    {name: "NOT", arity: 1, op: (*VM).not},
		primAnd:    {name: "AND", arity: 2, op: (*VM).and},
		primOr:     {name: "OR", arity: 2, op: (*VM).or},
		primLShift: {name: "LSHIFT", arity: 2, op: (*VM).lshift},
		primRShift: {name: "RSHIFT", arity: 2, op: (*VM).rshift},
		primMin:    {name: "MIN", arity: 2, op: (*VM).min},
		primMax:    {name: "MAX", arity: 2, op: (*VM).max},
		primNegate: {name: "NEGATE", arity: 1, op: (*VM).negate},
		primAbs:    {name: "ABS", arity: 1, op: (*VM).abs},

		primDup:    {name: "DUP", arity: 1, op: (*VM).dup},
		primDrop:   {name: "DROP", arity: 1, op: (*VM).drop},
		primSwap:   {name: "SWAP", arity: 2, op: (*VM).swap},
		primOver:   {name: "OVER", arity: 2, op: (*VM).over},
		primRot:    {name: "ROT", arity: 3, op: (*VM).rot},
		primTuck:   {name: "TUCK", arity: 2, op: (*VM).tuck},
		prim2Drop:  {name: "2DROP", arity: 2, op: (*VM).drop2},
		prim2Swap:  {name: "2SWAP", arity: 4, op: (*VM).swap2},
		prim2Dup:   {name: "2DUP", arity: 2, op: (*VM).dup2},
		primDepth:  {name: "DEPTH", op: (*VM).depthOp},
		primToR:    {name: ">R", arity: 1, op: (*VM).toR},
		primFromR:  {name: "R>", op: (*VM).fromR},
		primRFetch: {name: "R@", op: (*VM).rFetch},
		primIndex:  {name: "I", arity: 1, op: (*VM).index},

		primDot:    {name: ".", arity: 1, op: (*VM).dot},
		primDotS:   {name: ".S", op: (*VM).dotS},
		primCR:     {name: "CR", op: (*VM).cr},
		primSpace:  {name: "SPACE", op: (*VM).space},
		primSpaces: {name: "SPACES", ctl: (*VM).spaces},
		primEmit:   {name: "EMIT", arity: 1, op: (*VM).emit},

		primFetch:     {name: "@", arity: 1, op: (*VM).fetch},
		primStore:     {name: "!", arity: 2, op: (*VM).store},
		primPlusStore: {name: "+!", arity: 2, op: (*VM).plusStore},
		primAllot:     {name: "ALLOT", arity: 1, op: (*VM).allot},
		primHere:      {name: "HERE", op: (*VM).here},

		primColon:    {name: ":", ctl: (*VM).define},
		primSemi:     {name: ";", ctl: (*VM).unexpected, of: ":"},
		primVariable: {name: "VARIABLE", ctl: (*VM).variable},
		primConstant: {name: "CONSTANT", ctl: (*VM).constant},
		primSee:      {name: "SEE", ctl: (*VM).see},
		primWords:    {name: "WORDS", op: (*VM).words},

		primIf:     {name: "IF", ctl: (*VM).ifThen, opens: true},
		primElse:   {name: "ELSE", ctl: (*VM).unexpected, of: "IF"},
		primThen:   {name: "THEN", ctl: (*VM).unexpected, closes: true, of: "IF"},
		primDo:     {name: "DO", ctl: (*VM).doLoop, opens: true},
		primLoop:   {name: "LOOP", ctl: (*VM).unexpected, closes: true, of: "DO"},
		primBegin:  {name: "BEGIN", ctl: (*VM).begin, opens: true},
		primWhile:  {name: "WHILE", ctl: (*VM).unexpected, of: "BEGIN"},
		primRepeat: {name: "REPEAT", ctl: (*VM).unexpected, closes: true, of: "BEGIN"},
		primUntil:  {name: "UNTIL", ctl: (*VM).unexpected, closes: true, of: "BEGIN"},
	}

	primCodes = make(map[string]primCode, len(primTable))
	for code, prim := range primTable {
		primCodes[prim.name] = primCode(code)
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

//// Arithmetic

// The first value popped is the right hand operand.

func (vm *VM) add() { a, b := vm.pop(), vm.pop(); vm.push(b + a) }
func (vm *VM) sub() { a, b := vm.pop(), vm.pop(); vm.push(b - a) }
func (vm *VM) mul() { a, b := vm.pop(), vm.pop(); vm.push(b * a) }

func (vm *VM) div() {
	vm.checkDivisor()
	a, b := vm.pop(), vm.pop()
	vm.push(b / a)
}

func (vm *VM) mod() {
	vm.checkDivisor()
	a, b := vm.pop(), vm.pop()
	vm.push(floorMod(b, a))
}

// divMod pairs a floored remainder with a truncated quotient, so the two
// disagree for operands of differing sign.
func (vm *VM) divMod() {
	vm.checkDivisor()
	a, b := vm.pop(), vm.pop()
	vm.push(floorMod(b, a))
	vm.push(b / a)
}

func (vm *VM) checkDivisor() {
	if vm.peek(0) == 0 {
		vm.halt(ErrDivisionByZero)
	}
}

// floorMod returns b modulo a with the sign of a.
func floorMod(b, a int) int {
	r := b % a
	if r != 0 && (r < 0) != (a < 0) {
		r += a
	}
	return r
}

func (vm *VM) less()   { a, b := vm.pop(), vm.pop(); vm.push(boolInt(b < a)) }
func (vm *VM) more()   { a, b := vm.pop(), vm.pop(); vm.push(boolInt(b > a)) }
func (vm *VM) equal()  { a, b := vm.pop(), vm.pop(); vm.push(boolInt(b == a)) }
func (vm *VM) zeroEq() { vm.push(boolInt(vm.pop() == 0)) }

// NOT normalizes its operand to a flag; it does not invert it.
func (vm *VM) not() { vm.push(boolInt(vm.pop() != 0)) }

// AND and OR select one of their operands by truthiness, like a short
// circuiting expression would, rather than combining bits.

func (vm *VM) and() {
	a, b := vm.pop(), vm.pop()
	if a == 0 {
		vm.push(a)
	} else {
		vm.push(b)
	}
}

func (vm *VM) or() {
	a, b := vm.pop(), vm.pop()
	if a != 0 {
		vm.push(a)
	} else {
		vm.push(b)
	}
}

func (vm *VM) lshift() { a, b := vm.pop(), vm.pop(); vm.push(int(uint(b) << uint(a))) }
func (vm *VM) rshift() { a, b := vm.pop(), vm.pop(); vm.push(int(uint(b) >> uint(a))) }

func (vm *VM) min() {
	a, b := vm.pop(), vm.pop()
	if a < b {
		b = a
	}
	vm.push(b)
}

func (vm *VM) max() {
	a, b := vm.pop(), vm.pop()
	if a > b {
		b = a
	}
	vm.push(b)
}

func (vm *VM) negate() { vm.push(-vm.pop()) }

func (vm *VM) abs() {
	if a := vm.pop(); a < 0 {
		vm.push(-a)
	} else {
		vm.push(a)
	}
}

//// Stack

func (vm *VM) dup()  { vm.push(vm.peek(0)) }
func (vm *VM) drop() { vm.pop() }
func (vm *VM) swap() { a, b := vm.pop(), vm.pop(); vm.push(a); vm.push(b) }
func (vm *VM) over() { vm.push(vm.peek(1)) }

func (vm *VM) rot() {
	s := vm.stack[len(vm.stack)-3:]
	s[0], s[1], s[2] = s[1], s[2], s[0]
}

func (vm *VM) tuck() {
	a, b := vm.pop(), vm.pop()
	vm.push(a)
	vm.push(b)
	vm.push(a)
}

func (vm *VM) drop2() { vm.stack = vm.stack[:len(vm.stack)-2] }

func (vm *VM) swap2() {
	s := vm.stack[len(vm.stack)-4:]
	s[0], s[1], s[2], s[3] = s[2], s[3], s[0], s[1]
}

func (vm *VM) dup2() {
	b, a := vm.peek(1), vm.peek(0)
	vm.push(b)
	vm.push(a)
}

func (vm *VM) depthOp() { vm.push(len(vm.stack)) }

func (vm *VM) toR()    { vm.pushr(vm.pop()) }
func (vm *VM) fromR()  { vm.push(vm.popr()) }
func (vm *VM) rFetch() { val := vm.popr(); vm.pushr(val); vm.push(val) }

// index pushes a copy of the top of the stack: inside a DO body, before
// anything else is pushed, that is the loop index.
func (vm *VM) index() { vm.push(vm.peek(0)) }

//// Output

func (vm *VM) dot() {
	vm.writeString(strconv.Itoa(vm.pop()))
	vm.writeRune(' ')
}

func (vm *VM) dotS() {
	vm.writeRune('<')
	vm.writeString(strconv.Itoa(len(vm.stack)))
	vm.writeString("> ")
	for _, val := range vm.stack {
		vm.writeString(strconv.Itoa(val))
		vm.writeRune(' ')
	}
}

func (vm *VM) cr()    { vm.writeRune('\n') }
func (vm *VM) space() { vm.writeRune(' ') }

// spacesChunk bounds how many spaces SPACES writes between context checks.
const spacesChunk = 4096

func (vm *VM) spaces(ctx context.Context, _ *tokenStream, _ token) {
	for n := vm.pop(); n > 0; n -= spacesChunk {
		vm.haltif(ctx.Err())
		count := n
		if count > spacesChunk {
			count = spacesChunk
		}
		_, err := runeio.WriteRepeated(vm.out, ' ', count)
		vm.haltif(err)
	}
}

// emit writes values that aren't code points as the replacement character.
func (vm *VM) emit() {
	r := utf8.RuneError
	if val := vm.pop(); 0 <= val && val <= unicode.MaxRune {
		r = rune(val)
	}
	vm.writeRune(r)
}

//// Memory

// addr validates the i-th stack value below the top as a heap address.
func (vm *VM) addr(i int) uint {
	val := vm.peek(i)
	if val < 0 {
		vm.halt(&Fault{Err: ErrInvalidAddress, Detail: strconv.Itoa(val)})
	}
	return uint(val)
}

func (vm *VM) fetch() {
	val, err := vm.heap.Load(vm.addr(0))
	vm.haltif(err)
	vm.stack[len(vm.stack)-1] = val
}

func (vm *VM) store() {
	addr, val := vm.addr(0), vm.peek(1)
	vm.haltif(vm.heap.Stor(addr, val))
	vm.drop2()
}

func (vm *VM) plusStore() {
	addr, n := vm.addr(0), vm.peek(1)
	val, err := vm.heap.Load(addr)
	vm.haltif(err)
	vm.haltif(vm.heap.Stor(addr, val+n))
	vm.drop2()
}

func (vm *VM) allot() {
	n := vm.peek(0)
	if n < 0 {
		vm.halt(&Fault{Err: ErrInvalidAddress, Detail: "negative allot " + strconv.Itoa(n)})
	}
	_, err := vm.heap.Allot(uint(n))
	vm.haltif(err)
	vm.drop()
}

func (vm *VM) here() { vm.push(int(vm.heap.Here())) }
