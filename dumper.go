package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

type vmDumper struct {
	vm  *VM
	out io.Writer

	// values dumps every allocated heap cell, not just variables
	values bool
}

func (dump vmDumper) dump() {
	fmt.Fprintf(dump.out, "# Forth Dump\n")
	fmt.Fprintf(dump.out, "  stack: %v\n", dump.vm.stack)
	fmt.Fprintf(dump.out, "  rstack: %v\n", dump.vm.rstack)
	fmt.Fprintf(dump.out, "  here: %v\n", dump.vm.heap.Here())
	dump.dumpWords()
	if dump.values {
		dump.dumpHeap()
	}
}

func (dump vmDumper) dumpWords() {
	if len(dump.vm.dict.names) == 0 {
		return
	}
	fmt.Fprintf(dump.out, "# Dictionary\n")
	for _, name := range dump.vm.dict.names {
		w := dump.vm.dict.lookup(name)
		fmt.Fprintf(dump.out, "  %v", formatWord(w))
		if w.kind == variableWord {
			addr := uint(w.body[0].val)
			if val, err := dump.vm.heap.Load(addr); err == nil {
				fmt.Fprintf(dump.out, " \\ @%v = %v", addr, val)
			}
		}
		fmt.Fprintln(dump.out)
	}
}

func (dump vmDumper) dumpHeap() {
	here := dump.vm.heap.Here()
	if here == 0 {
		return
	}
	fmt.Fprintf(dump.out, "# Heap\n")
	for addr := uint(0); addr < here; addr++ {
		if val, err := dump.vm.heap.Load(addr); err == nil && val != 0 {
			fmt.Fprintf(dump.out, "  @%v %v\n", addr, val)
		}
	}
}

// formatWord renders a word as source that would define it again.
func formatWord(w *word) string {
	var sb strings.Builder
	switch w.kind {
	case variableWord:
		sb.WriteString("VARIABLE ")
		sb.WriteString(w.name)
	case constantWord:
		sb.WriteString(numeralSource(w.body[0].val))
		sb.WriteString(" CONSTANT ")
		sb.WriteString(w.name)
	default:
		sb.WriteString(": ")
		sb.WriteString(w.name)
		for _, tok := range w.body {
			sb.WriteByte(' ')
			sb.WriteString(tok.text)
		}
		sb.WriteString(" ;")
	}
	return sb.String()
}

// numeralSource renders val as source pushing it; only non-negative
// numerals are literals, so negative values are built with NEGATE.
func numeralSource(val int) string {
	switch {
	case val >= 0:
		return strconv.Itoa(val)
	case -val < 0:
		return strconv.Itoa(-(val + 1)) + " NEGATE 1 -"
	default:
		return strconv.Itoa(-val) + " NEGATE"
	}
}
