package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mattmacumber/forth/internal/logio"
)

type vmTestCases []vmTestCase

func (vmts vmTestCases) run(t *testing.T) {
	{
		var exclusive []vmTestCase
		for _, vmt := range vmts {
			if vmt.exclusive {
				exclusive = append(exclusive, vmt)
			}
		}
		if len(exclusive) > 0 {
			vmts = exclusive
		}
	}
	for _, vmt := range vmts {
		if !t.Run(vmt.name, vmt.run) {
			return
		}
	}
}

func vmTest(name string) (vmt vmTestCase) {
	vmt.name = name
	return vmt
}

type optFunc func(vm *VM)

func (f optFunc) apply(vm *VM) { f(vm) }

type vmTestCase struct {
	name    string
	opts    []VMOption
	ops     []func(ctx context.Context, vm *VM) error
	expect  []func(t *testing.T, res *vmResult)
	timeout time.Duration
	wantErr error

	exclusive bool
}

// vmResult collects everything observable from one test run.
type vmResult struct {
	vm      *VM
	out     strings.Builder
	errs    []error
	reports []error
	trace   []string
}

func (vmt vmTestCase) exclusiveTest() vmTestCase {
	vmt.exclusive = true
	return vmt
}

func (vmt vmTestCase) withOptions(opts ...VMOption) vmTestCase {
	vmt.opts = append(vmt.opts, opts...)
	return vmt
}

func (vmt vmTestCase) withStack(values ...int) vmTestCase {
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		vm.stack = append(vm.stack, values...)
	}))
	return vmt
}

func (vmt vmTestCase) withRStack(values ...int) vmTestCase {
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		vm.rstack = append(vm.rstack, values...)
	}))
	return vmt
}

func (vmt vmTestCase) withDepthLimit(limit int) vmTestCase {
	vmt.opts = append(vmt.opts, WithDepthLimit(limit))
	return vmt
}

func (vmt vmTestCase) withMemLimit(limit uint) vmTestCase {
	vmt.opts = append(vmt.opts, WithMemLimit(limit))
	return vmt
}

func (vmt vmTestCase) withInput(name, input string) vmTestCase {
	vmt.opts = append(vmt.opts, WithInput(NamedReader(name, strings.NewReader(input))))
	return vmt
}

func (vmt vmTestCase) withTimeout(timeout time.Duration) vmTestCase {
	vmt.timeout = timeout
	return vmt
}

// eval evaluates each line in turn with Eval.
func (vmt vmTestCase) eval(lines ...string) vmTestCase {
	for _, line := range lines {
		line := line
		vmt.ops = append(vmt.ops, func(ctx context.Context, vm *VM) error {
			return vm.Eval(ctx, line)
		})
	}
	return vmt
}

// exec evaluates pre-split words with Exec.
func (vmt vmTestCase) exec(words ...string) vmTestCase {
	vmt.ops = append(vmt.ops, func(ctx context.Context, vm *VM) error {
		return vm.Exec(ctx, words...)
	})
	return vmt
}

func (vmt vmTestCase) expectError(err error) vmTestCase {
	vmt.wantErr = err
	return vmt
}

// expectErrors matches the messages of every error returned.
func (vmt vmTestCase) expectErrors(messages ...string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, res *vmResult) {
		var got []string
		for _, err := range res.errs {
			if err != nil {
				got = append(got, err.Error())
			}
		}
		assert.Equal(t, messages, got, "expected errors")
	})
	return vmt
}

// expectReports matches the messages of every fault reported without
// aborting evaluation.
func (vmt vmTestCase) expectReports(messages ...string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, res *vmResult) {
		var got []string
		for _, err := range res.reports {
			got = append(got, err.Error())
		}
		assert.Equal(t, messages, got, "expected reports")
	})
	return vmt
}

func (vmt vmTestCase) expectStack(values ...int) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, res *vmResult) {
		if values == nil {
			values = []int{}
		}
		assert.Equal(t, values, append([]int{}, res.vm.Stack()...), "expected stack values")
	})
	return vmt
}

func (vmt vmTestCase) expectRStack(values ...int) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, res *vmResult) {
		if values == nil {
			values = []int{}
		}
		assert.Equal(t, values, append([]int{}, res.vm.rstack...), "expected return stack values")
	})
	return vmt
}

func (vmt vmTestCase) expectOutput(output string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, res *vmResult) {
		assert.Equal(t, output, res.out.String(), "expected output")
	})
	return vmt
}

func (vmt vmTestCase) expectWord(name, source string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, res *vmResult) {
		if w := res.vm.dict.lookup(name); assert.NotNil(t, w, "expected word %q to be defined", name) {
			assert.Equal(t, source, formatWord(w), "expected %q definition", name)
		}
	})
	return vmt
}

func (vmt vmTestCase) expectNoWord(name string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, res *vmResult) {
		assert.Nil(t, res.vm.dict.lookup(name), "expected word %q to be undefined", name)
	})
	return vmt
}

func (vmt vmTestCase) expectDump(dump string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, res *vmResult) {
		var out strings.Builder
		vmDumper{vm: res.vm, out: &out}.dump()
		assert.Equal(t, dump, out.String(), "expected dump")
	})
	return vmt
}

func (vmt vmTestCase) check(expect func(t *testing.T, res *vmResult)) vmTestCase {
	vmt.expect = append(vmt.expect, expect)
	return vmt
}

func (vmt vmTestCase) run(t *testing.T) {
	const defaultTimeout = time.Second
	const traceLimit = 200

	var res vmResult
	opts := []VMOption{
		WithOutput(&res.out),
		WithReport(func(err error) {
			res.reports = append(res.reports, err)
		}),
		WithLogf(func(mess string, args ...interface{}) {
			if len(res.trace) >= traceLimit {
				res.trace = res.trace[1:]
			}
			res.trace = append(res.trace, fmt.Sprintf(mess, args...))
		}),
	}
	res.vm = New(append(opts, vmt.opts...)...)

	defer func() {
		if t.Failed() {
			for _, line := range res.trace {
				t.Logf("trace: %v", line)
			}
			vmt.dumpToTest(t, res.vm)
		}
	}()

	timeout := vmt.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	vmt.runVM(ctx, &res)

	if vmt.wantErr != nil {
		var matched bool
		for _, err := range res.errs {
			if errors.Is(err, vmt.wantErr) {
				matched = true
			}
		}
		assert.True(t, matched, "expected error: %v\ngot: %v", vmt.wantErr, res.errs)
	} else {
		for _, err := range res.errs {
			assert.NoError(t, err, "unexpected VM error")
		}
	}

	for _, expect := range vmt.expect {
		expect(t, &res)
	}
}

func (vmt vmTestCase) runVM(ctx context.Context, res *vmResult) {
	defer func() {
		if err := res.vm.Close(); err != nil {
			res.errs = append(res.errs, fmt.Errorf("vm.Close failed: %w", err))
		}
	}()
	if len(vmt.ops) == 0 {
		res.errs = append(res.errs, res.vm.Run(ctx))
		return
	}
	for _, op := range vmt.ops {
		res.errs = append(res.errs, op(ctx, res.vm))
	}
}

func (vmt vmTestCase) dumpToTest(t *testing.T, vm *VM) {
	lw := logio.Writer{Logf: t.Logf, Prefix: "dump: "}
	defer lw.Close()
	vmDumper{vm: vm, out: &lw, values: true}.dump()
}

//// utilities

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}
