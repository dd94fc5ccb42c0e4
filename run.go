package main

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/mattmacumber/forth/internal/panicerr"
)

// Run evaluates lines read from the VM's input until it runs out, or until
// a blank line when the VM was created WithEndOnBlankLine. Faults are
// reported, located by input name and line, and reading carries on with
// the next line. Returns nil at the end of input; otherwise returns any
// input error, any context error, or any unexpected panic converted into
// an error.
func (vm *VM) Run(ctx context.Context) error {
	defer func() { vm.loc = "" }()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := vm.in.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return errors.Wrap(err, "read")
		}

		if vm.endOnBlank && strings.TrimSpace(line.Text) == "" {
			vm.logf("%v: blank line, ending input", line.Location)
			return nil
		}

		vm.loc = line.Location.String()
		err = panicerr.Recover(vm.loc, func() error {
			return vm.Eval(ctx, line.Text)
		})
		if err == nil {
			continue
		}

		var crash *panicerr.Error
		if errors.As(err, &crash) {
			vm.logf("%+v", crash)
			return err
		}
		var f *Fault
		if !errors.As(err, &f) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(f, ctxErr) {
			return f
		}
		vm.report(f)
	}
}
