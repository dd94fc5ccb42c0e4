package panicerr

import (
	"errors"
	"fmt"
	"io"
	"runtime/debug"
)

// Error is a function run under Recover that ended abnormally, either by
// panicking or by calling runtime.Goexit.
type Error struct {
	Name   string      // as given to Recover
	Value  interface{} // the recovered panic value
	Exited bool        // runtime.Goexit rather than a panic
	Stack  []byte      // stack of the panicking goroutine
}

// Recover runs f in a new goroutine, returning its result; if f panics or
// exits its goroutine, an *Error is returned instead.
func Recover(name string, f func() error) (err error) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		returned := false
		defer func() {
			if returned {
				return
			}
			crash := &Error{Name: name}
			if crash.Value = recover(); crash.Value != nil {
				crash.Stack = debug.Stack()
			} else {
				crash.Exited = true
			}
			err = crash
		}()
		err = f()
		returned = true
	}()
	<-done
	return err
}

func (crash *Error) Error() string {
	prefix := ""
	if crash.Name != "" {
		prefix = crash.Name + ": "
	}
	if crash.Exited {
		return prefix + "runtime.Goexit called"
	}
	return fmt.Sprintf("%vpanic: %v", prefix, crash.Value)
}

// Format appends the panic stack under the "%+v" verb.
func (crash *Error) Format(f fmt.State, c rune) {
	io.WriteString(f, crash.Error())
	if c == 'v' && f.Flag('+') && len(crash.Stack) > 0 {
		fmt.Fprintf(f, "\n%s", crash.Stack)
	}
}

// Unwrap returns the panic value if it was an error.
func (crash *Error) Unwrap() error {
	err, _ := crash.Value.(error)
	return err
}

// IsExit returns true if err is a recovered runtime.Goexit.
func IsExit(err error) bool {
	var crash *Error
	return errors.As(err, &crash) && crash.Exited
}

// IsPanic returns true if err is a recovered panic.
func IsPanic(err error) bool {
	var crash *Error
	return errors.As(err, &crash) && !crash.Exited
}
