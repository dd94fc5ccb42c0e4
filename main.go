package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/mattmacumber/forth/internal/logio"
)

var errInterrupted = errors.New("interrupted")

type exprFlags []string

func (exprs *exprFlags) String() string     { return strings.Join(*exprs, " ") }
func (exprs *exprFlags) Set(s string) error { *exprs = append(*exprs, s); return nil }

func main() {
	ctx := context.Background()
	logger := logio.NewLogger(os.Stderr)

	var (
		timeout     time.Duration
		trace       bool
		memLimit    uint
		depthLimit  int
		exprs       exprFlags
		runDemo     bool
		dump        bool
		teePath     string
		historyFile string
		interactive bool
	)
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.UintVar(&memLimit, "mem-limit", 0, "enable memory limit, in cells")
	flag.IntVar(&depthLimit, "depth-limit", defaultDepthLimit, "limit nesting of word calls and control bodies")
	flag.Var(&exprs, "e", "evaluate source `text`, after any files; may be repeated")
	flag.BoolVar(&runDemo, "demo", false, "run the demonstration program first")
	flag.BoolVar(&dump, "dump", false, "dump interpreter state to stderr when done")
	flag.StringVar(&teePath, "tee", "", "copy output into `file`")
	flag.StringVar(&historyFile, "history", "", "interactive history `file`")
	flag.BoolVar(&interactive, "i", false, "prompt for input even if stdin isn't a terminal")
	flag.Parse()

	var opts = []VMOption{
		WithOutput(os.Stdout),
		WithReport(logger.ErrorIf),
		WithDepthLimit(depthLimit),
	}
	if trace {
		opts = append(opts, WithLogf(logger.Leveledf("TRACE")))
	}
	if memLimit != 0 {
		opts = append(opts, WithMemLimit(memLimit))
	}
	var teeFile *os.File
	if teePath != "" {
		f, err := os.Create(teePath)
		if err != nil {
			logger.Errorf("%v", err)
			os.Exit(logger.ExitCode())
		}
		teeFile = f
		opts = append(opts, WithTee(f))
	}

	if runDemo {
		opts = append(opts, WithInputWriter(demo))
	}
	for _, name := range flag.Args() {
		f, err := os.Open(name)
		if err != nil {
			logger.Errorf("%v", err)
			continue
		}
		opts = append(opts, WithInput(f))
	}
	for _, expr := range exprs {
		opts = append(opts, WithInput(NamedReader("-e", strings.NewReader(expr))))
	}
	var stdin io.Closer
	if !runDemo && flag.NArg() == 0 && len(exprs) == 0 {
		var opt VMOption
		opt, stdin = stdinOption(interactive || isTerminal(os.Stdin.Fd()), historyFile, logger)
		opts = append(opts, opt, WithEndOnBlankLine())
	}

	vm := New(opts...)

	cancel := func() {}
	if timeout != 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	err := runInterruptible(ctx, vm, sigs, stdin)
	signal.Stop(sigs)
	cancel()
	if dump {
		vmDumper{vm: vm, out: os.Stderr, values: true}.dump()
	}
	if err := vm.Close(); !errors.Is(err, os.ErrClosed) {
		logger.ErrorIf(err)
	}
	if teeFile != nil {
		logger.ErrorIf(teeFile.Close())
	}
	if err != nil {
		logger.Errorf("%+v", err)
	}
	os.Exit(logger.ExitCode())
}

// stdinOption reads standard input, through line editing when prompt is
// set. The returned closer, if any, unblocks a pending read of piped input.
func stdinOption(prompt bool, historyFile string, logger *logio.Logger) (VMOption, io.Closer) {
	if prompt {
		rs, err := newReadlineSource(historyFile, os.Stdout)
		if err == nil {
			return WithLineReader(rs), nil
		}
		logger.Printf("WARN", "no line editing: %v", err)
	}
	return WithInput(NamedReader("<stdin>", os.Stdin)), os.Stdin
}

// runInterruptible runs the VM until its input is done, or until the
// context is done, or until a signal arrives on sigs. A signal also closes
// input, if given, so that a read blocked on it returns.
func runInterruptible(ctx context.Context, vm *VM, sigs <-chan os.Signal, input io.Closer) error {
	eg, ctx := errgroup.WithContext(ctx)
	done := make(chan struct{})
	interrupted := make(chan struct{})
	eg.Go(func() error {
		defer close(done)
		err := vm.Run(ctx)
		select {
		case <-interrupted:
			return errInterrupted
		default:
			return err
		}
	})
	eg.Go(func() error {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return nil
		case <-sigs:
		}
		close(interrupted)
		if input != nil {
			input.Close()
		}
		return errInterrupted
	})
	return eg.Wait()
}
