package main

import (
	"io"

	"github.com/chzyer/readline"

	"github.com/mattmacumber/forth/internal/fileinput"
)

// readlineSource reads lines interactively, with line editing and history.
type readlineSource struct {
	rl  *readline.Instance
	loc fileinput.Location
}

func newReadlineSource(historyFile string, stdout io.Writer) (*readlineSource, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "ok> ",
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "bye",
		HistorySearchFold: true,
		Stdout:            stdout,
	})
	if err != nil {
		return nil, err
	}
	return &readlineSource{
		rl:  rl,
		loc: fileinput.Location{Name: "<stdin>"},
	}, nil
}

// ReadLine returns the next line entered. An interrupt discards a
// partially entered line; an interrupt on an empty line ends input.
func (rs *readlineSource) ReadLine() (fileinput.Line, error) {
	for {
		text, err := rs.rl.Readline()
		if err == readline.ErrInterrupt {
			if len(text) == 0 {
				return fileinput.Line{}, io.EOF
			}
			continue
		} else if err != nil {
			return fileinput.Line{}, err
		}
		rs.loc.Line++
		return fileinput.Line{Location: rs.loc, Text: text}, nil
	}
}

func (rs *readlineSource) Close() error { return rs.rl.Close() }
