package main

import (
	"io"
	"strings"
)

// demoProgram is a source listing, usable with WithInputWriter.
type demoProgram struct {
	name  string
	lines []string
}

func (prog demoProgram) Name() string { return prog.name }

func (prog demoProgram) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	for _, line := range prog.lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

var demo = demoProgram{"demo.fs", []string{
	`10 0 DO CR ."Hello" LOOP CR`,

	`: STAR 42 EMIT ;`,
	`: STARS 0 DO STAR LOOP ;`,
	`: MARGIN CR 8 SPACES ;`,
	`: BLIP MARGIN STAR ;`,
	`: BAR MARGIN 5 STARS ;`,
	`: F BAR BLIP BAR BLIP BLIP CR ;`,
	`F`,

	`: FLOOR5  DUP 6 < IF DROP 5 ELSE 1 - THEN ;`,
	`1 FLOOR5 CR .`,
	`8 FLOOR5 CR .`,
	`5 12 > IF ."Bigger" THEN`,
	`15 12 > IF ."Bigger" THEN`,
	`1 DUP 6 < IF DROP 5 ELSE 1 - THEN CR .`,
	`8 DUP 6 < IF DROP 5 ELSE 1 - THEN CR .`,

	`: BOXTEST 6 > ROT 22 > ROT 19 > AND AND IF ."Big_enough" THEN ;`,
	`23 20 7 BOXTEST`,

	`: n         DUP .         1 + ;`,
	`: f         ."Fizz"     1 + ;`,
	`: b         ."Buzz"     1 + ;`,
	`: fb        ."FizzBuzz" 1 + ;`,
	`: fb10     n n f n b f n n f b ;`,
	`: fb15     fb10 n f n n fb ;`,
	`: fb100   fb15 fb15 fb15 fb15 fb15 fb15 fb10 ;`,
	`: fizzbuzz      1 fb100 DROP ;`,
	`CR fizzbuzz`,

	`: gcd BEGIN DUP WHILE TUCK MOD REPEAT DROP ;`,
	`CR 51 34 gcd .`,
	`CR`,
}}
