/* Package main: a small Forth dialect

Source is a sequence of whitespace separated tokens, read a line at a time.
Every token is one of:

	123          a non-negative decimal numeral, pushed onto the data stack
	."text"      a string literal, printed followed by a space
	DUP + IF ... a built in word, see words.go
	name         a word defined by : name ... ;

There is a single data stack of machine integers shared by every word.
Flags are 1 and 0; any non-zero value is true. Words are looked up each
time they are called, so redefining a word changes the behavior of every
word that calls it:

	: X 1 ;  : Y X ;  : X 2 ;  Y .   \ prints 2

Control structures are parsed out of the remaining tokens of the line (or of
the word body) when they are reached, rather than being compiled:

	flag IF ... THEN
	flag IF ... ELSE ... THEN
	limit index DO ... LOOP           \ I copies the index, at the top
	BEGIN ... flag UNTIL
	BEGIN ... flag WHILE ... REPEAT

A DO loop runs until its index equals its limit, incrementing the index on
top of the stack after each pass; the two are left on the stack afterwards.

Strings may contain spaces: ." Hello world" and ."Hello world" both print
up to the closing quote. A \ token comments out the rest of a line, and
( ... ) is an inline comment.

Running out of stack is reported and evaluation continues with the next
token; any other fault, like an unknown word or a division by zero,
abandons the rest of the line. Data left on the stack stays there.

Beyond the core, VARIABLE CONSTANT @ ! +! ALLOT and HERE provide cell
memory, >R R> and R@ a return stack, and WORDS and SEE introspection.

The command evaluates files named as arguments, -e expressions, or the
-demo program, and otherwise reads standard input, with line editing if
it is a terminal, until an empty line or end of input.
*/
package main
