package main

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Source text is a sequence of whitespace-delimited tokens. Each token is
// classified once, when its line is tokenized, as one of:
//
//   numeral    non-negative decimal integer, pushed onto the stack
//   string     ."text" printed followed by a space
//   primitive  one of the built in words listed in words.go
//   word       anything else; looked up in the dictionary when reached
//
// Words are looked up every time they are reached, so redefining a word
// changes the behavior of every word that calls it.
type tokenKind uint8

const (
	wordToken tokenKind = iota
	numeralToken
	stringToken
	primToken
)

var tokenKindNames = [...]string{
	wordToken:    "word",
	numeralToken: "numeral",
	stringToken:  "string",
	primToken:    "primitive",
}

func (kind tokenKind) String() string {
	if int(kind) < len(tokenKindNames) {
		return tokenKindNames[kind]
	}
	return "token#" + strconv.Itoa(int(kind))
}

type token struct {
	kind tokenKind
	text string // source text
	col  int

	val  int      // numeralToken value
	str  string   // stringToken content
	prim primCode // primToken code
}

func (tok token) String() string { return tok.text }

const stringPrefix = `."`

func numeral(val int) token {
	return token{kind: numeralToken, text: strconv.Itoa(val), val: val}
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// classify resolves a non-string token's kind.
func classify(text string, col int) token {
	tok := token{kind: wordToken, text: text, col: col}
	if isDecimal(text) {
		if n, err := strconv.Atoi(text); err == nil {
			tok.kind, tok.val = numeralToken, n
		}
		return tok
	}
	if code, ok := primCodes[text]; ok {
		tok.kind, tok.prim = primToken, code
	}
	return tok
}

// classifyAtom classifies a pre-split atom; string literals must be a
// single atom like ."Hello" whose content runs up to a closing quote.
func classifyAtom(atom string, col int) token {
	if strings.HasPrefix(atom, stringPrefix) {
		return token{
			kind: stringToken,
			text: atom,
			col:  col,
			str:  strings.TrimSuffix(atom[len(stringPrefix):], `"`),
		}
	}
	return classify(atom, col)
}

// tokenize splits a line of source into tokens.
//
// String literals are quote aware: ."Hello" is a single token, while
// ." Hello world" and ."Hello world" run up to the next double quote,
// spaces included. A line comment starts with a \ token; a ( token starts a
// comment that runs up to the next ) character.
func tokenize(line string) (toks []token, err error) {
	for i := 0; ; {
		start := skipSpace(line, i)
		if start >= len(line) {
			return toks, nil
		}
		end := scanWord(line, start)
		text := line[start:end]
		col := utf8.RuneCountInString(line[:start]) + 1

		switch {
		case text == `\`:
			return toks, nil

		case text == "(":
			j := strings.IndexByte(line[end:], ')')
			if j < 0 {
				return toks, &Fault{Err: ErrUnterminated, Word: text, Col: col, Detail: "missing )"}
			}
			i = end + j + 1

		case strings.HasPrefix(text, stringPrefix):
			tok, next, ok := scanString(line, start, end)
			if !ok {
				return toks, &Fault{Err: ErrUnterminated, Word: stringPrefix, Col: col, Detail: `missing "`}
			}
			tok.col = col
			toks = append(toks, tok)
			i = next

		default:
			toks = append(toks, classify(text, col))
			i = end
		}
	}
}

// scanString scans a string literal whose first whitespace-delimited word
// spans line[start:end], returning the token and the offset after it.
func scanString(line string, start, end int) (tok token, next int, ok bool) {
	tok.kind = stringToken
	from := start + len(stringPrefix)
	if from == end {
		// ." followed by a single delimiting space
		if end >= len(line) {
			return tok, end, false
		}
		_, size := utf8.DecodeRuneInString(line[end:])
		from = end + size
	} else if word := line[start:end]; len(word) > len(stringPrefix) && strings.HasSuffix(word, `"`) {
		tok.text = word
		tok.str = line[from : end-1]
		return tok, end, true
	}
	q := strings.IndexByte(line[from:], '"')
	if q < 0 {
		return tok, len(line), false
	}
	next = from + q + 1
	tok.text = line[start:next]
	tok.str = line[from : from+q]
	return tok, next, true
}

func skipSpace(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}

func scanWord(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}

// tokenStream is a cursor over a token sequence. Control words consume
// their bodies from the same cursor the evaluator is reading, so a
// construct's tokens are never seen by the enclosing loop. The underlying
// slice is never modified; word bodies are evaluated through a fresh
// cursor every call.
type tokenStream struct {
	toks []token
	pos  int
}

func (ts *tokenStream) more() bool { return ts.pos < len(ts.toks) }

func (ts *tokenStream) next() (tok token) {
	tok = ts.toks[ts.pos]
	ts.pos++
	return tok
}

// scan consumes tokens through the first of the given stop primitives found
// outside of any nested IF, DO, or BEGIN construct, returning the tokens
// before the stop. Returns ok=false if the tokens run out, or if a construct
// closer is met that isn't nested and isn't a stop.
func (ts *tokenStream) scan(stops ...primCode) (body []token, stop primCode, ok bool) {
	start, depth := ts.pos, 0
	for ts.more() {
		tok := ts.next()
		if tok.kind != primToken {
			continue
		}
		if depth == 0 {
			for _, code := range stops {
				if tok.prim == code {
					end := ts.pos - 1
					return ts.toks[start:end:end], code, true
				}
			}
		}
		switch prim := &primTable[tok.prim]; {
		case prim.opens:
			depth++
		case prim.closes:
			if depth == 0 {
				ts.pos--
				return nil, 0, false
			}
			depth--
		}
	}
	return nil, 0, false
}

// scanTo consumes tokens through the first stop primitive, regardless of
// nesting, returning the tokens before it.
func (ts *tokenStream) scanTo(stop primCode) (body []token, ok bool) {
	start := ts.pos
	for ts.more() {
		if tok := ts.next(); tok.kind == primToken && tok.prim == stop {
			end := ts.pos - 1
			return ts.toks[start:end:end], true
		}
	}
	return nil, false
}
