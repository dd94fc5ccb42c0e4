package main

type wordKind uint8

const (
	colonWord wordKind = iota
	variableWord
	constantWord
)

// word is a user definition. Variables and constants are stored as a one
// token body pushing their address or value, so every word is called the
// same way.
type word struct {
	name string
	kind wordKind
	body []token
}

// dictionary maps names to user words, remembering the order in which
// names were first defined.
type dictionary struct {
	names []string
	words map[string]*word
}

func (dict dictionary) lookup(name string) *word {
	return dict.words[name]
}

// define adds or replaces a word; a redefinition keeps the name's original
// position in the listing order.
func (dict *dictionary) define(w *word) {
	if _, defined := dict.words[w.name]; !defined {
		if dict.words == nil {
			dict.words = make(map[string]*word)
		}
		dict.names = append(dict.names, w.name)
	}
	dict.words[w.name] = w
}
