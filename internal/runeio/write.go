package runeio

import "io"

// WriteANSIRune writes a rune to the given writer:
// - ASCII runes are written directly as bytes
// - NEL is written as the more conventional \r\n
// - all other C1 controls are written in their classic 7-bit form
//   e.g. "\x9b" "\x1b\x5b" for CSI
// - invalid code points are written as the utf8 replacement character
// - all other runes are written in utf8 form
func WriteANSIRune(w io.Writer, r rune) (n int, err error) {
	type runeWriter interface {
		WriteRune(r rune) (n int, err error)
	}
	switch {
	case 0 <= r && r < 0x80:
		if bw, ok := w.(io.ByteWriter); ok {
			return 1, bw.WriteByte(byte(r))
		}
		return w.Write([]byte{byte(r)})
	case r == 0x85:
		return w.Write([]byte{'\r', '\n'})
	case 0x80 <= r && r <= 0x9f:
		return w.Write([]byte{0x1b, byte(r ^ 0xc0)})
	}
	if rw, ok := w.(runeWriter); ok {
		return rw.WriteRune(r)
	}
	return io.WriteString(w, string(r))
}

// WriteANSIString writes a string using WriteANSIRune for each rune.
func WriteANSIString(w io.Writer, s string) (n int, err error) {
	for _, r := range s {
		m, err := WriteANSIRune(w, r)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// WriteRepeated writes the rune r count times; a non-positive count writes
// nothing.
func WriteRepeated(w io.Writer, r rune, count int) (n int, err error) {
	for ; count > 0; count-- {
		m, err := WriteANSIRune(w, r)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
