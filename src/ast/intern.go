package ast

import "golang.org/x/text/unicode/norm"

// Interner deduplicates identifier strings under Unicode NFC normalization
// (§3: "two spellings of the same identifier that differ only in
// combining-mark order must bind to the same symbol"), so the builder and
// resolver never compare two differently-normalized forms of one name.
type Interner struct {
	strs map[string]string
}

func NewInterner() *Interner {
	return &Interner{strs: make(map[string]string)}
}

// Intern normalizes s to NFC and returns the single canonical string shared
// by every prior call with an equivalent spelling.
func (in *Interner) Intern(s string) string {
	canon := norm.NFC.String(s)
	if existing, ok := in.strs[canon]; ok {
		return existing
	}
	in.strs[canon] = canon
	return canon
}

// Len reports how many distinct interned identifiers have been seen.
func (in *Interner) Len() int { return len(in.strs) }
