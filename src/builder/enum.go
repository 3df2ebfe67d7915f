package builder

import (
	"fly/src/ast"
	"fly/src/diag"
)

// NewEnum appends an enum to mod.
func (b *Builder) NewEnum(mod *ast.Module, pos ast.Pos, name string, scopes ast.Scopes) *ast.Enum {
	b.checkName(pos, name)
	b.checkScopes(pos, scopes)
	e := &ast.Enum{P: pos, Name: b.intern(name), Scopes: scopes, Comment: b.takeComment()}
	mod.Enums = append(mod.Enums, e)
	return e
}

// NewEnumEntry appends an entry to e, in the declaration order that
// determines its 1-based ordinal (Design Notes §9 resolution (iii)).
func (b *Builder) NewEnumEntry(e *ast.Enum, pos ast.Pos, name string) *ast.EnumEntry {
	b.checkName(pos, name)
	for _, existing := range e.Entries {
		if existing.Name == name {
			b.sink.Report(diag.Error, diag.EnumVar, pos, "entry %q already declared on enum %s", name, e.Name)
			break
		}
	}
	entry := &ast.EnumEntry{P: pos, Name: b.intern(name)}
	e.Entries = append(e.Entries, entry)
	return entry
}
