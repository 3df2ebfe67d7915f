package irgen

import (
	"strconv"
	"strings"

	"fly/src/ast"
)

// typeChar renders t per §6's mangling alphabet: b=bool, i/u with width,
// f/d for float/double, S for string, identities by unqualified name.
func typeChar(t ast.Type) string {
	switch tt := t.(type) {
	case ast.BoolType:
		return "b"
	case ast.IntType:
		if tt.Signed {
			return "i" + strconv.Itoa(tt.Bits)
		}
		return "u" + strconv.Itoa(tt.Bits)
	case ast.FloatType:
		if tt.Bits == 32 {
			return "f"
		}
		return "d"
	case ast.StringType:
		return "S"
	case ast.ArrayType:
		return "A" + typeChar(tt.Elem)
	case ast.IdentityType:
		return unqualified(tt.QualifiedName)
	case ast.ErrorType:
		return "E"
	default:
		return "?"
	}
}

// unqualified strips a dotted namespace prefix, leaving the bare type name.
func unqualified(qualified string) string {
	if idx := strings.LastIndexByte(qualified, '.'); idx >= 0 {
		return qualified[idx+1:]
	}
	return qualified
}

// mangle appends the arity/type-char suffix only when name is ambiguous
// without it (§6: "F keep F unless overloaded").
func mangle(name string, overloaded bool, paramTypes []ast.Type) string {
	if !overloaded {
		return name
	}
	sb := strings.Builder{}
	sb.WriteString(name)
	sb.WriteRune('_')
	sb.WriteString(strconv.Itoa(len(paramTypes)))
	sb.WriteRune('_')
	for _, p := range paramTypes {
		sb.WriteString(typeChar(p))
	}
	return sb.String()
}

// namespaceFuncOverloaded reports whether more than one Function sharing
// name is declared across every module in mods that binds the same
// namespace path as owner (namespaces aggregate contributions from
// multiple modules, per the glossary).
func namespaceFuncOverloaded(mods []*ast.Module, owner *ast.Module, name string) bool {
	count := 0
	ownerPath := ""
	if owner.Space != nil {
		ownerPath = owner.Space.Path
	}
	for _, m := range mods {
		path := ""
		if m.Space != nil {
			path = m.Space.Path
		}
		if path != ownerPath {
			continue
		}
		for _, f := range m.Funcs {
			if f.Name == name {
				count++
			}
		}
	}
	return count > 1
}

// classMethodOverloaded reports whether more than one method on c shares
// name; constructors are counted separately by classCtorOverloaded.
func classMethodOverloaded(c *ast.Class, name string) bool {
	count := 0
	for _, m := range c.Methods {
		if m.Name == name {
			count++
		}
	}
	return count > 1
}

func classCtorOverloaded(c *ast.Class) bool {
	return len(c.Ctors) > 1
}
