// Package validator implements the structural and type-system checks of
// §4.3: duplicate detection, type equality, convertibility, operator
// operand rules and doc-comment arity checks. The parameter and local
// duplicate checks and the type rules run during the resolver's pass 2,
// once every Ref and Expr.ExprType is available.
package validator

import (
	"strings"

	"fly/src/ast"
	"fly/src/diag"
)

// Equal reports whether two types denote the same type: structural
// equality for primitives and arrays, nominal equality (by qualified name)
// for identities. It does not walk the inheritance chain — use
// ConvertibleTo for assignment/parameter-passing checks, which does.
func Equal(a, b ast.Type) bool {
	if a.Category() != b.Category() {
		return false
	}
	switch at := a.(type) {
	case ast.VoidType, ast.BoolType, ast.StringType, ast.ErrorType:
		return true
	case ast.IntType:
		bt := b.(ast.IntType)
		return at.Bits == bt.Bits && at.Signed == bt.Signed
	case ast.FloatType:
		bt := b.(ast.FloatType)
		return at.Bits == bt.Bits
	case ast.ArrayType:
		bt := b.(ast.ArrayType)
		return Equal(at.Elem, bt.Elem)
	case ast.IdentityType:
		bt := b.(ast.IdentityType)
		return at.QualifiedName == bt.QualifiedName
	default:
		return false
	}
}

// ConvertibleTo implements §4.3's convertibility table:
//
//	bool -> bool
//	integer -> integer, if from.Bits <= to.Bits OR from.Signed == to.Signed
//	float -> float, if from.Bits <= to.Bits
//	array -> array, if element types are convertible
//	identity -> identity, if enum-name equal, or from is a subclass of to
//	error -> bool | integer | string
func ConvertibleTo(from, to ast.Type) bool {
	if Equal(from, to) {
		return true
	}
	switch f := from.(type) {
	case ast.BoolType:
		_, ok := to.(ast.BoolType)
		return ok
	case ast.IntType:
		t, ok := to.(ast.IntType)
		if !ok {
			return false
		}
		return f.Bits <= t.Bits || f.Signed == t.Signed
	case ast.FloatType:
		t, ok := to.(ast.FloatType)
		if !ok {
			return false
		}
		return f.Bits <= t.Bits
	case ast.ArrayType:
		t, ok := to.(ast.ArrayType)
		if !ok {
			return false
		}
		return ConvertibleTo(f.Elem, t.Elem)
	case ast.IdentityType:
		t, ok := to.(ast.IdentityType)
		if !ok {
			return false
		}
		if f.Kind == ast.IdentityEnum || t.Kind == ast.IdentityEnum {
			return f.QualifiedName == t.QualifiedName
		}
		return IsSubclass(f, t)
	case ast.ErrorType:
		switch to.(type) {
		case ast.BoolType, ast.IntType, ast.StringType:
			return true
		}
		return false
	default:
		return false
	}
}

// IsSubclass walks from's superclass chain looking for to, per §4.3's
// "nominal for identities with class-inheritance walk upward". A class is
// always considered a subclass of itself.
func IsSubclass(from, to ast.IdentityType) bool {
	if from.QualifiedName == to.QualifiedName {
		return true
	}
	cls, ok := from.Def.(*ast.Class)
	if !ok || cls.Super == nil {
		return false
	}
	return IsSubclass(*cls.Super, to)
}

// CheckBinaryOperands checks what an operator requires of its operands, per
// §4.3: "Arithmetic operators require same type category; logical operators
// require both operands Bool; comparison yields Bool and requires same
// macro-category, promoting literal to variable when only one side is a
// literal with smaller width."
func CheckBinaryOperands(sink *diag.Sink, pos diag.Position, op ast.BinaryOp, lt, rt ast.Type) (result ast.Type, ok bool) {
	switch op {
	case ast.OpAnd, ast.OpOr:
		_, lb := lt.(ast.BoolType)
		_, rb := rt.(ast.BoolType)
		if !lb || !rb {
			sink.Report(diag.Error, diag.TypeLogical, pos, "logical operator requires Bool operands, got %s and %s", lt, rt)
			return nil, false
		}
		return ast.BoolType{}, true
	case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		if lt.Category() != rt.Category() {
			sink.Report(diag.Error, diag.TypeComparable, pos, "cannot compare %s with %s", lt, rt)
			return nil, false
		}
		return ast.BoolType{}, true
	default: // arithmetic: Add, Sub, Mul, Div, Mod
		if lt.Category() != rt.Category() {
			sink.Report(diag.Error, diag.TypeArith, pos, "arithmetic operator requires operands of the same category, got %s and %s", lt, rt)
			return nil, false
		}
		return widerOf(lt, rt), true
	}
}

// widerOf returns whichever of a, b has the larger bit width, used to
// settle the result type of a binary arithmetic expression once both
// operands share a category (§4.4's literal-promotion rule).
func widerOf(a, b ast.Type) ast.Type {
	switch at := a.(type) {
	case ast.IntType:
		bt := b.(ast.IntType)
		if bt.Bits > at.Bits {
			return bt
		}
		return at
	case ast.FloatType:
		bt := b.(ast.FloatType)
		if bt.Bits > at.Bits {
			return bt
		}
		return at
	default:
		return a
	}
}

// CheckReturn validates that expr's type converts to declared, per §4.3's
// "Return paths convert the return expression type to the declared type."
func CheckReturn(sink *diag.Sink, pos diag.Position, declared, exprType ast.Type) bool {
	if ConvertibleTo(exprType, declared) {
		return true
	}
	sink.Report(diag.Error, diag.TypeConvert, pos, "cannot return %s from a function declared to return %s", exprType, declared)
	return false
}

// DocComment is the parsed shape of a `@param`/`@return` doc comment block
// attached to a declaration, per §4.3's "Doc-comment @param and @return
// counts must match the signature when comments are present."
type DocComment struct {
	Params []string
	Return bool
}

// ParseDocComment extracts @param and @return tag counts from a raw comment
// block. An empty or whitespace-only comment yields a zero-value
// DocComment and is never checked (doc comments are optional).
func ParseDocComment(raw string) DocComment {
	var dc DocComment
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "//"))
		switch {
		case strings.HasPrefix(line, "@param"):
			dc.Params = append(dc.Params, strings.TrimSpace(strings.TrimPrefix(line, "@param")))
		case strings.HasPrefix(line, "@return"):
			dc.Return = true
		}
	}
	return dc
}

// CheckDocComment reports diag.EmptyExpr-adjacent mismatches between a doc
// comment's @param/@return tags and the actual signature. An empty raw
// comment is not checked at all.
func CheckDocComment(sink *diag.Sink, pos diag.Position, raw string, paramCount int, hasReturn bool) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	dc := ParseDocComment(raw)
	if len(dc.Params) != paramCount {
		sink.Report(diag.Error, diag.EmptyExpr, pos,
			"doc comment declares %d @param tag(s) but signature has %d parameter(s)", len(dc.Params), paramCount)
	}
	if hasReturn && !dc.Return {
		sink.Report(diag.Error, diag.EmptyExpr, pos, "doc comment is missing an @return tag for a non-void function")
	}
}
