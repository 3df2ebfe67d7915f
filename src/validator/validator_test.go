package validator

import (
	"testing"

	"fly/src/ast"
	"fly/src/diag"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b ast.Type
		want bool
	}{
		{"same int width/sign", ast.IntType{Bits: 32, Signed: true}, ast.IntType{Bits: 32, Signed: true}, true},
		{"different int width", ast.IntType{Bits: 32, Signed: true}, ast.IntType{Bits: 64, Signed: true}, false},
		{"different sign", ast.IntType{Bits: 32, Signed: true}, ast.IntType{Bits: 32, Signed: false}, false},
		{"same float width", ast.FloatType{Bits: 64}, ast.FloatType{Bits: 64}, true},
		{"array of equal elems", ast.ArrayType{Elem: ast.BoolType{}}, ast.ArrayType{Elem: ast.BoolType{}}, true},
		{"identity by qualified name", ast.IdentityType{QualifiedName: "app.Point"}, ast.IdentityType{QualifiedName: "app.Point"}, true},
		{"different categories", ast.BoolType{}, ast.StringType{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Equal(tc.a, tc.b); got != tc.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestConvertibleToIntegerWidening(t *testing.T) {
	narrow := ast.IntType{Bits: 8, Signed: true}
	wide := ast.IntType{Bits: 32, Signed: true}
	if !ConvertibleTo(narrow, wide) {
		t.Error("int8 -> int32 should be convertible (widening)")
	}
	if ConvertibleTo(wide, ast.IntType{Bits: 8, Signed: false}) {
		t.Error("int32 -> uint8 should not be convertible (narrowing, differing sign)")
	}
}

func TestConvertibleToErrorTargets(t *testing.T) {
	et := ast.ErrorType{}
	if !ConvertibleTo(et, ast.BoolType{}) {
		t.Error("error -> bool should be convertible")
	}
	if !ConvertibleTo(et, ast.IntType{Bits: 32, Signed: true}) {
		t.Error("error -> int should be convertible")
	}
	if !ConvertibleTo(et, ast.StringType{}) {
		t.Error("error -> string should be convertible")
	}
	if ConvertibleTo(et, ast.FloatType{Bits: 64}) {
		t.Error("error -> float should not be convertible")
	}
}

func TestIsSubclassWalksSuperChain(t *testing.T) {
	base := &ast.Class{Name: "Base"}
	baseType := ast.IdentityType{Kind: ast.IdentityClass, QualifiedName: "app.Base", Def: base}

	mid := &ast.Class{Name: "Mid", Super: &baseType}
	midType := ast.IdentityType{Kind: ast.IdentityClass, QualifiedName: "app.Mid", Def: mid}

	leaf := &ast.Class{Name: "Leaf", Super: &midType}
	leafType := ast.IdentityType{Kind: ast.IdentityClass, QualifiedName: "app.Leaf", Def: leaf}

	if !IsSubclass(leafType, baseType) {
		t.Error("Leaf should be a subclass of Base, two levels up")
	}
	if !IsSubclass(leafType, leafType) {
		t.Error("a class is always considered a subclass of itself")
	}

	unrelated := ast.IdentityType{Kind: ast.IdentityClass, QualifiedName: "app.Other"}
	if IsSubclass(leafType, unrelated) {
		t.Error("Leaf should not be a subclass of an unrelated class")
	}
}

func TestCheckBinaryOperandsLogicalRequiresBool(t *testing.T) {
	sink := diag.NewSink()
	_, ok := CheckBinaryOperands(sink, diag.Position{}, ast.OpAnd, ast.BoolType{}, ast.IntType{Bits: 32, Signed: true})
	if ok {
		t.Error("&& with a non-bool operand should fail")
	}
	if !sink.HasErrors() {
		t.Error("expected a TypeLogical diagnostic")
	}
}

func TestCheckBinaryOperandsArithmeticWidensResult(t *testing.T) {
	sink := diag.NewSink()
	result, ok := CheckBinaryOperands(sink, diag.Position{}, ast.OpAdd,
		ast.IntType{Bits: 8, Signed: true}, ast.IntType{Bits: 32, Signed: true})
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", sink.Entries())
	}
	it, ok := result.(ast.IntType)
	if !ok || it.Bits != 32 {
		t.Errorf("result = %#v, want int32", result)
	}
}

func TestCheckBinaryOperandsComparisonRejectsCategoryMismatch(t *testing.T) {
	sink := diag.NewSink()
	_, ok := CheckBinaryOperands(sink, diag.Position{}, ast.OpEq, ast.StringType{}, ast.IntType{Bits: 32, Signed: true})
	if ok {
		t.Error("comparing a string to an int should fail")
	}
	if !sink.HasErrors() {
		t.Error("expected a TypeComparable diagnostic")
	}
}
