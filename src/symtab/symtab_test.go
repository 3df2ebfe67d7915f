package symtab

import (
	"testing"

	"fly/src/ast"
	"fly/src/diag"
)

func fn(name string, params ...ast.Type) *ast.Function {
	ps := make([]*ast.Parameter, len(params))
	for i, p := range params {
		ps[i] = &ast.Parameter{Name: "p", Type: p}
	}
	return &ast.Function{Name: name, Params: ps, Ret: ast.VoidType{}}
}

func TestInsertFunctionAcceptsDistinctOverloads(t *testing.T) {
	sink := diag.NewSink()
	tab := New()

	tab.InsertFunction(sink, fn("area", ast.IntType{Bits: 32, Signed: true}))
	tab.InsertFunction(sink, fn("area", ast.FloatType{Bits: 64}))

	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", sink.Entries())
	}
	if got := tab.FindFunction("area", 1); len(got) != 2 {
		t.Fatalf("FindFunction(area, 1) = %d candidates, want 2", len(got))
	}
}

func TestInsertFunctionRejectsIdenticalSignature(t *testing.T) {
	sink := diag.NewSink()
	tab := New()

	tab.InsertFunction(sink, fn("area", ast.IntType{Bits: 32, Signed: true}))
	tab.InsertFunction(sink, fn("area", ast.IntType{Bits: 32, Signed: true}))

	if !sink.HasErrors() {
		t.Fatal("expected a duplicate-function diagnostic, got none")
	}
	if got := tab.FindFunction("area", 1); len(got) != 1 {
		t.Fatalf("FindFunction(area, 1) = %d candidates, want 1 (the duplicate must not be appended)", len(got))
	}
}

func TestInsertGlobalRejectsDuplicateName(t *testing.T) {
	sink := diag.NewSink()
	tab := New()

	g := &ast.GlobalVar{Name: "count", Type: ast.IntType{Bits: 32, Signed: true}}
	tab.InsertGlobal(sink, g)
	tab.InsertGlobal(sink, &ast.GlobalVar{Name: "count", Type: ast.IntType{Bits: 32, Signed: true}})

	if !sink.HasErrors() {
		t.Fatal("expected a duplicate-global diagnostic, got none")
	}
	got, ok := tab.FindVar("count")
	if !ok || got != g {
		t.Errorf("FindVar(count) = %v, %v, want the first declaration", got, ok)
	}
}

func TestFindFunctionUnknownArityReturnsNil(t *testing.T) {
	tab := New()
	tab.InsertFunction(diag.NewSink(), fn("area", ast.IntType{Bits: 32, Signed: true}))

	if got := tab.FindFunction("area", 2); got != nil {
		t.Errorf("FindFunction(area, 2) = %v, want nil", got)
	}
	if got := tab.FindFunction("missing", 0); got != nil {
		t.Errorf("FindFunction(missing, 0) = %v, want nil", got)
	}
}
