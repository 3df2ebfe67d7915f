package resolver

import (
	"testing"

	"fly/src/ast"
	"fly/src/builder"
	"fly/src/diag"
)

// buildSimpleModule constructs:
//
//	public count: int32 = 1
//	public func next() int32 { return count + 1 }
//
// and returns the sink and module alongside the `count + 1` BinaryExpr, so
// tests can inspect what the resolver bound its Ref to.
func buildSimpleModule(t *testing.T) (*diag.Sink, []*ast.Module, *ast.BinaryExpr) {
	t.Helper()
	sink := diag.NewSink()
	b := builder.New(sink)
	pos := ast.Pos{Line: 1, Col: 1}

	mod := b.NewModule(pos, "app", "demo.app")
	b.NewGlobalVar(mod, pos, "count", ast.Scopes{Visibility: ast.VisibilityPublic}, ast.IntType{Bits: 32, Signed: true}, nil)

	fn := b.NewFunction(mod, pos, "next", ast.Scopes{Visibility: ast.VisibilityPublic}, nil, ast.IntType{Bits: 32, Signed: true})

	ref := b.NewRef(pos, "count")
	varRef := b.NewVarRef(pos, ref)
	one := b.NewValue(pos, ast.IntegerValue{Text: "1", Radix: 10})
	sum := b.NewBinary(pos, ast.OpAdd, varRef, one)
	b.AppendReturn(fn.Body, pos, sum)

	return sink, []*ast.Module{mod}, sum
}

func TestResolveBindsGlobalVarRef(t *testing.T) {
	sink, mods, sum := buildSimpleModule(t)

	if err := Resolve(sink, mods); err != nil {
		t.Fatalf("Resolve: %v (diagnostics: %v)", err, sink.Entries())
	}

	varRef, ok := sum.Left.(*ast.VarRefExpr)
	if !ok {
		t.Fatalf("Left = %#v, want *ast.VarRefExpr", sum.Left)
	}
	if !varRef.Ref.Resolved() {
		t.Fatal("count's Ref was left unresolved")
	}
	if _, ok := varRef.Ref.Def.(*ast.GlobalVar); !ok {
		t.Errorf("Ref.Def = %#v, want *ast.GlobalVar", varRef.Ref.Def)
	}
	if varRef.Ref.Kind != ast.RefVarGlobal {
		t.Errorf("Ref.Kind = %s, want global", varRef.Ref.Kind)
	}
}

func TestResolveAssignsExpressionTypes(t *testing.T) {
	sink, mods, sum := buildSimpleModule(t)

	if err := Resolve(sink, mods); err != nil {
		t.Fatalf("Resolve: %v (diagnostics: %v)", err, sink.Entries())
	}

	it, ok := sum.ExprType().(ast.IntType)
	if !ok || it.Bits != 32 {
		t.Errorf("sum.ExprType() = %#v, want int32", sum.ExprType())
	}
}

func TestResolveReportsUnknownIdentifier(t *testing.T) {
	sink := diag.NewSink()
	b := builder.New(sink)
	pos := ast.Pos{Line: 1, Col: 1}

	mod := b.NewModule(pos, "app", "demo.app")
	fn := b.NewFunction(mod, pos, "broken", ast.Scopes{Visibility: ast.VisibilityPublic}, nil, ast.VoidType{})

	ref := b.NewRef(pos, "nope")
	varRef := b.NewVarRef(pos, ref)
	b.AppendReturn(fn.Body, pos, varRef)

	if err := Resolve(sink, []*ast.Module{mod}); err == nil {
		t.Fatal("expected Resolve to report an error for an unknown identifier")
	}
	if !sink.HasErrors() {
		t.Error("expected at least one Error/Fatal diagnostic")
	}
}
