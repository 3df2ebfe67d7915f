package builder

import (
	"testing"

	"fly/src/ast"
	"fly/src/diag"
)

func TestNewModuleRejectsDuplicateName(t *testing.T) {
	sink := diag.NewSink()
	b := New(sink)

	b.NewModule(ast.Pos{Line: 1, Col: 1}, "app", "demo.app")
	b.NewModule(ast.Pos{Line: 2, Col: 1}, "app", "demo.app")

	if !sink.HasErrors() {
		t.Fatal("expected a duplicate-module diagnostic, got none")
	}
	found := false
	for _, d := range sink.Entries() {
		if d.Code == diag.ModuleDuplicated {
			found = true
		}
	}
	if !found {
		t.Errorf("entries = %v, want one with code %q", sink.Entries(), diag.ModuleDuplicated)
	}
}

func TestNewGlobalVarSynthesizesDefaultInit(t *testing.T) {
	sink := diag.NewSink()
	b := New(sink)
	mod := b.NewModule(ast.Pos{Line: 1, Col: 1}, "app", "demo.app")

	pos := ast.Pos{Line: 2, Col: 1}
	g := b.NewGlobalVar(mod, pos, "count", ast.Scopes{Visibility: ast.VisibilityPublic}, ast.IntType{Bits: 32, Signed: true}, nil)

	ve, ok := g.Init.(*ast.ValueExpr)
	if !ok {
		t.Fatalf("Init = %#v, want *ast.ValueExpr", g.Init)
	}
	iv, ok := ve.Value.(ast.IntegerValue)
	if !ok || iv.Text != "0" {
		t.Errorf("Init value = %#v, want IntegerValue{Text: \"0\"}", ve.Value)
	}
	if len(mod.Globals) != 1 || mod.Globals[0] != g {
		t.Errorf("mod.Globals = %v, want [g]", mod.Globals)
	}
}

func TestNewClassSynthesizesAutoDefaultConstructor(t *testing.T) {
	sink := diag.NewSink()
	b := New(sink)
	mod := b.NewModule(ast.Pos{Line: 1, Col: 1}, "app", "demo.app")

	c := b.NewClass(mod, ast.Pos{Line: 2, Col: 1}, "Counter", ast.Scopes{Visibility: ast.VisibilityPublic}, false, nil)
	if len(c.Ctors) != 1 || !c.Ctors[0].IsAutoDefault {
		t.Fatalf("Ctors = %v, want exactly one auto-default constructor", c.Ctors)
	}

	// Adding an explicit constructor must remove the synthesized one (§4.4).
	ctor := b.NewClassMethod(c, ast.Pos{Line: 3, Col: 1}, "Counter", ast.MethodConstructor,
		ast.Scopes{Visibility: ast.VisibilityPublic}, nil, ast.VoidType{})
	if len(c.Ctors) != 1 || c.Ctors[0] != ctor {
		t.Fatalf("Ctors = %v, want exactly [ctor]", c.Ctors)
	}
}

func TestNewClassMethodAssignsVtableSlotsInDeclarationOrder(t *testing.T) {
	sink := diag.NewSink()
	b := New(sink)
	mod := b.NewModule(ast.Pos{Line: 1, Col: 1}, "app", "demo.app")
	c := b.NewClass(mod, ast.Pos{Line: 2, Col: 1}, "Counter", ast.Scopes{Visibility: ast.VisibilityPublic}, false, nil)

	m1 := b.NewClassMethod(c, ast.Pos{Line: 3, Col: 1}, "bump", ast.MethodOrdinary,
		ast.Scopes{Visibility: ast.VisibilityPublic}, nil, ast.VoidType{})
	m2 := b.NewClassMethod(c, ast.Pos{Line: 4, Col: 1}, "reset", ast.MethodOrdinary,
		ast.Scopes{Visibility: ast.VisibilityPublic}, nil, ast.VoidType{})

	if m1.VtableSlot != 0 || m2.VtableSlot != 1 {
		t.Errorf("vtable slots = %d, %d, want 0, 1", m1.VtableSlot, m2.VtableSlot)
	}
}

func TestClassFieldIndexAccountsForVtableSlot(t *testing.T) {
	sink := diag.NewSink()
	b := New(sink)
	mod := b.NewModule(ast.Pos{Line: 1, Col: 1}, "app", "demo.app")

	class := b.NewClass(mod, ast.Pos{Line: 2, Col: 1}, "Point", ast.Scopes{Visibility: ast.VisibilityPublic}, false, nil)
	x := b.NewClassAttribute(class, ast.Pos{Line: 3, Col: 1}, "x", ast.Scopes{Visibility: ast.VisibilityPublic}, ast.IntType{Bits: 32, Signed: true}, nil)
	y := b.NewClassAttribute(class, ast.Pos{Line: 4, Col: 1}, "y", ast.Scopes{Visibility: ast.VisibilityPublic}, ast.IntType{Bits: 32, Signed: true}, nil)

	if got := class.FieldIndex(x); got != 1 {
		t.Errorf("FieldIndex(x) = %d, want 1 (slot 0 is the vtable pointer)", got)
	}
	if got := class.FieldIndex(y); got != 2 {
		t.Errorf("FieldIndex(y) = %d, want 2", got)
	}

	strukt := b.NewClass(mod, ast.Pos{Line: 5, Col: 1}, "Pair", ast.Scopes{Visibility: ast.VisibilityPublic}, true, nil)
	sx := b.NewClassAttribute(strukt, ast.Pos{Line: 6, Col: 1}, "a", ast.Scopes{Visibility: ast.VisibilityPublic}, ast.IntType{Bits: 32, Signed: true}, nil)
	if got := strukt.FieldIndex(sx); got != 0 {
		t.Errorf("struct FieldIndex(a) = %d, want 0 (no vtable slot)", got)
	}
}

func TestIfBuilderAssemblesClauseChain(t *testing.T) {
	sink := diag.NewSink()
	b := New(sink)
	blk := b.NewBlock(ast.Pos{Line: 1, Col: 1})

	cond := b.NewValue(ast.Pos{Line: 1, Col: 4}, ast.BoolValue{V: true})
	ifb := b.NewIfStmt(blk, ast.Pos{Line: 1, Col: 1}, cond)
	then := ifb.Then()
	b.AppendBreak(then, ast.Pos{Line: 1, Col: 10})

	elifCond := b.NewValue(ast.Pos{Line: 2, Col: 4}, ast.BoolValue{V: false})
	elif := ifb.Elif(ast.Pos{Line: 2, Col: 1}, elifCond)
	b.AppendContinue(elif, ast.Pos{Line: 2, Col: 10})

	els := ifb.Else(ast.Pos{Line: 3, Col: 1})
	b.AppendBreak(els, ast.Pos{Line: 3, Col: 10})

	stmt := ifb.Build()
	if len(blk.Stmts) != 1 || blk.Stmts[0] != stmt {
		t.Fatalf("blk.Stmts = %v, want [stmt]", blk.Stmts)
	}
	if len(stmt.Clauses) != 2 {
		t.Fatalf("len(Clauses) = %d, want 2", len(stmt.Clauses))
	}
	if stmt.Else == nil || len(stmt.Else.Stmts) != 1 {
		t.Fatalf("Else = %#v, want one statement", stmt.Else)
	}
}
