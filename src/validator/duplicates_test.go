package validator

import (
	"testing"

	"fly/src/ast"
	"fly/src/diag"
)

func TestCheckParamsRejectsRepeatedName(t *testing.T) {
	sink := diag.NewSink()
	params := []*ast.Parameter{
		{Name: "x", Type: ast.IntType{Bits: 32, Signed: true}},
		{Name: "x", Type: ast.BoolType{}},
	}
	CheckParams(sink, params)
	if !sink.HasErrors() {
		t.Fatal("expected a duplicate-param diagnostic")
	}
	if len(sink.Entries()) != 1 {
		t.Errorf("entries = %v, want exactly one diagnostic", sink.Entries())
	}
}

func TestCheckLocalsRejectsRepeatedName(t *testing.T) {
	sink := diag.NewSink()
	locals := []*ast.LocalVar{
		{Name: "total", Type: ast.IntType{Bits: 32, Signed: true}},
		{Name: "total", Type: ast.IntType{Bits: 32, Signed: true}},
	}
	CheckLocals(sink, locals)
	if !sink.HasErrors() {
		t.Fatal("expected a duplicate-local diagnostic")
	}
}

func TestCheckModulesReportsSecondOccurrence(t *testing.T) {
	sink := diag.NewSink()
	mods := []*ast.Module{
		{Name: "a"},
		{Name: "b"},
		{Name: "a"},
	}
	CheckModules(sink, mods)
	if len(sink.Entries()) != 1 {
		t.Fatalf("entries = %v, want exactly one diagnostic for the second \"a\"", sink.Entries())
	}
	if sink.Entries()[0].Code != diag.ModuleDuplicated {
		t.Errorf("code = %s, want %s", sink.Entries()[0].Code, diag.ModuleDuplicated)
	}
}
