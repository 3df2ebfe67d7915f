package validator

import (
	"fly/src/ast"
	"fly/src/diag"
)

// CheckParams reports diag.DuplicateParam for any repeated parameter name in
// a signature, per §4.3's structural duplicate checks.
func CheckParams(sink *diag.Sink, params []*ast.Parameter) {
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if seen[p.Name] {
			sink.Report(diag.Error, diag.DuplicateParam, p.P, "parameter %q already declared in this signature", p.Name)
			continue
		}
		seen[p.Name] = true
	}
}

// CheckLocals reports diag.DuplicateLocal for a local var name that shadows
// one already declared in the same function (§4.3: "local vars in the same
// or enclosing block" — Fly resolves locals per-function rather than
// per-nested-block, so one flat name-set per function is the correct
// scope here).
func CheckLocals(sink *diag.Sink, locals []*ast.LocalVar) {
	seen := make(map[string]bool, len(locals))
	for _, l := range locals {
		if seen[l.Name] {
			sink.Report(diag.Error, diag.DuplicateLocal, l.P, "local %q already declared in this function", l.Name)
			continue
		}
		seen[l.Name] = true
	}
}

// CheckModules reports diag.ModuleDuplicated for repeated module names
// within one compilation, independent of processing order (§5's ordering
// guarantee).
func CheckModules(sink *diag.Sink, mods []*ast.Module) {
	seen := make(map[string]bool, len(mods))
	for _, m := range mods {
		if seen[m.Name] {
			sink.Report(diag.Error, diag.ModuleDuplicated, m.P, "module %q already declared", m.Name)
			continue
		}
		seen[m.Name] = true
	}
}
