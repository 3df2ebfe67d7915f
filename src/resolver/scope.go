package resolver

import "fly/src/ast"

// funcScope is the resolution context for one function or method body:
// its parameters, its flat local list (§3 Invariants: locals are
// collected per-function, not per-block), and a stack of block-local name
// sets layered on top to implement "nearest enclosing block upward"
// shadowing during the walk.
type funcScope struct {
	mod    *ast.Module
	params map[string]*ast.Parameter
	locals map[string]*ast.LocalVar
	blocks []map[string]*ast.LocalVar // innermost last
	fn     callableSig
	// receiver is non-nil while walking a method/constructor body, giving
	// attribute lookups a home (§4.4 VarRef order effectively treats
	// attributes as falling between params and module globals).
	receiver *ast.Class
}

// callableSig abstracts over *ast.Function and *ast.ClassMethod for the
// bits pass2 needs (declared return type, locals list already lives on
// the concrete type and is copied into funcScope.locals directly).
type callableSig struct {
	ret  ast.Type
	name string
}

func newFuncScope(mod *ast.Module, params []*ast.Parameter, locals []*ast.LocalVar, ret ast.Type, name string, receiver *ast.Class) *funcScope {
	s := &funcScope{
		mod:      mod,
		params:   make(map[string]*ast.Parameter, len(params)),
		locals:   make(map[string]*ast.LocalVar, len(locals)),
		fn:       callableSig{ret: ret, name: name},
		receiver: receiver,
	}
	for _, p := range params {
		s.params[p.Name] = p
	}
	for _, l := range locals {
		s.locals[l.Name] = l
	}
	return s
}

func (s *funcScope) pushBlock() {
	s.blocks = append(s.blocks, make(map[string]*ast.LocalVar))
}

func (s *funcScope) popBlock() {
	s.blocks = s.blocks[:len(s.blocks)-1]
}

// declareInBlock records a VarDecl's local into the innermost open block
// scope, so subsequent lookups in sibling/later statements of the same
// block (and nested blocks) see it, per "nearest enclosing block upward".
func (s *funcScope) declareInBlock(l *ast.LocalVar) {
	if len(s.blocks) == 0 {
		return
	}
	s.blocks[len(s.blocks)-1][l.Name] = l
}

// lookupVar implements the unqualified VarRef resolution order of §4.4:
// params → enclosing blocks (innermost first) → function locals →
// attribute → module globals. It returns RefUnresolved when none match,
// which the caller reports.
func (s *funcScope) lookupVar(name string) (ast.Decl, ast.RefKind, ast.Type) {
	if p, ok := s.params[name]; ok {
		return p, ast.RefVarParam, p.Type
	}
	for i := len(s.blocks) - 1; i >= 0; i-- {
		if l, ok := s.blocks[i][name]; ok {
			return l, ast.RefVarLocal, l.Type
		}
	}
	if l, ok := s.locals[name]; ok {
		return l, ast.RefVarLocal, l.Type
	}
	if s.receiver != nil {
		for _, a := range s.receiver.Attrs {
			if a.Name == name {
				return a, ast.RefVarAttribute, a.Type
			}
		}
	}
	if g, ok := s.mod.LookupGlobalByName(name); ok {
		return g, ast.RefVarGlobal, g.Type
	}
	return nil, ast.RefUnresolved, nil
}
