package resolver

import (
	"fly/src/ast"
	"fly/src/diag"
	"fly/src/validator"
)

// pass2 implements §4.4 Pass 2 — bodies: walk every function and method
// body, resolving references and typing expressions.
func (r *Resolver) pass2() {
	for _, m := range r.modules {
		for _, fn := range m.Funcs {
			scope := newFuncScope(m, fn.Params, fn.Locals, fn.Ret, fn.Name, nil)
			validator.CheckParams(r.sink, fn.Params)
			validator.CheckLocals(r.sink, fn.Locals)
			r.resolveBlock(scope, fn.Body)
		}
		for _, c := range m.Classes {
			for _, ctor := range c.Ctors {
				scope := newFuncScope(m, ctor.Params, ctor.Locals, ctor.Ret, ctor.Name, c)
				validator.CheckParams(r.sink, ctor.Params)
				validator.CheckLocals(r.sink, ctor.Locals)
				r.resolveBlock(scope, ctor.Body)
			}
			for _, meth := range c.Methods {
				scope := newFuncScope(m, meth.Params, meth.Locals, meth.Ret, meth.Name, c)
				validator.CheckParams(r.sink, meth.Params)
				validator.CheckLocals(r.sink, meth.Locals)
				r.resolveBlock(scope, meth.Body)
			}
		}
	}
}

func (r *Resolver) resolveBlock(scope *funcScope, b *ast.Block) {
	if b == nil {
		return
	}
	scope.pushBlock()
	for _, st := range b.Stmts {
		r.resolveStmt(scope, st)
	}
	scope.popBlock()
}

func (r *Resolver) resolveStmt(scope *funcScope, st ast.Stmt) {
	switch s := st.(type) {
	case *ast.Block:
		r.resolveBlock(scope, s)

	case *ast.ExprStmt:
		switch s.Expr.(type) {
		case *ast.CallExpr, *ast.NewExpr:
			r.resolveExpr(scope, s.Expr)
		default:
			r.sink.Report(diag.Error, diag.EmptyExpr, s.P, "expression statement must be a call")
		}

	case *ast.VarDecl:
		if it, ok := s.Var.Type.(ast.IdentityType); ok && it.Def == nil {
			if id, found := r.lookupIdentity(scope.mod, it.QualifiedName); found {
				it.Def = id
				s.Var.Type = it
			} else {
				r.sink.Report(diag.Error, diag.UnrefType, s.P, "unresolved type reference %q", it.QualifiedName)
			}
		}
		if s.Init != nil {
			initT := r.resolveExpr(scope, s.Init)
			if !validator.ConvertibleTo(initT, s.Var.Type) {
				r.sink.Report(diag.Error, diag.TypeConvert, s.P, "cannot initialize %q of type %s with %s", s.Var.Name, s.Var.Type, initT)
			}
			s.Var.Initialized = true
		}
		scope.declareInBlock(s.Var)

	case *ast.Assignment:
		targetT := r.resolveExpr(scope, s.Target)
		valueT := r.resolveExpr(scope, s.Value)
		if !validator.ConvertibleTo(valueT, targetT) {
			r.sink.Report(diag.Error, diag.TypeConvert, s.P, "cannot assign %s to target of type %s", valueT, targetT)
		}
		if ref, ok := s.Target.(*ast.VarRefExpr); ok {
			if lv, ok := ref.Ref.Def.(*ast.LocalVar); ok {
				lv.Initialized = true
			}
		}

	case *ast.Return:
		if s.Value != nil {
			t := r.resolveExpr(scope, s.Value)
			validator.CheckReturn(r.sink, s.P, scope.fn.ret, t)
		}

	case *ast.If:
		for _, cl := range s.Clauses {
			ct := r.resolveExpr(scope, cl.Cond)
			if !validator.ConvertibleTo(ct, ast.BoolType{}) {
				r.sink.Report(diag.Error, diag.TypeConvert, s.P, "if condition must be convertible to Bool, got %s", ct)
			}
			r.resolveBlock(scope, cl.Body)
		}
		if s.Else != nil {
			r.resolveBlock(scope, s.Else)
		}

	case *ast.Switch:
		subT := r.resolveExpr(scope, s.Subject)
		if subT.Category() != ast.CategoryInteger {
			r.sink.Report(diag.Error, diag.TypeComparable, s.P, "switch scrutinee must be an integer type, got %s", subT)
		}
		for _, cs := range s.Cases {
			for _, v := range cs.Values {
				vt := r.typeOfValue(v, s.P)
				if !validator.ConvertibleTo(vt, subT) {
					r.sink.Report(diag.Error, diag.TypeComparable, s.P, "case value of type %s is not comparable to scrutinee type %s", vt, subT)
				}
			}
			r.resolveBlock(scope, cs.Body)
		}

	case *ast.Loop:
		scope.pushBlock()
		if s.Init != nil {
			r.resolveStmt(scope, s.Init)
		}
		if s.Cond != nil {
			ct := r.resolveExpr(scope, s.Cond)
			if !validator.ConvertibleTo(ct, ast.BoolType{}) {
				r.sink.Report(diag.Error, diag.TypeConvert, s.P, "loop condition must be convertible to Bool, got %s", ct)
			}
		}
		if s.Post != nil {
			r.resolveStmt(scope, s.Post)
		}
		r.resolveBlock(scope, s.Body)
		scope.popBlock()

	case *ast.LoopIn:
		arrT := r.resolveExpr(scope, s.Array)
		at, ok := arrT.(ast.ArrayType)
		if !ok {
			r.sink.Report(diag.Error, diag.TypeConvert, s.P, "loop-in requires an array, got %s", arrT)
		} else {
			s.Var.Type = at.Elem
		}
		scope.pushBlock()
		s.Var.Initialized = true
		scope.declareInBlock(s.Var)
		r.resolveBlock(scope, s.Body)
		scope.popBlock()

	case *ast.Handle:
		r.resolveBlock(scope, s.Body)
		scope.pushBlock()
		if s.Binding != "" {
			lv := &ast.LocalVar{P: s.P, Name: s.Binding, Type: ast.ErrorType{P: s.P}, Initialized: true}
			s.BindingVar = lv
			scope.declareInBlock(lv)
		}
		r.resolveBlock(scope, s.Recover)
		scope.popBlock()

	case *ast.Fail:
		if s.Payload != nil {
			t := r.resolveExpr(scope, s.Payload)
			switch t.Category() {
			case ast.CategoryBool, ast.CategoryInteger, ast.CategoryString, ast.CategoryIdentity:
			default:
				r.sink.Report(diag.Error, diag.TypeConvert, s.P, "fail payload must be Bool, integer, String or an identity instance, got %s", t)
			}
		}

	case *ast.Delete:
		t := r.resolveExpr(scope, s.Target)
		if it, ok := t.(ast.IdentityType); !ok || it.Kind == ast.IdentityEnum {
			r.sink.Report(diag.Error, diag.ClassEnumExpr, s.P, "delete requires a class or struct instance, got %s", t)
		}

	case *ast.Break, *ast.Continue:
		// no references to resolve

	default:
	}
}
