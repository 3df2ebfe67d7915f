package resolver

import (
	"fly/src/ast"
	"fly/src/diag"
	"fly/src/validator"
)

// resolveExpr resolves every Ref inside e bottom-up and assigns its
// ExprType, per §4.4's "Expression typing" rules. It always returns a
// non-nil Type; on a resolution failure it reports through the sink and
// returns ast.VoidType so callers can keep walking without nil-checking.
func (r *Resolver) resolveExpr(scope *funcScope, e ast.Expr) ast.Type {
	var t ast.Type
	switch v := e.(type) {
	case *ast.ValueExpr:
		t = r.typeOfValue(v.Value, v.Pos())

	case *ast.VarRefExpr:
		t = r.resolveVarRef(scope, v.Ref)

	case *ast.CallExpr:
		t = r.resolveCall(scope, v)

	case *ast.NewExpr:
		t = r.resolveNew(scope, v)

	case *ast.UnaryExpr:
		ot := r.resolveExpr(scope, v.Operand)
		if v.Op == ast.OpNot {
			if _, ok := ot.(ast.BoolType); !ok {
				r.sink.Report(diag.Error, diag.TypeLogical, v.P, "logical not requires a Bool operand, got %s", ot)
			}
			t = ast.BoolType{P: v.P}
		} else {
			t = ot
		}

	case *ast.BinaryExpr:
		lt := r.resolveExpr(scope, v.Left)
		rt := r.resolveExpr(scope, v.Right)
		result, ok := validator.CheckBinaryOperands(r.sink, v.P, v.Op, lt, rt)
		if !ok {
			result = ast.VoidType{P: v.P}
		} else if isComparisonOrArith(v.Op) {
			result = commonType(lt, rt, isLiteral(v.Left), isLiteral(v.Right))
			if isComparison(v.Op) {
				result = ast.BoolType{P: v.P}
			} else {
				ast.SetType(v.Left, result)
				ast.SetType(v.Right, result)
			}
		}
		t = result

	case *ast.TernaryExpr:
		ct := r.resolveExpr(scope, v.Cond)
		if !validator.ConvertibleTo(ct, ast.BoolType{}) {
			r.sink.Report(diag.Error, diag.TypeConvert, v.P, "ternary condition must be convertible to Bool, got %s", ct)
		}
		thenT := r.resolveExpr(scope, v.Then)
		elseT := r.resolveExpr(scope, v.Else)
		if thenT.Category() != elseT.Category() {
			r.sink.Report(diag.Error, diag.TypeConvert, v.P, "ternary branches have incompatible types %s and %s", thenT, elseT)
			t = thenT
		} else {
			t = commonType(thenT, elseT, isLiteral(v.Then), isLiteral(v.Else))
		}

	case *ast.IndexExpr:
		at := r.resolveExpr(scope, v.Array)
		it := r.resolveExpr(scope, v.Index)
		if it.Category() != ast.CategoryInteger {
			r.sink.Report(diag.Error, diag.TypeArith, v.P, "array index must be an integer, got %s", it)
		}
		arrT, ok := at.(ast.ArrayType)
		if !ok {
			r.sink.Report(diag.Error, diag.TypeConvert, v.P, "cannot index non-array type %s", at)
			t = ast.VoidType{P: v.P}
		} else {
			t = arrT.Elem
		}

	case *ast.AttrExpr:
		rt := r.resolveExpr(scope, v.Receiver)
		t = r.resolveAttr(v, rt)

	default:
		t = ast.VoidType{}
	}
	ast.SetType(e, t)
	return t
}

func isComparison(op ast.BinaryOp) bool {
	switch op {
	case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		return true
	}
	return false
}

func isComparisonOrArith(op ast.BinaryOp) bool {
	return op != ast.OpAnd && op != ast.OpOr
}

// resolveVarRef implements the VarRef resolution order of §4.4: params →
// enclosing blocks → function locals → attribute (method/ctor context) →
// module globals → (qualified) namespace globals. A bare unresolved name
// is reported as diag.UnrefVar.
func (r *Resolver) resolveVarRef(scope *funcScope, ref *ast.Ref) ast.Type {
	if ref.Qualified() {
		return r.resolveQualifiedVarRef(scope, ref)
	}
	def, kind, t := scope.lookupVar(ref.Name)
	if def == nil {
		r.sink.Report(diag.Error, diag.UnrefVar, ref.P, "unresolved variable reference %q", ref.Name)
		return ast.VoidType{P: ref.P}
	}
	ref.Kind = kind
	ref.Def = def
	return t
}

// resolveQualifiedVarRef resolves ns.x (namespace-qualified global) or
// EnumName.Entry (enum entry reference), per §3's Ref.Parent chain.
func (r *Resolver) resolveQualifiedVarRef(scope *funcScope, ref *ast.Ref) ast.Type {
	parentName := ref.Parent.Name
	for _, imp := range scope.mod.Imports {
		if imp.EffectiveName() != parentName || imp.Target == nil {
			continue
		}
		ns, ok := r.registry.LookupNamespace(imp.Target.Path)
		if !ok {
			break
		}
		if g, found := ns.FindVar(ref.Name); found {
			ref.Kind = ast.RefVarGlobal
			ref.Def = g
			ref.Parent.Kind = ast.RefTypeName
			return g.Type
		}
		if id, found := ns.FindIdentity(parentName); found {
			if en, ok := id.(*ast.Enum); ok {
				return r.resolveEnumEntryRef(ref, en)
			}
		}
	}
	if id, found := r.lookupIdentity(scope.mod, parentName); found {
		if en, ok := id.(*ast.Enum); ok {
			return r.resolveEnumEntryRef(ref, en)
		}
	}
	r.sink.Report(diag.Error, diag.UnrefVar, ref.P, "unresolved qualified reference %q.%q", parentName, ref.Name)
	return ast.VoidType{P: ref.P}
}

func (r *Resolver) resolveEnumEntryRef(ref *ast.Ref, en *ast.Enum) ast.Type {
	for _, entry := range en.Entries {
		if entry.Name == ref.Name {
			ref.Kind = ast.RefVarEnumEntry
			ref.Def = entry
			ref.Parent.Kind = ast.RefTypeName
			ref.Parent.Def = en
			return ast.IdentityType{P: ref.P, Kind: ast.IdentityEnum, QualifiedName: en.Name, Def: en}
		}
	}
	r.sink.Report(diag.Error, diag.UnrefVar, ref.P, "enum %s has no entry %q", en.Name, ref.Name)
	return ast.VoidType{P: ref.P}
}

// resolveAttr resolves `receiver.Name` once the receiver's type is known.
func (r *Resolver) resolveAttr(a *ast.AttrExpr, receiverType ast.Type) ast.Type {
	it, ok := receiverType.(ast.IdentityType)
	if !ok {
		r.sink.Report(diag.Error, diag.UnrefVar, a.P, "cannot access field %q on non-identity type %s", a.Ref.Name, receiverType)
		return ast.VoidType{P: a.P}
	}
	cls, ok := it.Def.(*ast.Class)
	if !ok {
		r.sink.Report(diag.Error, diag.UnrefVar, a.P, "type %s has no fields", it.QualifiedName)
		return ast.VoidType{P: a.P}
	}
	for c := cls; c != nil; {
		for _, attr := range c.Attrs {
			if attr.Name == a.Ref.Name {
				a.Ref.Kind = ast.RefVarAttribute
				a.Ref.Def = attr
				return attr.Type
			}
		}
		if c.Super != nil {
			c, _ = c.Super.Def.(*ast.Class)
			continue
		}
		break
	}
	r.sink.Report(diag.Error, diag.UnrefVar, a.P, "%s has no field %q", cls.Name, a.Ref.Name)
	return ast.VoidType{P: a.P}
}
