package builder

import "fly/src/ast"

// NewValue wraps a literal Value as an expression node.
func (b *Builder) NewValue(pos ast.Pos, v ast.Value) *ast.ValueExpr {
	return ast.NewValueExpr(pos, v, nil)
}

// NewRef builds an unqualified reference by name.
func (b *Builder) NewRef(pos ast.Pos, name string) *ast.Ref {
	b.checkName(pos, name)
	return &ast.Ref{P: pos, Name: b.intern(name)}
}

// NewQualifiedRef builds name qualified by parent (a namespace alias,
// enum name or receiver chain link).
func (b *Builder) NewQualifiedRef(pos ast.Pos, parent *ast.Ref, name string) *ast.Ref {
	b.checkName(pos, name)
	return &ast.Ref{P: pos, Name: b.intern(name), Parent: parent}
}

// NewVarRef wraps ref as a variable-reference expression.
func (b *Builder) NewVarRef(pos ast.Pos, ref *ast.Ref) *ast.VarRefExpr {
	return ast.NewVarRefExpr(pos, ref)
}

// NewCall builds a call expression; receiver is nil for a bare or
// namespace-qualified call, non-nil for a method call.
func (b *Builder) NewCall(pos ast.Pos, ref *ast.Ref, receiver ast.Expr, args []ast.Expr) *ast.CallExpr {
	return ast.NewCallExpr(pos, ref, receiver, args)
}

// NewNew builds a `new Type(args)` expression.
func (b *Builder) NewNew(pos ast.Pos, t *ast.IdentityType, args []ast.Expr) *ast.NewExpr {
	return ast.NewNewExpr(pos, t, args)
}

func (b *Builder) NewUnary(pos ast.Pos, op ast.UnaryOp, operand ast.Expr) *ast.UnaryExpr {
	return ast.NewUnaryExpr(pos, op, operand)
}

func (b *Builder) NewBinary(pos ast.Pos, op ast.BinaryOp, left, right ast.Expr) *ast.BinaryExpr {
	return ast.NewBinaryExpr(pos, op, left, right)
}

func (b *Builder) NewTernary(pos ast.Pos, cond, then, els ast.Expr) *ast.TernaryExpr {
	return ast.NewTernaryExpr(pos, cond, then, els)
}

func (b *Builder) NewIndex(pos ast.Pos, array, index ast.Expr) *ast.IndexExpr {
	return ast.NewIndexExpr(pos, array, index)
}

func (b *Builder) NewAttr(pos ast.Pos, receiver ast.Expr, ref *ast.Ref) *ast.AttrExpr {
	return ast.NewAttrExpr(pos, receiver, ref)
}
