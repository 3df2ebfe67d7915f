package ast

// BinaryOp enumerates the binary operators of §4.3/§4.4.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd // logical &&, short-circuit
	OpOr  // logical ||, short-circuit
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
)

// UnaryOp enumerates the unary operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota // arithmetic negation
	OpNot                // logical not
)

// Expr is the closed sum type of expression nodes (§3, §4.4). Type is filled
// in by the resolver's bottom-up typing pass and is nil beforehand — callers
// that run before resolution (the builder, snapshot printers) must not read
// it.
type Expr interface {
	Pos() Pos
	ExprType() Type
	setExprType(Type)
	exprNode()
}

// exprBase factors the Type bookkeeping shared by every Expr.
type exprBase struct {
	P Pos
	T Type
}

func (e *exprBase) Pos() Pos          { return e.P }
func (e *exprBase) ExprType() Type    { return e.T }
func (e *exprBase) setExprType(t Type) { e.T = t }

// SetType is the resolver's single entry point for recording an expression's
// computed type; it is exported so the resolver package (outside ast) can
// call it without every Expr implementation needing exported field access.
func SetType(e Expr, t Type) { e.setExprType(t) }

// ValueExpr wraps a literal Value.
type ValueExpr struct {
	exprBase
	Value Value
}

func (*ValueExpr) exprNode() {}

// NewValueExpr builds a ValueExpr already typed, for callers outside this
// package (the resolver's constant-folding pass) that need to synthesize a
// literal node without access to the unexported exprBase field.
func NewValueExpr(pos Pos, v Value, t Type) *ValueExpr {
	return &ValueExpr{exprBase: exprBase{P: pos, T: t}, Value: v}
}

// VarRefExpr reads a variable, attribute, parameter or enum entry through a
// Ref (§3 References).
type VarRefExpr struct {
	exprBase
	Ref *Ref
}

func (*VarRefExpr) exprNode() {}

// CallExpr invokes a function, method or constructor resolved through Ref.
// Receiver is non-nil for a method call (a.b(...)) and nil for a bare or
// namespace-qualified call.
type CallExpr struct {
	exprBase
	Ref      *Ref
	Receiver Expr
	Args     []Expr
}

func (*CallExpr) exprNode() {}

// NewExpr allocates a class or struct instance and invokes a constructor
// overload (§4.6, §4.9).
type NewExpr struct {
	exprBase
	Type_ *IdentityType
	Ctor  *ClassMethod // filled by the resolver
	Args  []Expr
}

func (*NewExpr) exprNode() {}

// UnaryExpr applies a UnaryOp to Operand.
type UnaryExpr struct {
	exprBase
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

// BinaryExpr applies a BinaryOp to Left and Right. For OpAnd/OpOr, irgen
// must emit short-circuit control flow rather than an eager boolean op
// (§4.4 edge cases, §8 S4).
type BinaryExpr struct {
	exprBase
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// TernaryExpr is `cond ? then : else`; Then and Else are promoted to their
// common type per §4.4's ternary rule.
type TernaryExpr struct {
	exprBase
	Cond Expr
	Then Expr
	Else Expr
}

func (*TernaryExpr) exprNode() {}

// IndexExpr reads Array[Index].
type IndexExpr struct {
	exprBase
	Array Expr
	Index Expr
}

func (*IndexExpr) exprNode() {}

// AttrExpr reads Receiver.Name, resolved through Ref once the resolver knows
// Receiver's identity type.
type AttrExpr struct {
	exprBase
	Receiver Expr
	Ref      *Ref
}

func (*AttrExpr) exprNode() {}
