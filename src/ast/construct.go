package ast

// This file collects the exported constructors that packages outside ast
// (builder, resolver's constant-folding pass) need in order to build node
// values whose embedded stmtBase/exprBase fields are unexported. Each
// constructor does no validation of its own — that is builder's job — and
// simply assembles the struct.

func NewBlock(pos Pos) *Block {
	return &Block{stmtBase: stmtBase{P: pos}}
}

func NewExprStmt(pos Pos, e Expr) *ExprStmt {
	return &ExprStmt{stmtBase: stmtBase{P: pos}, Expr: e}
}

func NewVarDecl(pos Pos, v *LocalVar, init Expr) *VarDecl {
	return &VarDecl{stmtBase: stmtBase{P: pos}, Var: v, Init: init}
}

func NewAssignment(pos Pos, target, value Expr) *Assignment {
	return &Assignment{stmtBase: stmtBase{P: pos}, Target: target, Value: value}
}

func NewReturn(pos Pos, value Expr) *Return {
	return &Return{stmtBase: stmtBase{P: pos}, Value: value}
}

func NewBreak(pos Pos) *Break       { return &Break{stmtBase{P: pos}} }
func NewContinue(pos Pos) *Continue { return &Continue{stmtBase{P: pos}} }

func NewIf(pos Pos, clauses []IfClause, els *Block) *If {
	return &If{stmtBase: stmtBase{P: pos}, Clauses: clauses, Else: els}
}

func NewSwitch(pos Pos, subject Expr, cases []SwitchCase) *Switch {
	return &Switch{stmtBase: stmtBase{P: pos}, Subject: subject, Cases: cases}
}

func NewLoop(pos Pos, init Stmt, cond Expr, post Stmt, body *Block) *Loop {
	return &Loop{stmtBase: stmtBase{P: pos}, Init: init, Cond: cond, Post: post, Body: body}
}

func NewLoopIn(pos Pos, v *LocalVar, array Expr, body *Block) *LoopIn {
	return &LoopIn{stmtBase: stmtBase{P: pos}, Var: v, Array: array, Body: body}
}

func NewHandle(pos Pos, body *Block, binding string, recover *Block) *Handle {
	return &Handle{stmtBase: stmtBase{P: pos}, Body: body, Binding: binding, Recover: recover}
}

func NewFail(pos Pos, payload Expr) *Fail {
	return &Fail{stmtBase: stmtBase{P: pos}, Payload: payload}
}

func NewDelete(pos Pos, target Expr) *Delete {
	return &Delete{stmtBase: stmtBase{P: pos}, Target: target}
}

func NewVarRefExpr(pos Pos, ref *Ref) *VarRefExpr {
	return &VarRefExpr{exprBase: exprBase{P: pos}, Ref: ref}
}

func NewCallExpr(pos Pos, ref *Ref, receiver Expr, args []Expr) *CallExpr {
	return &CallExpr{exprBase: exprBase{P: pos}, Ref: ref, Receiver: receiver, Args: args}
}

func NewNewExpr(pos Pos, t *IdentityType, args []Expr) *NewExpr {
	return &NewExpr{exprBase: exprBase{P: pos}, Type_: t, Args: args}
}

func NewUnaryExpr(pos Pos, op UnaryOp, operand Expr) *UnaryExpr {
	return &UnaryExpr{exprBase: exprBase{P: pos}, Op: op, Operand: operand}
}

func NewBinaryExpr(pos Pos, op BinaryOp, left, right Expr) *BinaryExpr {
	return &BinaryExpr{exprBase: exprBase{P: pos}, Op: op, Left: left, Right: right}
}

func NewTernaryExpr(pos Pos, cond, then, els Expr) *TernaryExpr {
	return &TernaryExpr{exprBase: exprBase{P: pos}, Cond: cond, Then: then, Else: els}
}

func NewIndexExpr(pos Pos, array, index Expr) *IndexExpr {
	return &IndexExpr{exprBase: exprBase{P: pos}, Array: array, Index: index}
}

func NewAttrExpr(pos Pos, receiver Expr, ref *Ref) *AttrExpr {
	return &AttrExpr{exprBase: exprBase{P: pos}, Receiver: receiver, Ref: ref}
}
