package builder

import "fly/src/ast"

// AppendVarDecl creates a VarDecl for v (with optional init), appends it
// to blk, and returns it.
func (b *Builder) AppendVarDecl(blk *ast.Block, pos ast.Pos, v *ast.LocalVar, init ast.Expr) *ast.VarDecl {
	vd := ast.NewVarDecl(pos, v, init)
	blk.Stmts = append(blk.Stmts, vd)
	return vd
}

// AppendReturn appends a Return statement to blk.
func (b *Builder) AppendReturn(blk *ast.Block, pos ast.Pos, value ast.Expr) *ast.Return {
	r := ast.NewReturn(pos, value)
	blk.Stmts = append(blk.Stmts, r)
	return r
}

// AppendBreak/AppendContinue append their respective statements to blk.
func (b *Builder) AppendBreak(blk *ast.Block, pos ast.Pos) *ast.Break {
	s := ast.NewBreak(pos)
	blk.Stmts = append(blk.Stmts, s)
	return s
}

func (b *Builder) AppendContinue(blk *ast.Block, pos ast.Pos) *ast.Continue {
	s := ast.NewContinue(pos)
	blk.Stmts = append(blk.Stmts, s)
	return s
}

// AppendFail appends a Fail statement to blk.
func (b *Builder) AppendFail(blk *ast.Block, pos ast.Pos, payload ast.Expr) *ast.Fail {
	f := ast.NewFail(pos, payload)
	blk.Stmts = append(blk.Stmts, f)
	return f
}

// AppendDelete appends a Delete statement to blk.
func (b *Builder) AppendDelete(blk *ast.Block, pos ast.Pos, target ast.Expr) *ast.Delete {
	d := ast.NewDelete(pos, target)
	blk.Stmts = append(blk.Stmts, d)
	return d
}

// AssignmentHandle is the "statement builder" family §4.1 describes for
// assignment: NewAssignmentStmt fixes the target and position up front and
// returns a handle whose SetValue call supplies the RHS and performs the
// actual append — mirroring how a parser discovers the RHS only after
// having already parsed the LHS and the `=` token.
type AssignmentHandle struct {
	b      *Builder
	blk    *ast.Block
	pos    ast.Pos
	target ast.Expr
}

// NewAssignmentStmt begins an assignment statement against target; call
// SetValue on the returned handle to supply the RHS and commit the
// statement into blk.
func (b *Builder) NewAssignmentStmt(blk *ast.Block, pos ast.Pos, target ast.Expr) *AssignmentHandle {
	return &AssignmentHandle{b: b, blk: blk, pos: pos, target: target}
}

// SetValue closes the assignment with value and appends it to the block
// the handle was opened against.
func (h *AssignmentHandle) SetValue(value ast.Expr) *ast.Assignment {
	a := ast.NewAssignment(h.pos, h.target, value)
	h.blk.Stmts = append(h.blk.Stmts, a)
	return a
}

// ExprStmtHandle mirrors AssignmentHandle for a bare call/new statement:
// the position is known before the call expression itself has finished
// being built.
type ExprStmtHandle struct {
	b   *Builder
	blk *ast.Block
	pos ast.Pos
}

func (b *Builder) NewExprStmtHandle(blk *ast.Block, pos ast.Pos) *ExprStmtHandle {
	return &ExprStmtHandle{b: b, blk: blk, pos: pos}
}

// SetExpr closes the expression statement with e and appends it.
func (h *ExprStmtHandle) SetExpr(e ast.Expr) *ast.ExprStmt {
	s := ast.NewExprStmt(h.pos, e)
	h.blk.Stmts = append(h.blk.Stmts, s)
	return s
}

// HandleBuilder (the `handle { ... } recover [err] { ... }` construct) is a
// compound builder: Body is filled first, then Recover.
type HandleBuilder struct {
	b       *Builder
	blk     *ast.Block
	pos     ast.Pos
	body    *ast.Block
	binding string
}

func (b *Builder) NewHandleStmt(blk *ast.Block, pos ast.Pos) *HandleBuilder {
	return &HandleBuilder{b: b, blk: blk, pos: pos, body: ast.NewBlock(pos)}
}

// Body returns the block to populate for the protected region.
func (hb *HandleBuilder) Body() *ast.Block { return hb.body }

// Recover closes the handle with its recovery block and optional binding
// name, appending the completed Handle statement to the originating block.
func (hb *HandleBuilder) Recover(binding string, recoverBlk *ast.Block) *ast.Handle {
	h := ast.NewHandle(hb.pos, hb.body, binding, recoverBlk)
	hb.blk.Stmts = append(hb.blk.Stmts, h)
	return h
}
