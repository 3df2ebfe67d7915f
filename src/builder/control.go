package builder

import "fly/src/ast"

// IfBuilder receives Then/Elif/Else clauses in order, per §4.1's
// "Builders for compound control flow ... return a stateful builder that
// receives Then/Elif/Else/Case/Default/Init/Post/Loop blocks in order."
type IfBuilder struct {
	b       *Builder
	blk     *ast.Block
	pos     ast.Pos
	clauses []ast.IfClause
	els     *ast.Block
}

// NewIfStmt opens an if/elif/else chain with its leading `if` condition.
func (b *Builder) NewIfStmt(blk *ast.Block, pos ast.Pos, cond ast.Expr) *IfBuilder {
	ib := &IfBuilder{b: b, blk: blk, pos: pos}
	ib.clauses = append(ib.clauses, ast.IfClause{Cond: cond, Body: ast.NewBlock(pos)})
	return ib
}

// Then returns the block to populate for the most recently opened
// if/elif clause.
func (ib *IfBuilder) Then() *ast.Block {
	return ib.clauses[len(ib.clauses)-1].Body
}

// Elif appends another conditional clause, returning its block.
func (ib *IfBuilder) Elif(pos ast.Pos, cond ast.Expr) *ast.Block {
	body := ast.NewBlock(pos)
	ib.clauses = append(ib.clauses, ast.IfClause{Cond: cond, Body: body})
	return body
}

// Else opens the trailing else block.
func (ib *IfBuilder) Else(pos ast.Pos) *ast.Block {
	ib.els = ast.NewBlock(pos)
	return ib.els
}

// Build finalizes the chain and appends it to the originating block.
func (ib *IfBuilder) Build() *ast.If {
	s := ast.NewIf(ib.pos, ib.clauses, ib.els)
	ib.blk.Stmts = append(ib.blk.Stmts, s)
	return s
}

// SwitchBuilder receives Case/Default arms in order.
type SwitchBuilder struct {
	b       *Builder
	blk     *ast.Block
	pos     ast.Pos
	subject ast.Expr
	cases   []ast.SwitchCase
}

func (b *Builder) NewSwitchStmt(blk *ast.Block, pos ast.Pos, subject ast.Expr) *SwitchBuilder {
	return &SwitchBuilder{b: b, blk: blk, pos: pos, subject: subject}
}

// Case opens a new case arm matching any of values, returning its block.
func (sb *SwitchBuilder) Case(pos ast.Pos, values []ast.Value) *ast.Block {
	body := ast.NewBlock(pos)
	sb.cases = append(sb.cases, ast.SwitchCase{Values: values, Body: body})
	return body
}

// Default opens the default arm. Build keeps arms in call order and does
// not check that the default arm comes last.
func (sb *SwitchBuilder) Default(pos ast.Pos) *ast.Block {
	body := ast.NewBlock(pos)
	sb.cases = append(sb.cases, ast.SwitchCase{Body: body})
	return body
}

func (sb *SwitchBuilder) Build() *ast.Switch {
	s := ast.NewSwitch(sb.pos, sb.subject, sb.cases)
	sb.blk.Stmts = append(sb.blk.Stmts, s)
	return s
}

// LoopBuilder receives Init/Cond/Post/Loop in order for a general
// condition-style loop (§4.7).
type LoopBuilder struct {
	b    *Builder
	blk  *ast.Block
	pos  ast.Pos
	init ast.Stmt
	cond ast.Expr
	post ast.Stmt
	body *ast.Block
}

func (b *Builder) NewLoopStmt(blk *ast.Block, pos ast.Pos) *LoopBuilder {
	return &LoopBuilder{b: b, blk: blk, pos: pos, body: ast.NewBlock(pos)}
}

// Init sets the loop's optional init statement (e.g. a VarDecl).
func (lb *LoopBuilder) Init(s ast.Stmt) *LoopBuilder { lb.init = s; return lb }

// Cond sets the loop's condition; nil means "loop forever".
func (lb *LoopBuilder) Cond(c ast.Expr) *LoopBuilder { lb.cond = c; return lb }

// Post sets the loop's optional post-step statement.
func (lb *LoopBuilder) Post(s ast.Stmt) *LoopBuilder { lb.post = s; return lb }

// Body returns the block to populate with the loop's statements.
func (lb *LoopBuilder) Body() *ast.Block { return lb.body }

func (lb *LoopBuilder) Build() *ast.Loop {
	s := ast.NewLoop(lb.pos, lb.init, lb.cond, lb.post, lb.body)
	lb.blk.Stmts = append(lb.blk.Stmts, s)
	return s
}

// LoopInBuilder builds a `loop v in array { ... }` range loop.
type LoopInBuilder struct {
	b     *Builder
	blk   *ast.Block
	pos   ast.Pos
	v     *ast.LocalVar
	array ast.Expr
	body  *ast.Block
}

func (b *Builder) NewLoopInStmt(blk *ast.Block, pos ast.Pos, v *ast.LocalVar, array ast.Expr) *LoopInBuilder {
	return &LoopInBuilder{b: b, blk: blk, pos: pos, v: v, array: array, body: ast.NewBlock(pos)}
}

func (lb *LoopInBuilder) Body() *ast.Block { return lb.body }

func (lb *LoopInBuilder) Build() *ast.LoopIn {
	s := ast.NewLoopIn(lb.pos, lb.v, lb.array, lb.body)
	lb.blk.Stmts = append(lb.blk.Stmts, s)
	return s
}
