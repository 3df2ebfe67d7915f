package irgen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"fly/src/ast"
)

// genBlock lowers every statement in b in order, stopping early (without
// emitting dead code after it) once a statement reports it terminated the
// current basic block.
func (g *generator) genBlock(fr *frame, b *ast.Block) (bool, error) {
	if b == nil {
		return false, nil
	}
	for _, st := range b.Stmts {
		terminated, err := g.genStmt(fr, st)
		if err != nil {
			return false, err
		}
		if terminated {
			return true, nil
		}
	}
	return false, nil
}

// genStmt lowers one statement, returning whether it terminated the
// current basic block (a Return, or a Fail outside a handle, or a
// construct all of whose arms terminated).
func (g *generator) genStmt(fr *frame, st ast.Stmt) (bool, error) {
	switch s := st.(type) {
	case *ast.Block:
		return g.genBlock(fr, s)
	case *ast.ExprStmt:
		_, err := g.genExpr(fr, s.Expr)
		return false, err
	case *ast.VarDecl:
		return false, g.genVarDecl(fr, s)
	case *ast.Assignment:
		return false, g.genAssignment(fr, s)
	case *ast.Return:
		return true, g.genReturn(fr, s)
	case *ast.Break:
		if len(fr.loops) == 0 {
			return false, fmt.Errorf("irgen: break outside a loop")
		}
		g.bld.CreateBr(fr.currentLoop().breakTarget)
		return true, nil
	case *ast.Continue:
		if len(fr.loops) == 0 {
			return false, fmt.Errorf("irgen: continue outside a loop")
		}
		g.bld.CreateBr(fr.currentLoop().continueTarget)
		return true, nil
	case *ast.If:
		return g.genIf(fr, s)
	case *ast.Switch:
		return g.genSwitch(fr, s)
	case *ast.Loop:
		return g.genLoop(fr, s)
	case *ast.LoopIn:
		return g.genLoopIn(fr, s)
	case *ast.Handle:
		return g.genHandle(fr, s)
	case *ast.Fail:
		return true, g.genFail(fr, s)
	case *ast.Delete:
		return false, g.genDelete(fr, s)
	default:
		return false, fmt.Errorf("irgen: no statement lowering for %T", st)
	}
}

func (g *generator) genVarDecl(fr *frame, s *ast.VarDecl) error {
	slot, ok := fr.localSlots[s.Var]
	if !ok {
		return fmt.Errorf("irgen: local %q has no slot", s.Var.Name)
	}
	var val llvm.Value
	var err error
	if s.Init != nil {
		val, err = g.genExpr(fr, s.Init)
	} else {
		val, err = g.genDefaultValue(s.Var.Type)
	}
	if err != nil {
		return err
	}
	g.bld.CreateStore(g.coerceStore(s.Var.Type, val), slot)
	return nil
}

// lvaluePointer resolves an assignment target to its storage pointer and
// declared type.
func (g *generator) lvaluePointer(fr *frame, e ast.Expr) (llvm.Value, ast.Type, error) {
	switch ex := e.(type) {
	case *ast.VarRefExpr:
		switch decl := ex.Ref.Def.(type) {
		case *ast.LocalVar:
			slot, ok := fr.localSlots[decl]
			if !ok {
				return llvm.Value{}, nil, fmt.Errorf("irgen: local %q has no slot", decl.Name)
			}
			return slot, decl.Type, nil
		case *ast.Parameter:
			slot, ok := fr.paramSlots[decl]
			if !ok {
				return llvm.Value{}, nil, fmt.Errorf("irgen: parameter %q has no slot", decl.Name)
			}
			return slot, decl.Type, nil
		case *ast.GlobalVar:
			gv, ok := g.globalVals[decl]
			if !ok {
				return llvm.Value{}, nil, fmt.Errorf("irgen: global %q has no LLVM value", decl.Name)
			}
			return gv, decl.Type, nil
		case *ast.ClassAttribute:
			ptr, err := g.attrPointerOnReceiver(fr, decl)
			return ptr, decl.Type, err
		default:
			return llvm.Value{}, nil, fmt.Errorf("irgen: assignment target did not resolve to a storage location")
		}
	case *ast.AttrExpr:
		return g.genAttrPointer(fr, ex)
	case *ast.IndexExpr:
		return g.indexPointer(fr, ex)
	default:
		return llvm.Value{}, nil, fmt.Errorf("irgen: %T is not a valid assignment target", e)
	}
}

func (g *generator) genAssignment(fr *frame, s *ast.Assignment) error {
	ptr, t, err := g.lvaluePointer(fr, s.Target)
	if err != nil {
		return err
	}
	val, err := g.genExpr(fr, s.Value)
	if err != nil {
		return err
	}
	// Array element storage already holds the SSA representation (see
	// genIndex), unlike locals/globals/fields, so it skips coerceStore.
	if _, indexed := s.Target.(*ast.IndexExpr); !indexed {
		val = g.coerceStore(t, val)
	}
	g.bld.CreateStore(val, ptr)
	return nil
}

func (g *generator) genReturn(fr *frame, s *ast.Return) error {
	if s.Value == nil {
		g.bld.CreateRetVoid()
		return nil
	}
	val, err := g.genExpr(fr, s.Value)
	if err != nil {
		return err
	}
	val, err = g.promoteTo(val, s.Value.ExprType(), fr.retType)
	if err != nil {
		return err
	}
	g.bld.CreateRet(val)
	return nil
}

func (g *generator) genDelete(fr *frame, s *ast.Delete) error {
	ptr, err := g.genExpr(fr, s.Target)
	if err != nil {
		return err
	}
	raw := g.bld.CreateBitCast(ptr, pointerTo(llvm.Int8Type()), "")
	g.bld.CreateCall(g.freeFunc(), []llvm.Value{raw}, "")
	return nil
}

// genIf lowers the if/elif.../else chain with a shared "endif" converge
// block (§4.7), labelling the arms "ifthen", "elsif<N>"/"elsifthen<N>",
// "else" and "endif".
func (g *generator) genIf(fr *frame, s *ast.If) (bool, error) {
	endBlock := llvm.AddBasicBlock(fr.fn, "endif")
	allTerminated := s.Else != nil

	for i, clause := range s.Clauses {
		cond, err := g.genExpr(fr, clause.Cond)
		if err != nil {
			return false, err
		}

		thenLabel := "ifthen"
		if i > 0 {
			thenLabel = fmt.Sprintf("elsifthen%d", i)
		}
		thenBB := llvm.AddBasicBlock(fr.fn, thenLabel)

		var nextBB llvm.BasicBlock
		last := i == len(s.Clauses)-1
		switch {
		case last && s.Else != nil:
			nextBB = llvm.AddBasicBlock(fr.fn, "else")
		case last:
			nextBB = endBlock
		default:
			nextBB = llvm.AddBasicBlock(fr.fn, fmt.Sprintf("elsif%d", i+1))
		}
		g.bld.CreateCondBr(cond, thenBB, nextBB)

		g.bld.SetInsertPointAtEnd(thenBB)
		term, err := g.genBlock(fr, clause.Body)
		if err != nil {
			return false, err
		}
		if !term {
			g.bld.CreateBr(endBlock)
			allTerminated = false
		}

		g.bld.SetInsertPointAtEnd(nextBB)
	}

	if s.Else != nil {
		term, err := g.genBlock(fr, s.Else)
		if err != nil {
			return false, err
		}
		if !term {
			g.bld.CreateBr(endBlock)
			allTerminated = false
		}
	}

	g.bld.SetInsertPointAtEnd(endBlock)
	return allTerminated, nil
}

// genSwitch lowers a switch as a cascade of equality tests against
// Subject; a case without Values is the default arm (must be last, per
// §3's grammar) and a missing default still emits "endswitch" as the
// fallthrough continuation (§4.7, §8 boundary case).
func (g *generator) genSwitch(fr *frame, s *ast.Switch) (bool, error) {
	subject, err := g.genExpr(fr, s.Subject)
	if err != nil {
		return false, err
	}
	subjectType := s.Subject.ExprType()

	endBlock := llvm.AddBasicBlock(fr.fn, "endswitch")
	hasDefault := false
	allTerminated := true

	for i, cs := range s.Cases {
		isDefault := len(cs.Values) == 0
		bodyBB := llvm.AddBasicBlock(fr.fn, fmt.Sprintf("case%d", i))

		if isDefault {
			hasDefault = true
			g.bld.CreateBr(bodyBB)
		} else {
			matched := llvm.Value{}
			for _, v := range cs.Values {
				cv, err := g.genValue(v, subjectType)
				if err != nil {
					return false, err
				}
				eq := g.bld.CreateICmp(llvm.IntEQ, subject, cv, "")
				if matched.IsNil() {
					matched = eq
				} else {
					matched = g.bld.CreateOr(matched, eq, "")
				}
			}
			var nextBB llvm.BasicBlock
			last := i == len(s.Cases)-1
			if last {
				nextBB = endBlock
			} else {
				nextBB = llvm.AddBasicBlock(fr.fn, fmt.Sprintf("case%dcheck", i+1))
			}
			g.bld.CreateCondBr(matched, bodyBB, nextBB)
			g.bld.SetInsertPointAtEnd(bodyBB)
			term, err := g.genBlock(fr, cs.Body)
			if err != nil {
				return false, err
			}
			if !term {
				g.bld.CreateBr(endBlock)
				allTerminated = false
			}
			g.bld.SetInsertPointAtEnd(nextBB)
			continue
		}

		g.bld.SetInsertPointAtEnd(bodyBB)
		term, err := g.genBlock(fr, cs.Body)
		if err != nil {
			return false, err
		}
		if !term {
			g.bld.CreateBr(endBlock)
			allTerminated = false
		}
	}

	if !hasDefault {
		allTerminated = false
	}
	g.bld.SetInsertPointAtEnd(endBlock)
	return allTerminated, nil
}

// genLoop lowers a condition-style loop with optional init/post clauses
// into the four labeled blocks of §4.7: loopcond, loop, looppost, loopend.
func (g *generator) genLoop(fr *frame, s *ast.Loop) (bool, error) {
	if s.Init != nil {
		if _, err := g.genStmt(fr, s.Init); err != nil {
			return false, err
		}
	}

	condBB := llvm.AddBasicBlock(fr.fn, "loopcond")
	bodyBB := llvm.AddBasicBlock(fr.fn, "loop")
	postBB := llvm.AddBasicBlock(fr.fn, "looppost")
	endBB := llvm.AddBasicBlock(fr.fn, "loopend")

	g.bld.CreateBr(condBB)
	g.bld.SetInsertPointAtEnd(condBB)
	if s.Cond != nil {
		cond, err := g.genExpr(fr, s.Cond)
		if err != nil {
			return false, err
		}
		g.bld.CreateCondBr(cond, bodyBB, endBB)
	} else {
		g.bld.CreateBr(bodyBB)
	}

	continueTarget := condBB
	if s.Post != nil {
		continueTarget = postBB
	}
	fr.pushLoop(loopLabels{continueTarget: continueTarget, breakTarget: endBB})

	g.bld.SetInsertPointAtEnd(bodyBB)
	term, err := g.genBlock(fr, s.Body)
	fr.popLoop()
	if err != nil {
		return false, err
	}
	if !term {
		g.bld.CreateBr(postBB)
	}

	g.bld.SetInsertPointAtEnd(postBB)
	if s.Post != nil {
		if _, err := g.genStmt(fr, s.Post); err != nil {
			return false, err
		}
	}
	g.bld.CreateBr(condBB)

	g.bld.SetInsertPointAtEnd(endBB)
	return false, nil
}

// genLoopIn iterates Array by index, storing each element into Var's slot
// before running Body (§4.7's range-loop sugar over the same four labels).
func (g *generator) genLoopIn(fr *frame, s *ast.LoopIn) (bool, error) {
	arr, err := g.genExpr(fr, s.Array)
	if err != nil {
		return false, err
	}
	at, ok := s.Array.ExprType().(ast.ArrayType)
	if !ok {
		return false, fmt.Errorf("irgen: loop-in target is not an array")
	}
	dataPtr := g.bld.CreateExtractValue(arr, 0, "data")
	length := g.bld.CreateExtractValue(arr, 1, "len")

	idxSlot := g.bld.CreateAlloca(llvm.Int64Type(), "idx.addr")
	g.bld.CreateStore(llvm.ConstInt(llvm.Int64Type(), 0, false), idxSlot)

	condBB := llvm.AddBasicBlock(fr.fn, "loopcond")
	bodyBB := llvm.AddBasicBlock(fr.fn, "loop")
	postBB := llvm.AddBasicBlock(fr.fn, "looppost")
	endBB := llvm.AddBasicBlock(fr.fn, "loopend")

	g.bld.CreateBr(condBB)
	g.bld.SetInsertPointAtEnd(condBB)
	idx := g.bld.CreateLoad(idxSlot, "idx")
	cond := g.bld.CreateICmp(llvm.IntULT, idx, length, "")
	g.bld.CreateCondBr(cond, bodyBB, endBB)

	fr.pushLoop(loopLabels{continueTarget: postBB, breakTarget: endBB})

	g.bld.SetInsertPointAtEnd(bodyBB)
	elemSlot, ok := fr.localSlots[s.Var]
	if !ok {
		return false, fmt.Errorf("irgen: loop-in variable %q has no slot", s.Var.Name)
	}
	elemPtr := g.bld.CreateGEP(dataPtr, []llvm.Value{idx}, "elem.addr")
	elemVal := g.bld.CreateLoad(elemPtr, "elem")
	// elemVal is already in SSA representation (see genIndex); only the
	// destination local slot needs the memory-representation coercion.
	g.bld.CreateStore(g.coerceStore(at.Elem, elemVal), elemSlot)

	term, err := g.genBlock(fr, s.Body)
	fr.popLoop()
	if err != nil {
		return false, err
	}
	if !term {
		g.bld.CreateBr(postBB)
	}

	g.bld.SetInsertPointAtEnd(postBB)
	next := g.bld.CreateAdd(idx, llvm.ConstInt(llvm.Int64Type(), 1, false), "")
	g.bld.CreateStore(next, idxSlot)
	g.bld.CreateBr(condBB)

	g.bld.SetInsertPointAtEnd(endBB)
	return false, nil
}

// genHandle lowers `handle { ... } recover [binding] { ... }`: Body runs
// with a fail redirect installed to the recover block; if Body completes
// without failing, control skips Recover entirely (§4.9).
func (g *generator) genHandle(fr *frame, s *ast.Handle) (bool, error) {
	recoverBB := llvm.AddBasicBlock(fr.fn, "recover")
	safeBB := llvm.AddBasicBlock(fr.fn, "safe")

	if s.BindingVar != nil {
		// The binding aliases the function's own error-pointer slot
		// (§4.9): no separate storage, no store needed.
		fr.localSlots[s.BindingVar] = fr.errSlot
	}

	fr.pushHandle(handleFrame{safe: recoverBB})
	term, err := g.genBlock(fr, s.Body)
	fr.popHandle()
	if err != nil {
		return false, err
	}
	if !term {
		g.bld.CreateBr(safeBB)
	}

	g.bld.SetInsertPointAtEnd(recoverBB)
	term2, err := g.genBlock(fr, s.Recover)
	if err != nil {
		return false, err
	}
	if !term2 {
		g.bld.CreateBr(safeBB)
	}

	g.bld.SetInsertPointAtEnd(safeBB)
	return false, nil
}

// genFail lowers `fail`, per §4.9: inside a handle it branches to the
// installed recover block after writing the payload into the error
// struct; outside one it sets the payload and returns the function's
// default value so the caller observes the failure through the leading
// %error* parameter.
func (g *generator) genFail(fr *frame, s *ast.Fail) error {
	errPtr := g.currentErrPtr(fr)
	if err := g.storeFailPayload(fr, errPtr, s.Payload); err != nil {
		return err
	}
	if fr.inHandle() {
		g.bld.CreateBr(fr.currentHandle().safe)
		return nil
	}
	zero, err := g.genDefaultValue(fr.retType)
	if err != nil {
		return err
	}
	if _, isVoid := fr.retType.(ast.VoidType); isVoid {
		g.bld.CreateRetVoid()
		return nil
	}
	g.bld.CreateRet(zero)
	return nil
}

// storeFailPayload fills in the %error struct's kind/payload fields per
// §4.9's table: no payload or Bool/integer -> kind 1 with the integer
// payload slot; String -> kind 2 with the pointer slot; identity instance
// -> kind 3 with the pointer slot.
func (g *generator) storeFailPayload(fr *frame, errPtr llvm.Value, payload ast.Expr) error {
	kindPtr := g.bld.CreateStructGEP(errPtr, 0, "kind.addr")
	intPtr := g.bld.CreateStructGEP(errPtr, 1, "int.addr")
	ptrPtr := g.bld.CreateStructGEP(errPtr, 2, "ptr.addr")

	if payload == nil {
		g.bld.CreateStore(llvm.ConstInt(llvm.Int8Type(), 1, false), kindPtr)
		g.bld.CreateStore(llvm.ConstInt(llvm.Int32Type(), 1, false), intPtr)
		return nil
	}

	val, err := g.genExpr(fr, payload)
	if err != nil {
		return err
	}
	switch payload.ExprType().Category() {
	case ast.CategoryBool:
		g.bld.CreateStore(llvm.ConstInt(llvm.Int8Type(), 1, false), kindPtr)
		ext := g.bld.CreateZExt(val, llvm.Int32Type(), "")
		g.bld.CreateStore(ext, intPtr)
	case ast.CategoryInteger:
		g.bld.CreateStore(llvm.ConstInt(llvm.Int8Type(), 1, false), kindPtr)
		it := payload.ExprType().(ast.IntType)
		var asI32 llvm.Value
		if it.Bits == 32 {
			asI32 = val
		} else if it.Bits < 32 {
			if it.Signed {
				asI32 = g.bld.CreateSExt(val, llvm.Int32Type(), "")
			} else {
				asI32 = g.bld.CreateZExt(val, llvm.Int32Type(), "")
			}
		} else {
			asI32 = g.bld.CreateTrunc(val, llvm.Int32Type(), "")
		}
		g.bld.CreateStore(asI32, intPtr)
	case ast.CategoryString:
		g.bld.CreateStore(llvm.ConstInt(llvm.Int8Type(), 2, false), kindPtr)
		g.bld.CreateStore(val, ptrPtr)
	case ast.CategoryIdentity:
		g.bld.CreateStore(llvm.ConstInt(llvm.Int8Type(), 3, false), kindPtr)
		bc := g.bld.CreateBitCast(val, pointerTo(llvm.Int8Type()), "")
		g.bld.CreateStore(bc, ptrPtr)
	default:
		return fmt.Errorf("irgen: fail payload of category %v has no ABI lowering", payload.ExprType().Category())
	}
	return nil
}
