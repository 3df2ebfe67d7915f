package irgen

import (
	"tinygo.org/x/go-llvm"

	"fly/src/ast"
)

// loopLabels is the pair of basic blocks a break/continue inside the
// innermost enclosing loop target; adapted from the teacher's label-stack
// (util.Stack of basic blocks for CONTINUE) generalized to also carry the
// break target, since Fly has an explicit break statement the teacher's
// source language lacked.
type loopLabels struct {
	continueTarget llvm.BasicBlock
	breakTarget    llvm.BasicBlock
}

// handleFrame is the redirection target installed by an enclosing handle
// block: a fail reached inside Body branches to safe instead of returning
// (§4.9).
type handleFrame struct {
	safe        llvm.BasicBlock
	bindingSlot llvm.Value // alloca'd %error* slot the handler's binding reads, or a nil llvm.Value if discarded
}

// frame holds one function/method/constructor's codegen state. Locals and
// Params are flattened up front (Function.Locals is already a flat list
// per §3 Invariants), so variable lookup is a decl-pointer map instead of
// the teacher's name-keyed scope stack: the resolver has already bound
// every Ref to an exact declaration, so there is no name shadowing left to
// resolve at this layer.
type frame struct {
	g *generator

	fn      llvm.Value
	errSlot llvm.Value // alloca'd %error* slot
	retType ast.Type

	paramSlots map[*ast.Parameter]llvm.Value
	localSlots map[*ast.LocalVar]llvm.Value

	receiverSlot  llvm.Value // alloca'd %C* slot, nil for free functions and struct methods
	receiverClass *ast.Class

	loops   []loopLabels
	handles []handleFrame
}

func (f *frame) pushLoop(l loopLabels)  { f.loops = append(f.loops, l) }
func (f *frame) popLoop()               { f.loops = f.loops[:len(f.loops)-1] }
func (f *frame) currentLoop() loopLabels {
	return f.loops[len(f.loops)-1]
}

func (f *frame) pushHandle(h handleFrame) { f.handles = append(f.handles, h) }
func (f *frame) popHandle()               { f.handles = f.handles[:len(f.handles)-1] }
func (f *frame) inHandle() bool           { return len(f.handles) > 0 }
func (f *frame) currentHandle() handleFrame {
	return f.handles[len(f.handles)-1]
}
