package irgen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"fly/src/ast"
)

// funcLinkage is a thin description of one lowered callable's shape: which
// LLVM value it becomes, what its Fly-level parameters/locals/body are, and
// whether it carries an implicit receiver — unifying free functions,
// ordinary methods and constructors behind one body-generation path.
type funcLinkage struct {
	fn       llvm.Value
	params   []*ast.Parameter
	locals   []*ast.LocalVar
	body     *ast.Block
	ret      ast.Type
	receiver *ast.Class // non-nil when arg1 is an implicit %C* receiver
}

// declareFreeFunction builds the LLVM function header for a module-level
// function: (%error*, <params>) -> ret (§4.9).
func (g *generator) declareFreeFunction(m *ast.Module, fn *ast.Function) (*funcLinkage, error) {
	name := fn.Name
	if name == "main" {
		// The emitted `main` symbol is the generated OS-entry wrapper
		// (irgen.go's declareMainWrapper); the user-written function moves
		// aside so both can coexist in one LLVM module (§4.9, §8 S5).
		name = "fly_main"
	} else {
		overloaded := namespaceFuncOverloaded(g.mods, m, fn.Name)
		name = mangle(fn.Name, overloaded, fn.ParamTypes())
	}

	ret, err := g.llType(fn.Ret)
	if err != nil {
		return nil, err
	}
	params := []llvm.Type{pointerTo(g.errorType)}
	for _, p := range fn.Params {
		pt, err := g.llType(p.Type)
		if err != nil {
			return nil, err
		}
		params = append(params, pt)
	}

	llfn := llvm.AddFunction(g.mod, name, llvm.FunctionType(ret, params, false))
	llfn.Param(0).SetName("err")
	for i, p := range fn.Params {
		llfn.Param(i + 1).SetName(p.Name)
	}

	g.funcVals[fn] = llfn
	return &funcLinkage{fn: llfn, params: fn.Params, locals: fn.Locals, body: fn.Body, ret: fn.Ret}, nil
}

// declareMethod builds the LLVM function header for an ordinary method:
// (%error*, %C*, <params>) -> ret, or (%error*, <params>) -> ret for a
// struct's static method (§4.6).
func (g *generator) declareMethod(c *ast.Class, m *ast.ClassMethod) (*funcLinkage, error) {
	base := g.classQualifiedName(c)
	overloaded := classMethodOverloaded(c, m.Name)
	name := unqualified(base) + "_" + mangle(m.Name, overloaded, m.ParamTypes())

	ft, err := g.methodFuncType(c, m)
	if err != nil {
		return nil, err
	}
	llfn := llvm.AddFunction(g.mod, name, ft)
	llfn.Param(0).SetName("err")
	argBase := 1
	if !c.IsStruct {
		llfn.Param(1).SetName("self")
		argBase = 2
	}
	for i, p := range m.Params {
		llfn.Param(argBase + i).SetName(p.Name)
	}

	g.funcVals[m] = llfn
	lk := &funcLinkage{fn: llfn, params: m.Params, locals: m.Locals, body: m.Body, ret: m.Ret}
	if !c.IsStruct {
		lk.receiver = c
	}
	return lk, nil
}

// declareConstructor builds the LLVM function header for a class/struct
// constructor: symbol `C_C` per §6, widened with the arity/type mangling
// suffix when the class declares more than one constructor.
func (g *generator) declareConstructor(c *ast.Class, ctor *ast.ClassMethod) (*funcLinkage, error) {
	base := unqualified(g.classQualifiedName(c))
	name := base + "_" + base
	if classCtorOverloaded(c) {
		name = mangle(name, true, ctor.ParamTypes())
	}

	selfType, err := g.classSelfPointerType(c)
	if err != nil {
		return nil, err
	}
	params := []llvm.Type{pointerTo(g.errorType), selfType}
	for _, p := range ctor.Params {
		pt, err := g.llType(p.Type)
		if err != nil {
			return nil, err
		}
		params = append(params, pt)
	}
	ft := llvm.FunctionType(llvm.VoidType(), params, false)
	llfn := llvm.AddFunction(g.mod, name, ft)
	llfn.Param(0).SetName("err")
	llfn.Param(1).SetName("self")
	for i, p := range ctor.Params {
		llfn.Param(2 + i).SetName(p.Name)
	}

	g.funcVals[ctor] = llfn
	return &funcLinkage{fn: llfn, params: ctor.Params, locals: ctor.Locals, body: ctor.Body, ret: ast.VoidType{}, receiver: c}, nil
}

// genFunctionBody emits the error-ABI prologue (§4.7) then lowers body.
func (g *generator) genFunctionBody(lk *funcLinkage) error {
	entry := llvm.AddBasicBlock(lk.fn, "entry")
	g.bld.SetInsertPointAtEnd(entry)

	fr := &frame{
		g:          g,
		fn:         lk.fn,
		retType:    lk.ret,
		paramSlots: make(map[*ast.Parameter]llvm.Value),
		localSlots: make(map[*ast.LocalVar]llvm.Value),
	}

	argIdx := 0
	errArg := lk.fn.Param(argIdx)
	argIdx++
	fr.errSlot = g.bld.CreateAlloca(pointerTo(g.errorType), "err.addr")
	g.bld.CreateStore(errArg, fr.errSlot)

	if lk.receiver != nil {
		recvArg := lk.fn.Param(argIdx)
		argIdx++
		fr.receiverSlot = g.bld.CreateAlloca(recvArg.Type(), "self.addr")
		g.bld.CreateStore(recvArg, fr.receiverSlot)
		fr.receiverClass = lk.receiver
	}

	for _, p := range lk.params {
		arg := lk.fn.Param(argIdx)
		argIdx++
		mt, err := g.llTypeMem(p.Type)
		if err != nil {
			return err
		}
		slot := g.bld.CreateAlloca(mt, p.Name+".addr")
		g.bld.CreateStore(g.coerceStore(p.Type, arg), slot)
		fr.paramSlots[p] = slot
	}

	for _, lv := range lk.locals {
		mt, err := g.llTypeMem(lv.Type)
		if err != nil {
			return err
		}
		fr.localSlots[lv] = g.bld.CreateAlloca(mt, lv.Name+".addr")
	}

	terminated, err := g.genBlock(fr, lk.body)
	if err != nil {
		return err
	}
	if !terminated {
		if err := g.genImplicitReturn(fr); err != nil {
			return err
		}
	}
	return nil
}

// genConstructorBody runs field-initializer stores (in declaration order)
// and the vtable-pointer write before the constructor's own body, per
// §4.1's defaulting policy applied to attributes and §4.8's "the class
// constructor writes &C_vtable_init into field 0".
func (g *generator) genConstructorBody(c *ast.Class, lk *funcLinkage) error {
	entry := llvm.AddBasicBlock(lk.fn, "entry")
	g.bld.SetInsertPointAtEnd(entry)

	fr := &frame{
		g:          g,
		fn:         lk.fn,
		retType:    ast.VoidType{},
		paramSlots: make(map[*ast.Parameter]llvm.Value),
		localSlots: make(map[*ast.LocalVar]llvm.Value),
	}

	argIdx := 0
	errArg := lk.fn.Param(argIdx)
	argIdx++
	fr.errSlot = g.bld.CreateAlloca(pointerTo(g.errorType), "err.addr")
	g.bld.CreateStore(errArg, fr.errSlot)

	selfArg := lk.fn.Param(argIdx)
	argIdx++
	fr.receiverSlot = g.bld.CreateAlloca(selfArg.Type(), "self.addr")
	g.bld.CreateStore(selfArg, fr.receiverSlot)
	fr.receiverClass = c

	for _, p := range lk.params {
		arg := lk.fn.Param(argIdx)
		argIdx++
		mt, err := g.llTypeMem(p.Type)
		if err != nil {
			return err
		}
		slot := g.bld.CreateAlloca(mt, p.Name+".addr")
		g.bld.CreateStore(g.coerceStore(p.Type, arg), slot)
		fr.paramSlots[p] = slot
	}
	for _, lv := range lk.locals {
		mt, err := g.llTypeMem(lv.Type)
		if err != nil {
			return err
		}
		fr.localSlots[lv] = g.bld.CreateAlloca(mt, lv.Name+".addr")
	}

	self := g.bld.CreateLoad(fr.receiverSlot, "self")
	if !c.IsStruct {
		vt, err := g.classVtableType(c)
		if err != nil {
			return err
		}
		init, err := g.classVtableInit(c, vt)
		if err != nil {
			return err
		}
		vtPtr := g.bld.CreateStructGEP(self, 0, "vtable.addr")
		g.bld.CreateStore(init, vtPtr)
	}
	for i, a := range c.Attrs {
		val, err := g.genExpr(fr, a.Init)
		if err != nil {
			return err
		}
		idx := c.FieldIndex(a)
		if idx < 0 {
			return fmt.Errorf("irgen: field %q not found on %s", a.Name, c.Name)
		}
		_ = i
		fieldPtr := g.bld.CreateStructGEP(self, idx, a.Name+".addr")
		g.bld.CreateStore(g.coerceStore(a.Type, val), fieldPtr)
	}

	terminated, err := g.genBlock(fr, lk.body)
	if err != nil {
		return err
	}
	if !terminated {
		g.bld.CreateRetVoid()
	}
	return nil
}

// classVtableInit builds (declaring once, lazily, as an internal global) the
// constant vtable aggregate `@C_vtable_init` and returns a pointer to it.
func (g *generator) classVtableInit(c *ast.Class, vt llvm.Type) (llvm.Value, error) {
	name := g.classQualifiedName(c) + "_vtable_init"
	if existing := g.mod.NamedGlobal(name); !existing.IsNil() {
		return existing, nil
	}
	slots := make([]llvm.Value, 0, len(c.Methods))
	for _, m := range c.Methods {
		fv, ok := g.funcVals[m]
		if !ok {
			return llvm.Value{}, fmt.Errorf("irgen: method %q not yet declared", m.Name)
		}
		slots = append(slots, fv)
	}
	init := llvm.ConstNamedStruct(vt, slots)
	gv := llvm.AddGlobal(g.mod, vt, name)
	gv.SetInitializer(init)
	gv.SetGlobalConstant(true)
	gv.SetLinkage(llvm.InternalLinkage)
	return gv, nil
}

// genImplicitReturn emits the fallthrough return a block without an
// explicit Return statement needs: the per-type default for a non-void
// function, a bare ret for void.
func (g *generator) genImplicitReturn(fr *frame) error {
	if _, ok := fr.retType.(ast.VoidType); ok {
		g.bld.CreateRetVoid()
		return nil
	}
	zero, err := g.genDefaultValue(fr.retType)
	if err != nil {
		return err
	}
	g.bld.CreateRet(zero)
	return nil
}
