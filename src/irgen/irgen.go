package irgen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tinygo.org/x/go-llvm"

	"fly/src/ast"
	"fly/src/util"
)

// Lower builds one llvm.Module from a resolved set of modules, sequentially
// and without goroutines (§5): declare every type, global, function/method/
// constructor header across all modules first (so forward references within
// and across modules resolve), materialize enum entries so bodies can load
// them, then fill in every body, then emit the OS-entry main wrapper.
func Lower(opt util.Options, mods []*ast.Module) (llvm.Module, error) {
	g := newGenerator(opt, mods)
	defer g.dispose()

	if err := g.declareTypes(mods); err != nil {
		return llvm.Module{}, err
	}
	if err := g.declareGlobals(mods); err != nil {
		return llvm.Module{}, err
	}
	headers, err := g.declareHeaders(mods)
	if err != nil {
		return llvm.Module{}, err
	}
	for _, m := range mods {
		for _, e := range m.Enums {
			if err := g.declareEnumEntries(e); err != nil {
				return llvm.Module{}, err
			}
		}
	}
	if err := g.genBodies(headers); err != nil {
		return llvm.Module{}, err
	}
	if err := g.declareMainWrapper(mods); err != nil {
		return llvm.Module{}, err
	}

	if opt.Verbose {
		fmt.Println(g.mod.String())
	}
	return g.mod, nil
}

// declareTypes pre-declares every class and enum's named struct type so a
// field or parameter referencing a type declared later in iteration order
// still resolves (classSelfPointerType and classVtableType guard against
// re-declaration through their own caches).
func (g *generator) declareTypes(mods []*ast.Module) error {
	for _, m := range mods {
		for _, c := range m.Classes {
			if _, err := g.classSelfPointerType(c); err != nil {
				return fmt.Errorf("irgen: declaring type %s: %w", c.Name, err)
			}
		}
		for _, e := range m.Enums {
			if _, err := g.declareEnumType(e); err != nil {
				return fmt.Errorf("irgen: declaring type %s: %w", e.Name, err)
			}
		}
	}
	return nil
}

// declareGlobals adds every module-level variable as an LLVM global with
// its default-or-literal constant initializer (§4.1).
func (g *generator) declareGlobals(mods []*ast.Module) error {
	for _, m := range mods {
		for _, gv := range m.Globals {
			mt, err := g.llTypeMem(gv.Type)
			if err != nil {
				return fmt.Errorf("irgen: global %s: %w", gv.Name, err)
			}
			name := qualifiedName(m, gv.Name)
			llg := llvm.AddGlobal(g.mod, mt, name)

			var init ast.Value
			if v, ok := gv.Init.(*ast.ValueExpr); ok {
				init = v.Value
			} else {
				init = ast.Default(gv.Type, gv.Pos())
			}
			cv, err := g.genValue(init, gv.Type)
			if err != nil {
				return fmt.Errorf("irgen: global %s initializer: %w", gv.Name, err)
			}
			llg.SetInitializer(g.coerceStore(gv.Type, cv))
			if !gv.Scopes.IsPublic() {
				llg.SetLinkage(llvm.InternalLinkage)
			}
			g.globalVals[gv] = llg
		}
	}
	return nil
}

// pendingBody pairs a declared function linkage with however its body must
// be generated (genFunctionBody vs genConstructorBody needs the owning
// class).
type pendingBody struct {
	lk    *funcLinkage
	class *ast.Class // non-nil only for a constructor
}

// declareHeaders emits every callable's LLVM function signature across all
// modules before any body is generated, matching the teacher's two-pass
// genFuncHeader/genFuncBody split so calls and `new` expressions appearing
// anywhere can already find their target in g.funcVals.
func (g *generator) declareHeaders(mods []*ast.Module) ([]pendingBody, error) {
	var out []pendingBody
	for _, m := range mods {
		for _, fn := range m.Funcs {
			lk, err := g.declareFreeFunction(m, fn)
			if err != nil {
				return nil, fmt.Errorf("irgen: function %s: %w", fn.Name, err)
			}
			out = append(out, pendingBody{lk: lk})
		}
		for _, c := range m.Classes {
			for _, meth := range c.Methods {
				lk, err := g.declareMethod(c, meth)
				if err != nil {
					return nil, fmt.Errorf("irgen: method %s.%s: %w", c.Name, meth.Name, err)
				}
				out = append(out, pendingBody{lk: lk})
			}
			for _, ctor := range c.Ctors {
				lk, err := g.declareConstructor(c, ctor)
				if err != nil {
					return nil, fmt.Errorf("irgen: constructor for %s: %w", c.Name, err)
				}
				out = append(out, pendingBody{lk: lk, class: c})
			}
		}
	}
	return out, nil
}

func (g *generator) genBodies(headers []pendingBody) error {
	for _, h := range headers {
		if h.class != nil {
			if err := g.genConstructorBody(h.class, h.lk); err != nil {
				return fmt.Errorf("irgen: constructor body for %s: %w", h.class.Name, err)
			}
			continue
		}
		if err := g.genFunctionBody(h.lk); err != nil {
			return fmt.Errorf("irgen: function body: %w", err)
		}
	}
	return nil
}

// declareMainWrapper emits the parameterless OS-entry `main`, the sole
// exception to the error-ABI's leading %error* parameter (§4.9): it
// allocates and zeroes an %error locally, calls the user's `main` (lowered
// as `fly_main`) with its address, and returns whether a failure was
// recorded.
func (g *generator) declareMainWrapper(mods []*ast.Module) error {
	flyMain := g.mod.NamedFunction("fly_main")
	if flyMain.IsNil() {
		// No user-defined main in this module set (e.g. a library build);
		// nothing to wrap.
		return nil
	}

	ft := llvm.FunctionType(llvm.Int32Type(), nil, false)
	main := llvm.AddFunction(g.mod, "main", ft)
	entry := llvm.AddBasicBlock(main, "entry")
	g.bld.SetInsertPointAtEnd(entry)

	errSlot := g.bld.CreateAlloca(g.errorType, "error")
	zero := llvm.ConstNull(g.errorType)
	g.bld.CreateStore(zero, errSlot)

	g.bld.CreateCall(flyMain, []llvm.Value{errSlot}, "")

	kindPtr := g.bld.CreateStructGEP(errSlot, 0, "kind.addr")
	kind := g.bld.CreateLoad(kindPtr, "kind")
	failed := g.bld.CreateICmp(llvm.IntNE, kind, llvm.ConstInt(llvm.Int8Type(), 0, false), "failed")
	code := g.bld.CreateZExt(failed, llvm.Int32Type(), "code")
	g.bld.CreateRet(code)
	return nil
}

// EmitObject lowers mod to machine code for the target described by opt and
// writes it to opt.Out (or a name derived from opt.Src), mirroring the
// teacher's object-emission tail of GenLLVM. When opt.EmitIR is set it
// writes textual LLVM IR instead.
func EmitObject(mod llvm.Module, opt util.Options) error {
	llvm.InitializeAllTargetInfos()
	llvm.InitializeAllTargetMCs()
	llvm.InitializeAllAsmParsers()
	llvm.InitializeAllAsmPrinters()

	out := opt.Out
	if out == "" {
		base := strings.TrimSuffix(filepath.Base(opt.Src), filepath.Ext(opt.Src))
		if opt.EmitIR {
			out = fmt.Sprintf("./%s.ll", base)
		} else {
			out = fmt.Sprintf("./%s.o", base)
		}
	}

	if opt.EmitIR {
		return os.WriteFile(out, []byte(mod.String()), 0644)
	}

	t, tt, err := targetTriple(opt)
	if err != nil {
		return err
	}
	tm := t.CreateTargetMachine(tt, cpuFor(opt), "",
		llvm.CodeGenLevelNone,
		llvm.RelocDefault,
		llvm.CodeModelDefault)
	defer tm.Dispose()

	td := tm.CreateTargetData()
	defer td.Dispose()
	mod.SetDataLayout(td.String())
	mod.SetTarget(tm.Triple())

	buf, err := tm.EmitToMemoryBuffer(mod, llvm.ObjectFile)
	if err != nil {
		return err
	}
	if buf.IsNil() {
		return errors.New("irgen: could not emit compiled code to memory")
	}
	return os.WriteFile(out, buf.Bytes(), 0755)
}
