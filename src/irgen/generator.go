package irgen

import (
	"tinygo.org/x/go-llvm"

	"fly/src/ast"
	"fly/src/util"
)

// generator carries every piece of state shared across one Lower call: the
// LLVM context/module/builder, named-type caches keyed by qualified name,
// and lowered-symbol lookup tables. One generator serves the whole module
// set handed to Lower, mirroring the teacher's single llvm.Module per
// compilation but built sequentially (§5).
type generator struct {
	opt util.Options

	ctx llvm.Context
	mod llvm.Module
	bld llvm.Builder

	errorType    llvm.Type // named %error = type { i8, i32, i8* }
	identityType map[string]llvm.Type // qualified name -> named struct type
	vtableType   map[string]llvm.Type // class qualified name -> %C_vtable type

	classByName map[string]*ast.Class // qualified name -> declaration
	enumByName  map[string]*ast.Enum

	classOwner map[*ast.Class]*ast.Module
	enumOwner  map[*ast.Enum]*ast.Module
	funcOwner  map[*ast.Function]*ast.Module

	funcVals   map[ast.Decl]llvm.Value // *ast.Function / *ast.ClassMethod -> LLVM function
	globalVals map[*ast.GlobalVar]llvm.Value
	enumEntryVals map[*ast.EnumEntry]llvm.Value

	mods []*ast.Module
}

func newGenerator(opt util.Options, mods []*ast.Module) *generator {
	ctx := llvm.NewContext()
	mod := ctx.NewModule(moduleName(mods))

	g := &generator{
		opt:          opt,
		ctx:          ctx,
		mod:          mod,
		bld:          ctx.NewBuilder(),
		identityType: make(map[string]llvm.Type),
		vtableType:   make(map[string]llvm.Type),
		classByName:  make(map[string]*ast.Class),
		enumByName:   make(map[string]*ast.Enum),
		classOwner:   make(map[*ast.Class]*ast.Module),
		enumOwner:    make(map[*ast.Enum]*ast.Module),
		funcOwner:    make(map[*ast.Function]*ast.Module),
		funcVals:     make(map[ast.Decl]llvm.Value),
		globalVals:   make(map[*ast.GlobalVar]llvm.Value),
		enumEntryVals: make(map[*ast.EnumEntry]llvm.Value),
		mods:         mods,
	}

	for _, m := range mods {
		for _, c := range m.Classes {
			g.classOwner[c] = m
			g.classByName[qualifiedName(m, c.Name)] = c
		}
		for _, e := range m.Enums {
			g.enumOwner[e] = m
			g.enumByName[qualifiedName(m, e.Name)] = e
		}
		for _, f := range m.Funcs {
			g.funcOwner[f] = m
		}
	}

	g.errorType = ctx.StructCreateNamed("error")
	g.errorType.StructSetBody([]llvm.Type{
		llvm.Int8Type(),
		llvm.Int32Type(),
		llvm.PointerType(llvm.Int8Type(), 0),
	}, false)

	return g
}

func (g *generator) dispose() {
	g.bld.Dispose()
}

// qualifiedName joins mod's namespace path with a local name the way
// symtab.Registry.AddModule does when it keys classes, so irgen's class
// lookups agree with the resolver's.
func qualifiedName(mod *ast.Module, name string) string {
	if mod.Space == nil || mod.Space.Path == "" {
		return name
	}
	return mod.Space.Path + "." + name
}

// moduleName picks the LLVM module's own name: the first input module's
// name, or a fixed fallback if none was given (e.g. an empty Lower call in
// a unit test).
func moduleName(mods []*ast.Module) string {
	for _, m := range mods {
		if m.Name != "" {
			return m.Name
		}
	}
	return "fly"
}

// classQualifiedName resolves the qualified name for a class the
// generator already indexed by ownership.
func (g *generator) classQualifiedName(c *ast.Class) string {
	if m, ok := g.classOwner[c]; ok {
		return qualifiedName(m, c.Name)
	}
	return c.Name
}

func (g *generator) enumQualifiedName(e *ast.Enum) string {
	if m, ok := g.enumOwner[e]; ok {
		return qualifiedName(m, e.Name)
	}
	return e.Name
}
