package irgen

import (
	"tinygo.org/x/go-llvm"

	"fly/src/ast"
)

// declareEnumType lowers an enum to a one-field named struct holding its
// backing uint (§4.6: "an identity with a private uint field and a private
// constructor taking that uint").
func (g *generator) declareEnumType(e *ast.Enum) (llvm.Type, error) {
	name := g.enumQualifiedName(e)
	st := g.ctx.StructCreateNamed(name)
	st.StructSetBody([]llvm.Type{llvm.Int32Type()}, false)
	g.identityType[name] = st
	return st, nil
}

// declareEnumEntries materializes each entry as an internal constant
// initialized by calling the enum's constructor with its 1-based ordinal
// (§4.6). The entries are emitted as module-level globals so a VarRef to
// EnumName.Entry loads a stable address.
func (g *generator) declareEnumEntries(e *ast.Enum) error {
	name := g.enumQualifiedName(e)
	st, ok := g.identityType[name]
	if !ok {
		var err error
		if st, err = g.declareEnumType(e); err != nil {
			return err
		}
	}
	for _, entry := range e.Entries {
		ordinal := e.Ordinal(entry)
		init := llvm.ConstNamedStruct(st, []llvm.Value{llvm.ConstInt(llvm.Int32Type(), uint64(ordinal), false)})
		gv := llvm.AddGlobal(g.mod, st, name+"_"+entry.Name)
		gv.SetInitializer(init)
		gv.SetGlobalConstant(true)
		gv.SetLinkage(llvm.InternalLinkage)
		g.enumEntryVals[entry] = gv
	}
	return nil
}
