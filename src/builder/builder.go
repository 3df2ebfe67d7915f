// Package builder is the single entry point the parser (or, in this repo,
// a test fixture) uses to construct every AST node (§4.1). It enforces
// construction invariants synchronously — empty names rejected, scopes
// well-formed, module names unique — and emits diagnostics for local
// errors through a diag.Sink rather than returning Go errors, matching
// the rest of the front end's non-unwinding diagnostic style.
package builder

import (
	"fly/src/ast"
	"fly/src/diag"
)

// Builder accumulates AST nodes into their parent collections as they are
// created. It is not safe for concurrent use — one Builder serves one
// parse of one compilation unit set, consistent with §5's single-threaded
// core.
type Builder struct {
	sink     *diag.Sink
	interner *ast.Interner
	nextID   int
	comment  string // one-slot pending-comment buffer, per §4.1 "Comments"
	names    map[string]bool
}

func New(sink *diag.Sink) *Builder {
	return &Builder{
		sink:     sink,
		interner: ast.NewInterner(),
		names:    make(map[string]bool),
	}
}

// Comment stages text as the pending doc comment for the next declaration
// the builder creates. It is a one-slot buffer, overwritten (not appended
// to) by a second call, and emptied only when a declaration takes it or by
// ClearComment; building a non-declaration node leaves it in place, so
// callers that build one between a Comment call and the declaration must
// call ClearComment themselves.
func (b *Builder) Comment(text string) {
	b.comment = text
}

// ClearComment empties the pending-comment buffer without attaching it.
func (b *Builder) ClearComment() {
	b.comment = ""
}

func (b *Builder) takeComment() string {
	c := b.comment
	b.comment = ""
	return c
}

func (b *Builder) intern(name string) string {
	return b.interner.Intern(name)
}

// checkName rejects an empty identifier, per §4.1's "empty identifier"
// error; it reports through the sink and returns false rather than
// panicking, so callers can still produce a best-effort node.
func (b *Builder) checkName(pos ast.Pos, name string) bool {
	if name == "" {
		b.sink.Report(diag.Error, diag.IdentifierEmpty, pos, "identifier must not be empty")
		return false
	}
	return true
}

// checkScopes validates mutual exclusion of a Scopes value, per §4.1's
// "impossible scope combination" error: const and static are independent
// axes from Visibility and from each other, so the only impossible
// combination at this layer is an out-of-range Visibility value (a real
// parser could not produce one; a hand-built fixture could).
func (b *Builder) checkScopes(pos ast.Pos, s ast.Scopes) bool {
	switch s.Visibility {
	case ast.VisibilityDefault, ast.VisibilityPublic, ast.VisibilityPrivate:
		return true
	default:
		b.sink.Report(diag.Error, diag.ClassFieldRedeclare, pos, "impossible scope combination")
		return false
	}
}

// NewModule creates a module and binds its namespace path, per §3 and
// §4.1's "Duplicate module name" error.
func (b *Builder) NewModule(pos ast.Pos, name, namespacePath string) *ast.Module {
	b.checkName(pos, name)
	if b.names[name] {
		b.sink.Report(diag.Error, diag.ModuleDuplicated, pos, "module %q already declared", name)
	}
	b.names[name] = true
	b.nextID++
	m := &ast.Module{
		P:    pos,
		Id:   b.nextID,
		Name: b.intern(name),
		Space: &ast.NameSpace{P: pos, Path: b.intern(namespacePath)},
	}
	if namespacePath == "" {
		b.sink.Report(diag.Error, diag.NamespaceEmpty, pos, "namespace must not be empty")
	}
	return m
}

// NewImport appends an import to mod.
func (b *Builder) NewImport(mod *ast.Module, pos ast.Pos, path, alias string) *ast.Import {
	imp := &ast.Import{P: pos, Path: b.intern(path), Alias: alias}
	mod.Imports = append(mod.Imports, imp)
	return imp
}

// NewGlobalVar appends a global var to mod, synthesizing a default
// initializer when init is nil, per §4.1's Defaulting policy.
func (b *Builder) NewGlobalVar(mod *ast.Module, pos ast.Pos, name string, scopes ast.Scopes, t ast.Type, init ast.Expr) *ast.GlobalVar {
	b.checkName(pos, name)
	b.checkScopes(pos, scopes)
	if init == nil {
		init = ast.NewValueExpr(pos, ast.Default(t, pos), t)
	}
	g := &ast.GlobalVar{P: pos, Name: b.intern(name), Scopes: scopes, Type: t, Init: init, Comment: b.takeComment()}
	mod.Globals = append(mod.Globals, g)
	return g
}

// NewParameter creates a parameter; it is appended to the caller-owned
// Params slice by the caller of NewFunction/NewClassMethod rather than
// here, since a parameter has no single natural parent collection until
// the enclosing signature exists.
func (b *Builder) NewParameter(pos ast.Pos, name string, t ast.Type, def ast.Expr) *ast.Parameter {
	b.checkName(pos, name)
	return &ast.Parameter{P: pos, Name: b.intern(name), Type: t, Default: def}
}

// NewLocalVar creates a local var, to be attached to the enclosing
// Function/ClassMethod's Locals slice by the caller.
func (b *Builder) NewLocalVar(pos ast.Pos, name string, t ast.Type) *ast.LocalVar {
	b.checkName(pos, name)
	return &ast.LocalVar{P: pos, Name: b.intern(name), Type: t}
}

// NewFunction appends a free function to mod. Body/Locals are filled in by
// the caller via the statement/block builders before the function is
// considered complete.
func (b *Builder) NewFunction(mod *ast.Module, pos ast.Pos, name string, scopes ast.Scopes, params []*ast.Parameter, ret ast.Type) *ast.Function {
	b.checkName(pos, name)
	b.checkScopes(pos, scopes)
	fn := &ast.Function{
		P: pos, Name: b.intern(name), Scopes: scopes, Params: params, Ret: ret,
		Body: &ast.Block{}, Comment: b.takeComment(),
	}
	mod.Funcs = append(mod.Funcs, fn)
	return fn
}

// NewBlock creates an empty Block; append to it with the statement
// builders below.
func (b *Builder) NewBlock(pos ast.Pos) *ast.Block {
	return ast.NewBlock(pos)
}
