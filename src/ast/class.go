package ast

// Class represents both classes and structs (§4.6): a struct is a Class with
// IsStruct set, whose vtable slot is omitted and whose Methods, if any, are
// static free functions with no implicit receiver. A method added to a
// struct gets no vtable slot; the builder reports no diagnostic for it.
type Class struct {
	P       Pos
	Name    string
	Scopes  Scopes
	Super   *IdentityType // nil if no explicit superclass
	IsStruct bool
	Attrs   []*ClassAttribute
	Ctors   []*ClassMethod // constructors; always at least one after the builder's synthesis (§3 Invariants)
	Methods []*ClassMethod
	Comment string
}

func (c *Class) Pos() Pos            { return c.P }
func (c *Class) DeclName() string     { return c.Name }
func (*Class) declNode()             {}
func (c *Class) IdentityKind() IdentityKind {
	if c.IsStruct {
		return IdentityStruct
	}
	return IdentityClass
}
func (c *Class) IdentityName() string { return c.Name }

// FieldIndex returns the declaration-order index of the field holding attr,
// used by irgen's GEP emission for class layout (§4.6: "{ vtable*, field0,
// field1, … }"). Structs omit the vtable slot so their field0 starts at
// index 0 instead of 1.
func (c *Class) FieldIndex(attr *ClassAttribute) int {
	base := 0
	if !c.IsStruct {
		base = 1 // slot 0 is the vtable pointer
	}
	for i, a := range c.Attrs {
		if a == attr {
			return base + i
		}
	}
	return -1
}

// ClassAttribute is a typed field of a class or struct.
type ClassAttribute struct {
	P       Pos
	Name    string
	Scopes  Scopes
	Type    Type
	Init    Expr // synthesized default if omitted, per §4.1
	Comment string
}

func (a *ClassAttribute) Pos() Pos        { return a.P }
func (a *ClassAttribute) DeclName() string { return a.Name }
func (*ClassAttribute) declNode()         {}

// MethodKind distinguishes a constructor from an ordinary method; both share
// the ClassMethod shape because both receive the implicit error-pointer and
// (for classes) receiver parameters (§4.6, §4.9).
type MethodKind int

const (
	MethodOrdinary MethodKind = iota
	MethodConstructor
)

// ClassMethod is a method or constructor. IsAutoDefault marks the
// builder-synthesized zero-argument constructor that is removed the first
// time a user constructor is added (§3 Invariants, §4.4 Edge cases).
type ClassMethod struct {
	P            Pos
	Name         string
	Kind         MethodKind
	Scopes       Scopes
	Params       []*Parameter
	Ret          Type
	Body         *Block
	Locals       []*LocalVar
	Comment      string
	IsAutoDefault bool
	// VtableSlot is this method's index in the class vtable, assigned in
	// declaration order (§4.8). Constructors and struct methods have no
	// vtable slot and leave this at -1.
	VtableSlot int
}

func (m *ClassMethod) Pos() Pos        { return m.P }
func (m *ClassMethod) DeclName() string { return m.Name }
func (*ClassMethod) declNode()         {}

func (m *ClassMethod) ParamTypes() []Type {
	out := make([]Type, len(m.Params))
	for i, p := range m.Params {
		out[i] = p.Type
	}
	return out
}
