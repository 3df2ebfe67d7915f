package ast

// RefKind tags what a Ref resolves to, per §3 References.
type RefKind int

const (
	RefUnresolved RefKind = iota
	RefVarLocal
	RefVarParam
	RefVarGlobal
	RefVarAttribute
	RefVarEnumEntry
	RefCall
	RefTypeName
)

func (k RefKind) String() string {
	switch k {
	case RefVarLocal:
		return "local"
	case RefVarParam:
		return "param"
	case RefVarGlobal:
		return "global"
	case RefVarAttribute:
		return "attribute"
	case RefVarEnumEntry:
		return "enum-entry"
	case RefCall:
		return "call"
	case RefTypeName:
		return "type"
	default:
		return "unresolved"
	}
}

// Ref is a dotted identifier, optionally namespace-qualified, that the
// resolver binds to exactly one declaration (§3 Invariants: "A Ref is never
// partially resolved"). Parent holds the receiver/namespace that precedes the
// final segment, forming the linked chain described in §3.
type Ref struct {
	P        Pos
	Name     string
	Parent   *Ref // receiver or namespace qualifier, nil for a bare name
	Kind     RefKind
	Def      Decl // filled by the resolver; nil until resolved
}

func (r *Ref) Pos() Pos { return r.P }

// Resolved reports whether the resolver has bound this Ref to a declaration.
func (r *Ref) Resolved() bool { return r.Def != nil }

// Qualified reports whether this Ref was written with a namespace/receiver
// prefix.
func (r *Ref) Qualified() bool { return r.Parent != nil }
