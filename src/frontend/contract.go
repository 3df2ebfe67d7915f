// Package frontend documents the seam between an external lexer/parser and
// this repository's builder (§6): lexical and syntactic analysis are an
// external collaborator this repo does not ship.
package frontend

import (
	"fly/src/ast"
	"fly/src/builder"
)

// ParseFunc produces the module set for one source file by driving a
// builder.Builder. The builder package intentionally has no dependency on
// any concrete lexer/parser, so a real front end plugs in here rather than
// being wired into this repository.
type ParseFunc func(src string, b *builder.Builder) ([]*ast.Module, error)

// Registered holds the active ParseFunc. It is nil by default: this
// repository ships the AST/symbol model, resolver and IR lowering only,
// per spec.md's scope (§1) and Non-goals.
var Registered ParseFunc
