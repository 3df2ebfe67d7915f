package ast

import "fly/src/diag"

// Pos is the position type shared across every AST node; it is an alias of
// diag.Position so diagnostics can be raised directly from a node without a
// conversion at every call site.
type Pos = diag.Position
