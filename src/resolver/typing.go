package resolver

import (
	"strconv"

	"fly/src/ast"
	"fly/src/diag"
)

// typeOfValue implements §4.4's literal typing rule: integers get the
// smallest signed (or, failing that, unsigned) width that holds their
// magnitude; floats are Double, narrowable to Float by context later;
// Bool/String/Char get their direct built-in type.
func (r *Resolver) typeOfValue(v ast.Value, pos diag.Position) ast.Type {
	switch val := v.(type) {
	case ast.BoolValue:
		return ast.BoolType{P: pos}
	case ast.IntegerValue:
		return r.typeOfInteger(val, pos)
	case ast.FloatingValue:
		return ast.FloatType{P: pos, Bits: 64}
	case ast.CharValue:
		return ast.IntType{P: pos, Bits: 8, Signed: false}
	case ast.StringValue:
		return ast.StringType{P: pos}
	case ast.NullValue:
		return ast.VoidType{P: pos}
	case ast.ZeroValue:
		return val.T
	default:
		return ast.VoidType{P: pos}
	}
}

func (r *Resolver) typeOfInteger(v ast.IntegerValue, pos diag.Position) ast.Type {
	mag, err := strconv.ParseUint(v.Text, v.Radix, 64)
	if err != nil {
		r.sink.Report(diag.Error, diag.IntMaxOverflow, pos, "integer literal %q overflows 64 bits", v.Text)
		return ast.IntType{P: pos, Bits: 64, Signed: true}
	}
	if v.Negative {
		// MIN_LONG (-9223372036854775808) is the single value whose
		// magnitude equals 1<<63 and is still representable; anything
		// larger is the §8/§4.4 "literal -MIN_LONG overflows" edge case.
		const minLongMag = uint64(1) << 63
		if mag > minLongMag {
			r.sink.Report(diag.Error, diag.IntMinOverflow, pos, "negative integer literal %q overflows 64 bits", v.Text)
			return ast.IntType{P: pos, Bits: 64, Signed: true}
		}
		for _, bits := range []int{8, 16, 32, 64} {
			limit := uint64(1) << uint(bits-1)
			if mag <= limit {
				return ast.IntType{P: pos, Bits: bits, Signed: true}
			}
		}
		return ast.IntType{P: pos, Bits: 64, Signed: true}
	}
	for _, bits := range []int{8, 16, 32, 64} {
		limit := uint64(1)<<uint(bits-1) - 1
		if mag <= limit {
			return ast.IntType{P: pos, Bits: bits, Signed: true}
		}
	}
	// Doesn't fit in a signed 64-bit type: widen to unsigned 64.
	return ast.IntType{P: pos, Bits: 64, Signed: false}
}

// commonType chooses the result type of a ternary or a mixed binary
// comparison once both operand categories match, per §4.4: the literal
// side promotes to the variable side's type; if both are literals, the
// wider one wins.
func commonType(a, b ast.Type, aLiteral, bLiteral bool) ast.Type {
	if aLiteral && !bLiteral {
		return b
	}
	if bLiteral && !aLiteral {
		return a
	}
	return widerType(a, b)
}

func widerType(a, b ast.Type) ast.Type {
	switch at := a.(type) {
	case ast.IntType:
		if bt, ok := b.(ast.IntType); ok && bt.Bits > at.Bits {
			return bt
		}
		return at
	case ast.FloatType:
		if bt, ok := b.(ast.FloatType); ok && bt.Bits > at.Bits {
			return bt
		}
		return at
	default:
		return a
	}
}

func isLiteral(e ast.Expr) bool {
	_, ok := e.(*ast.ValueExpr)
	return ok
}
