// Package diag provides the categorical diagnostic sink shared by the builder,
// resolver and IR lowering stages: a stream of note/warning/error/fatal entries,
// each carrying a stable id and a source position, that never unwinds the call
// stack. Non-fatal diagnostics accumulate so a single run can surface more than
// one problem; a Fatal entry is a signal to the caller to abort the current
// module.
package diag

import "fmt"

// Severity classifies a Diagnostic.
type Severity int

const (
	Note Severity = iota
	Warning
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Note:
		return "note"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Code is a stable diagnostic id, per spec §7. Names are illustrative; callers
// should match on Code, never on the formatted message text.
type Code string

// Stable diagnostic ids, taken verbatim from spec §7.
const (
	ModuleDuplicated    Code = "module_duplicated"
	NamespaceEmpty      Code = "namespace_empty"
	IdentifierEmpty     Code = "identifier_empty"
	ImportUndefined     Code = "import_undefined"
	NamespaceNotFound   Code = "namespace_not_found"
	DuplicateGlobal     Code = "duplicate_global"
	DuplicateFunction   Code = "duplicate_function"
	DuplicateParam      Code = "duplicate_param"
	DuplicateLocal      Code = "duplicate_local"
	UnrefVar            Code = "unref_var"
	UnrefCall           Code = "unref_call"
	UnrefType           Code = "unref_type"
	TypeConvert         Code = "type_convert"
	TypeArith           Code = "type_arith"
	TypeLogical         Code = "type_logical"
	TypeComparable      Code = "type_comparable"
	IntMinOverflow      Code = "int_min_overflow"
	IntMaxOverflow      Code = "int_max_overflow"
	EmptyExpr           Code = "empty_expr"
	ClassFieldRedeclare Code = "class_field_redeclare"
	ClassMethodRedecl   Code = "class_method_redeclare"
	ClassEnumExpr       Code = "class_enum_expr"
	EnumVar             Code = "enum_var"
)

// Position is a source location, shared by ast and diag so neither package
// needs to import the other's node types.
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Pos      Position
	Message  string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s at %s: %s", d.Severity, d.Code, d.Pos, d.Message)
}

// Sink accumulates diagnostics in report order. It is not safe for concurrent
// use from multiple goroutines — per the single-threaded core, one Sink is
// owned by one module's compilation.
type Sink struct {
	entries []Diagnostic
	fatal   bool
}

// NewSink returns an empty Sink.
func NewSink() *Sink {
	return &Sink{entries: make([]Diagnostic, 0, 8)}
}

// Report appends a diagnostic. Reporting a Fatal diagnostic marks the sink so
// Aborted reports true; the caller is responsible for actually stopping.
func (s *Sink) Report(sev Severity, code Code, pos Position, format string, args ...interface{}) Diagnostic {
	d := Diagnostic{Severity: sev, Code: code, Pos: pos, Message: fmt.Sprintf(format, args...)}
	s.entries = append(s.entries, d)
	if sev == Fatal {
		s.fatal = true
	}
	return d
}

// Errorf reports a plain Error-severity diagnostic and returns it as an error,
// for call sites that want to both record and immediately propagate.
func (s *Sink) Errorf(code Code, pos Position, format string, args ...interface{}) error {
	return s.Report(Error, code, pos, format, args...)
}

// Fatalf reports a Fatal diagnostic and returns it as an error.
func (s *Sink) Fatalf(code Code, pos Position, format string, args ...interface{}) error {
	return s.Report(Fatal, code, pos, format, args...)
}

// Aborted reports whether any Fatal diagnostic has been recorded.
func (s *Sink) Aborted() bool { return s.fatal }

// HasErrors reports whether any Error or Fatal diagnostic has been recorded.
func (s *Sink) HasErrors() bool {
	for _, e := range s.entries {
		if e.Severity == Error || e.Severity == Fatal {
			return true
		}
	}
	return false
}

// Entries returns all recorded diagnostics in report order.
func (s *Sink) Entries() []Diagnostic { return s.entries }

// Reset empties the sink, preserving its backing storage.
func (s *Sink) Reset() {
	s.entries = s.entries[:0]
	s.fatal = false
}
