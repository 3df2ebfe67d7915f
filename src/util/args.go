package util

// Options carries the compilation settings threaded from cmd/flyc down to
// the resolver and irgen packages. Target enums are adapted from the
// teacher's util.Options; the hand-rolled os.Args parser that used to
// populate this struct is replaced by cmd/flyc's cobra command tree.
type Options struct {
	Src     string // Path to source file.
	Out     string // Path to output object file.
	Verbose bool   // Print the generated LLVM IR, and the target triple when an object file is emitted, to stdout.
	EmitIR  bool   // Emit textual LLVM IR instead of an object file.

	TargetArch   int
	TargetVendor int
	TargetCPU    int
	TargetOS     int
}

// Target machine architectures.
const (
	UnknownArch = iota
	X86_64
	X86_32
	Aarch64
	Riscv64
	Riscv32
)

// Target operating system.
const (
	UnknownOS = iota
	Linux
	Windows
	MAC
)

// Target vendor.
const (
	UnknownVendor = iota
	Apple
	PC
	MIPS
	IBM
	SUSE
	AMD
)

// Target CPU.
const (
	CPUGeneric = iota
)

// AppVersion is printed by `flyc version`.
const AppVersion = "flyc 0.1.0"
