// Package irgen lowers a resolved set of ast.Modules into an LLVM module,
// per spec.md §4.6-4.9: class/struct/enum layout, the error-handling ABI,
// and deterministic per-module statement/expression codegen. It is the
// sole consumer of tinygo.org/x/go-llvm in this repository.
package irgen

import (
	"fmt"
	"strings"

	"tinygo.org/x/go-llvm"

	"fly/src/util"
)

// targetTriple builds the LLVM target triple string from opt, falling back
// to the host default when no architecture was requested.
func targetTriple(opt util.Options) (llvm.Target, string, error) {
	if opt.TargetArch == util.UnknownArch {
		triple := llvm.DefaultTargetTriple()
		if opt.Verbose {
			fmt.Printf("compiling for target %s\n", triple)
		}
		llvm.InitializeAllTargets()
		tt, err := llvm.GetTargetFromTriple(triple)
		return tt, triple, err
	}

	sb := strings.Builder{}
	sb.Grow(24)

	switch opt.TargetArch {
	case util.Aarch64:
		sb.WriteString("aarch64")
	case util.Riscv64:
		sb.WriteString("riscv64")
	case util.Riscv32:
		sb.WriteString("riscv32")
	case util.X86_64:
		sb.WriteString("x86_64")
	case util.X86_32:
		sb.WriteString("x86")
	default:
		return llvm.Target{}, "", fmt.Errorf("unsupported target architecture identifier %d", opt.TargetArch)
	}
	sb.WriteRune('-')

	switch opt.TargetVendor {
	case util.Apple:
		sb.WriteString("apple")
	case util.IBM:
		sb.WriteString("ibm")
	case util.PC, util.UnknownVendor:
		sb.WriteString("pc")
	default:
		sb.WriteString("pc")
	}
	sb.WriteRune('-')

	switch opt.TargetOS {
	case util.Linux:
		sb.WriteString("linux")
	case util.Windows:
		sb.WriteString("win32")
	case util.MAC:
		sb.WriteString("darwin")
	default:
		sb.WriteString("none")
	}
	sb.WriteRune('-')
	sb.WriteString("gnu")

	triple := sb.String()
	if opt.Verbose {
		fmt.Printf("compiling for target %s\n", triple)
	}

	llvm.InitializeAllTargets()
	tt, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return llvm.Target{}, "", err
	}
	return tt, triple, nil
}

// cpuFor reports the CreateTargetMachine cpu string for opt's architecture.
func cpuFor(opt util.Options) string {
	switch opt.TargetArch {
	case util.Riscv64:
		return "generic-rv64"
	case util.Riscv32:
		return "generic-rv32"
	default:
		return "generic"
	}
}
