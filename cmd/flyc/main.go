// Command flyc is the Fly compiler driver: it reads one or more source
// files, builds their AST via the external front end registered in
// fly/src/frontend, resolves the combined module set, and lowers it to
// LLVM IR/object code via fly/src/irgen.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"fly/src/ast"
	"fly/src/builder"
	"fly/src/diag"
	"fly/src/frontend"
	"fly/src/irgen"
	"fly/src/resolver"
	"fly/src/util"
)

// config mirrors the subset of util.Options a project can pin in a
// fly.yaml file instead of repeating on every invocation.
type config struct {
	Out        string `yaml:"out"`
	Verbose    bool   `yaml:"verbose"`
	TargetArch string `yaml:"target_arch"`
	TargetOS   string `yaml:"target_os"`
}

func loadConfig(path string) (config, error) {
	var c config
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parsing %s: %w", path, err)
	}
	return c, nil
}

func archFromName(name string) int {
	switch name {
	case "aarch64":
		return util.Aarch64
	case "riscv64":
		return util.Riscv64
	case "riscv32":
		return util.Riscv32
	case "x86_64":
		return util.X86_64
	case "x86_32":
		return util.X86_32
	default:
		return util.UnknownArch
	}
}

func osFromName(name string) int {
	switch name {
	case "linux":
		return util.Linux
	case "windows":
		return util.Windows
	case "mac":
		return util.MAC
	default:
		return util.UnknownOS
	}
}

var (
	flagOut        string
	flagVerbose    bool
	flagEmitIR     bool
	flagTargetArch string
	flagTargetOS   string
	flagConfig     string
)

func buildOptions(src string) (util.Options, error) {
	cfg, err := loadConfig(flagConfig)
	if err != nil {
		return util.Options{}, err
	}

	opt := util.Options{
		Src:     src,
		Out:     cfg.Out,
		Verbose: cfg.Verbose,
	}
	if flagOut != "" {
		opt.Out = flagOut
	}
	if flagVerbose {
		opt.Verbose = true
	}
	opt.EmitIR = flagEmitIR

	archName := cfg.TargetArch
	if flagTargetArch != "" {
		archName = flagTargetArch
	}
	osName := cfg.TargetOS
	if flagTargetOS != "" {
		osName = flagTargetOS
	}
	opt.TargetArch = archFromName(archName)
	opt.TargetOS = osFromName(osName)
	return opt, nil
}

// parseAll drives frontend.Registered once per source path, collecting
// every produced module into one slice for resolver.Resolve/irgen.Lower.
// cmd/flyc is the one layer allowed to parallelize across files (§5's
// carve-out); parsing here stays sequential since the external front end
// contract doesn't promise goroutine safety for a shared builder.
func parseAll(sink *diag.Sink, paths []string) ([]*ast.Module, error) {
	if frontend.Registered == nil {
		return nil, fmt.Errorf("no front end is registered: flyc ships the AST/symbol model, resolver and IR lowering only")
	}
	var all []*ast.Module
	for _, path := range paths {
		src, err := util.ReadSource(util.Options{Src: path})
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		b := builder.New(sink)
		mods, err := frontend.Registered(src, b)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		all = append(all, mods...)
	}
	return all, nil
}

func printDiagnostics(sink *diag.Sink) {
	for _, d := range sink.Entries() {
		line := fmt.Sprintf("%s: %s at %s: %s", d.Severity, d.Code, d.Pos, d.Message)
		switch d.Severity {
		case diag.Fatal, diag.Error:
			color.Red(line)
		case diag.Warning:
			color.Yellow(line)
		default:
			color.Cyan(line)
		}
	}
}

// resolveAll runs the build/validate/resolve, exact to resolver.Resolve,
// returning an error when any Error/Fatal diagnostic was recorded so
// callers never lower a module set with unresolved references.
func resolveAll(paths []string) ([]*ast.Module, *diag.Sink, error) {
	sink := diag.NewSink()
	mods, err := parseAll(sink, paths)
	if err != nil {
		return nil, sink, err
	}
	if err := resolver.Resolve(sink, mods); err != nil {
		return mods, sink, err
	}
	if sink.HasErrors() {
		n := 0
		for _, e := range sink.Entries() {
			if e.Severity == diag.Error || e.Severity == diag.Fatal {
				n++
			}
		}
		return mods, sink, fmt.Errorf("%d error(s) reported", n)
	}
	return mods, sink, nil
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [files...]",
		Short: "Parse and resolve sources, reporting diagnostics without generating code",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sink, err := resolveAll(args)
			printDiagnostics(sink)
			return err
		},
	}
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [files...]",
		Short: "Compile sources to an object file (or LLVM IR with --emit-llvm)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mods, sink, err := resolveAll(args)
			printDiagnostics(sink)
			if err != nil {
				return err
			}

			opt, err := buildOptions(args[0])
			if err != nil {
				return err
			}
			mod, err := irgen.Lower(opt, mods)
			if err != nil {
				return fmt.Errorf("code generation: %w", err)
			}
			if err := irgen.EmitObject(mod, opt); err != nil {
				return fmt.Errorf("emitting output: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flagOut, "out", "", "output file path")
	cmd.Flags().BoolVar(&flagEmitIR, "emit-llvm", false, "emit textual LLVM IR instead of an object file")
	cmd.Flags().StringVar(&flagTargetArch, "target-arch", "", "target architecture (x86_64, x86_32, aarch64, riscv64, riscv32)")
	cmd.Flags().StringVar(&flagTargetOS, "target-os", "", "target operating system (linux, windows, mac)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print flyc's version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(util.AppVersion)
		},
	}
}

func main() {
	root := &cobra.Command{
		Use:   "flyc",
		Short: "The Fly compiler",
	}
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "print the generated LLVM IR and target triple")
	root.PersistentFlags().StringVar(&flagConfig, "config", "fly.yaml", "path to a fly.yaml config file")
	root.AddCommand(newBuildCmd(), newCheckCmd(), newVersionCmd())

	if err := root.Execute(); err != nil {
		color.Red(err.Error())
		os.Exit(1)
	}
}
