// Command rvsdgc is the RVSDG compiler's driver: it parses a .rvir
// source file, restructures and constructs its functions into an
// RVSDG, runs the optimization pipeline over the result, and prints the
// final graph. Arguments are scanned by hand over os.Args, matching the
// teacher CLI's preference for a small hand-rolled scanner over a flags
// package.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"rvsdgc/internal/construct"
	"rvsdgc/internal/errors"
	"rvsdgc/internal/frontend"
	"rvsdgc/internal/frontend/grammar"
	"rvsdgc/internal/opt"
	"rvsdgc/internal/rvsdg"
	"rvsdgc/internal/stats"
)

// exit codes per §6/§7: 0 success, 1 malformed/unsupported input, 2
// invariant violation, 3 resource exhaustion.
const (
	exitOK                 = 0
	exitMalformedInput     = 1
	exitInvariantViolation = 2
	exitResourceExhaustion = 3
)

type config struct {
	source          string
	output          string
	statsPath       string
	skipUnsupported bool
	optLevel        int
	noCNE           bool
	noInline        bool
	noPullIn        bool
	noFlatten       bool
	noDNE           bool
}

func main() {
	cfg, err := parseArgs(os.Args[1:])
	if err != nil {
		color.Red("rvsdgc: %s", err)
		os.Exit(exitMalformedInput)
	}
	os.Exit(run(cfg))
}

func parseArgs(args []string) (*config, error) {
	cfg := &config{optLevel: 1}
	var positional []string

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch a {
		case "-O0":
			cfg.optLevel = 0
		case "-O1":
			cfg.optLevel = 1
		case "-O2":
			cfg.optLevel = 2
		case "-fno-cne":
			cfg.noCNE = true
		case "-fno-inline":
			cfg.noInline = true
		case "-fno-pullin":
			cfg.noPullIn = true
		case "-fno-flatten":
			cfg.noFlatten = true
		case "-fno-dne":
			cfg.noDNE = true
		case "-skip-unsupported":
			cfg.skipUnsupported = true
		case "-stats":
			i++
			if i >= len(args) {
				return nil, fmt.Errorf("-stats requires a path argument")
			}
			cfg.statsPath = args[i]
		case "-o":
			i++
			if i >= len(args) {
				return nil, fmt.Errorf("-o requires a path argument")
			}
			cfg.output = args[i]
		default:
			if len(a) > 0 && a[0] == '-' {
				return nil, fmt.Errorf("unrecognized flag %q", a)
			}
			positional = append(positional, a)
		}
	}

	if len(positional) != 1 {
		return nil, fmt.Errorf("usage: rvsdgc [flags] <source.rvir>")
	}
	cfg.source = positional[0]
	return cfg, nil
}

func run(cfg *config) int {
	source, err := os.ReadFile(cfg.source)
	if err != nil {
		color.Red("rvsdgc: %s", err)
		return exitMalformedInput
	}

	prog, err := grammar.ParseString(cfg.source, string(source))
	if err != nil {
		return report(cfg.source, string(source), err)
	}

	specs, err := frontend.BuildProgram(prog)
	if err != nil {
		return report(cfg.source, string(source), err)
	}

	statsWriter, closeStats, err := openStats(cfg.statsPath)
	if err != nil {
		color.Red("rvsdgc: %s", err)
		return exitResourceExhaustion
	}
	defer closeStats()
	collector := stats.NewCollector(statsWriter)

	graph := rvsdg.NewGraph()
	built := make([]*rvsdg.LambdaNode, 0, len(specs))
	for _, spec := range specs {
		lambda, err := construct.ConstructFunction(graph.Root(), spec)
		if err != nil {
			if cfg.skipUnsupported && isUnsupported(err) {
				color.Yellow("rvsdgc: skipping %s: %s", spec.Name, err)
				continue
			}
			return report(cfg.source, string(source), err)
		}
		built = append(built, lambda)
		graph.AddExport(lambda.Outputs()[0], spec.Name)
	}

	pipeline := buildPipeline(cfg, collector)
	pipeline.Run(graph.Root())

	output := rvsdg.PrintGraph(graph)
	if cfg.output == "" || cfg.output == "-" {
		fmt.Print(output)
	} else if err := os.WriteFile(cfg.output, []byte(output), 0o644); err != nil {
		color.Red("rvsdgc: writing %s: %s", cfg.output, err)
		return exitResourceExhaustion
	}

	color.Green("rvsdgc: compiled %d function(s)", len(built))
	return exitOK
}

// buildPipeline assembles the optimization passes the -O level and
// -fno-* toggles select, sharing one NormalFormRegistry so the
// flattening pass and any future normal-form-gated rewrite agree on
// what's enabled.
func buildPipeline(cfg *config, collector *stats.Collector) *opt.Pipeline {
	forms := rvsdg.NewNormalFormRegistry()
	if cfg.noFlatten {
		forms.Root().SetFlatten(false)
	}

	var passes []opt.Pass
	if cfg.optLevel >= 1 {
		if !cfg.noCNE {
			passes = append(passes, opt.CommonNodeElimination{})
		}
		if !cfg.noFlatten {
			passes = append(passes, opt.AssociativeFlattening{Forms: forms})
		}
		if !cfg.noDNE {
			passes = append(passes, opt.DeadNodeElimination{})
		}
	}
	if cfg.optLevel >= 2 {
		if !cfg.noInline {
			passes = append(passes, opt.FunctionInlining{})
		}
		if !cfg.noPullIn {
			passes = append(passes, opt.GammaPullInTop{}, opt.GammaPullInBottom{})
		}
	}
	return opt.NewPipeline(collector, passes...)
}

func openStats(path string) (w io.Writer, closeFn func(), err error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening stats file %s: %w", path, err)
	}
	return file, func() { file.Close() }, nil
}

func isUnsupported(err error) bool {
	ce, ok := unwrapCompilerError(err)
	return ok && ce.Kind == errors.UnsupportedConstruct
}

func report(filename, source string, err error) int {
	reporter := errors.NewErrorReporter(filename, source)
	ce, ok := unwrapCompilerError(err)
	if !ok {
		color.Red("rvsdgc: %s", err)
		return exitMalformedInput
	}
	fmt.Fprint(os.Stderr, reporter.Format(ce))
	switch ce.Kind {
	case errors.InvariantViolation:
		return exitInvariantViolation
	case errors.ResourceExhaustion:
		return exitResourceExhaustion
	default:
		return exitMalformedInput
	}
}

func unwrapCompilerError(err error) (*errors.CompilerError, bool) {
	for e := err; e != nil; {
		if c, ok := e.(*errors.CompilerError); ok {
			return c, true
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		e = u.Unwrap()
	}
	return nil, false
}
