package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/usestring/prisma-infer/internal/batch"
	"github.com/usestring/prisma-infer/internal/config"
	"github.com/usestring/prisma-infer/internal/logging"
	"github.com/usestring/prisma-infer/internal/query"
	"github.com/usestring/prisma-infer/internal/source"
	"github.com/usestring/prisma-infer/internal/watch"
	"github.com/usestring/prisma-infer/pkg/jsonschema"
	"github.com/usestring/prisma-infer/pkg/prisma"
)

const usage = `Usage:
  prisma-infer [flags] <ModelName> <path/to/sample.json|->
  prisma-infer batch [flags] <dir>

Flags:
`

const notArrayMessage = "Expected input JSON to be an array of objects."

// errUsage marks a command line that could not be parsed; usage has been
// printed already.
var errUsage = errors.New("usage")

// app is the command line program with its streams.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	cfg    *config.Config
	out    *message.Printer
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		cfg:    config.Load(),
		out:    message.NewPrinter(language.English),
	}
}

// flags are shared by both commands.
type flags struct {
	normalizeArrays bool
	maxDepth        int
	camelCase       bool
	out             string
	logLevel        string

	// infer only
	selectExpr string
	format     string
	watch      bool

	// batch only
	workers int
}

func (a *app) flagSet(name string, f *flags, batchMode bool) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprint(a.stderr, usage)
		fs.PrintDefaults()
	}

	fs.BoolVar(&f.normalizeArrays, "normalize-arrays", a.cfg.NormalizeArrays, "turn arrays of objects into one-to-many child models")
	fs.IntVar(&f.maxDepth, "max-depth", a.cfg.MaxDepth, "nesting depth at which nested objects become Json fields")
	fs.BoolVar(&f.camelCase, "camel-case", a.cfg.CamelCase, "emit snake_case keys as camelCase fields with @map")
	fs.StringVar(&f.out, "out", "", "write the result to this file instead of stdout")
	fs.StringVar(&f.logLevel, "log-level", a.cfg.LogLevel, "log level: debug, info, warn, error")

	if batchMode {
		fs.IntVar(&f.workers, "workers", a.cfg.BatchWorkers, "files inferred concurrently")
	} else {
		fs.StringVar(&f.selectExpr, "select", "", "jq expression selecting the records array, e.g. .data.items")
		fs.StringVar(&f.format, "format", "prisma", "output format: prisma or jsonschema")
		fs.BoolVar(&f.watch, "watch", false, "regenerate -out whenever the sample file changes")
	}
	return fs
}

func (f *flags) options() *prisma.Options {
	return &prisma.Options{
		NormalizeArrays: f.normalizeArrays,
		MaxDepth:        f.maxDepth,
		CamelCaseFields: f.camelCase,
	}
}

// run executes the command line and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	var err error
	if len(args) > 0 && args[0] == "batch" {
		err = a.runBatch(ctx, args[1:])
	} else {
		err = a.runInfer(ctx, args)
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		return 1
	}
	fmt.Fprintf(a.stderr, "Failed to generate schema: %s\n", failureMessage(err))
	return 1
}

func failureMessage(err error) string {
	if errors.Is(err, prisma.ErrNotArray) {
		return notArrayMessage
	}
	return err.Error()
}

func (a *app) setupLogging(level string) (func() error, error) {
	lc := a.cfg.Logging()
	lc.Level = level
	if lc.FilePath != "" {
		return logging.Setup(lc)
	}
	slog.SetDefault(logging.New(lc, a.stderr))
	return func() error { return nil }, nil
}

func (a *app) runInfer(ctx context.Context, args []string) error {
	var f flags
	fs := a.flagSet("prisma-infer", &f, false)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return errUsage
	}
	if f.format != "prisma" && f.format != "jsonschema" {
		fmt.Fprintf(a.stderr, "unknown -format %q\n", f.format)
		fs.Usage()
		return errUsage
	}
	modelName, path := fs.Arg(0), fs.Arg(1)
	if f.watch && (f.out == "" || path == source.StdinPath) {
		fmt.Fprintln(a.stderr, "-watch needs -out and a sample file")
		return errUsage
	}

	cleanup, err := a.setupLogging(f.logLevel)
	if err != nil {
		return err
	}
	defer cleanup()

	loader := source.NewLoader(a.cfg.MaxInputBytes, query.NewEngine()).WithStdin(a.stdin)
	gen := &generator{
		loader:    loader,
		modelName: modelName,
		path:      path,
		flags:     &f,
	}

	if err := a.generate(gen); err != nil {
		return err
	}
	if !f.watch {
		return nil
	}

	w := watch.New(a.cfg.WatchDebounce, func(string) {
		if err := a.generate(gen); err != nil {
			slog.Error("regeneration failed", "path", path, "error", failureMessage(err))
		}
	})
	if err := w.Start(ctx, path); err != nil {
		return err
	}
	w.Wait()
	return nil
}

// generator is one configured infer run, repeated by -watch.
type generator struct {
	loader    *source.Loader
	modelName string
	path      string
	flags     *flags
}

func (g *generator) render() (*prisma.Result, []byte, error) {
	sample, err := g.loader.LoadFile(g.path, g.flags.selectExpr)
	if err != nil {
		return nil, nil, err
	}
	result := prisma.Infer(g.modelName, sample.Records, g.flags.options())

	if g.flags.format == "jsonschema" {
		data, err := jsonschema.Marshal(result)
		if err != nil {
			return nil, nil, err
		}
		return result, data, nil
	}
	return result, []byte(result.String()), nil
}

func (a *app) generate(g *generator) error {
	result, data, err := g.render()
	if err != nil {
		return err
	}
	if err := a.emit(g.flags.out, data); err != nil {
		return err
	}
	a.out.Fprintf(a.stderr, "Generated %d model(s) from %d record(s)\n", len(result.Models), result.Records)
	return nil
}

// emit writes data to path, creating its directory, or to stdout when path
// is empty.
func (a *app) emit(path string, data []byte) error {
	if path == "" {
		_, err := fmt.Fprintln(a.stdout, string(data))
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	a.out.Fprintf(a.stderr, "Schema saved to: %s\n", path)
	return nil
}

func (a *app) runBatch(ctx context.Context, args []string) error {
	var f flags
	fs := a.flagSet("prisma-infer batch", &f, true)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}

	cleanup, err := a.setupLogging(f.logLevel)
	if err != nil {
		return err
	}
	defer cleanup()

	loader := source.NewLoader(a.cfg.MaxInputBytes, nil)
	report, err := batch.NewRunner(loader, f.options(), f.workers).Run(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	failed := report.Failed()
	for _, it := range failed {
		fmt.Fprintf(a.stderr, "%s: %s\n", it.Path, failureMessage(it.Err))
	}
	if len(failed) < len(report.Items) {
		if err := a.emit(f.out, []byte(report.String())); err != nil {
			return err
		}
	}
	a.out.Fprintf(a.stderr, "Generated %d model(s) from %d of %d file(s)\n",
		report.Models(), len(report.Items)-len(failed), len(report.Items))

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d file(s) failed", len(failed), len(report.Items))
	}
	return nil
}
