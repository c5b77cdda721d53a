// Package batch runs inference over every sample file in a directory.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/usestring/prisma-infer/internal/source"
	"github.com/usestring/prisma-infer/pkg/prisma"
)

// Item is the outcome for one file. Either Result or Err is set.
type Item struct {
	Path   string
	Model  string
	Result *prisma.Result
	Err    error
}

// Report is the outcome of a batch run, ordered by file name.
type Report struct {
	Items []*Item
}

// Failed returns the items that could not be inferred.
func (r *Report) Failed() []*Item {
	var out []*Item
	for _, it := range r.Items {
		if it.Err != nil {
			out = append(out, it)
		}
	}
	return out
}

// Models returns the number of models generated across all files.
func (r *Report) Models() int {
	n := 0
	for _, it := range r.Items {
		if it.Result != nil {
			n += len(it.Result.Models)
		}
	}
	return n
}

// String renders the successful results, separated by a blank line.
func (r *Report) String() string {
	blocks := make([]string, 0, len(r.Items))
	for _, it := range r.Items {
		if it.Result != nil {
			blocks = append(blocks, it.Result.String())
		}
	}
	return strings.Join(blocks, "\n\n")
}

// Runner infers one model per sample file.
type Runner struct {
	loader  *source.Loader
	opts    *prisma.Options
	workers int
}

// NewRunner creates a runner using at most workers concurrent inferences.
func NewRunner(loader *source.Loader, opts *prisma.Options, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{loader: loader, opts: opts, workers: workers}
}

var separators = strings.NewReplacer("-", "_", " ", "_", ".", "_")

// ModelName derives a model name from a file name: the stem in camel case
// with its first letter upper-cased (order_items.json -> OrderItems).
func ModelName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return prisma.Capitalize(prisma.CamelCase(separators.Replace(stem)))
}

// Files lists the JSON and YAML files directly under dir, sorted by name.
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := source.DetectFormat(e.Name()); err != nil {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Run infers every sample file in dir. Each file is an independent run with
// its own registry; a file that fails to load is reported in its Item and
// does not stop the others.
func (r *Runner) Run(ctx context.Context, dir string) (*Report, error) {
	files, err := Files(dir)
	if err != nil {
		return nil, err
	}
	return r.RunFiles(ctx, files)
}

// RunFiles is Run over an explicit file list; the report keeps that order.
func (r *Runner) RunFiles(ctx context.Context, files []string) (*Report, error) {
	items := make([]*Item, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			items[i] = r.runFile(path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Report{Items: items}, nil
}

func (r *Runner) runFile(path string) *Item {
	item := &Item{Path: path, Model: ModelName(path)}

	if item.Model == "" {
		item.Err = errors.New("cannot derive a model name")
		return item
	}

	sample, err := r.loader.LoadFile(path, "")
	if err != nil {
		slog.Debug("batch file failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		item.Err = err
		return item
	}

	item.Result = prisma.Infer(item.Model, sample.Records, r.opts)
	slog.Debug("batch file inferred",
		slog.String("path", path),
		slog.String("model", item.Model),
		slog.Int("models", len(item.Result.Models)),
	)
	return item
}
