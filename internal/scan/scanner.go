package scan

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/alsdiag/alsdiag/internal/als"
	"github.com/alsdiag/alsdiag/internal/rules"
)

const maxWorkers = 8

// Options tunes a batch scan. Workers defaults to the CPU count, capped;
// Pattern optionally filters file names with a shell glob.
type Options struct {
	Workers int
	Pattern string
}

// Entry is one successfully analyzed project file.
type Entry struct {
	Path    string              `json:"path"`
	Project string              `json:"project"`
	Report  *rules.HealthReport `json:"report"`
}

// Failure is one file that could not be analyzed. Failures never abort the
// scan.
type Failure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Result is a completed scan, entries ranked best score first.
type Result struct {
	Entries     []Entry             `json:"entries"`
	Failures    []Failure           `json:"failures"`
	GradeCounts map[rules.Grade]int `json:"grade_counts"`
}

// Top returns the n best-scoring entries.
func (r *Result) Top(n int) []Entry {
	if n > len(r.Entries) {
		n = len(r.Entries)
	}
	return r.Entries[:n]
}

// Bottom returns the n worst-scoring entries, worst first.
func (r *Result) Bottom(n int) []Entry {
	if n > len(r.Entries) {
		n = len(r.Entries)
	}
	out := make([]Entry, n)
	for i := 0; i < n; i++ {
		out[i] = r.Entries[len(r.Entries)-1-i]
	}
	return out
}

func (r *Result) AverageScore() float64 {
	if len(r.Entries) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range r.Entries {
		sum += e.Report.Score
	}
	return sum / float64(len(r.Entries))
}

// Scanner walks a directory tree and evaluates every project file it
// finds, parsing files concurrently under a bounded worker pool.
type Scanner struct {
	parser  *als.Parser
	engine  *rules.Engine
	workers int
	pattern string
	log     *slog.Logger
}

func NewScanner(engine *rules.Engine, opts Options) *Scanner {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}
	return &Scanner{
		parser:  als.NewParser(),
		engine:  engine,
		workers: workers,
		pattern: opts.Pattern,
		log:     slog.Default(),
	}
}

// Run scans root recursively. Per-file errors become Failures in the
// result; only walk errors and context cancellation fail the scan itself.
func (s *Scanner) Run(ctx context.Context, root string) (*Result, error) {
	paths, err := s.discover(root)
	if err != nil {
		return nil, err
	}
	s.log.Info("scanning projects", "root", root, "files", len(paths), "workers", s.workers)

	result := &Result{GradeCounts: make(map[rules.Grade]int)}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			proj, err := s.parser.ParseFile(path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.Warn("skipping unreadable project", "path", path, "error", err)
				result.Failures = append(result.Failures, Failure{Path: path, Reason: err.Error()})
				return nil
			}
			report := s.engine.Evaluate(proj)
			result.Entries = append(result.Entries, Entry{Path: path, Project: proj.Name, Report: report})
			result.GradeCounts[report.Grade]++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(result.Entries, func(i, j int) bool {
		a, b := result.Entries[i], result.Entries[j]
		if a.Report.Score != b.Report.Score {
			return a.Report.Score > b.Report.Score
		}
		return a.Path < b.Path
	})
	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].Path < result.Failures[j].Path
	})
	return result, nil
}

// discover lists the .als files under root in deterministic order. Live's
// own backup copies are skipped.
func (s *Scanner) discover(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "Backup" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".als") {
			return nil
		}
		if s.pattern != "" {
			ok, err := filepath.Match(s.pattern, d.Name())
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
