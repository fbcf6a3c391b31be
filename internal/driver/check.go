package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"rpn/internal/diag"
	"rpn/internal/parser"
	"rpn/internal/source"
	"rpn/internal/trace"
)

// SourceExt is the extension of script files picked up from directories.
const SourceExt = ".rpn"

// CheckResult содержит результат проверки одного файла
type CheckResult struct {
	Path   string
	FileID source.FileID
	Lines  int
	Instrs int
	Bag    *diag.Bag
}

// CheckOptions configures CheckFiles.
type CheckOptions struct {
	MaxDiagnostics int
	Jobs           int          // 0 = GOMAXPROCS
	Progress       ProgressSink // может быть nil
}

// ExpandPaths replaces directories with the sorted *.rpn files below them.
func ExpandPaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			out = append(out, p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		// Сортируем для детерминированного порядка
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}

// CheckFiles parses every file in parallel and collects diagnostics per file.
// Files are loaded up front; each goroutine owns its result slot and bag.
func CheckFiles(ctx context.Context, paths []string, opts CheckOptions) (*source.FileSet, []CheckResult, error) {
	sink := opts.Progress
	if sink == nil {
		sink = nopSink{}
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "check", trace.ParentSpan(ctx))
	defer span.WithCount("files", len(paths)).End("")

	fileSet := source.NewFileSet()
	results := make([]CheckResult, len(paths))
	loaded := make([]bool, len(paths))

	for i, path := range paths {
		sink.OnEvent(Event{File: path, Stage: StageLoad, Status: StatusQueued})
		results[i] = CheckResult{Path: path, Bag: diag.NewBag(opts.MaxDiagnostics)}
		fileID, err := fileSet.Load(path)
		if err != nil {
			// пустой виртуальный файл, чтобы диагностика указывала на путь
			results[i].FileID = fileSet.AddVirtual(path, nil)
			results[i].Bag.Add(diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.IOLoadFileError,
				Message:  fmt.Sprintf("failed to load %s: %v", path, err),
				Primary:  source.Span{File: results[i].FileID},
			})
			sink.OnEvent(Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
			trace.Fail(tracer, trace.ScopeLine, "load", err.Error(), 0, span.ID())
			continue
		}
		results[i].FileID = fileID
		loaded[i] = true
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(min(jobs, len(paths)), 1))

	for i := range paths {
		if !loaded[i] {
			continue
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			res := &results[i]
			started := time.Now()
			sink.OnEvent(Event{File: res.Path, Stage: StageParse, Status: StatusWorking})

			file := fileSet.Get(res.FileID)
			lines := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: res.Bag}})
			res.Lines = len(lines)
			for _, l := range lines {
				res.Instrs += len(l.Result.Instrs)
			}
			res.Bag.Sort()

			status := StatusDone
			if res.Bag.HasErrors() {
				status = StatusError
			}
			sink.OnEvent(Event{File: res.Path, Stage: StageParse, Status: status, Elapsed: time.Since(started)})
			if status == StatusError {
				trace.Fail(tracer, trace.ScopeLine, "checked", fmt.Sprintf("%s: %d diagnostics", res.Path, res.Bag.Len()), 0, span.ID())
			} else {
				trace.Point(tracer, trace.ScopeLine, "checked", res.Path, span.ID())
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
