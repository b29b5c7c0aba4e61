package runner

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/rtftplint/pkg/fsutil"
	"github.com/yaklabco/rtftplint/pkg/structure"
)

// Run discovers templates under opts.Paths and validates them concurrently.
// Each worker owns its own parser; results are returned in path order.
func Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	return RunFiles(ctx, files, opts)
}

// RunFiles validates the given files without discovery.
func RunFiles(ctx context.Context, files []string, opts Options) (*Result, error) {
	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	var parserOpts []structure.Option
	if opts.Logger != nil {
		parserOpts = append(parserOpts, structure.WithLogger(opts.Logger))
	}

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(ctx, structure.NewParser(parserOpts...), workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers finish out of order; collect by path and emit in input order.
	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

func worker(ctx context.Context, parser *structure.Parser, workCh <-chan string, outCh chan<- FileOutcome) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := ValidateFile(ctx, parser, path)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// ValidateFile reads and validates a single template with parser.
func ValidateFile(ctx context.Context, parser *structure.Parser, path string) FileOutcome {
	outcome := FileOutcome{Path: path}

	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Info = info

	tree, err := parser.Parse(bytes.NewReader(content))
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Tree = tree

	return outcome
}
