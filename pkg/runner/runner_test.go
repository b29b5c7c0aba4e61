package runner_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/rtftplint/pkg/config"
	"github.com/yaklabco/rtftplint/pkg/fsutil"
	"github.com/yaklabco/rtftplint/pkg/rtf"
	"github.com/yaklabco/rtftplint/pkg/runner"
	"github.com/yaklabco/rtftplint/pkg/structure"
)

// template builds RTF from bookmark names and "FIELD x" entries.
func template(items ...string) string {
	var sb strings.Builder
	sb.WriteString(`{\rtf1\ansi `)
	for _, item := range items {
		if name, ok := strings.CutPrefix(item, "FIELD "); ok {
			sb.WriteString(`{\field{\*\fldinst MERGEFIELD ` + name + `}{\fldrslt x}}`)
			continue
		}
		sb.WriteString(`{\*\bkmkstart ` + item + `}{\*\bkmkend ` + item + "}\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func TestRun(t *testing.T) {
	t.Parallel()

	dir := layout(t, map[string]string{
		"valid.rtf":   template("IF_a", "FIELD x", "WHILE_rows", "SORT_n", "ENDWHILE_rows", "ENDIF_a"),
		"invalid.rtf": template("IF_a", "ENDIF_b"),
		"broken.rtf":  "plain text, not rtf",
		"empty.rtf":   `{\rtf1}`,
	})

	result, err := runner.Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 2})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := map[string]runner.Status{
		"broken.rtf":  runner.StatusError,
		"empty.rtf":   runner.StatusValid,
		"invalid.rtf": runner.StatusInvalid,
		"valid.rtf":   runner.StatusValid,
	}

	if len(result.Files) != len(want) {
		t.Fatalf("expected %d outcomes, got %d", len(want), len(result.Files))
	}

	for i, outcome := range result.Files {
		name := filepath.Base(outcome.Path)
		if i > 0 && result.Files[i-1].Path > outcome.Path {
			t.Errorf("outcomes not sorted: %s after %s", outcome.Path, result.Files[i-1].Path)
		}
		if got := outcome.Status(); got != want[name] {
			t.Errorf("%s: status %s, want %s", name, got, want[name])
		}
	}

	stats := result.Stats
	if stats.FilesDiscovered != 4 || stats.FilesProcessed != 4 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.FilesValid != 2 || stats.FilesInvalid != 1 || stats.FilesErrored != 1 {
		t.Errorf("unexpected status counts: %+v", stats)
	}
	if stats.Blocks != 2 || stats.Fields != 1 || stats.MaxDepth != 2 {
		t.Errorf("unexpected structure counts: blocks=%d fields=%d depth=%d", stats.Blocks, stats.Fields, stats.MaxDepth)
	}
	if !result.HasFailures() {
		t.Error("HasFailures() should be true")
	}
}

func TestRun_OutcomeDetails(t *testing.T) {
	t.Parallel()

	dir := layout(t, map[string]string{
		"invalid.rtf": template("WHILE_w", "SORT_s", "IF_i", "ENDWHILE_w"),
		"broken.rtf":  "nope",
	})

	result, err := runner.Run(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	broken, invalid := result.Files[0], result.Files[1]

	if !errors.Is(broken.Error, rtf.ErrUnsupported) {
		t.Errorf("broken: expected ErrUnsupported, got %v", broken.Error)
	}
	if broken.Info == nil {
		t.Error("broken: file info should be captured even when tokenizing fails")
	}

	serr, ok := invalid.StructureError()
	if !ok {
		t.Fatalf("invalid: expected StructureError, got %v", invalid.Error)
	}
	if serr.Kind != structure.MismatchedEnd {
		t.Errorf("invalid: kind %s, want %s", serr.Kind, structure.MismatchedEnd)
	}
	if invalid.Line() != 4 {
		t.Errorf("invalid: line %d, want 4", invalid.Line())
	}
	if invalid.Tree != nil {
		t.Error("invalid: no tree should be returned")
	}
}

func TestRun_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := runner.Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Files) != 0 || result.HasFailures() {
		t.Errorf("expected empty successful result, got %+v", result)
	}
}

func TestRun_ManyFilesSingleWorker(t *testing.T) {
	t.Parallel()

	files := make(map[string]string)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		files[name+".rtf"] = template("IF_"+name, "ENDIF_"+name)
	}
	dir := layout(t, files)

	for _, jobs := range []int{1, 3, 0} {
		result, err := runner.Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: jobs})
		if err != nil {
			t.Fatalf("Run(jobs=%d) error = %v", jobs, err)
		}
		if result.Stats.FilesValid != len(files) {
			t.Errorf("jobs=%d: %d valid, want %d", jobs, result.Stats.FilesValid, len(files))
		}
		if result.HasFailures() {
			t.Errorf("jobs=%d: unexpected failures", jobs)
		}
	}
}

func TestRun_Cancelled(t *testing.T) {
	t.Parallel()

	dir := layout(t, map[string]string{"a.rtf": `{\rtf1}`})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, runner.Options{WorkingDir: dir})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunFiles_LoggerReceivesParserEvents(t *testing.T) {
	t.Parallel()

	dir := layout(t, map[string]string{"a.rtf": template("IF_x", "ENDIF_x")})

	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	_, err := runner.RunFiles(context.Background(), abs(dir, "a.rtf"), runner.Options{Logger: logger})
	if err != nil {
		t.Fatalf("RunFiles() error = %v", err)
	}
	if !strings.Contains(buf.String(), "open block") {
		t.Errorf("expected parser debug output, got %q", buf.String())
	}
}

func TestValidateFile_Missing(t *testing.T) {
	t.Parallel()

	outcome := runner.ValidateFile(context.Background(), structure.NewParser(), filepath.Join(t.TempDir(), "x.rtf"))
	if !errors.Is(outcome.Error, fsutil.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", outcome.Error)
	}
	if outcome.Status() != runner.StatusError {
		t.Errorf("status %s, want error", outcome.Status())
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Jobs = 3
	cfg.Ignore = []string{"old/**"}

	opts := runner.OptionsFromConfig(cfg, []string{"templates"})
	if opts.Jobs != 3 || opts.ExcludeGlobs[0] != "old/**" || opts.Extensions[0] != ".rtf" || opts.Paths[0] != "templates" {
		t.Errorf("unexpected options: %+v", opts)
	}

	if opts := runner.OptionsFromConfig(nil, nil); opts.Jobs != 0 || opts.Extensions != nil {
		t.Errorf("nil config should yield zero options, got %+v", opts)
	}
}

func TestStatus_String(t *testing.T) {
	t.Parallel()

	for status, want := range map[runner.Status]string{
		runner.StatusValid:   "valid",
		runner.StatusInvalid: "invalid",
		runner.StatusError:   "error",
		runner.Status(9):     "unknown",
	} {
		if got := status.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", status, got, want)
		}
	}
}
