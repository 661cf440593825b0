package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/js-analyzer/internal/analyzer"
	"github.com/mvp-joe/js-analyzer/internal/config"
	"github.com/mvp-joe/js-analyzer/internal/discovery"
	"github.com/mvp-joe/js-analyzer/internal/extract"
	"github.com/mvp-joe/js-analyzer/internal/render"
	"github.com/mvp-joe/js-analyzer/internal/watcher"
)

const stdinPath = "-"

var (
	formatFlag string
	outputFlag string
	rawFlag    bool
	quietFlag  bool
	watchFlag  bool
)

var (
	// ErrAnalysisFailed indicates that one or more inputs of a multi-file run failed.
	ErrAnalysisFailed = errors.New("analysis failed")

	// ErrNoInputs indicates that the given paths expanded to no source files.
	ErrNoInputs = errors.New("no JavaScript files found")
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [paths...]",
	Short: "Trace the constructs of JavaScript files",
	Long: `Analyze parses each input and prints a table with one row per variable
declaration, assignment, update, if/while/for statement, function
declaration and return statement, in source order.

Inputs may be files, directories (expanded with paths.include and
paths.ignore from the configuration) or "-" for standard input. With no
arguments, standard input is read.

Examples:
  # Trace a single file as an HTML table
  analyzer analyze app.js

  # Trace a project as JSON into a file
  analyzer analyze src/ -f json -o trace.json

  # Pipe a snippet through, printing a console table
  echo 'let x = y + 6;' | analyzer analyze -f text

  # Re-run whenever a source file changes
  analyzer analyze src/ -o trace.html --watch
`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format: html, text or json (default from config)")
	analyzeCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the result to a file instead of stdout")
	analyzeCmd.Flags().BoolVar(&rawFlag, "raw", false, "Do not HTML-escape cell text")
	analyzeCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	analyzeCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch the inputs and re-analyze on change")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("format") {
		cfg.Render.Format = formatFlag
	}
	if rawFlag {
		cfg.Render.Escape = false
	}

	run, err := newAnalyzeRun(cfg, outputFlag, quietFlag)
	if err != nil {
		return err
	}
	defer run.Close()

	run.stdin = cmd.InOrStdin()
	run.stdout = cmd.OutOrStdout()
	run.stderr = cmd.ErrOrStderr()

	if watchFlag {
		return run.watch(ctx, args)
	}
	return run.execute(ctx, args)
}

// input is one source to analyze.
type input struct {
	name string
	path string // stdinPath for standard input
}

// analyzeRun carries the state of one analyze invocation.
type analyzeRun struct {
	cfg      *config.Config
	analyzer *analyzer.Analyzer
	renderer render.Renderer
	output   string
	quiet    bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newAnalyzeRun(cfg *config.Config, output string, quiet bool) (*analyzeRun, error) {
	renderer, err := render.New(cfg.Render.Format, cfg.ToRenderOptions())
	if err != nil {
		return nil, err
	}

	a, err := analyzer.New(cfg.ToAnalyzerOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}

	return &analyzeRun{
		cfg:      cfg,
		analyzer: a,
		renderer: renderer,
		output:   output,
		quiet:    quiet,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}, nil
}

// Close releases the analyzer.
func (r *analyzeRun) Close() {
	r.analyzer.Close()
}

// resolveInputs expands args into the ordered list of sources to analyze.
func (r *analyzeRun) resolveInputs(args []string) ([]input, error) {
	if len(args) == 0 {
		args = []string{stdinPath}
	}

	var inputs []input
	seenStdin := false
	for _, arg := range args {
		if arg == stdinPath {
			if seenStdin {
				return nil, fmt.Errorf("standard input given more than once")
			}
			seenStdin = true
			inputs = append(inputs, input{name: "<stdin>", path: stdinPath})
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			inputs = append(inputs, input{name: arg, path: arg})
			continue
		}

		fd, err := r.discovery(arg)
		if err != nil {
			return nil, err
		}
		files, err := fd.DiscoverFiles()
		if err != nil {
			return nil, fmt.Errorf("failed to discover files in %s: %w", arg, err)
		}
		debugf("Found %d files in %s", len(files), arg)
		for _, f := range files {
			inputs = append(inputs, input{name: f, path: f})
		}
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInputs, strings.Join(args, ", "))
	}
	return inputs, nil
}

func (r *analyzeRun) discovery(dir string) (*discovery.FileDiscovery, error) {
	return discovery.NewFileDiscovery(dir, r.cfg.Paths.Include, r.cfg.Paths.Ignore)
}

// execute analyzes every input and writes the rendered result. A single
// failing input fails the run with no output. In a multi-file run failed
// files are logged, left out of the output and reported by ErrAnalysisFailed.
func (r *analyzeRun) execute(ctx context.Context, args []string) error {
	inputs, err := r.resolveInputs(args)
	if err != nil {
		return err
	}

	progress := newProgressReporter(r.quiet, r.stderr)
	progress.OnStart(len(inputs))

	files := make([]render.File, 0, len(inputs))
	failed := 0
	for _, in := range inputs {
		records, err := r.analyzeInput(ctx, in)
		progress.OnFileAnalyzed()
		if err != nil {
			if len(inputs) == 1 || ctx.Err() != nil {
				return err
			}
			log.Printf("Warning: %v", err)
			failed++
			continue
		}
		files = append(files, render.File{Name: in.name, Records: records})
	}
	progress.OnComplete(len(files), failed)

	var out string
	if len(inputs) == 1 {
		out, err = r.renderer.Render(files[0].Records)
	} else {
		out, err = r.renderer.RenderFiles(files)
	}
	if err != nil {
		return err
	}
	if err := r.write(out); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", ErrAnalysisFailed, failed, len(inputs))
	}
	return nil
}

func (r *analyzeRun) analyzeInput(ctx context.Context, in input) ([]extract.Record, error) {
	if in.path != stdinPath {
		return r.analyzer.AnalyzeFile(ctx, in.path)
	}
	source, err := io.ReadAll(r.stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read standard input: %w", err)
	}
	return r.analyzer.Analyze(ctx, source)
}

func (r *analyzeRun) write(out string) error {
	if r.output == "" {
		_, err := fmt.Fprintln(r.stdout, out)
		return err
	}
	if err := os.WriteFile(r.output, []byte(out+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	debugf("Wrote %s", r.output)
	return nil
}

// watch runs once, then again after every debounced batch of source changes,
// until ctx is cancelled. Analysis errors are logged rather than returned.
func (r *analyzeRun) watch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("--watch needs at least one file or directory")
	}

	roots, filter, err := r.watchTargets(args)
	if err != nil {
		return err
	}

	if err := r.execute(ctx, args); err != nil {
		log.Printf("Warning: %v", err)
	}

	w, err := watcher.NewFileWatcher(roots, filter, r.cfg.Debounce())
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.Stop()

	err = w.Start(ctx, func(changed []string) {
		debugf("Detected changes in %d files: %s", len(changed), strings.Join(changed, ", "))
		if err := r.execute(ctx, args); err != nil && ctx.Err() == nil {
			log.Printf("Warning: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	if !r.quiet {
		fmt.Fprintln(r.stderr, "Watching for changes (Ctrl+C to stop)...")
	}
	<-ctx.Done()
	return nil
}

// watchTargets returns the directories to watch and a filter accepting exactly
// the files args would analyze, including files created later.
func (r *analyzeRun) watchTargets(args []string) ([]string, watcher.Filter, error) {
	type dirTarget struct {
		root string
		fd   *discovery.FileDiscovery
	}

	var (
		roots []string
		dirs  []dirTarget
		seen  = make(map[string]bool)
		files = make(map[string]bool)
	)
	addRoot := func(root string) {
		if !seen[root] {
			seen[root] = true
			roots = append(roots, root)
		}
	}

	for _, arg := range args {
		if arg == stdinPath {
			return nil, nil, fmt.Errorf("--watch cannot be used with standard input")
		}
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, nil, err
		}

		if info.IsDir() {
			fd, err := r.discovery(abs)
			if err != nil {
				return nil, nil, err
			}
			dirs = append(dirs, dirTarget{root: abs, fd: fd})
			addRoot(abs)
			continue
		}
		files[abs] = true
		addRoot(filepath.Dir(abs))
	}

	filter := func(path string) bool {
		abs, err := filepath.Abs(path)
		if err != nil {
			return false
		}
		if files[abs] {
			return true
		}
		for _, d := range dirs {
			rel, err := filepath.Rel(d.root, abs)
			if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				continue
			}
			if d.fd.Matches(rel) {
				return true
			}
		}
		return false
	}
	return roots, filter, nil
}
