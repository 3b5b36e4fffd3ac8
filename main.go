// phpdoccheck reports PHP classes and methods whose docblocks are missing or
// disagree with their signatures.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/phobologic/phpdoccheck/internal/check"
	"github.com/phobologic/phpdoccheck/internal/config"
	"github.com/phobologic/phpdoccheck/internal/discover"
	"github.com/phobologic/phpdoccheck/internal/lang"
	"github.com/phobologic/phpdoccheck/internal/model"
	"github.com/phobologic/phpdoccheck/internal/parse"
	"github.com/phobologic/phpdoccheck/internal/report"
)

var version = "dev"

// errCheckFailed is returned when findings should make the process exit
// non-zero. The report has already been written.
var errCheckFailed = errors.New("check failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := runContext(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	return runContext(context.Background(), args, stdout, stderr)
}

func runContext(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

type rootFlags struct {
	cfg         config.Config
	configPath  string
	json        bool
	verbose     bool
	showVersion bool
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	f := &rootFlags{cfg: config.Default()}

	cmd := &cobra.Command{
		Use:           "phpdoccheck",
		Short:         "Check PHP docblocks against class and method signatures",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.showVersion {
				_, _ = fmt.Fprintf(stdout, "phpdoccheck %s\n", version)
				return nil
			}
			cfg, err := resolveConfig(cmd.Flags(), f)
			if err != nil {
				return err
			}
			return runCheck(cmd.Context(), cfg, stdout, newLogger(stderr, f.verbose))
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	fs := cmd.Flags()
	fs.StringVarP(&f.cfg.Directory, "directory", "d", f.cfg.Directory, "directory to scan")
	fs.StringSliceVarP(&f.cfg.Files, "files", "f", nil, "files to check instead of scanning the directory")
	fs.StringSliceVarP(&f.cfg.Exclude, "exclude", "x", nil, "gitignore-style patterns to exclude")
	fs.BoolVar(&f.cfg.SkipClasses, "skip-classes", false, "don't report classes without docblocks")
	fs.BoolVar(&f.cfg.SkipMethods, "skip-methods", false, "don't report methods without docblocks")
	fs.BoolVar(&f.cfg.SkipSignatures, "skip-signatures", false, "don't compare @param and @return against signatures")
	fs.BoolVarP(&f.json, "json", "j", false, "output findings as JSON (same as --format json)")
	fs.StringVar(&f.cfg.Format, "format", f.cfg.Format, "output format: text, json or toon")
	fs.IntVarP(&f.cfg.FilesPerLine, "files-per-line", "l", f.cfg.FilesPerLine, "files per line of progress output")
	fs.BoolVarP(&f.cfg.FailOnWarnings, "fail-on-warnings", "w", false, "exit non-zero when there are warnings")
	fs.BoolVarP(&f.cfg.InfoOnly, "info-only", "i", false, "print the summary without listing findings")
	fs.IntVar(&f.cfg.PHPVersion, "php-version", f.cfg.PHPVersion, "PHP major version the code targets")
	fs.IntVar(&f.cfg.Workers, "workers", 0, "number of parallel workers (0 uses GOMAXPROCS)")
	fs.IntVar(&f.cfg.MaxFileSize, "max-file-size", f.cfg.MaxFileSize, "skip files larger than this many bytes")
	fs.StringVar(&f.configPath, "config", "", "config file (default <directory>/"+config.DefaultFile+")")
	fs.BoolVar(&f.verbose, "verbose", false, "log debug output to stderr")
	fs.BoolVarP(&f.showVersion, "version", "V", false, "show version and exit")

	cmd.AddCommand(newInitCommand(stdout, stderr))
	return cmd
}

// resolveConfig layers defaults, the config file and explicitly set flags.
func resolveConfig(fs *pflag.FlagSet, f *rootFlags) (config.Config, error) {
	cfg := config.Default()
	if fs.Changed("directory") {
		cfg.Directory = f.cfg.Directory
	}

	path, optional := f.configPath, false
	if path == "" {
		path, optional = filepath.Join(cfg.Directory, config.DefaultFile), true
	}
	if err := config.Load(path, &cfg, optional); err != nil {
		return cfg, err
	}

	fs.Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "directory":
			cfg.Directory = f.cfg.Directory
		case "files":
			cfg.Files = f.cfg.Files
		case "exclude":
			cfg.Exclude = f.cfg.Exclude
		case "skip-classes":
			cfg.SkipClasses = f.cfg.SkipClasses
		case "skip-methods":
			cfg.SkipMethods = f.cfg.SkipMethods
		case "skip-signatures":
			cfg.SkipSignatures = f.cfg.SkipSignatures
		case "format":
			cfg.Format = f.cfg.Format
		case "files-per-line":
			cfg.FilesPerLine = f.cfg.FilesPerLine
		case "fail-on-warnings":
			cfg.FailOnWarnings = f.cfg.FailOnWarnings
		case "info-only":
			cfg.InfoOnly = f.cfg.InfoOnly
		case "php-version":
			cfg.PHPVersion = f.cfg.PHPVersion
		case "workers":
			cfg.Workers = f.cfg.Workers
		case "max-file-size":
			cfg.MaxFileSize = f.cfg.MaxFileSize
		}
	})
	if f.json {
		cfg.Format = config.FormatJSON
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func runCheck(ctx context.Context, cfg config.Config, stdout io.Writer, log *slog.Logger) error {
	start := time.Now()

	root, err := filepath.Abs(cfg.Directory)
	if err != nil {
		return fmt.Errorf("resolving directory: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	var files []discover.FileEntry
	if len(cfg.Files) > 0 {
		files, err = discover.Explicit(root, cfg.Files, cfg.Exclude)
	} else {
		files, err = discover.Files(root, cfg.Exclude)
	}
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	files = filterBySize(root, files, cfg.MaxFileSize, log)
	log.Debug("discovered files", "root", root, "count", len(files))

	checker := check.New(check.Options{
		SkipClasses:    cfg.SkipClasses,
		SkipMethods:    cfg.SkipMethods,
		SkipSignatures: cfg.SkipSignatures,
		PHPVersion:     cfg.PHPVersion,
	}, log)

	var progress *report.Progress
	if cfg.Format == config.FormatText {
		progress = report.NewProgress(stdout, cfg.FilesPerLine, len(files))
	}

	summary := report.Summary{}
	onDone := func(fr fileResult) {
		if fr.skipped {
			if progress != nil {
				progress.Skip()
			}
			return
		}
		summary.Checked++
		if len(fr.result.Errors) == 0 {
			summary.Passed++
		}
		summary.Result.Merge(fr.result)
		if progress != nil {
			progress.Add(fr.result)
		}
	}

	if err := checkFiles(ctx, root, files, cfg.Workers, checker, log, onDone); err != nil {
		return err
	}
	summary.Elapsed = time.Since(start)

	switch cfg.Format {
	case config.FormatJSON:
		err = report.WriteJSON(stdout, summary.Result)
	case config.FormatTOON:
		err = report.WriteTOON(stdout, summary)
	default:
		err = report.WriteText(stdout, summary, cfg.InfoOnly)
	}
	if err != nil {
		return err
	}

	if summary.Failed(cfg.FailOnWarnings) {
		return errCheckFailed
	}
	return nil
}

func filterBySize(root string, files []discover.FileEntry, maxSize int, log *slog.Logger) []discover.FileEntry {
	var kept []discover.FileEntry
	for _, f := range files {
		fi, err := os.Stat(filepath.Join(root, f.Path))
		if err != nil {
			kept = append(kept, f) // keep if can't stat
			continue
		}
		if fi.Size() > int64(maxSize) {
			log.Warn("skipped large file", "path", f.Path, "limit", maxSize)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

type fileResult struct {
	result  model.Result
	skipped bool
}

type parserPair struct {
	lang   *lang.Language
	parser *sitter.Parser
	query  *sitter.Query
}

// checkFiles parses and checks files on a pool of workers, each with its own
// parsers. onDone is called once per file, in input order.
func checkFiles(ctx context.Context, root string, files []discover.FileEntry, workers int, checker *check.Checker, log *slog.Logger, onDone func(fileResult)) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(files) {
		workers = len(files)
	}

	var (
		mu      sync.Mutex
		results = make([]fileResult, len(files))
		done    = make([]bool, len(files))
		next    int
	)
	finish := func(idx int, fr fileResult) {
		mu.Lock()
		defer mu.Unlock()
		results[idx], done[idx] = fr, true
		for next < len(files) && done[next] {
			onDone(results[next])
			results[next] = fileResult{}
			next++
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	work := make(chan int)

	g.Go(func() error {
		defer close(work)
		for i := range files {
			select {
			case work <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for range workers {
		g.Go(func() error {
			parsers := make(map[string]*parserPair)

			for idx := range work {
				f := files[idx]
				pp, ok := parsers[f.Language]
				if !ok {
					l := lang.Languages[f.Language]
					q, err := l.GetQuery()
					if err != nil {
						return fmt.Errorf("compiling query for %s: %w", f.Language, err)
					}
					pp = &parserPair{lang: l, parser: l.NewParser(), query: q}
					parsers[f.Language] = pp
				}

				source, err := os.ReadFile(filepath.Join(root, f.Path))
				if err != nil {
					log.Warn("failed to read file", "path", f.Path, "err", err)
					finish(idx, fileResult{skipped: true})
					continue
				}

				file, err := parse.ExtractFile(ctx, pp.lang, pp.parser, pp.query, source, f.Path)
				if err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					log.Warn("failed to parse file", "path", f.Path, "err", err)
					finish(idx, fileResult{skipped: true})
					continue
				}

				finish(idx, fileResult{result: checker.CheckFile(file)})
			}
			return nil
		})
	}

	return g.Wait()
}
