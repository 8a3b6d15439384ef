package organize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ordenar/internal/category"
	"ordenar/internal/journal"
	"ordenar/internal/layout"
	"ordenar/internal/logging"
	"ordenar/internal/scan"
)

// Hooks carries the caller's synchronous observers. Log receives a
// human-readable line before the corresponding filesystem action; Progress
// receives (done, total) before the first candidate and after every one.
type Hooks struct {
	Log      func(line string)
	Progress func(done, total int)
}

func (h Hooks) log(line string) {
	if h.Log != nil {
		h.Log(line)
	}
}

func (h Hooks) progress(done, total int) {
	if h.Progress != nil {
		h.Progress(done, total)
	}
}

// Options selects the behavior of one engine run.
type Options struct {
	Root      string
	Recursive bool
	DryRun    bool
}

// Summary aggregates the outcome of one engine run.
type Summary struct {
	Moved      map[string]int
	Errors     int
	Total      int
	BytesMoved int64
	DryRun     bool
}

// MovedTotal returns the number of files moved (or counted, for dry runs).
func (s *Summary) MovedTotal() int {
	total := 0
	for _, n := range s.Moved {
		total += n
	}
	return total
}

// Config wires the engine's collaborators.
type Config struct {
	Table        *category.Table
	Store        *journal.Store // may be nil for dry-run-only engines
	Logger       *slog.Logger
	MonthNamer   layout.MonthNamer
	ExcludeGlobs []string
	Hooks        Hooks
}

// Engine performs sequential scan-then-move passes over one root at a time.
// Moves are never parallelized: collision-free name resolution is not safe
// under concurrent access to a destination directory.
type Engine struct {
	table    *category.Table
	scanner  *scan.Scanner
	resolver *layout.Resolver
	store    *journal.Store
	logger   *slog.Logger
	hooks    Hooks
}

// NewEngine constructs the engine. A nil logger disables structured
// logging; hooks default to no-ops.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		table:    cfg.Table,
		scanner:  scan.New(cfg.Table, cfg.ExcludeGlobs),
		resolver: layout.NewResolver(cfg.Table, cfg.MonthNamer),
		store:    cfg.Store,
		logger:   logging.NewComponentLogger(cfg.Logger, "organize"),
		hooks:    cfg.Hooks,
	}
}

// Run validates the root, creates the destination folders, and relocates
// (or, for dry runs, only tallies) every candidate file in scan order.
// Per-file failures are counted and logged but never abort the batch; only
// an invalid root is fatal. When the context is canceled between
// candidates, the journal is still flushed with the moves that already
// succeeded.
func (e *Engine) Run(ctx context.Context, opts Options) (*Summary, error) {
	root, err := scan.ValidateRoot(opts.Root)
	if err != nil {
		return nil, err
	}
	if !opts.DryRun && e.store == nil {
		return nil, errors.New("organize: journal store required for non-simulated runs")
	}

	e.logger.Info("starting organize run",
		logging.String(logging.FieldRoot, root),
		logging.Bool("recursive", opts.Recursive),
		logging.Bool("dry_run", opts.DryRun),
	)

	if !opts.DryRun {
		if err := e.ensureDestinations(root); err != nil {
			return nil, err
		}
	}

	candidates, err := e.scanner.Collect(root, opts.Recursive)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	total := len(candidates)
	e.logger.Info("scan completed", logging.Int("candidates", total))
	e.hooks.progress(0, total)

	summary := &Summary{Moved: make(map[string]int), Total: total, DryRun: opts.DryRun}
	var moves []journal.Move
	var runErr error

	for i, cand := range candidates {
		if err := ctx.Err(); err != nil {
			e.logger.Warn("run canceled, flushing completed moves", logging.Int("processed", i))
			runErr = err
			break
		}

		cat := e.table.Classify(cand.Ext)
		destDir := e.resolver.DestinationDir(root, cand, cat)

		if !opts.DryRun {
			if err := os.MkdirAll(destDir, 0o755); err != nil {
				e.recordFailure(summary, cand.Name, err)
				e.hooks.progress(i+1, total)
				continue
			}
		}

		destPath, err := layout.UniquePath(filepath.Join(destDir, cand.Name))
		if err != nil {
			e.recordFailure(summary, cand.Name, err)
			e.hooks.progress(i+1, total)
			continue
		}

		// The intent line goes out before the move so a record exists even
		// when the move fails or the run is simulated.
		e.hooks.log(fmt.Sprintf("%s  →  %s", cand.Name, displaySubpath(root, destDir, cat)))

		if opts.DryRun {
			summary.Moved[cat]++
		} else if err := moveFile(cand.Path, destPath); err != nil {
			e.recordFailure(summary, cand.Name, err)
		} else {
			summary.Moved[cat]++
			summary.BytesMoved += cand.Size
			moves = append(moves, journal.Move{NewPath: destPath, OriginalPath: cand.Path})
			e.logger.Debug("file moved",
				logging.String(logging.FieldCategory, cat),
				logging.String("from", cand.Path),
				logging.String("to", destPath),
			)
		}

		e.hooks.progress(i+1, total)
	}

	if !opts.DryRun && len(moves) > 0 {
		batch := journal.NewBatch(root, moves)
		if err := e.store.Replace(context.WithoutCancel(ctx), batch); err != nil {
			return summary, fmt.Errorf("persist journal: %w", err)
		}
		e.logger.Info("journal recorded",
			logging.String(logging.FieldBatchID, batch.ID),
			logging.Int("moves", len(moves)),
		)
	}

	e.logger.Info("organize run finished",
		logging.Int("moved", summary.MovedTotal()),
		logging.Int("errors", summary.Errors),
		logging.Int64("bytes", summary.BytesMoved),
	)
	return summary, runErr
}

// ensureDestinations idempotently creates every top-level destination
// folder, leaving pre-existing ones untouched.
func (e *Engine) ensureDestinations(root string) error {
	for _, name := range e.table.Names() {
		if err := os.MkdirAll(filepath.Join(root, name), 0o755); err != nil {
			return fmt.Errorf("create destination folder %q: %w", name, err)
		}
	}
	return nil
}

func (e *Engine) recordFailure(summary *Summary, name string, err error) {
	summary.Errors++
	e.hooks.log(fmt.Sprintf("  error moviendo %q: %v", name, err))
	e.logger.Error("move failed", logging.String("file", name), logging.Error(err))
}

// displaySubpath renders the destination subpath relative to the root with
// a trailing separator, falling back to the category name.
func displaySubpath(root, destDir, cat string) string {
	rel, err := filepath.Rel(root, destDir)
	if err != nil {
		rel = cat
	}
	return filepath.ToSlash(rel) + "/"
}
