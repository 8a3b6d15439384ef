package organize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ordenar/internal/journal"
	"ordenar/internal/layout"
	"ordenar/internal/logging"
)

// ErrNothingToUndo indicates no journal is available to replay. Callers
// should present this distinctly from a completed undo.
var ErrNothingToUndo = errors.New("nothing to undo")

// UndoResult aggregates the outcome of replaying one journal.
type UndoResult struct {
	BatchID  string
	Root     string
	Restored int
	Errors   int
}

// Undo replays the persisted journal in recorded order, moving each file
// back to its original location with fresh collision avoidance. Per-record
// failures are counted and logged; remaining records are still attempted.
// The journal is cleared unconditionally afterwards — an undo is a
// one-shot, non-retryable operation on a given journal.
func (e *Engine) Undo(ctx context.Context) (*UndoResult, error) {
	if e.store == nil {
		return nil, errors.New("organize: journal store required for undo")
	}

	batch, err := e.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load journal: %w", err)
	}
	if batch == nil || len(batch.Moves) == 0 {
		return nil, ErrNothingToUndo
	}

	e.logger.Info("starting undo",
		logging.String(logging.FieldBatchID, batch.ID),
		logging.String(logging.FieldRoot, batch.Root),
		logging.Int("moves", len(batch.Moves)),
	)

	result := &UndoResult{BatchID: batch.ID, Root: batch.Root}
	total := len(batch.Moves)
	e.hooks.progress(0, total)

	for i, move := range batch.Moves {
		if err := e.restore(move); err != nil {
			result.Errors++
			e.hooks.log(fmt.Sprintf("  error restaurando %q: %v", filepath.Base(move.NewPath), err))
			e.logger.Error("restore failed",
				logging.String("from", move.NewPath),
				logging.String("to", move.OriginalPath),
				logging.Error(err),
			)
		} else {
			result.Restored++
		}
		e.hooks.progress(i+1, total)
	}

	// Even a partial undo consumes the journal.
	if err := e.store.Clear(context.WithoutCancel(ctx)); err != nil {
		e.logger.Error("clear journal after undo", logging.Error(err))
	}

	e.logger.Info("undo finished",
		logging.Int("restored", result.Restored),
		logging.Int("errors", result.Errors),
	)
	return result, nil
}

func (e *Engine) restore(move journal.Move) error {
	// The original parent may have been removed since the organize run.
	if err := os.MkdirAll(filepath.Dir(move.OriginalPath), 0o755); err != nil {
		return fmt.Errorf("recreate parent: %w", err)
	}

	// The original location may now hold an unrelated file.
	dest, err := layout.UniquePath(move.OriginalPath)
	if err != nil {
		return err
	}

	e.hooks.log(fmt.Sprintf("%s  →  %s", filepath.Base(move.NewPath), dest))
	return moveFile(move.NewPath, dest)
}
