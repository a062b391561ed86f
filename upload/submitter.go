package upload

import (
	"context"
	"fmt"

	"github.com/hupe1980/ragstream/core"
)

// Submitter performs one file submission. A returned error or a Result with
// Success == false counts as a failed task.
type Submitter interface {
	Submit(ctx context.Context, f File) (Result, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, f File) (Result, error)

// Submit implements Submitter.
func (fn SubmitterFunc) Submit(ctx context.Context, f File) (Result, error) { return fn(ctx, f) }

// StoreSubmitter writes files into an artifact store under a generated id.
type StoreSubmitter struct {
	Store     core.ArtifactStore
	SessionID string
	// KeepName stores the file under its own name instead of a generated id.
	KeepName bool
}

// Submit implements Submitter.
func (s StoreSubmitter) Submit(ctx context.Context, f File) (Result, error) {
	data, err := f.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", f.Name, err)
	}

	id := core.NewID() + lowerExt(f.Name)
	if s.KeepName {
		id = f.Name
	}
	if err := s.Store.Save(ctx, s.SessionID, id, data); err != nil {
		return Result{}, fmt.Errorf("store %s: %w", f.Name, err)
	}
	return Result{Success: true, Message: fmt.Sprintf("%s stored", f.Name), FileID: id}, nil
}
