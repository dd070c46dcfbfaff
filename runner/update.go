package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeffrom/topic/config"
	"github.com/jeffrom/topic/vcs"
)

// Update brings the current topic branch up to date with master, merging by
// default or rebasing when configured. Conflicts abort the operation and
// leave the work tree as it was.
func (r *Runner) Update(ctx context.Context) error {
	name, master, err := r.currentTopic(ctx)
	if err != nil {
		return err
	}
	if err := r.ensureClean(ctx); err != nil {
		return err
	}
	if err := r.syncMaster(ctx, master); err != nil {
		return err
	}

	_, behind, err := r.vcs.AheadBehind(ctx, name, master)
	if err != nil {
		return err
	}
	if behind == 0 {
		r.cfg.Printf("Topic %q is already up to date with %s", name, master)
		return nil
	}

	switch r.cfg.UpdateMode {
	case config.UpdateRebase:
		if err := r.vcs.Rebase(ctx, master); err != nil {
			return r.handleConflict(ctx, err)
		}
	default:
		opts := vcs.MergeOpts{Message: fmt.Sprintf("topic: update %s from %s", name, master)}
		if err := r.vcs.Merge(ctx, master, opts); err != nil {
			return r.handleConflict(ctx, err)
		}
	}

	r.cfg.Printf("Updated topic %q with %d commit(s) from %s", name, behind, master)
	return nil
}

// handleConflict aborts a conflicted merge or rebase before reporting it.
func (r *Runner) handleConflict(ctx context.Context, err error) error {
	var conflict vcs.ConflictError
	if !errors.As(err, &conflict) {
		return err
	}
	var aerr error
	if conflict.Op == "rebase" {
		aerr = r.vcs.AbortRebase(ctx)
	} else {
		aerr = r.vcs.AbortMerge(ctx)
	}
	if aerr != nil {
		return fmt.Errorf("%w (and abort failed: %v)", err, aerr)
	}
	return fmt.Errorf("%w: resolve by updating in smaller steps or closing the conflicting topic first", err)
}
