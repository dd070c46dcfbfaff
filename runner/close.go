package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeffrom/topic/vcs"
)

// Close merges the current topic branch back into master with a merge commit
// carrying the topic's document text, pushes master, and deletes the branch
// remotely and then locally. The topic must already contain master's tip;
// run Update first when it doesn't.
func (r *Runner) Close(ctx context.Context) error {
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
	if behind > 0 {
		return fmt.Errorf("%w: %q is %d commit(s) behind %s, update first", ErrDiverged, name, behind, master)
	}

	doc, err := r.readDoc(ctx, name)
	if err != nil {
		return err
	}

	if err := r.vcs.SwitchBranch(ctx, master); err != nil {
		return err
	}
	opts := vcs.MergeOpts{
		NoFF:    true,
		Message: "topic: close " + name,
		Body:    doc,
	}
	if err := r.vcs.Merge(ctx, name, opts); err != nil {
		var conflict vcs.ConflictError
		if errors.As(err, &conflict) {
			if aerr := r.vcs.AbortMerge(ctx); aerr != nil {
				return fmt.Errorf("%w (and abort failed: %v)", err, aerr)
			}
			if serr := r.vcs.SwitchBranch(ctx, name); serr != nil {
				return fmt.Errorf("%w (and switching back failed: %v)", err, serr)
			}
		}
		return err
	}

	if !r.cfg.Offline {
		if err := r.vcs.Push(ctx, r.cfg.Remote, master, vcs.PushOpts{}); err != nil {
			return err
		}
		// remove the remote branch and its tracking ref first, otherwise
		// git refuses the local delete when the topic's last commits were
		// never pushed
		if err := r.vcs.Push(ctx, r.cfg.Remote, name, vcs.PushOpts{Delete: true}); err != nil {
			return err
		}
	}
	if err := r.vcs.DeleteBranch(ctx, name, false); err != nil {
		return err
	}

	r.cfg.Printf("Closed topic %q into %s", name, master)
	return nil
}
