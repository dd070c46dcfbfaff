package runner

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jeffrom/topic/vcs"
)

// Open creates a new topic branch off master, switches to it, publishes it to
// the remote, and commits a scaffolded document file for the author to fill
// in before the topic is closed.
func (r *Runner) Open(ctx context.Context, name string) error {
	master, err := r.MasterBranch(ctx)
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrBadName)
	}
	if re := r.cfg.GetBranchRE(); re != nil && !re.MatchString(name) {
		return fmt.Errorf("%w: %q does not match %s", ErrBadName, name, r.cfg.BranchPattern)
	}
	if name == master {
		return fmt.Errorf("%w: %q is the master branch", ErrBranchExists, name)
	}
	if err := r.ensureClean(ctx); err != nil {
		return err
	}
	if err := r.syncMaster(ctx, master); err != nil {
		return err
	}

	locals, err := r.vcs.LocalBranches(ctx)
	if err != nil {
		return err
	}
	if contains(locals, name) {
		return fmt.Errorf("%w: local branch %q", ErrBranchExists, name)
	}
	if !r.cfg.Offline {
		remotes, err := r.vcs.RemoteBranches(ctx, r.cfg.Remote)
		if err != nil {
			return err
		}
		if contains(remotes, name) {
			return fmt.Errorf("%w: remote branch %s/%s", ErrBranchExists, r.cfg.Remote, name)
		}
	}

	if err := r.vcs.CreateBranch(ctx, name, master); err != nil {
		return err
	}
	if err := r.vcs.SwitchBranch(ctx, name); err != nil {
		return err
	}

	docPath, err := r.scaffoldDoc(ctx, name)
	if err != nil {
		return err
	}
	if err := r.vcs.Add(ctx, docPath); err != nil {
		return err
	}
	if err := r.vcs.Commit(ctx, "topic: open "+name); err != nil {
		return err
	}

	if !r.cfg.Offline {
		if err := r.vcs.Push(ctx, r.cfg.Remote, name, vcs.PushOpts{SetUpstream: true}); err != nil {
			return err
		}
	}

	r.cfg.Printf("Opened topic %q off %s", name, master)
	r.cfg.Printf("Describe it in %s before closing.", filepath.Join(r.cfg.DocDir, filepath.Base(docPath)))
	return nil
}

func contains(l []string, s string) bool {
	for _, cand := range l {
		if cand == s {
			return true
		}
	}
	return false
}
