// Package runner manages command-line execution
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeffrom/topic/config"
	"github.com/jeffrom/topic/vcs"
)

// Precondition violations. Every operation validates these before mutating
// anything and fails fast on the first violation.
var (
	ErrBadName      = errors.New("runner: invalid topic name")
	ErrBranchExists = errors.New("runner: branch already exists")
	ErrNotTopic     = errors.New("runner: not on a topic branch")
	ErrMasterAhead  = errors.New("runner: local master is ahead of remote")
	ErrDirty        = errors.New("runner: work tree has uncommitted changes")
	ErrDiverged     = errors.New("runner: topic has unresolved divergence from master")
	ErrMissingDoc   = errors.New("runner: topic document file is missing")
)

type Runner struct {
	cfg        config.Config
	vcs        vcs.Interface
	mainBranch string
}

func New(cfg config.Config, vcs vcs.Interface) *Runner {
	return &Runner{
		cfg: cfg,
		vcs: vcs,
	}
}

// MasterBranch resolves and caches the shared line all topics branch off of.
func (r *Runner) MasterBranch(ctx context.Context) (string, error) {
	if r.mainBranch != "" {
		return r.mainBranch, nil
	}
	mainBranch, err := r.vcs.GetMainBranch(ctx, r.cfg.Remote, r.cfg.MasterBranches)
	if err != nil {
		return "", fmt.Errorf("runner: no master branch found (tried %v): %w", r.cfg.MasterBranches, err)
	}
	r.mainBranch = mainBranch
	r.cfg.Debugf("master branch is %q", mainBranch)
	return mainBranch, nil
}

func (r *Runner) remoteMaster(master string) string {
	return r.cfg.Remote + "/" + master
}

// currentTopic validates that HEAD is on a branch other than master and
// returns both names.
func (r *Runner) currentTopic(ctx context.Context) (name, master string, err error) {
	master, err = r.MasterBranch(ctx)
	if err != nil {
		return "", "", err
	}
	name, err = r.vcs.CurrentBranch(ctx)
	if err != nil {
		return "", "", err
	}
	if name == master {
		return "", "", fmt.Errorf("%w: currently on %q", ErrNotTopic, master)
	}
	return name, master, nil
}

func (r *Runner) ensureClean(ctx context.Context) error {
	clean, err := r.vcs.WorkTreeClean(ctx)
	if err != nil {
		return err
	}
	if !clean {
		return fmt.Errorf("%w: commit or stash before retrying", ErrDirty)
	}
	return nil
}

// syncMaster brings local master in line with the remote. It fails when
// local master carries commits the remote doesn't have; this workflow only
// ever advances master through closed topics. Offline runs skip it.
func (r *Runner) syncMaster(ctx context.Context, master string) error {
	if r.cfg.Offline {
		r.cfg.Debugf("offline: skipping fetch of %s", r.remoteMaster(master))
		return nil
	}
	if err := r.vcs.Fetch(ctx, r.cfg.Remote, master); err != nil {
		return fmt.Errorf("runner: fetch %s %s failed: %w", r.cfg.Remote, master, err)
	}
	ahead, behind, err := r.vcs.AheadBehind(ctx, master, r.remoteMaster(master))
	if err != nil {
		return err
	}
	if ahead > 0 {
		return fmt.Errorf("%w: %s has %d local commit(s) not on %s", ErrMasterAhead, master, ahead, r.remoteMaster(master))
	}
	if behind == 0 {
		return nil
	}

	r.cfg.Printf("Fast-forwarding %s (%d behind %s)", master, behind, r.remoteMaster(master))
	current, err := r.vcs.CurrentBranch(ctx)
	if err == nil && current == master {
		return r.vcs.Merge(ctx, r.remoteMaster(master), vcs.MergeOpts{FFOnly: true})
	}
	// fast-forward the ref without touching the work tree
	return r.vcs.Fetch(ctx, r.cfg.Remote, master+":"+master)
}
