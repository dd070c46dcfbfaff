package runner

import (
	"context"

	"github.com/jeffrom/topic/model"
)

// List reports every local branch besides master with its divergence counts.
// It reads only; nothing is fetched or mutated.
func (r *Runner) List(ctx context.Context) ([]*model.Branch, error) {
	master, err := r.MasterBranch(ctx)
	if err != nil {
		return nil, err
	}
	// detached head is fine here, nothing is current then
	current, _ := r.vcs.CurrentBranch(ctx)

	names, err := r.vcs.LocalBranches(ctx)
	if err != nil {
		return nil, err
	}

	var branches []*model.Branch
	for _, name := range names {
		if name == master {
			continue
		}
		commit, err := r.vcs.RevParse(ctx, name)
		if err != nil {
			return nil, err
		}
		ahead, behind, err := r.vcs.AheadBehind(ctx, name, master)
		if err != nil {
			return nil, err
		}
		branches = append(branches, &model.Branch{
			Name:    name,
			Commit:  commit,
			Ahead:   ahead,
			Behind:  behind,
			Current: name == current,
		})
	}
	return branches, nil
}
