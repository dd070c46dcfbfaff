package runner

import (
	"context"

	"github.com/jeffrom/topic/model"
	"github.com/jeffrom/topic/vcs"
)

// Log reads the merge commits on master's first-parent line, which is the
// history of closed topics.
func (r *Runner) Log(ctx context.Context, max int) ([]*model.Commit, error) {
	master, err := r.MasterBranch(ctx)
	if err != nil {
		return nil, err
	}
	return r.vcs.ReadCommits(ctx, vcs.LogOpts{
		Ref:         master,
		MergesOnly:  true,
		FirstParent: true,
		Max:         max,
	})
}
