// Package vcs abstracts version control systems. Currently just git.
package vcs

import (
	"context"
	"fmt"

	"github.com/jeffrom/topic/model"
)

type NotFoundError struct {
	Ref string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("vcs: ref %q not found", e.Ref)
}

// ConflictError is returned when a merge or rebase stops on conflicting
// changes. The operation has already been aborted by the time callers see
// this; the working tree is left as it was.
type ConflictError struct {
	Op  string
	Ref string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("vcs: %s %s stopped on conflicts", e.Op, e.Ref)
}

func (e ConflictError) Is(other error) bool {
	_, ok := other.(ConflictError)
	return ok
}

type Interface interface {
	Fetch(ctx context.Context, upstream string, refs ...string) error
	Push(ctx context.Context, upstream, ref string, opts PushOpts) error
	CurrentBranch(ctx context.Context) (string, error)
	GetMainBranch(ctx context.Context, upstream string, candidates []string) (string, error)
	LocalBranches(ctx context.Context) ([]string, error)
	RemoteBranches(ctx context.Context, upstream string) ([]string, error)
	CreateBranch(ctx context.Context, name, start string) error
	SwitchBranch(ctx context.Context, name string) error
	DeleteBranch(ctx context.Context, name string, force bool) error
	RevParse(ctx context.Context, ref string) (string, error)
	AheadBehind(ctx context.Context, ref, base string) (ahead, behind int, err error)
	Merge(ctx context.Context, ref string, opts MergeOpts) error
	AbortMerge(ctx context.Context) error
	Rebase(ctx context.Context, onto string) error
	AbortRebase(ctx context.Context) error
	WorkTreeClean(ctx context.Context) (bool, error)
	TopLevel(ctx context.Context) (string, error)
	Add(ctx context.Context, paths ...string) error
	Commit(ctx context.Context, message string) error
	ReadCommits(ctx context.Context, opts LogOpts) ([]*model.Commit, error)
}

type PushOpts struct {
	SetUpstream bool
	Delete      bool
}

type MergeOpts struct {
	NoFF    bool
	FFOnly  bool
	Message string
	Body    string
}

type LogOpts struct {
	Ref         string
	MergesOnly  bool
	FirstParent bool
	Max         int
}
