package vcs

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jeffrom/topic/model"
)

// Mock is a scriptable in-memory vcs.Interface for tests. Mutating calls
// update its maps so a sequence of runner operations sees consistent state,
// and every call is recorded in Calls for sequence assertions.
type Mock struct {
	t              time.Time
	current        string
	branches       map[string]string
	remoteBranches map[string]string
	aheadBehind    map[string][2]int
	commits        []*model.Commit
	topLevel       string
	dirty          bool
	fetchErr       error
	pushErr        error
	mergeErr       error
	rebaseErr      error

	Calls []string
}

func NewMock() *Mock {
	return &Mock{
		t:              time.Now(),
		branches:       make(map[string]string),
		remoteBranches: make(map[string]string),
		aheadBehind:    make(map[string][2]int),
	}
}

func (m *Mock) SetCurrentBranch(name string) *Mock {
	m.current = name
	return m
}

// SetBranch registers a local branch at a commit. An empty commit gets a
// synthetic one.
func (m *Mock) SetBranch(name, commit string) *Mock {
	if commit == "" {
		commit = syntheticCommit(name)
	}
	m.branches[name] = commit
	return m
}

func (m *Mock) SetRemoteBranch(name, commit string) *Mock {
	if commit == "" {
		commit = syntheticCommit(name)
	}
	m.remoteBranches[name] = commit
	return m
}

// SetAheadBehind scripts the divergence counts reported for ref relative to
// base.
func (m *Mock) SetAheadBehind(ref, base string, ahead, behind int) *Mock {
	m.aheadBehind[ref+"..."+base] = [2]int{ahead, behind}
	return m
}

func (m *Mock) SetCommits(commits ...*model.Commit) *Mock {
	finalCommits := make([]*model.Commit, len(commits))
	for i, commit := range commits {
		c := *commit
		if c.CommitterDate.IsZero() {
			c.CommitterDate = m.t
			m.t = m.t.Add(-time.Minute)
		}
		finalCommits[i] = &c
	}
	m.commits = finalCommits
	return m
}

func (m *Mock) SetTopLevel(dir string) *Mock { m.topLevel = dir; return m }

func (m *Mock) SetDirty() *Mock            { m.dirty = true; return m }
func (m *Mock) FailFetch(err error) *Mock  { m.fetchErr = err; return m }
func (m *Mock) FailPush(err error) *Mock   { m.pushErr = err; return m }
func (m *Mock) FailMerge(err error) *Mock  { m.mergeErr = err; return m }
func (m *Mock) FailRebase(err error) *Mock { m.rebaseErr = err; return m }

func (m *Mock) record(parts ...string) {
	m.Calls = append(m.Calls, strings.Join(parts, " "))
}

func (m *Mock) Fetch(ctx context.Context, upstream string, refs ...string) error {
	m.record(append([]string{"fetch", upstream}, refs...)...)
	return m.fetchErr
}

func (m *Mock) Push(ctx context.Context, upstream, ref string, opts PushOpts) error {
	verb := "push"
	if opts.Delete {
		verb = "push-delete"
	}
	m.record(verb, upstream, ref)
	if m.pushErr != nil {
		return m.pushErr
	}
	if opts.Delete {
		delete(m.remoteBranches, ref)
	} else if commit, ok := m.branches[ref]; ok {
		m.remoteBranches[ref] = commit
	}
	return nil
}

func (m *Mock) CurrentBranch(ctx context.Context) (string, error) {
	if m.current == "" {
		return "", NotFoundError{Ref: "HEAD"}
	}
	return m.current, nil
}

func (m *Mock) GetMainBranch(ctx context.Context, upstream string, candidates []string) (string, error) {
	for _, cand := range candidates {
		if _, ok := m.branches[cand]; ok {
			return cand, nil
		}
		if _, ok := m.remoteBranches[cand]; ok {
			return cand, nil
		}
	}
	return "", NotFoundError{Ref: strings.Join(candidates, ", ")}
}

func (m *Mock) LocalBranches(ctx context.Context) ([]string, error) {
	return sortedKeys(m.branches), nil
}

func (m *Mock) RemoteBranches(ctx context.Context, upstream string) ([]string, error) {
	return sortedKeys(m.remoteBranches), nil
}

func (m *Mock) CreateBranch(ctx context.Context, name, start string) error {
	m.record("branch", name, start)
	commit, ok := m.branches[start]
	if !ok {
		commit, ok = m.remoteBranches[stripRemote(start)]
	}
	if !ok {
		commit = start
	}
	m.branches[name] = commit
	return nil
}

func (m *Mock) SwitchBranch(ctx context.Context, name string) error {
	m.record("switch", name)
	if _, ok := m.branches[name]; !ok {
		return NotFoundError{Ref: name}
	}
	m.current = name
	return nil
}

func (m *Mock) DeleteBranch(ctx context.Context, name string, force bool) error {
	m.record("branch-delete", name)
	if _, ok := m.branches[name]; !ok {
		return NotFoundError{Ref: name}
	}
	delete(m.branches, name)
	return nil
}

func (m *Mock) RevParse(ctx context.Context, ref string) (string, error) {
	if commit, ok := m.branches[ref]; ok {
		return commit, nil
	}
	if commit, ok := m.remoteBranches[stripRemote(ref)]; ok {
		return commit, nil
	}
	return "", NotFoundError{Ref: ref}
}

// stripRemote turns "origin/master" into "master".
func stripRemote(ref string) string {
	if i := strings.IndexByte(ref, '/'); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

func (m *Mock) AheadBehind(ctx context.Context, ref, base string) (int, int, error) {
	counts, ok := m.aheadBehind[ref+"..."+base]
	if !ok {
		return 0, 0, nil
	}
	return counts[0], counts[1], nil
}

func (m *Mock) Merge(ctx context.Context, ref string, opts MergeOpts) error {
	m.record("merge", ref)
	if m.mergeErr != nil {
		return m.mergeErr
	}
	if commit, ok := m.branches[ref]; ok && m.current != "" {
		m.branches[m.current] = commit
	}
	return nil
}

func (m *Mock) AbortMerge(ctx context.Context) error {
	m.record("merge-abort")
	return nil
}

func (m *Mock) Rebase(ctx context.Context, onto string) error {
	m.record("rebase", onto)
	return m.rebaseErr
}

func (m *Mock) AbortRebase(ctx context.Context) error {
	m.record("rebase-abort")
	return nil
}

func (m *Mock) WorkTreeClean(ctx context.Context) (bool, error) {
	return !m.dirty, nil
}

func (m *Mock) TopLevel(ctx context.Context) (string, error) {
	if m.topLevel == "" {
		return ".", nil
	}
	return m.topLevel, nil
}

func (m *Mock) Add(ctx context.Context, paths ...string) error {
	m.record(append([]string{"add"}, paths...)...)
	return nil
}

func (m *Mock) Commit(ctx context.Context, message string) error {
	m.record("commit", message)
	return nil
}

func (m *Mock) ReadCommits(ctx context.Context, opts LogOpts) ([]*model.Commit, error) {
	return m.commits, nil
}

func syntheticCommit(name string) string {
	return fmt.Sprintf("%08x%08x", len(name), hashString(name))
}

func hashString(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

func sortedKeys(m map[string]string) []string {
	var keys []string
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
