// Package gitcli implements vcs.Interface using the git commandline tool.
package gitcli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jeffrom/topic/config"
	"github.com/jeffrom/topic/model"
	"github.com/jeffrom/topic/vcs"
)

// Git implements vcs.Interface using the git commandline tool.
type Git struct {
	cfg config.Config
	wd  string
}

func New(cfg config.Config, wd string) *Git {
	return &Git{
		cfg: cfg,
		wd:  wd,
	}
}

func (g *Git) Fetch(ctx context.Context, upstream string, refs ...string) error {
	args := append([]string{"fetch", upstream}, refs...)
	// a refspec like "master:master" moves a local ref, so it counts as a
	// mutation; a plain fetch stays live under dry-run
	for _, ref := range refs {
		if strings.Contains(ref, ":") {
			return g.mutate(ctx, args)
		}
	}
	_, err := g.call(ctx, args)
	return err
}

func (g *Git) Push(ctx context.Context, upstream, ref string, opts vcs.PushOpts) error {
	args := []string{"push"}
	if opts.SetUpstream {
		args = append(args, "--set-upstream")
	}
	if opts.Delete {
		args = append(args, "--delete")
	}
	if upstream == "" {
		upstream = "origin"
	}
	args = append(args, upstream, ref)
	return g.mutate(ctx, args)
}

func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	b, err := g.call(ctx, []string{"rev-parse", "--abbrev-ref", "HEAD"})
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(string(b))
	if name == "" || name == "HEAD" {
		// detached
		return "", vcs.NotFoundError{Ref: "HEAD"}
	}
	return name, nil
}

func (g *Git) GetMainBranch(ctx context.Context, upstream string, candidates []string) (string, error) {
	b, err := g.call(ctx, []string{"symbolic-ref", "--short", "refs/remotes/" + upstream + "/HEAD"})
	if err == nil {
		name := strings.TrimPrefix(strings.TrimSpace(string(b)), upstream+"/")
		if name != "" {
			return name, nil
		}
	}

	for _, cand := range candidates {
		if _, err := g.call(ctx, []string{"rev-parse", "--verify", "--quiet", "refs/heads/" + cand}); err == nil {
			return cand, nil
		}
		if _, err := g.call(ctx, []string{"rev-parse", "--verify", "--quiet", "refs/remotes/" + upstream + "/" + cand}); err == nil {
			return cand, nil
		}
	}
	return "", vcs.NotFoundError{Ref: strings.Join(candidates, ", ")}
}

func (g *Git) LocalBranches(ctx context.Context) ([]string, error) {
	return g.readRefNames(ctx, "refs/heads", "")
}

func (g *Git) RemoteBranches(ctx context.Context, upstream string) ([]string, error) {
	return g.readRefNames(ctx, "refs/remotes/"+upstream, upstream+"/")
}

func (g *Git) readRefNames(ctx context.Context, pattern, strip string) ([]string, error) {
	b, err := g.call(ctx, []string{"for-each-ref", "--format=%(refname:short)", pattern})
	if err != nil {
		return nil, err
	}
	var names []string
	scanner := bufio.NewScanner(bytes.NewBuffer(b))
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if strip != "" {
			name = strings.TrimPrefix(name, strip)
		}
		if name == "" || name == "HEAD" {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func (g *Git) CreateBranch(ctx context.Context, name, start string) error {
	return g.mutate(ctx, []string{"branch", name, start})
}

func (g *Git) SwitchBranch(ctx context.Context, name string) error {
	return g.mutate(ctx, []string{"checkout", name})
}

func (g *Git) DeleteBranch(ctx context.Context, name string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	return g.mutate(ctx, []string{"branch", flag, name})
}

func (g *Git) RevParse(ctx context.Context, ref string) (string, error) {
	b, err := g.call(ctx, []string{"rev-parse", "--verify", "--quiet", ref})
	if err != nil {
		return "", vcs.NotFoundError{Ref: ref}
	}
	return strings.TrimSpace(string(b)), nil
}

// AheadBehind counts the commits only reachable from ref (ahead) and only
// reachable from base (behind).
func (g *Git) AheadBehind(ctx context.Context, ref, base string) (int, int, error) {
	b, err := g.call(ctx, []string{"rev-list", "--left-right", "--count", base + "..." + ref})
	if err != nil {
		return 0, 0, err
	}
	parts := strings.Fields(strings.TrimSpace(string(b)))
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("gitcli: unexpected rev-list output: %q", string(b))
	}
	behind, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("gitcli: unexpected rev-list count: %q", parts[0])
	}
	ahead, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("gitcli: unexpected rev-list count: %q", parts[1])
	}
	return ahead, behind, nil
}

func (g *Git) Merge(ctx context.Context, ref string, opts vcs.MergeOpts) error {
	args := []string{"merge"}
	if opts.FFOnly {
		args = append(args, "--ff-only")
	}
	if opts.NoFF {
		args = append(args, "--no-ff")
	}
	if opts.Message != "" {
		args = append(args, "-m", opts.Message)
		if opts.Body != "" {
			args = append(args, "-m", opts.Body)
		}
	}
	args = append(args, ref)

	if g.cfg.Dryrun {
		g.cfg.Printf("+ git %s (dryrun)", ArgsString(args))
		return nil
	}
	if _, err := g.call(ctx, args); err != nil {
		if conflicted, cerr := g.hasUnmergedFiles(ctx); cerr == nil && conflicted {
			return vcs.ConflictError{Op: "merge", Ref: ref}
		}
		return err
	}
	return nil
}

func (g *Git) AbortMerge(ctx context.Context) error {
	return g.mutate(ctx, []string{"merge", "--abort"})
}

func (g *Git) Rebase(ctx context.Context, onto string) error {
	if g.cfg.Dryrun {
		g.cfg.Printf("+ git rebase %s (dryrun)", onto)
		return nil
	}
	if _, err := g.call(ctx, []string{"rebase", onto}); err != nil {
		if conflicted, cerr := g.hasUnmergedFiles(ctx); cerr == nil && conflicted {
			return vcs.ConflictError{Op: "rebase", Ref: onto}
		}
		return err
	}
	return nil
}

func (g *Git) AbortRebase(ctx context.Context) error {
	return g.mutate(ctx, []string{"rebase", "--abort"})
}

func (g *Git) WorkTreeClean(ctx context.Context) (bool, error) {
	b, err := g.call(ctx, []string{"status", "--porcelain"})
	if err != nil {
		return false, err
	}
	return len(bytes.TrimSpace(b)) == 0, nil
}

func (g *Git) TopLevel(ctx context.Context) (string, error) {
	b, err := g.call(ctx, []string{"rev-parse", "--show-toplevel"})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (g *Git) Add(ctx context.Context, paths ...string) error {
	args := append([]string{"add", "--"}, paths...)
	return g.mutate(ctx, args)
}

func (g *Git) Commit(ctx context.Context, message string) error {
	return g.mutate(ctx, []string{"commit", "-m", message})
}

func (g *Git) hasUnmergedFiles(ctx context.Context) (bool, error) {
	b, err := g.call(ctx, []string{"ls-files", "--unmerged"})
	if err != nil {
		return false, err
	}
	return len(bytes.TrimSpace(b)) > 0, nil
}

const EXPECTED_LOG_PARTS = 9

func (g *Git) ReadCommits(ctx context.Context, opts vcs.LogOpts) ([]*model.Commit, error) {
	args := []string{
		"log", "--pretty=tformat:_START_%H_SEP_%aN_SEP_%ae_SEP_%ai_SEP_%cN_SEP_%ce_SEP_%ci_SEP_%s_SEP_%b_END_",
	}
	if opts.MergesOnly {
		args = append(args, "--merges")
	}
	if opts.FirstParent {
		args = append(args, "--first-parent")
	}
	if opts.Max > 0 {
		args = append(args, "-n", strconv.Itoa(opts.Max))
	}
	if opts.Ref != "" {
		args = append(args, opts.Ref)
	}
	b, err := g.call(ctx, args)
	if err != nil {
		return nil, err
	}
	return parseCommits(b)
}

func parseCommits(b []byte) ([]*model.Commit, error) {
	var commits []*model.Commit
	scanner := bufio.NewScanner(bytes.NewBuffer(b))
	for scanner.Scan() {
		s := scanner.Text()
		parts := strings.Split(s, "_SEP_")
		if len(parts) != EXPECTED_LOG_PARTS {
			return nil, fmt.Errorf("gitcli: expected %d parts from git log, got %d", EXPECTED_LOG_PARTS, len(parts))
		}

		commitID := parts[0]
		if !strings.HasPrefix(commitID, "_START_") {
			return nil, fmt.Errorf("gitcli: unexpected git log line: %q", s)
		}
		commitID = strings.TrimPrefix(commitID, "_START_")

		// body can be multiple lines.
		var body string
		bodypart := parts[len(parts)-1]
		if strings.HasSuffix(bodypart, "_END_") {
			body = strings.TrimSuffix(bodypart, "_END_")
		} else {
			var bodyb strings.Builder
			bodyb.WriteString(bodypart)
			bodyb.WriteString("\n")
			for scanner.Scan() {
				bodyline := scanner.Text()
				if strings.HasSuffix(bodyline, "_END_") {
					if trimmed := strings.TrimSpace(strings.TrimSuffix(bodyline, "_END_")); trimmed != "" {
						bodyb.WriteString(trimmed)
					}
					break
				}
				bodyb.WriteString(bodyline)
				bodyb.WriteString("\n")
			}
			body = bodyb.String()
		}

		authorDateStr := parts[3]
		authorDate, err := parseGitTime(authorDateStr)
		if err != nil {
			return nil, err
		}
		committerDateStr := parts[6]
		committerDate, err := parseGitTime(committerDateStr)
		if err != nil {
			return nil, err
		}

		commits = append(commits, &model.Commit{
			ID:             commitID,
			Author:         parts[1],
			AuthorEmail:    parts[2],
			AuthorDate:     authorDate,
			Committer:      parts[4],
			CommitterEmail: parts[5],
			CommitterDate:  committerDate,
			Subject:        parts[7],
			Body:           body,
		})
	}
	return commits, nil
}
