package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func die(err error) {
	if err != nil {
		panic(err)
	}
}

func strs(args ...string) []string { return args }

func call(ctx context.Context, t *testing.T, dir string, name string, args ...string) string {
	t.Helper()
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	b, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("%s %v failed: %v\n%s", name, args, err, string(b))
	}
	return string(b)
}

func callTopic(t *testing.T, args ...string) error {
	t.Helper()
	t.Logf("+ topic %s", strings.Join(args, " "))
	return run(append([]string{"topic"}, args...))
}

// initRepo creates a git repo with one commit on master and returns its path.
func initRepo(ctx context.Context, t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	call(ctx, t, dir, "git", "init")
	call(ctx, t, dir, "git", "symbolic-ref", "HEAD", "refs/heads/master")
	call(ctx, t, dir, "git", "config", "--local", "user.email", "topic-test@example.com")
	call(ctx, t, dir, "git", "config", "--local", "user.name", "topic-test")
	die(os.WriteFile(filepath.Join(dir, "README"), []byte("cool repo\n"), 0644))
	call(ctx, t, dir, "git", "add", "README")
	call(ctx, t, dir, "git", "commit", "-m", "initial commit")
	return dir
}

func currentBranch(ctx context.Context, t *testing.T, dir string) string {
	return strings.TrimSpace(call(ctx, t, dir, "git", "rev-parse", "--abbrev-ref", "HEAD"))
}

func TestTopicOfflineLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("-short")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	dir := initRepo(ctx, t)

	if err := callTopic(t, "--offline", "--repo", dir, "--open", "cool-topic"); err != nil {
		t.Fatal(err)
	}
	if got := currentBranch(ctx, t, dir); got != "cool-topic" {
		t.Fatalf("expected to be on cool-topic, got %q", got)
	}
	docPath := filepath.Join(dir, "docs", "topics", "cool-topic.md")
	if _, err := os.Stat(docPath); err != nil {
		t.Fatalf("expected scaffolded doc file: %v", err)
	}

	// some work on the topic
	die(os.WriteFile(filepath.Join(dir, "feature.txt"), []byte("new feature\n"), 0644))
	call(ctx, t, dir, "git", "add", "feature.txt")
	call(ctx, t, dir, "git", "commit", "-m", "add feature")

	// master moves on independently
	call(ctx, t, dir, "git", "checkout", "master")
	die(os.WriteFile(filepath.Join(dir, "other.txt"), []byte("other work\n"), 0644))
	call(ctx, t, dir, "git", "add", "other.txt")
	call(ctx, t, dir, "git", "commit", "-m", "other work on master")
	call(ctx, t, dir, "git", "checkout", "cool-topic")

	// close refuses while the topic is behind master
	if err := callTopic(t, "--offline", "--repo", dir, "--close"); err == nil {
		t.Fatal("expected close to fail while diverged from master")
	}
	if err := callTopic(t, "--offline", "--repo", dir, "--update"); err != nil {
		t.Fatal(err)
	}

	// describe the topic
	die(os.WriteFile(docPath, []byte("cool-topic\n\nadds the cool feature\n"), 0644))
	call(ctx, t, dir, "git", "add", docPath)
	call(ctx, t, dir, "git", "commit", "-m", "describe cool-topic")

	if err := callTopic(t, "--offline", "--repo", dir, "--close"); err != nil {
		t.Fatal(err)
	}
	if got := currentBranch(ctx, t, dir); got != "master" {
		t.Fatalf("expected to be back on master, got %q", got)
	}
	branches := call(ctx, t, dir, "git", "branch", "--list", "cool-topic")
	if strings.TrimSpace(branches) != "" {
		t.Fatalf("expected cool-topic to be deleted, got %q", branches)
	}
	subject := strings.TrimSpace(call(ctx, t, dir, "git", "log", "-n", "1", "--pretty=%s"))
	if subject != "topic: close cool-topic" {
		t.Fatalf("unexpected merge subject: %q", subject)
	}
	body := call(ctx, t, dir, "git", "log", "-n", "1", "--pretty=%b")
	if !strings.Contains(body, "adds the cool feature") {
		t.Fatalf("expected doc text in merge body, got %q", body)
	}

	// the merge shows up in the log report
	if err := callTopic(t, "--repo", dir, "--log"); err != nil {
		t.Fatal(err)
	}
}

func TestTopicOpenValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("-short")
	}
	ctx := context.Background()
	dir := initRepo(ctx, t)

	tcs := []struct {
		name string
		args []string
	}{
		{name: "bad-name", args: strs("--offline", "--open", "Not A Name")},
		{name: "master-collision", args: strs("--offline", "--open", "master")},
		{name: "unexpected-positional", args: strs("--offline", "stray")},
		{name: "two-operations", args: strs("--offline", "--list", "--update")},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"--repo", dir}, tc.args...)
			if err := callTopic(t, args...); err == nil {
				t.Fatal("expected failure")
			}
		})
	}

	// collision with an existing branch
	if err := callTopic(t, "--offline", "--repo", dir, "--open", "taken"); err != nil {
		t.Fatal(err)
	}
	call(ctx, t, dir, "git", "checkout", "master")
	if err := callTopic(t, "--offline", "--repo", dir, "--open", "taken"); err == nil {
		t.Fatal("expected collision failure")
	}
}

func TestTopicCloseRequiresDoc(t *testing.T) {
	if testing.Short() {
		t.Skip("-short")
	}
	ctx := context.Background()
	dir := initRepo(ctx, t)

	if err := callTopic(t, "--offline", "--repo", dir, "--open", "undocumented"); err != nil {
		t.Fatal(err)
	}
	docPath := filepath.Join(dir, "docs", "topics", "undocumented.md")
	call(ctx, t, dir, "git", "rm", "-q", docPath)
	call(ctx, t, dir, "git", "commit", "-m", "drop doc")

	if err := callTopic(t, "--offline", "--repo", dir, "--close"); err == nil {
		t.Fatal("expected close to fail without the doc file")
	}
}

func TestTopicCloseOnMaster(t *testing.T) {
	if testing.Short() {
		t.Skip("-short")
	}
	ctx := context.Background()
	dir := initRepo(ctx, t)

	if err := callTopic(t, "--offline", "--repo", dir, "--close"); err == nil {
		t.Fatal("expected close to fail on master")
	}
	if err := callTopic(t, "--offline", "--repo", dir, "--update"); err == nil {
		t.Fatal("expected update to fail on master")
	}
}

func TestTopicList(t *testing.T) {
	if testing.Short() {
		t.Skip("-short")
	}
	ctx := context.Background()
	dir := initRepo(ctx, t)

	for _, name := range []string{"topic-a", "topic-b"} {
		if err := callTopic(t, "--offline", "--repo", dir, "--open", name); err != nil {
			t.Fatal(err)
		}
		call(ctx, t, dir, "git", "checkout", "master")
	}
	if err := callTopic(t, "--repo", dir, "--list"); err != nil {
		t.Fatal(err)
	}
}

func TestReadTopicYAMLRelativeRepo(t *testing.T) {
	wd, err := os.Getwd()
	die(err)
	defer os.Chdir(wd)
	die(os.Chdir(t.TempDir()))

	// a relative repo path with no topic.yaml anywhere above it walks up
	// to the root and stops
	cfg, err := readTopicYAML("", "no-such-dir")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != nil {
		t.Fatalf("expected no config, got %+v", cfg)
	}
}

func TestTopicYAMLConfig(t *testing.T) {
	if testing.Short() {
		t.Skip("-short")
	}
	ctx := context.Background()
	dir := initRepo(ctx, t)

	// restrict topic names via config file
	die(os.WriteFile(filepath.Join(dir, "topic.yaml"), []byte("branch_pattern: '^t/[a-z-]+$'\n"), 0644))
	call(ctx, t, dir, "git", "add", "topic.yaml")
	call(ctx, t, dir, "git", "commit", "-m", "add topic.yaml")

	if err := callTopic(t, "--offline", "--repo", dir, "--open", "cool-topic"); err == nil {
		t.Fatal("expected pattern rejection from topic.yaml")
	}
	if err := callTopic(t, "--offline", "--repo", dir, "--open", "t/cool-topic"); err != nil {
		t.Fatal(err)
	}
}
