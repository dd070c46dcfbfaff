package runner

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jeffrom/topic/model"
	"github.com/jeffrom/topic/vcs"
)

func TestList(t *testing.T) {
	cfg := newTestConfig(t, nil)
	m := newTestMock(t).
		SetBranch("cool-topic", "bbbb0000").
		SetBranch("other-topic", "cccc0000").
		SetCurrentBranch("cool-topic").
		SetAheadBehind("cool-topic", "master", 2, 1).
		SetAheadBehind("other-topic", "master", 1, 0)
	r := New(cfg, m)

	branches, err := r.List(ctx())
	if err != nil {
		t.Fatal(err)
	}
	if len(branches) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(branches))
	}

	first := branches[0]
	if first.Name != "cool-topic" || !first.Current {
		t.Errorf("expected cool-topic to be current, got %+v", first)
	}
	if first.Ahead != 2 || first.Behind != 1 {
		t.Errorf("expected +2 -1, got +%d -%d", first.Ahead, first.Behind)
	}
	second := branches[1]
	if second.Name != "other-topic" || second.Current {
		t.Errorf("unexpected second branch: %+v", second)
	}
}

func TestListNoTopics(t *testing.T) {
	cfg := newTestConfig(t, nil)
	r := New(cfg, newTestMock(t))

	branches, err := r.List(ctx())
	if err != nil {
		t.Fatal(err)
	}
	if len(branches) != 0 {
		t.Fatalf("expected no topics, got %v", branches)
	}
}

func TestWriteBranches(t *testing.T) {
	cfg := newTestConfig(t, nil)
	r := New(cfg, vcs.NewMock())

	b := &bytes.Buffer{}
	err := r.WriteBranches(b, []*model.Branch{
		{Name: "cool-topic", Commit: "bbbb000011112222", Ahead: 2, Behind: 1, Current: true},
		{Name: "x", Commit: "cccc000011112222"},
	})
	if err != nil {
		t.Fatal(err)
	}

	out := b.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "* cool-topic bbbb0000 +2 -1") {
		t.Errorf("unexpected first line: %q", lines[0])
	}
	// names pad to a common width
	if !strings.HasPrefix(lines[1], "  x          cccc0000 +0 -0") {
		t.Errorf("unexpected second line: %q", lines[1])
	}
}
