package runner

import (
	"os"
	"strings"
	"testing"

	"github.com/jeffrom/topic/config"
)

func TestScaffoldDoc(t *testing.T) {
	cfg := newTestConfig(t, nil)
	m := newTestMock(t)
	r := New(cfg, m)

	p, err := r.scaffoldDoc(ctx(), "cool-topic")
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "cool-topic") {
		t.Errorf("expected rendered topic name in doc:\n%s", string(b))
	}

	// a second scaffold leaves the file alone
	if err := os.WriteFile(p, []byte("already written"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := r.scaffoldDoc(ctx(), "cool-topic"); err != nil {
		t.Fatal(err)
	}
	b, _ = os.ReadFile(p)
	if string(b) != "already written" {
		t.Errorf("expected existing doc to survive, got %q", string(b))
	}
}

func TestScaffoldDocSlashes(t *testing.T) {
	cfg := newTestConfig(t, nil)
	r := New(cfg, newTestMock(t))

	p, err := r.scaffoldDoc(ctx(), "fix/parser")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(p, "fix-parser.md") {
		t.Errorf("expected flattened doc file name, got %s", p)
	}
}

func TestScaffoldDocDryrun(t *testing.T) {
	cfg := newTestConfig(t, &config.Config{Dryrun: true})
	r := New(cfg, newTestMock(t))

	p, err := r.scaffoldDoc(ctx(), "cool-topic")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Errorf("expected no file in dry-run mode, stat err: %v", err)
	}
}

func TestReadDoc(t *testing.T) {
	cfg := newTestConfig(t, nil)
	m := newTestMock(t)
	writeDoc(t, m, "cool-topic", "cool-topic\n\nthe description\n")
	r := New(cfg, m)

	text, err := r.readDoc(ctx(), "cool-topic")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(text, "cool-topic") {
		t.Errorf("unexpected doc text: %q", text)
	}
}
