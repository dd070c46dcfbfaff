package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

type docData struct {
	Name string
}

// docPath returns the absolute path of a topic's document file. Slashes in
// branch names are flattened so every topic maps to one file in DocDir.
func (r *Runner) docPath(ctx context.Context, name string) (string, error) {
	top, err := r.vcs.TopLevel(ctx)
	if err != nil {
		return "", err
	}
	fileName := strings.ReplaceAll(name, "/", "-") + ".md"
	return filepath.Join(top, r.cfg.DocDir, fileName), nil
}

// scaffoldDoc renders the document template for a newly opened topic and
// returns the file's path. An existing file is left alone.
func (r *Runner) scaffoldDoc(ctx context.Context, name string) (string, error) {
	p, err := r.docPath(ctx, name)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(p); err == nil {
		return p, nil
	}

	t, err := template.New("doc").Parse(r.cfg.DocTemplate)
	if err != nil {
		return "", fmt.Errorf("runner: invalid doc template: %w", err)
	}
	b := &bytes.Buffer{}
	if err := t.Execute(b, docData{Name: name}); err != nil {
		return "", err
	}

	if r.cfg.Dryrun {
		r.cfg.Printf("+ write %s (dryrun)", p)
		return p, nil
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(p, b.Bytes(), 0644); err != nil {
		return "", err
	}
	return p, nil
}

// readDoc returns the document text for a topic about to be closed.
func (r *Runner) readDoc(ctx context.Context, name string) (string, error) {
	p, err := r.docPath(ctx, name)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: expected %s", ErrMissingDoc, p)
		}
		return "", err
	}
	text := strings.TrimSpace(string(b))
	if text == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrMissingDoc, p)
	}
	return text, nil
}
