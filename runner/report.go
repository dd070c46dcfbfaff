package runner

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/jeffrom/topic/model"
)

var (
	currentStyle = lipgloss.NewStyle().Bold(true)
	commitStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	aheadStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	behindStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	subjectStyle = lipgloss.NewStyle().Bold(true)
)

func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

// WriteBranches prints one line per topic branch: a marker for the current
// branch, name, short commit, and divergence counts relative to master.
func (r *Runner) WriteBranches(w io.Writer, branches []*model.Branch) error {
	color := useColor(w)
	bw := bufio.NewWriter(w)

	nameWidth := 0
	for _, b := range branches {
		if len(b.Name) > nameWidth {
			nameWidth = len(b.Name)
		}
	}

	for _, b := range branches {
		marker := " "
		if b.Current {
			marker = "*"
		}
		name := fmt.Sprintf("%-*s", nameWidth, b.Name)
		commit := b.ShortCommit()
		ahead := fmt.Sprintf("+%d", b.Ahead)
		behind := fmt.Sprintf("-%d", b.Behind)
		if color {
			if b.Current {
				name = currentStyle.Render(name)
			}
			commit = commitStyle.Render(commit)
			ahead = aheadStyle.Render(ahead)
			behind = behindStyle.Render(behind)
		}
		fmt.Fprintf(bw, "%s %s %s %s %s\n", marker, name, commit, ahead, behind)
	}
	return bw.Flush()
}

// WriteLog prints closed-topic merge entries: timestamp, author, and subject
// on one line, body indented below.
func (r *Runner) WriteLog(w io.Writer, commits []*model.Commit) error {
	color := useColor(w)
	bw := bufio.NewWriter(w)

	for _, c := range commits {
		subject := c.Subject
		commit := c.ShortID()
		if color {
			subject = subjectStyle.Render(subject)
			commit = commitStyle.Render(commit)
		}
		fmt.Fprintf(bw, "%s %s %s <%s>\n", commit, c.CommitterDate.Format("2006-01-02 15:04"), c.Author, c.AuthorEmail)
		fmt.Fprintf(bw, "  %s\n", subject)
		if body := strings.TrimSpace(c.Body); body != "" {
			for _, line := range strings.Split(body, "\n") {
				fmt.Fprintf(bw, "    %s\n", line)
			}
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}
