package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

type TerminalIO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

var DefaultTermIO = TerminalIO{
	Stdin:  os.Stdin,
	Stdout: os.Stdout,
	Stderr: os.Stderr,
}

func (t *TerminalIO) Printf(msg string, args ...interface{}) {
	fmt.Fprintf(t.Stdout, msg, args...)
}

// BufferTermIO returns a TerminalIO backed by buffers, for tests.
func BufferTermIO(stdin io.Reader) (TerminalIO, *bytes.Buffer, *bytes.Buffer) {
	if stdin == nil {
		stdin = &bytes.Buffer{}
	}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return TerminalIO{Stdin: stdin, Stdout: stdout, Stderr: stderr}, stdout, stderr
}
