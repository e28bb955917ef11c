package weblog

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

// Echo returns a pipe containing the supplied string.
func Echo(s string) *Pipe {
	return NewPipe().WithReader(strings.NewReader(s)).WithSource("echo")
}

// File returns a pipe reading the log file at path. If the file cannot be
// opened, the pipe's error status is set.
func File(path string) *Pipe {
	p := NewPipe().WithSource(path)
	f, err := os.Open(path)
	if err != nil {
		return p.WithError(err)
	}
	return p.WithReader(f)
}

// Stdin returns a pipe which reads from the program's standard input.
func Stdin() *Pipe {
	return NewPipe().WithReader(os.Stdin).WithSource("stdin")
}

// Slice returns a pipe containing each element of s as a separate line. It is
// a convenient way to build a log out of literal CSV lines.
func Slice(s []string) *Pipe {
	if len(s) == 0 {
		return Echo("").WithSource("slice")
	}
	return Echo(strings.Join(s, "\n") + "\n").WithSource("slice")
}

// Exec runs an external command, such as a decompressor or a remote copy, and
// returns a pipe containing its standard output. The command line is split
// using shell quoting rules but is not run by a shell. If the command exits
// with a non-zero status, the pipe's error status is set to "exit status N"
// and the command's standard error is appended to the pipe's contents. On
// success standard error is discarded, so warnings never become log records.
func Exec(cmdLine string) *Pipe {
	p := NewPipe().WithSource(cmdLine)
	args, err := shell.Fields(cmdLine, nil)
	if err != nil {
		return p.WithError(fmt.Errorf("parsing command line %q: %w", cmdLine, err))
	}
	if len(args) == 0 {
		return p.WithError(fmt.Errorf("empty command line"))
	}
	cmd := exec.Command(args[0], args[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		p.WithReader(bytes.NewReader(append(output, stderr.Bytes()...)))
		p.SetError(err)
		return p
	}
	return p.WithReader(bytes.NewReader(output))
}
