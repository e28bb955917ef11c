package weblog

import (
	"io"
	"os"
	"regexp"
	"strconv"
)

// Pipe carries raw log text from a source to a sink, together with a sticky
// error status. Once a pipe has an error, every filter returns it unchanged
// and every sink returns the error with a zero result.
type Pipe struct {
	Reader ReadAutoCloser
	err    error
	stdout io.Writer
	source string
}

// NewPipe returns a pointer to a new empty pipe.
func NewPipe() *Pipe {
	return &Pipe{
		Reader: ReadAutoCloser{},
		stdout: os.Stdout,
	}
}

// Close closes the pipe's associated reader. It is safe to call on a nil or
// zero pipe.
func (p *Pipe) Close() error {
	if p == nil {
		return nil
	}
	return p.Reader.Close()
}

// Error returns the last error returned by any pipe operation, or nil otherwise.
func (p *Pipe) Error() error {
	if p == nil {
		return nil
	}
	return p.err
}

// Source describes where the pipe's data came from: a path, a URL, a command
// line, or "stdin". Filters keep the source of their input.
func (p *Pipe) Source() string {
	if p == nil {
		return ""
	}
	return p.source
}

var exitStatusPattern = regexp.MustCompile(`exit status (\d+)$`)

// ExitStatus returns the exit status of a failed Exec source, or zero if the
// pipe's error is not of the form "exit status N".
func (p *Pipe) ExitStatus() int {
	if p.Error() == nil {
		return 0
	}
	match := exitStatusPattern.FindStringSubmatch(p.Error().Error())
	if len(match) < 2 {
		return 0
	}
	status, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return status
}

// Read implements io.Reader. On a nil pipe it returns 0, io.EOF.
func (p *Pipe) Read(b []byte) (int, error) {
	if p == nil {
		return 0, io.EOF
	}
	return p.Reader.Read(b)
}

// SetError sets the pipe's error status. A non-nil error also closes the
// underlying reader.
func (p *Pipe) SetError(err error) {
	if p != nil {
		if err != nil {
			p.Close()
		}
		p.err = err
	}
}

// WithReader associates the pipe with r, which is closed automatically once it
// has been read to EOF.
func (p *Pipe) WithReader(r io.Reader) *Pipe {
	if p == nil {
		return nil
	}
	p.Reader = NewReadAutoCloser(r)
	return p
}

// WithSource records a description of where the pipe's data comes from.
func (p *Pipe) WithSource(source string) *Pipe {
	if p == nil {
		return nil
	}
	p.source = source
	return p
}

// WithStdout redirects the output of Stdout to w instead of os.Stdout.
func (p *Pipe) WithStdout(w io.Writer) *Pipe {
	if p == nil {
		return nil
	}
	p.stdout = w
	return p
}

// WithError sets the pipe's error status and returns the pipe.
func (p *Pipe) WithError(err error) *Pipe {
	p.SetError(err)
	return p
}

// derive returns a new pipe reading from r that inherits p's source and
// stdout.
func (p *Pipe) derive(r io.Reader) *Pipe {
	q := NewPipe().WithReader(r)
	q.source = p.source
	if p.stdout != nil {
		q.stdout = p.stdout
	}
	return q
}

// ReadAutoCloser wraps an io.Reader and closes it, if closable, as soon as a
// Read returns io.EOF. Response bodies and log files are released this way
// without the caller having to track them.
type ReadAutoCloser struct {
	r io.Reader
}

// NewReadAutoCloser wraps r, adding a no-op Close if r has none.
func NewReadAutoCloser(r io.Reader) ReadAutoCloser {
	if _, ok := r.(io.Closer); !ok {
		return ReadAutoCloser{io.NopCloser(r)}
	}
	return ReadAutoCloser{r}
}

func (a ReadAutoCloser) Read(b []byte) (n int, err error) {
	if a.r == nil {
		return 0, io.EOF
	}
	n, err = a.r.Read(b)
	if err == io.EOF {
		a.Close()
	}
	return n, err
}

// Close closes the wrapped reader.
func (a ReadAutoCloser) Close() error {
	if a.r == nil {
		return nil
	}
	return a.r.(io.Closer).Close()
}
