package weblog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// String returns the contents of the pipe as a string, or an error, and closes
// the pipe after reading.
func (p *Pipe) String() (string, error) {
	data, err := p.Bytes()
	return string(data), err
}

// Bytes returns the contents of the pipe as a []byte, or an error, and closes
// the pipe after reading.
func (p *Pipe) Bytes() ([]byte, error) {
	if p.Error() != nil {
		return nil, p.Error()
	}
	if p == nil {
		return nil, nil
	}
	defer p.Close()
	res, err := io.ReadAll(p.Reader)
	if err != nil {
		p.SetError(err)
		return nil, err
	}
	return res, nil
}

// Stdout writes the contents of the pipe to the program's standard output, or
// to the writer set with WithStdout. It returns the number of bytes written.
func (p *Pipe) Stdout() (int, error) {
	if p == nil {
		return 0, nil
	}
	if p.Error() != nil {
		return 0, p.Error()
	}
	data, err := p.Bytes()
	if err != nil {
		return 0, err
	}
	if p.stdout == nil {
		p.stdout = os.Stdout
	}
	return p.stdout.Write(data)
}

// WriteFile writes the contents of the pipe to the named file, truncating it
// first, and returns the number of bytes written. Downloading a log this way
// keeps a local copy for later runs.
func (p *Pipe) WriteFile(path string) (int64, error) {
	if p == nil {
		return 0, nil
	}
	if p.Error() != nil {
		return 0, p.Error()
	}
	defer p.Close()
	out, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		p.SetError(err)
		return 0, err
	}
	defer out.Close()
	wrote, err := io.Copy(out, p.Reader)
	if err != nil {
		p.SetError(err)
		return 0, err
	}
	return wrote, nil
}

// Log reads the pipe as comma-separated records and returns them as a Log.
// Records may have any number of fields, quotes are handled leniently, and
// blank lines yield no record. A CSV syntax error sets the pipe's error
// status; it means the source is not a log at all, so nothing is returned.
func (p *Pipe) Log() (Log, error) {
	if p == nil {
		return Log{}, nil
	}
	if p.Error() != nil {
		return nil, p.Error()
	}
	defer p.Close()
	r := csv.NewReader(p.Reader)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	log := Log{}
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			return log, nil
		}
		if err != nil {
			err = fmt.Errorf("reading log from %s: %w", p.describe(), err)
			p.SetError(err)
			return nil, err
		}
		log = append(log, Record(fields))
	}
}

func (p *Pipe) describe() string {
	if p.source == "" {
		return "pipe"
	}
	return p.source
}
