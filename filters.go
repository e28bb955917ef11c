package weblog

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/itchyny/gojq"
)

// EachLine calls process for each line of input, passing it the line and a
// *strings.Builder to write output to. It returns a pipe containing whatever
// process wrote.
func (p *Pipe) EachLine(process func(string, *strings.Builder)) *Pipe {
	if p == nil || p.Error() != nil {
		return p
	}
	scanner := bufio.NewScanner(p.Reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	output := strings.Builder{}
	for scanner.Scan() {
		process(scanner.Text(), &output)
		if p.Error() != nil {
			return p
		}
	}
	if err := scanner.Err(); err != nil {
		p.SetError(err)
		return p
	}
	return p.derive(strings.NewReader(output.String()))
}

// maxLineLength bounds a single log line. User-agent strings can be long, but
// nothing legitimate comes near this.
const maxLineLength = 1 << 20

// Match keeps only the lines which contain s, for example a date prefix or a
// virtual host name, before the log is parsed. It works on raw lines, so a
// quoted field containing a newline is split across two lines and each half
// is matched on its own.
func (p *Pipe) Match(s string) *Pipe {
	return p.EachLine(func(line string, out *strings.Builder) {
		if strings.Contains(line, s) {
			out.WriteString(line)
			out.WriteRune('\n')
		}
	})
}

// Reject drops the lines which contain s, for example health-check requests.
// Like Match, it does not understand CSV quoting.
func (p *Pipe) Reject(s string) *Pipe {
	return p.EachLine(func(line string, out *strings.Builder) {
		if !strings.Contains(line, s) {
			out.WriteString(line)
			out.WriteRune('\n')
		}
	})
}

// JQ reads a JSON document from the pipe, runs the jq query on it, and returns
// a pipe containing each result on its own line, encoded as compact JSON with
// object keys sorted. A
// query that fails to parse or to run sets the pipe's error status.
func (p *Pipe) JQ(query string) *Pipe {
	if p == nil || p.Error() != nil {
		return p
	}
	q, err := gojq.Parse(query)
	if err != nil {
		return p.WithError(fmt.Errorf("parsing jq query %q: %w", query, err))
	}
	data, err := io.ReadAll(p.Reader)
	if err != nil {
		return p.WithError(err)
	}
	var input interface{}
	if err := sonic.Unmarshal(data, &input); err != nil {
		return p.WithError(fmt.Errorf("decoding JSON input: %w", err))
	}
	var output strings.Builder
	iter := q.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return p.WithError(err)
		}
		result, err := sonic.ConfigStd.Marshal(v)
		if err != nil {
			return p.WithError(err)
		}
		output.Write(result)
		output.WriteRune('\n')
	}
	return p.derive(strings.NewReader(output.String()))
}
