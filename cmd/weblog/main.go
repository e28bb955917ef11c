// Command weblog reads a comma-separated web server access log and reports
// image requests, the most popular browser, and requests per hour of day.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/logtally/weblog"
	"github.com/logtally/weblog/internal/config"
	"github.com/logtally/weblog/internal/report"
)

const version = "0.3.0"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// errUsage means the command line, not the log, is at fault.
var errUsage = errors.New("usage")

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "weblog: ", 0)

	fs := flag.NewFlagSet("weblog", flag.ContinueOnError)
	fs.SetOutput(stderr)
	url := fs.String("url", "", "Download the log from this URL")
	file := fs.String("file", "", "Read the log from this file (- for standard input)")
	execLine := fs.String("exec", "", "Read the log from the output of this command")
	configPath := fs.String("config", "", "Path to a YAML config file")
	format := fs.String("format", config.DefaultFormat, "Output format: text or json")
	jq := fs.String("jq", "", "Apply this jq query to the JSON report")
	match := fs.String("match", "", "Only aggregate lines containing this string")
	reject := fs.String("reject", "", "Ignore lines containing this string")
	timeout := fs.Duration("timeout", config.DefaultTimeout, "Timeout for downloading the log")
	prompt := fs.Bool("prompt", false, "Wait for Enter before exiting")
	verbose := fs.Bool("v", false, "Log progress to standard error")
	showVersion := fs.Bool("version", false, "Show version")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  weblog -url <url> [options]\n")
		fmt.Fprintf(stderr, "  weblog -file <path> [options]\n")
		fmt.Fprintf(stderr, "  weblog -exec <command> [options]\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  weblog -url https://example.com/weblog.csv\n")
		fmt.Fprintf(stderr, "  weblog -file access.csv -format json -jq .hours\n")
		fmt.Fprintf(stderr, "  weblog -exec 'zcat access.csv.gz' -reject /healthz\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if *showVersion {
		fmt.Fprintf(stdout, "weblog v%s\n", version)
		return exitOK
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Printf("loading config: %v", err)
		return exitError
	}
	// Flags given on the command line win over the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "url":
			cfg.URL = *url
		case "file":
			cfg.File = *file
		case "exec":
			cfg.Exec = *execLine
		case "format":
			cfg.Format = *format
		case "jq":
			cfg.JQ = *jq
		case "match":
			cfg.Match = *match
		case "reject":
			cfg.Reject = *reject
		case "timeout":
			cfg.Timeout = *timeout
		case "prompt":
			cfg.Prompt = *prompt
		}
	})

	outFmt, err := report.ParseFormat(cfg.Format)
	if err != nil {
		logger.Print(err)
		return exitUsage
	}
	if cfg.JQ != "" {
		outFmt = report.FormatJSON
	}

	p, err := open(cfg, stdin)
	if err != nil {
		if errors.Is(err, errUsage) {
			fs.Usage()
			return exitUsage
		}
		logger.Print(err)
		return exitError
	}
	if cfg.Match != "" {
		p = p.Match(cfg.Match)
	}
	if cfg.Reject != "" {
		p = p.Reject(cfg.Reject)
	}

	start := time.Now()
	records, err := p.Log()
	if err != nil {
		logger.Print(err)
		return exitError
	}
	if *verbose {
		logger.Printf("read %d records from %s in %v", len(records), p.Source(), time.Since(start).Round(time.Millisecond))
	}

	summary, err := report.Summarize(records)
	if err != nil {
		logger.Print(err)
		return exitError
	}

	if cfg.JQ != "" {
		var buf bytes.Buffer
		if err := report.JSON(&buf, summary); err != nil {
			logger.Print(err)
			return exitError
		}
		if _, err := weblog.Echo(buf.String()).JQ(cfg.JQ).WithStdout(stdout).Stdout(); err != nil {
			logger.Print(err)
			return exitError
		}
	} else if err := report.Write(stdout, summary, outFmt); err != nil {
		logger.Print(err)
		return exitError
	}

	if cfg.Prompt {
		if err := report.Prompt(stdin, stdout); err != nil {
			logger.Print(err)
			return exitError
		}
	}
	return exitOK
}

// open returns a pipe for the first configured source: URL, then file, then
// command.
func open(cfg *config.Config, stdin io.Reader) (*weblog.Pipe, error) {
	switch {
	case cfg.URL != "":
		h := weblog.Get(cfg.URL).WithClient(&http.Client{Timeout: cfg.Timeout})
		if err := h.Error(); err != nil {
			return nil, fmt.Errorf("downloading %s: %w", cfg.URL, err)
		}
		return &h.Pipe, nil
	case cfg.File == "-":
		// Leave stdin open for Prompt.
		return weblog.NewPipe().WithReader(io.NopCloser(stdin)).WithSource("stdin"), nil
	case cfg.File != "":
		p := weblog.File(cfg.File)
		return p, p.Error()
	case cfg.Exec != "":
		p := weblog.Exec(cfg.Exec)
		if err := p.Error(); err != nil {
			return nil, fmt.Errorf("running %q: %w", cfg.Exec, err)
		}
		return p, nil
	}
	return nil, errUsage
}
