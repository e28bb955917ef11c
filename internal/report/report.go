// Package report presents the results of aggregating a log, as the sentences
// printed at the end of a run or as a JSON document.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/logtally/weblog"
)

// Format selects how a Summary is written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat returns the Format named by s, ignoring case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want text or json)", s)
}

// Summary holds the results of all three aggregation passes over one log.
type Summary struct {
	Images      int                    `json:"images"`
	Total       int                    `json:"total"`
	Percent     float64                `json:"percent"`
	Browser     weblog.Browser         `json:"browser"`
	BrowserHits int                    `json:"browser_hits"`
	Browsers    weblog.BrowserTally    `json:"browsers"`
	Hours       weblog.HourlyHistogram `json:"hours"`
}

// Summarize runs every aggregation pass over log. It fails, wrapping
// weblog.ErrNoRequests, if the log has no requests to take a percentage of.
func Summarize(log weblog.Log) (Summary, error) {
	images, err := weblog.ComputeImageStats(log)
	if err != nil {
		return Summary{}, fmt.Errorf("image stats: %w", err)
	}
	tally := weblog.ComputeBrowserTally(log)
	browser, hits := tally.Winner()
	return Summary{
		Images:      images.Images,
		Total:       images.Total,
		Percent:     images.Percent,
		Browser:     browser,
		BrowserHits: hits,
		Browsers:    tally,
		Hours:       weblog.ComputeHourlyHistogram(log),
	}, nil
}

// Write outputs s in the requested format.
func Write(w io.Writer, s Summary, format Format) error {
	switch format {
	case FormatText:
		return Text(w, s)
	case FormatJSON:
		return JSON(w, s)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// Text writes the summary as sentences, followed by one line per hour.
func Text(w io.Writer, s Summary) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "There were a total of %d hits for images today.\n", s.Images)
	fmt.Fprintf(bw, "Image requests account for %.2f%% of all requests.\n", s.Percent)
	fmt.Fprintf(bw, "The most popular browser today was %s with %d hits.\n", s.Browser, s.BrowserHits)
	for hour, hits := range s.Hours {
		fmt.Fprintf(bw, "Hour %02d has %d hits.\n", hour, hits)
	}
	return bw.Flush()
}

// JSON writes the summary as an indented JSON object. Map keys are sorted so
// that output is stable from run to run.
func JSON(w io.Writer, s Summary) error {
	data, err := sonic.ConfigStd.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Prompt asks the user to press Enter and waits until a line, or the end of
// input, is read from r.
func Prompt(r io.Reader, w io.Writer) error {
	if _, err := fmt.Fprint(w, "Press <Enter> to exit"); err != nil {
		return err
	}
	_, err := bufio.NewReader(r).ReadString('\n')
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
