// Package weblog summarises web server access logs: how many requests were for
// images, which browser made the most requests, and how requests were spread
// over the hours of the day.
//
// A log is obtained from a pipe, in the same style as a shell pipeline:
//
//	log, err := weblog.Get("https://example.com/weblog.csv").Log()
//
// Each line of the log is one comma-separated record whose first three fields
// are the requested path, the timestamp ("2006-01-02 15:04:05") and the user
// agent. Any further fields are ignored.
//
// The three aggregation functions, ComputeImageStats, ComputeBrowserTally and
// ComputeHourlyHistogram, are independent passes over the same Log. A record
// which lacks the field a pass needs is skipped by that pass only.
package weblog

// Positions of the fields each pass reads.
const (
	PathField = iota
	TimestampField
	UserAgentField
)

// Record is one parsed log line, as an ordered list of fields.
type Record []string

// Field returns the i'th field of the record, and false if the record is too
// short to have one.
func (r Record) Field(i int) (string, bool) {
	if i < 0 || i >= len(r) {
		return "", false
	}
	return r[i], true
}

// Log is the full, ordered collection of records for one run.
type Log []Record
