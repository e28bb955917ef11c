package weblog

import (
	"errors"
	"strings"
	"time"
)

// ErrNoRequests is returned by ComputeImageStats when no record has a path,
// so that no percentage can be computed.
var ErrNoRequests = errors.New("no requests in log")

// imageSuffixes are matched case-sensitively against the very end of the
// requested path, so "/a.jpg?x=1" is not an image request.
var imageSuffixes = []string{".jpg", ".gif", ".png"}

// IsImage reports whether path names a JPEG, GIF or PNG image.
func IsImage(path string) bool {
	for _, suffix := range imageSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// ImageStats counts image requests among all requests.
type ImageStats struct {
	Images  int
	Total   int
	Percent float64
}

// ComputeImageStats counts the records whose path is an image, out of all
// records which have a path. Records with no fields at all are ignored. If no
// record has a path, it returns ErrNoRequests.
func ComputeImageStats(log Log) (ImageStats, error) {
	var stats ImageStats
	for _, r := range log {
		path, ok := r.Field(PathField)
		if !ok {
			continue
		}
		if IsImage(path) {
			stats.Images++
		}
		stats.Total++
	}
	if stats.Total == 0 {
		return ImageStats{}, ErrNoRequests
	}
	stats.Percent = float64(stats.Images) / float64(stats.Total) * 100
	return stats, nil
}

// Browser names a family of web browsers.
type Browser string

const (
	Firefox          Browser = "Firefox"
	Chrome           Browser = "Chrome"
	InternetExplorer Browser = "Internet Explorer"
	Safari           Browser = "Safari"
)

// Browsers lists every Browser in tie-break order: when two browsers have the
// same number of hits, the one listed first wins.
var Browsers = []Browser{Firefox, Chrome, InternetExplorer, Safari}

// Classify returns the browser family of a user agent string. The checks are
// made in order and the first match wins, so a Chrome user agent, which also
// mentions Safari, counts as Chrome.
func Classify(userAgent string) (Browser, bool) {
	switch {
	case strings.Contains(userAgent, "Firefox"):
		return Firefox, true
	case strings.Contains(userAgent, "Chrome"):
		return Chrome, true
	case strings.Contains(userAgent, "MSIE"), strings.Contains(userAgent, "Trident"):
		return InternetExplorer, true
	case strings.Contains(userAgent, "Safari"):
		return Safari, true
	}
	return "", false
}

// BrowserTally maps each Browser to its number of hits. A tally built by
// ComputeBrowserTally always has an entry for every member of Browsers.
type BrowserTally map[Browser]int

// ComputeBrowserTally counts the records of each browser family. Records with
// no user agent field, or whose user agent matches no family, are not counted.
func ComputeBrowserTally(log Log) BrowserTally {
	tally := make(BrowserTally, len(Browsers))
	for _, b := range Browsers {
		tally[b] = 0
	}
	for _, r := range log {
		ua, ok := r.Field(UserAgentField)
		if !ok {
			continue
		}
		if b, ok := Classify(ua); ok {
			tally[b]++
		}
	}
	return tally
}

// Winner returns the browser with the most hits, and its hits. Ties go to the
// browser that comes first in Browsers, so an all-zero tally is won by
// Firefox with 0 hits.
func (t BrowserTally) Winner() (Browser, int) {
	winner, hits := Browsers[0], t[Browsers[0]]
	for _, b := range Browsers[1:] {
		if t[b] > hits {
			winner, hits = b, t[b]
		}
	}
	return winner, hits
}

// PopularBrowser returns the browser family with the most requests in log,
// and its number of requests.
func PopularBrowser(log Log) (Browser, int) {
	return ComputeBrowserTally(log).Winner()
}

// TimestampLayout is the only timestamp format accepted in a log.
const TimestampLayout = "2006-01-02 15:04:05"

// ParseTimestamp parses s, which must match TimestampLayout exactly: four
// digit year, every other component zero padded to two digits, and a valid
// date and time. The result is in UTC; no time zone is applied.
func ParseTimestamp(s string) (time.Time, bool) {
	// time.Parse tolerates a one-digit hour and trailing fractional
	// seconds, neither of which is valid here.
	if len(s) != len(TimestampLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// HourlyHistogram counts requests by hour of day; index 0 is 00:00-00:59.
type HourlyHistogram [24]int

// Total returns the number of requests across all hours.
func (h HourlyHistogram) Total() int {
	var n int
	for _, c := range h {
		n += c
	}
	return n
}

// ComputeHourlyHistogram counts the records in each hour of the day, taking
// the hour literally from the timestamp field. Records whose timestamp is
// missing or malformed are not counted.
func ComputeHourlyHistogram(log Log) HourlyHistogram {
	var hist HourlyHistogram
	for _, r := range log {
		ts, ok := r.Field(TimestampField)
		if !ok {
			continue
		}
		t, ok := ParseTimestamp(ts)
		if !ok {
			continue
		}
		hist[t.Hour()]++
	}
	return hist
}
