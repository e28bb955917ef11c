package weblog_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
	"github.com/logtally/weblog"
)

func TestString(t *testing.T) {
	t.Parallel()
	wantRaw, _ := os.ReadFile("testdata/test.txt") // ignoring error
	want := string(wantRaw)
	p := weblog.File("testdata/test.txt")
	got, err := p.String()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	_, err = p.String()
	if err == nil {
		t.Fatal("input reader not closed")
	}
	if err != p.Error() {
		t.Fatalf("returned %v but pipe error status was %v", err, p.Error())
	}
}

func TestStdout(t *testing.T) {
	t.Parallel()
	var buf strings.Builder
	want := "hello world\n"
	n, err := weblog.Echo(want).WithStdout(&buf).Stdout()
	if err != nil {
		t.Fatal(err)
	}
	if n != len(want) {
		t.Errorf("want %d bytes written, got %d", len(want), n)
	}
	if got := buf.String(); got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "copy.csv")
	if err := os.WriteFile(path, []byte(strings.Repeat("stale content\n", 100)), 0o644); err != nil {
		t.Fatal(err)
	}
	want, err := os.ReadFile("testdata/access.csv")
	if err != nil {
		t.Fatal(err)
	}
	wrote, err := weblog.File("testdata/access.csv").WriteFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if int(wrote) != len(want) {
		t.Errorf("want %d bytes written, got %d", len(want), wrote)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(want, got) {
		t.Error(cmp.Diff(string(want), string(got)))
	}
}

func TestLog(t *testing.T) {
	t.Parallel()
	input := "a.png,2024-01-01 00:00:00,\"Mozilla/5.0 (KHTML, like Gecko) Chrome/71.0\",200\n" +
		"\n" +
		"b.html\n" +
		"c.gif,not a time\n" +
		"d\"quoted\".html,2024-01-01 01:00:00,Firefox\n"
	got, err := weblog.Echo(input).Log()
	if err != nil {
		t.Fatal(err)
	}
	want := weblog.Log{
		{"a.png", "2024-01-01 00:00:00", "Mozilla/5.0 (KHTML, like Gecko) Chrome/71.0", "200"},
		{"b.html"},
		{"c.gif", "not a time"},
		{"d\"quoted\".html", "2024-01-01 01:00:00", "Firefox"},
	}
	if !cmp.Equal(want, got) {
		t.Error(cmp.Diff(want, got))
	}
}

func TestLogOfEmptyFile(t *testing.T) {
	t.Parallel()
	log, err := weblog.File("testdata/empty.csv").Log()
	if err != nil {
		t.Fatal(err)
	}
	if len(log) != 0 {
		t.Errorf("want empty log, got %v", log)
	}
}

func TestLogReadError(t *testing.T) {
	t.Parallel()
	e := errors.New("connection reset")
	p := weblog.NewPipe().WithReader(iotest.ErrReader(e)).WithSource("flaky")
	_, err := p.Log()
	if !errors.Is(err, e) {
		t.Fatalf("want %v, got %v", e, err)
	}
	if !strings.Contains(err.Error(), "flaky") {
		t.Errorf("want error to name the source, got %v", err)
	}
	if p.Error() == nil {
		t.Error("want pipe error status to be set")
	}
}
