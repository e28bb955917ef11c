package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/logtally/weblog/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weblog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Setenv("WEBLOG_URL", "")
	t.Setenv("WEBLOG_FORMAT", "")
	t.Setenv("WEBLOG_TIMEOUT", "")
	got, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(config.Default(), got) {
		t.Error(cmp.Diff(config.Default(), got))
	}
}

func TestFromEnv(t *testing.T) {
	tcs := []struct {
		url, format, timeout string
		want                 *config.Config
	}{
		{
			url: "http://example.com/log.csv", format: "json", timeout: "5s",
			want: &config.Config{URL: "http://example.com/log.csv", Format: "json", Timeout: 5 * time.Second},
		},
		{
			timeout: "12",
			want:    &config.Config{Format: config.DefaultFormat, Timeout: 12 * time.Second},
		},
		{
			timeout: "soon",
			want:    &config.Config{Format: config.DefaultFormat, Timeout: config.DefaultTimeout},
		},
		{
			timeout: "-3s",
			want:    &config.Config{Format: config.DefaultFormat, Timeout: config.DefaultTimeout},
		},
	}
	for _, tc := range tcs {
		t.Setenv("WEBLOG_URL", tc.url)
		t.Setenv("WEBLOG_FORMAT", tc.format)
		t.Setenv("WEBLOG_TIMEOUT", tc.timeout)
		got := config.FromEnv()
		if !cmp.Equal(tc.want, got) {
			t.Error(cmp.Diff(tc.want, got))
		}
	}
}

func TestLoadFileOverridesEnv(t *testing.T) {
	t.Setenv("WEBLOG_URL", "http://env.example.com/log.csv")
	t.Setenv("WEBLOG_FORMAT", "json")
	t.Setenv("WEBLOG_TIMEOUT", "")
	path := writeConfig(t, `
file: access.csv
format: text
jq: .hours
match: "2019-01-27"
reject: /healthz
timeout: 1m30s
prompt: true
`)
	got, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := &config.Config{
		URL:     "http://env.example.com/log.csv",
		File:    "access.csv",
		Format:  "text",
		JQ:      ".hours",
		Match:   "2019-01-27",
		Reject:  "/healthz",
		Timeout: 90 * time.Second,
		Prompt:  true,
	}
	if !cmp.Equal(want, got) {
		t.Error(cmp.Diff(want, got))
	}
}

func TestLoadFillsEmptyValues(t *testing.T) {
	t.Setenv("WEBLOG_URL", "")
	t.Setenv("WEBLOG_FORMAT", "")
	t.Setenv("WEBLOG_TIMEOUT", "")
	got, err := config.Load(writeConfig(t, "format: \"\"\ntimeout: 0s\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got.Format != config.DefaultFormat || got.Timeout != config.DefaultTimeout {
		t.Errorf("want defaults, got format %q timeout %v", got.Format, got.Timeout)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("want error for missing config file, got nil")
	}
	if _, err := config.Load(writeConfig(t, "timeout: [1, 2]\n")); err == nil {
		t.Error("want error for malformed config file, got nil")
	}
}
