package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewDefaultsToJSONOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf})
	log.Info("hello", "k", "v")
	log.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line (debug filtered), got %q", buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if rec["msg"] != "hello" || rec["k"] != "v" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestNewVerboseText(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: FormatText, Verbose: true})
	log.Debug("shown", "raw", "2014-05-01")
	if !strings.Contains(buf.String(), "level=DEBUG") || !strings.Contains(buf.String(), "raw=2014-05-01") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing")
}
