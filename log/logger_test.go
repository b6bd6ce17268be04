package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)
	defer SetLevel(Notice)

	logger := New("test")

	SetLevel(Warning)
	logger.Notice("hidden")
	logger.Warning("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected notice message to be filtered; got %q", out)
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, "[test]") {
		t.Fatalf("expected warning message with module name; got %q", out)
	}

	// Changing the sink preserves the level
	buf.Reset()
	SetSink(&buf)
	logger.Info("still hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info message to be filtered after sink change; got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	type spec struct {
		in     string
		exp    Level
		expErr bool
	}
	specs := []spec{
		{"debug", Debug, false},
		{"INFO", Info, false},
		{"warn", Warning, false},
		{"error", Error, false},
		{"loud", Notice, true},
	}

	for index, s := range specs {
		level, err := ParseLevel(s.in)
		if s.expErr != (err != nil) {
			t.Fatalf("[spec %d] expected error to be %t; got %v", index, s.expErr, err)
		}
		if level != s.exp {
			t.Fatalf("[spec %d] expected level %d; got %d", index, s.exp, level)
		}
	}
}
