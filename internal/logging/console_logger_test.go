package logging

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

var _ photoscan.Logger = (*ConsoleLogger)(nil)
var _ photoscan.Logger = (*NullLogger)(nil)

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stderr = w

	fn()

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestConsoleLogger_VerboseGating(t *testing.T) {
	out := captureStderr(t, func() {
		NewConsoleLogger(true).Verbose("detail: %s", "x")
	})
	if out != "[VERBOSE] detail: x\n" {
		t.Errorf("got %q", out)
	}

	out = captureStderr(t, func() {
		NewConsoleLogger(false).Verbose("detail: %s", "x")
	})
	if out != "" {
		t.Errorf("expected no output, got %q", out)
	}
}

func TestConsoleLogger_WarnAndErrorPrefixes(t *testing.T) {
	out := captureStderr(t, func() {
		l := NewConsoleLogger(false)
		l.Warn("can't assign '%s', not enough data", "DocumentName")
		l.Error("mandatory tag '%s' value not assigned", "Make")
	})
	want := "Warning! can't assign 'DocumentName', not enough data\n" +
		"Error! mandatory tag 'Make' value not assigned\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestConsoleLogger_InfoNoFormatArgs(t *testing.T) {
	// Without args the message is written verbatim, percent signs and all.
	out := captureStderr(t, func() {
		NewConsoleLogger(false).Info("literal 100% done")
	})
	if out != "literal 100% done\n" {
		t.Errorf("got %q", out)
	}
}
