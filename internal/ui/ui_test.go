package ui

import (
	"bytes"
	"os"
	"testing"
)

func TestWarn(t *testing.T) {
	var buf bytes.Buffer
	SetWriter(&buf)
	defer SetWriter(nil)
	SetColorEnabled(false)

	Warn("something happened")

	if got := buf.String(); got != "Warning: something happened\n" {
		t.Errorf("Warn output = %q, want %q", got, "Warning: something happened\n")
	}
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	SetWriter(&buf)
	defer SetWriter(nil)
	SetColorEnabled(false)

	Error("resizing exec does-not-exist: No such exec instance")

	want := "Error: resizing exec does-not-exist: No such exec instance\n"
	if got := buf.String(); got != want {
		t.Errorf("Error output = %q, want %q", got, want)
	}
}

func TestErrorf(t *testing.T) {
	var buf bytes.Buffer
	SetWriter(&buf)
	defer SetWriter(nil)
	SetColorEnabled(false)

	Errorf("failed to connect: %s", "timeout")

	want := "Error: failed to connect: timeout\n"
	if got := buf.String(); got != want {
		t.Errorf("Errorf output = %q, want %q", got, want)
	}
}

func TestErrorColoredPrefix(t *testing.T) {
	var buf bytes.Buffer
	SetWriter(&buf)
	defer SetWriter(nil)
	SetColorEnabled(true)
	defer SetColorEnabled(false)

	Error("boom")

	want := "\033[31mError:\033[0m boom\n"
	if got := buf.String(); got != want {
		t.Errorf("Error output = %q, want %q", got, want)
	}
}

func TestInfo(t *testing.T) {
	var buf bytes.Buffer
	SetWriter(&buf)
	defer SetWriter(nil)

	Info("Invalid command: bash")

	if got := buf.String(); got != "Invalid command: bash\n" {
		t.Errorf("Info output = %q, want %q", got, "Invalid command: bash\n")
	}
}

func TestSetWriterNilRestoresStderr(t *testing.T) {
	SetWriter(&bytes.Buffer{})
	SetWriter(nil)
	if writer != os.Stderr {
		t.Error("SetWriter(nil) should restore os.Stderr")
	}
}

func TestColorFunctions(t *testing.T) {
	SetColorEnabled(true)
	if got := Bold("hi"); got != "\033[1mhi\033[0m" {
		t.Errorf("Bold = %q", got)
	}
	if got := Dim("hi"); got != "\033[2mhi\033[0m" {
		t.Errorf("Dim = %q", got)
	}
	SetColorEnabled(false)
	if got := Bold("hi"); got != "hi" {
		t.Errorf("Bold with color disabled = %q", got)
	}
}

func TestNO_COLOR(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	f, err := os.CreateTemp("", "ui-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if detectColor(f) {
		t.Error("detectColor should return false when NO_COLOR is set")
	}
}
