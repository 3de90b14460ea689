package term

import (
	"errors"
	"os"
	"testing"
)

func TestSize_NotTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "not-a-tty")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if IsTerminal(f) {
		t.Fatal("regular file reported as terminal")
	}
	_, _, err = Size(f)
	if !errors.Is(err, ErrNotTerminal) {
		t.Errorf("Size() error = %v, want ErrNotTerminal", err)
	}
}
