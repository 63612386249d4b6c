package testhelpers

import (
	"io"
	"strings"
	"testing"
)

// Writer implements io.Writer on top of t.Log so that server logs only show
// up for failed tests.
type Writer struct {
	t        *testing.T
	testDone chan struct{}
}

func NewWriter(t *testing.T) io.Writer {
	w := &Writer{
		t:        t,
		testDone: make(chan struct{}),
	}
	t.Cleanup(func() {
		close(w.testDone)
	})
	return w
}

func (w *Writer) Write(p []byte) (int, error) {
	select {
	// Writes after the test finishes indicate a server that outlived its
	// shutdown; fail loudly instead of racing t.Log.
	case <-w.testDone:
		panic("testwriter: write after test completion, did you forget to shut the server down?")
	default:
		output := strings.TrimSuffix(string(p), "\n")
		if output != "" {
			w.t.Log(output)
		}
		return len(p), nil
	}
}
