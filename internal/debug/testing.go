package debug

import (
	"testing"

	"github.com/timandy/routine"
)

// capture holds the test currently collecting this goroutine's trace lines.
var capture = routine.NewThreadLocal[testing.TB]()

// CaptureTo routes the calling goroutine's trace lines to t.Log until the
// returned function is called.
func CaptureTo(t testing.TB) (restore func()) {
	t.Helper()

	prev := capture.Get()
	capture.Set(t)
	return func() {
		capture.Set(prev)
	}
}
