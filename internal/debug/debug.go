//go:build debug

// Package debug traces allocator operations in builds made with the debug
// tag. Each trace line carries the calling file and line, the goroutine id,
// and the identity of the heap or block the operation is about.
package debug

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/timandy/routine"

	"github.com/murymi/mheap/internal/xflag"
)

// Enabled is true if the module is being built with the debug tag, which
// enables trace logging and internal assertions.
const Enabled = true

var (
	filter    = xflag.Func("filter", "regexp to filter trace lines by", regexp.Compile)
	nocapture = flag.Bool("nocapture", false, "write trace lines to stderr even under a test")
)

// Log emits one trace line.
//
// ctx identifies the object the operation is about; pass the heap or block
// itself and its String method supplies the identity, or nil for operations
// with no single subject (mapping failures, tracker diagnostics). op names
// the operation and the format/args describe its effect.
//
// Lines land on the log of the test registered with [CaptureTo], if any, and
// on stderr otherwise.
func Log(ctx fmt.Stringer, op, format string, args ...any) {
	line := new(strings.Builder)

	fmt.Fprintf(line, "%s [g%04d] ", caller(), routine.Goid())
	if ctx != nil {
		fmt.Fprintf(line, "%s ", ctx)
	}
	fmt.Fprintf(line, "%s: ", op)
	fmt.Fprintf(line, format, args...)

	if *filter != nil && !(*filter).MatchString(line.String()) {
		return
	}

	if t := capture.Get(); t != nil && !*nocapture {
		t.Log(line.String())
		return
	}

	fmt.Fprintln(os.Stderr, line.String())
}

// caller names the closest frame that is neither inside this package nor a
// logging shim such as heap.log.
func caller() string {
	pcs := make([]uintptr, 8)
	frames := runtime.CallersFrames(pcs[:runtime.Callers(3, pcs)])
	for {
		f, more := frames.Next()

		name := f.Function[strings.LastIndexByte(f.Function, '.')+1:]
		if !strings.Contains(strings.ToLower(name), "log") {
			return fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
		}
		if !more {
			return "?"
		}
	}
}

// Assert panics if cond is false, but only in debug mode.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Errorf("mheap: internal assertion failed: "+format, args...))
	}
}
