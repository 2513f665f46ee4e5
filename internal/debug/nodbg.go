//go:build !debug

package debug

import "fmt"

const Enabled = false

func Log(fmt.Stringer, string, string, ...any) {}
func Assert(bool, string, ...any)              {}
