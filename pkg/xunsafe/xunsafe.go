// Package xunsafe provides a more convenient interface for performing unsafe
// operations than Go's built-in package unsafe.
package xunsafe

import (
	"sync"

	"github.com/murymi/mheap/pkg/xunsafe/layout"
)

// NoCopy is a type that go vet will complain about having been moved.
//
// It does so by containing a [sync.Mutex], which vet's copylocks check tracks.
type NoCopy [0]sync.Mutex

// Int is any integer type.
type Int = layout.Int
