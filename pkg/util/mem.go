package util

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

//#include <stdlib.h>
//#include <string.h>
import "C"

func CMalloc(sz int) unsafe.Pointer {
	return C.malloc(C.size_t(sz))
}

func CFree(ptr unsafe.Pointer) {
	C.free(ptr)
}

func CMemset(ptr unsafe.Pointer, val byte, sz int) {
	C.memset(ptr, C.int(val), C.size_t(sz))
}

type Allocator interface {
	Alloc(sz int) []byte
	Free([]byte)
}

type DefaultAllocator struct {
}

func (alloc *DefaultAllocator) Alloc(sz int) []byte {
	return make([]byte, sz)
}

func (alloc *DefaultAllocator) Free(bytes []byte) {
}

var GAlloc Allocator = &DefaultAllocator{}

// TrackingAllocator is the pool handed to an evaluation call. All
// buffers of a call come from one pool so the operator above can
// account and cap the memory of a pipeline stage. Counters are atomic:
// published buffers may be released from other goroutines.
type TrackingAllocator struct {
	parent Allocator
	limit  int64
	used   atomic.Int64
	peak   atomic.Int64
}

func NewTrackingAllocator(limit int64, parent Allocator) *TrackingAllocator {
	if parent == nil {
		parent = GAlloc
	}
	return &TrackingAllocator{
		parent: parent,
		limit:  limit,
	}
}

func (alloc *TrackingAllocator) Alloc(sz int) []byte {
	used := alloc.used.Add(int64(sz))
	if alloc.limit > 0 && used > alloc.limit {
		alloc.used.Add(int64(-sz))
		panic(fmt.Sprintf("pool limit exceeded: used %d + %d > %d",
			used-int64(sz), sz, alloc.limit))
	}
	for {
		peak := alloc.peak.Load()
		if used <= peak || alloc.peak.CompareAndSwap(peak, used) {
			break
		}
	}
	return alloc.parent.Alloc(sz)
}

func (alloc *TrackingAllocator) Free(bytes []byte) {
	alloc.used.Add(int64(-len(bytes)))
	alloc.parent.Free(bytes)
}

func (alloc *TrackingAllocator) Used() int64 {
	return alloc.used.Load()
}

func (alloc *TrackingAllocator) Peak() int64 {
	return alloc.peak.Load()
}
