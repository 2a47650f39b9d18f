package util

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func Test_cmemset(t *testing.T) {
	buf := make([]byte, 1024)
	CMemset(unsafe.Pointer(&buf[0]), 1, 1024)
	for i := 0; i < 1024; i++ {
		assert.Equal(t, byte(1), buf[i])
	}
	ptr := CMalloc(1024)
	defer CFree(ptr)
	CMemset(ptr, 1, 1024)
	for i := 0; i < 1024; i++ {
		assert.Equal(t,
			byte(1),
			*(*byte)(PointerAdd(ptr, i)))
	}
}

func Test_trackingAllocatorAccounting(t *testing.T) {
	alloc := NewTrackingAllocator(1<<20, GAlloc)
	buf1 := alloc.Alloc(100)
	assert.Equal(t, int64(100), alloc.Used())
	buf2 := alloc.Alloc(200)
	assert.Equal(t, int64(300), alloc.Used())
	assert.Equal(t, int64(300), alloc.Peak())

	alloc.Free(buf1)
	assert.Equal(t, int64(200), alloc.Used())
	assert.Equal(t, int64(300), alloc.Peak())
	alloc.Free(buf2)
	assert.Equal(t, int64(0), alloc.Used())
}

func Test_trackingAllocatorCap(t *testing.T) {
	alloc := NewTrackingAllocator(256, GAlloc)
	buf := alloc.Alloc(200)
	assert.Panics(t, func() {
		alloc.Alloc(100)
	})
	alloc.Free(buf)
	buf2 := alloc.Alloc(100)
	assert.Equal(t, int64(100), alloc.Used())
	alloc.Free(buf2)
}

func Test_trackingAllocatorNested(t *testing.T) {
	parent := NewTrackingAllocator(1<<20, GAlloc)
	child := NewTrackingAllocator(1<<10, parent)
	buf := child.Alloc(512)
	assert.Equal(t, int64(512), child.Used())
	assert.Equal(t, int64(512), parent.Used())
	child.Free(buf)
	assert.Equal(t, int64(0), parent.Used())
}
