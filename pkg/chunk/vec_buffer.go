package chunk

import (
	"sync/atomic"

	"github.com/helfman/velox/pkg/common"
	"github.com/helfman/velox/pkg/util"
)

type VecBufferType int

const (
	// array of data
	VBT_STANDARD VecBufferType = iota
	VBT_DICT
	VBT_CHILD
	VBT_LIST
)

// VecBuffer is the reference counted backing of a vector. A buffer may
// be shared read-only by any number of vectors; mutation always builds
// a new buffer instead. The count is atomic: a dictionary base can be
// referenced from concurrently executing expression branches.
type VecBuffer struct {
	BufTyp VecBufferType
	alloc  util.Allocator
	Data   []byte
	Sel    *SelectVector
	Child  *Vector

	// list/map children and the number of child rows in use
	Children []*Vector
	Count    int

	refs atomic.Int64
}

func newVecBuffer(typ VecBufferType) *VecBuffer {
	buf := &VecBuffer{BufTyp: typ}
	buf.refs.Store(1)
	return buf
}

func NewBuffer(alloc util.Allocator, sz int) *VecBuffer {
	buf := newVecBuffer(VBT_STANDARD)
	buf.alloc = alloc
	buf.Data = alloc.Alloc(sz)
	return buf
}

func NewStandardBuffer(alloc util.Allocator, lt common.LType, cap int) *VecBuffer {
	return NewBuffer(alloc, lt.GetInternalType().Size()*cap)
}

func NewConstBuffer(alloc util.Allocator, typ common.LType) *VecBuffer {
	return NewStandardBuffer(alloc, typ, 1)
}

func NewDictBuffer(data []int) *VecBuffer {
	buf := newVecBuffer(VBT_DICT)
	buf.Sel = NewSelectVectorFromData(data)
	return buf
}

func NewDictBuffer2(sel *SelectVector) *VecBuffer {
	buf := newVecBuffer(VBT_DICT)
	buf.Sel = &SelectVector{}
	buf.Sel.ShareWith(sel)
	return buf
}

func NewChildBuffer(child *Vector) *VecBuffer {
	buf := newVecBuffer(VBT_CHILD)
	buf.Child = child
	return buf
}

func NewListBuffer(children ...*Vector) *VecBuffer {
	buf := newVecBuffer(VBT_LIST)
	buf.Children = children
	return buf
}

func (buf *VecBuffer) GetSelVector() *SelectVector {
	util.AssertFunc(buf.BufTyp == VBT_DICT)
	return buf.Sel
}

func (buf *VecBuffer) GetChild(i int) *Vector {
	util.AssertFunc(buf.BufTyp == VBT_LIST)
	return buf.Children[i]
}

func (buf *VecBuffer) Retain() {
	if buf == nil {
		return
	}
	buf.refs.Add(1)
}

// Release drops one holder; the last holder returns the bytes to the
// pool. Buffers shared into other vectors must have been Retain'd.
func (buf *VecBuffer) Release() {
	if buf == nil {
		return
	}
	left := buf.refs.Add(-1)
	util.AssertFunc(left >= 0)
	if left == 0 {
		if buf.alloc != nil && buf.Data != nil {
			buf.alloc.Free(buf.Data)
			buf.Data = nil
		}
		if buf.Child != nil {
			buf.Child.Release()
		}
		for _, child := range buf.Children {
			child.Release()
		}
	}
}
