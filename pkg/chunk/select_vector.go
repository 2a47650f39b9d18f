package chunk

import (
	"github.com/helfman/velox/pkg/util"
)

// SelectVector is the index array of a dictionary vector: entry i is
// the row of the base vector backing logical row i. An empty
// SelectVector is the identity mapping.
type SelectVector struct {
	SelVec []int
}

func NewSelectVector(count int) *SelectVector {
	vec := &SelectVector{}
	vec.Init(count)
	return vec
}

func NewSelectVectorFromData(data []int) *SelectVector {
	return &SelectVector{SelVec: data}
}

// NewSelectVectorInPool backs the index array with pool memory so the
// caller's pool accounts for it.
func NewSelectVectorInPool(alloc util.Allocator, count int) *SelectVector {
	raw := alloc.Alloc(count * util.IntSize)
	return &SelectVector{SelVec: util.ToSlice[int](raw, util.IntSize)}
}

func (svec *SelectVector) Invalid() bool {
	return len(svec.SelVec) == 0
}

func (svec *SelectVector) Init(cnt int) {
	svec.SelVec = make([]int, cnt)
}

func (svec *SelectVector) GetIndex(idx int) int {
	if svec.Invalid() {
		return idx
	}
	return svec.SelVec[idx]
}

func (svec *SelectVector) SetIndex(idx int, index int) {
	svec.SelVec[idx] = index
}

func (svec *SelectVector) ShareWith(sel *SelectVector) {
	svec.SelVec = sel.SelVec
}

// Slice composes the mapping with sel: result[i] = svec[sel[i]].
// Dictionary-of-dictionary chains flatten through repeated composition.
func (svec *SelectVector) Slice(sel *SelectVector, count int) []int {
	data := make([]int, count)
	for i := 0; i < count; i++ {
		newIdx := sel.GetIndex(i)
		data[i] = svec.GetIndex(newIdx)
	}
	return data
}
